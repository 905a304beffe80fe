package adapters

import (
	"github.com/fintools/proceeds/pkg/models/api"
	"github.com/fintools/proceeds/pkg/models/domain"
)

func MapPeriodDomainToApi(m domain.CalendarMonth) api.Period {
	return api.Period{
		Year:     m.Year,
		Month:    m.Month,
		Label:    m.Label,
		PeriodID: m.PeriodID,
	}
}

func MapProductDomainToApi(p *domain.ProductEarnings, currency string) api.Product {
	amounts := make(map[string]float64, len(p.Amounts))
	for code, amount := range p.Amounts {
		amounts[code] = amount
	}
	return api.Product{
		Key:      p.Key,
		Title:    p.Title,
		SKU:      p.SKU,
		AddOn:    p.AddOn,
		Amounts:  amounts,
		Total:    p.ConvertedTotal,
		Currency: currency,
	}
}

func MapParentDomainToApi(p *domain.ParentAppEntry, currency string) api.ParentApp {
	addOns := make([]api.Product, 0, len(p.AddOns))
	for _, a := range p.AddOns {
		addOns = append(addOns, MapProductDomainToApi(a, currency))
	}
	return api.ParentApp{
		ID:     p.ID,
		Title:  p.Title,
		Total:  p.Total,
		Direct: p.Direct,
		AddOns: addOns,
	}
}

func MapPaymentDomainToApi(e *domain.PaymentEstimate) *api.PaymentEstimate {
	if e == nil {
		return nil
	}
	out := &api.PaymentEstimate{
		PeriodStart:   e.PeriodStart,
		PeriodEnd:     e.PeriodEnd,
		TotalOwed:     e.TotalOwed,
		Pending:       e.Pending,
		PaymentDate:   e.PaymentDate,
		PaymentAmount: e.PaymentAmount,
	}
	if !e.EstimatedDate.IsZero() {
		estimated := e.EstimatedDate
		out.EstimatedDate = &estimated
	}
	return out
}

func MapReportDomainToApi(r *domain.ProceedsReport) api.ProceedsReport {
	out := api.ProceedsReport{
		Period:     MapPeriodDomainToApi(r.Period),
		Currency:   r.TargetCurrency,
		GrandTotal: r.GrandTotal,
		Payment:    MapPaymentDomainToApi(r.Payment),
	}
	for _, p := range r.Parents {
		out.Parents = append(out.Parents, MapParentDomainToApi(p, r.TargetCurrency))
	}
	for _, p := range r.Products {
		out.Products = append(out.Products, MapProductDomainToApi(p, r.TargetCurrency))
	}
	return out
}
