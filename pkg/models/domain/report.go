package domain

import "time"

// AddOnTypePrefix marks product type identifiers for in-app purchases
// and subscriptions in Apple's financial reports (IA1, IAY, IAC, ...).
const AddOnTypePrefix = "IA"

// ReportRow is one body line of a financial report, split but not yet
// aggregated. Extended proceeds are authoritative; Quantity*PartnerShare
// may differ due to upstream rounding.
type ReportRow struct {
	StartDate        string
	EndDate          string
	SKU              string
	AppleID          string
	Title            string
	ProductType      string
	Quantity         int64
	PartnerShare     float64
	ExtendedProceeds float64
	Currency         string
}

// Key returns the stable product key: vendor SKU when present, else the
// Apple identifier.
func (r ReportRow) Key() string {
	if r.SKU != "" {
		return r.SKU
	}
	return r.AppleID
}

// IsAddOn reports whether the row's product type identifies an in-app
// purchase or subscription.
func (r ReportRow) IsAddOn() bool {
	return len(r.ProductType) >= len(AddOnTypePrefix) &&
		r.ProductType[:len(AddOnTypePrefix)] == AddOnTypePrefix
}

// ProductEarnings accumulates proceeds for one product across all rows
// sharing its key. Amounts holds one entry per currency observed;
// ConvertedTotal is zero until currency conversion runs.
type ProductEarnings struct {
	Key            string
	Title          string
	SKU            string
	AppleID        string
	ProductType    string
	AddOn          bool
	Amounts        map[string]float64
	ConvertedTotal float64
}

// AppMapping resolves a product to its parent app.
type AppMapping struct {
	ParentID    string
	ParentTitle string
	AddOn       bool
}

// ParentAppEntry is one node of the display hierarchy: a parent app with
// its direct sales and attached add-on products. Total always equals
// Direct plus the sum of AddOns' converted totals.
type ParentAppEntry struct {
	ID     string
	Title  string
	Total  float64
	Direct float64
	AddOns []*ProductEarnings
}

// PaymentEstimate is a best-effort derivation from the report footer.
// PaymentAmount mirrors TotalOwed only once the estimate is past due;
// it is never fabricated.
type PaymentEstimate struct {
	PeriodStart   string
	PeriodEnd     string
	TotalOwed     *float64
	EstimatedDate time.Time
	Pending       bool
	PaymentDate   *time.Time
	PaymentAmount *float64
}

// ProceedsReport is the assembled result for one fiscal period. Parents
// is nil in degraded (no-mapping) mode, in which case Products carries
// the flat list.
type ProceedsReport struct {
	Period         CalendarMonth
	TargetCurrency string
	Parents        []*ParentAppEntry
	Products       []*ProductEarnings
	GrandTotal     float64
	Payment        *PaymentEstimate
}
