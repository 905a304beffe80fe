package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// Reporter renders a proceeds report as text: a two-level tree of
// parent apps with their add-ons, or a flat product list when no
// mapping was available for the run.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

const reportTemplate = `
Proceeds for {{.Period.Label}} (period {{.Period.PeriodID}})
Grand Total: {{money .GrandTotal .TargetCurrency}}
{{if .Parents}}
{{range .Parents}}{{.Title}}  {{money .Total $.TargetCurrency}}
{{- if .Direct}}
  direct sales  {{money .Direct $.TargetCurrency}}
{{- end}}
{{- range .AddOns}}
  + {{.Title}}  {{money .ConvertedTotal $.TargetCurrency}}
{{- end}}
{{end}}{{else if .Products}}
{{range .Products}}{{.Title}}  {{money .ConvertedTotal $.TargetCurrency}}
{{end}}{{else}}
No proceeds recorded for this period.
{{end}}{{with .Payment}}
Payment {{if .Pending}}pending{{else}}made{{end}}
{{- if .PeriodEnd}}, fiscal period {{.PeriodStart}} to {{.PeriodEnd}}{{end}}
{{- if .TotalOwed}}, total owed {{money (deref .TotalOwed) $.TargetCurrency}}{{end}}
{{- if not .EstimatedDate.IsZero}}
Estimated payment date: {{.EstimatedDate.Format "Jan 2, 2006"}}
{{- end}}
{{end}}`

func (c *Reporter) Handle(report *domain.ProceedsReport) error {
	funcMap := template.FuncMap{
		"money": func(amount float64, currency string) string {
			return fmt.Sprintf("%.2f %s", amount, currency)
		},
		"deref": func(v *float64) float64 {
			if v == nil {
				return 0
			}
			return *v
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

// HandlePeriods renders the selectable periods, newest first.
func (c *Reporter) HandlePeriods(months []domain.CalendarMonth) error {
	for _, m := range months {
		if _, err := fmt.Fprintf(c.writer, "%s\t%s\n", m.PeriodID, m.Label); err != nil {
			return err
		}
	}
	return nil
}
