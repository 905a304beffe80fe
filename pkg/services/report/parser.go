// Package report parses Apple's tab-separated financial reports. The
// format is loosely specified: summary and footer lines are interleaved
// with data rows, so parsing is schema-tolerant rather than strict.
package report

import (
	"strconv"
	"strings"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// Column positions in the financial report body.
const (
	colStartDate        = 0
	colEndDate          = 1
	colSKU              = 4
	colQuantity         = 5
	colPartnerShare     = 6
	colExtendedProceeds = 7
	colCurrency         = 8
	colAppleID          = 10
	colTitle            = 12
	colProductType      = 15

	// Lines with fewer columns are footer/summary noise, not data.
	minColumns = 12
)

// Parse turns raw report text into rows, in input order. The first line
// is always a header and is dropped. Short lines are skipped silently;
// unparseable numeric fields degrade to zero rather than failing the row.
func Parse(raw string) []domain.ReportRow {
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	var rows []domain.ReportRow
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minColumns {
			continue
		}

		rows = append(rows, domain.ReportRow{
			StartDate:        field(fields, colStartDate),
			EndDate:          field(fields, colEndDate),
			SKU:              field(fields, colSKU),
			AppleID:          field(fields, colAppleID),
			Title:            field(fields, colTitle),
			ProductType:      field(fields, colProductType),
			Quantity:         parseInt(field(fields, colQuantity)),
			PartnerShare:     parseFloat(field(fields, colPartnerShare)),
			ExtendedProceeds: parseFloat(field(fields, colExtendedProceeds)),
			Currency:         field(fields, colCurrency),
		})
	}
	return rows
}

func field(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
