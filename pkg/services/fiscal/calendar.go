// Package fiscal converts between calendar months and Apple's fiscal
// calendar, which begins in October of the prior calendar year.
package fiscal

import (
	"fmt"
	"time"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// Reports for a month are not reliably published until a few days into
// the following month; before this day-of-month the previous month is
// treated as not yet reportable.
const reportableDayOfMonth = 10

// Month builds the CalendarMonth for a calendar (year, month) pair,
// including the vendor period identifier in fiscal numbering.
func Month(year, month int) domain.CalendarMonth {
	fiscalYear, fiscalMonth := toFiscal(year, month)
	return domain.CalendarMonth{
		Year:     year,
		Month:    month,
		Label:    time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		PeriodID: fmt.Sprintf("%d-%02d", fiscalYear, fiscalMonth),
	}
}

// toFiscal maps a calendar (year, month) to fiscal numbering:
// October..December roll into the next fiscal year as months 1..3,
// January..September are months 4..12 of the current one.
func toFiscal(year, month int) (int, int) {
	if month >= 10 {
		return year + 1, month - 9
	}
	return year, month + 3
}

// FromFiscal is the inverse of toFiscal over the 12-month cycle.
func FromFiscal(fiscalYear, fiscalMonth int) (int, int) {
	if fiscalMonth <= 3 {
		return fiscalYear - 1, fiscalMonth + 9
	}
	return fiscalYear, fiscalMonth - 3
}

// RecentPeriods enumerates the n most recent likely-complete months,
// newest first. When now is early in the month the previous month's
// report may not exist yet, so enumeration starts one month further back.
func RecentPeriods(now time.Time, n int) []domain.CalendarMonth {
	year, month := now.Year(), int(now.Month())

	back := 1
	if now.Day() < reportableDayOfMonth {
		back = 2
	}

	months := make([]domain.CalendarMonth, 0, n)
	for i := 0; i < n; i++ {
		y, m := rewind(year, month, back+i)
		months = append(months, Month(y, m))
	}
	return months
}

func rewind(year, month, by int) (int, int) {
	month -= by
	for month < 1 {
		month += 12
		year--
	}
	return year, month
}
