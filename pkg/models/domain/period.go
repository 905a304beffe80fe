package domain

import "fmt"

// CalendarMonth is a selectable reporting period. PeriodID carries the
// vendor's fiscal numbering, where fiscal month 1 is October of the
// prior calendar year.
type CalendarMonth struct {
	Year     int
	Month    int // 1-12
	Label    string
	PeriodID string
}

func (m CalendarMonth) String() string {
	return fmt.Sprintf("%s (%s)", m.Label, m.PeriodID)
}
