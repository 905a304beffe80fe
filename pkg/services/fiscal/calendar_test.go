package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonth_PeriodID(t *testing.T) {
	cases := []struct {
		year, month int
		periodID    string
	}{
		{2025, 10, "2026-01"},
		{2025, 11, "2026-02"},
		{2025, 12, "2026-03"},
		{2026, 1, "2026-04"},
		{2026, 9, "2026-12"},
		{2025, 9, "2025-12"},
		{2025, 1, "2025-04"},
	}
	for _, c := range cases {
		m := Month(c.year, c.month)
		assert.Equal(t, c.periodID, m.PeriodID, "calendar %d-%02d", c.year, c.month)
		assert.Equal(t, c.year, m.Year)
		assert.Equal(t, c.month, m.Month)
	}
}

func TestMonth_Label(t *testing.T) {
	assert.Equal(t, "October 2025", Month(2025, 10).Label)
}

func TestFiscalRoundTrip_AllMonths(t *testing.T) {
	for year := 2020; year <= 2027; year++ {
		for month := 1; month <= 12; month++ {
			fy, fm := toFiscal(year, month)
			cy, cm := FromFiscal(fy, fm)
			assert.Equal(t, year, cy, "year round-trip for %d-%02d", year, month)
			assert.Equal(t, month, cm, "month round-trip for %d-%02d", year, month)
		}
	}
}

func TestFiscal_Bijection(t *testing.T) {
	// Each calendar month of a fiscal year maps to a distinct fiscal month.
	seen := map[int]bool{}
	for month := 1; month <= 12; month++ {
		_, fm := toFiscal(2025, month)
		assert.False(t, seen[fm], "fiscal month %d produced twice", fm)
		seen[fm] = true
	}
	assert.Len(t, seen, 12)
}

func TestRecentPeriods_MidMonth(t *testing.T) {
	now := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
	months := RecentPeriods(now, 3)

	assert.Len(t, months, 3)
	assert.Equal(t, 10, months[0].Month)
	assert.Equal(t, 2025, months[0].Year)
	assert.Equal(t, 9, months[1].Month)
	assert.Equal(t, 8, months[2].Month)
}

func TestRecentPeriods_EarlyMonth_StepsFurtherBack(t *testing.T) {
	now := time.Date(2025, 11, 5, 12, 0, 0, 0, time.UTC)
	months := RecentPeriods(now, 2)

	assert.Equal(t, 9, months[0].Month)
	assert.Equal(t, 2025, months[0].Year)
	assert.Equal(t, 8, months[1].Month)
}

func TestRecentPeriods_YearBoundary(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	months := RecentPeriods(now, 4)

	assert.Equal(t, 12, months[0].Month)
	assert.Equal(t, 2025, months[0].Year)
	assert.Equal(t, 11, months[1].Month)
	assert.Equal(t, 10, months[2].Month)
	assert.Equal(t, 9, months[3].Month)
	assert.Equal(t, "2026-03", months[0].PeriodID)
	assert.Equal(t, "2025-12", months[3].PeriodID)
}
