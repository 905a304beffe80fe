// Package payment derives an estimated payment date and status from a
// raw financial report. Apple does not publish the actual payment date;
// the estimate here is period end plus a fixed settlement lag and is
// documented as an approximation.
package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fintools/proceeds/pkg/models/domain"
)

const (
	// Footer line carrying the total owed for the period.
	totalSentinel = "Total_Amount"

	// Typical lag between fiscal period end and settlement, in days.
	settlementLagDays = 33

	dateLayout = "01/02/2006"
)

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// Estimate scans the raw report for the Total_Amount footer and the
// first line whose leading two columns are both MM/DD/YYYY dates, then
// derives the payment estimate relative to now. The two signals may
// appear in either order, so the whole document is always scanned.
// Returns nil when neither signal is present.
func Estimate(raw string, now time.Time) *domain.PaymentEstimate {
	var totalOwed *float64
	var periodStart, periodEnd string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}

		if fields[0] == totalSentinel {
			if v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64); err == nil {
				totalOwed = &v
			}
			continue
		}

		if periodEnd == "" && datePattern.MatchString(fields[0]) && datePattern.MatchString(fields[1]) {
			periodStart, periodEnd = fields[0], fields[1]
		}
	}

	if totalOwed == nil && periodEnd == "" {
		return nil
	}

	estimate := &domain.PaymentEstimate{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalOwed:   totalOwed,
		Pending:     true,
	}

	end, err := time.Parse(dateLayout, periodEnd)
	if err != nil {
		return estimate
	}

	estimate.EstimatedDate = end.AddDate(0, 0, settlementLagDays)
	estimate.Pending = !now.After(estimate.EstimatedDate)
	if !estimate.Pending {
		paid := estimate.EstimatedDate
		estimate.PaymentDate = &paid
		estimate.PaymentAmount = totalOwed
	}
	return estimate
}
