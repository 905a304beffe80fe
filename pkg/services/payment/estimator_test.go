package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = "Start Date\tEnd Date\tVendor Identifier\n" +
	"09/01/2025\t09/30/2025\tA1\t3\t0.70\t2.10\tUSD\n" +
	"09/01/2025\t09/30/2025\tA1IAP\t1\t0.70\t0.70\tUSD\n" +
	"\n" +
	"Total_Rows\t2\n" +
	"Total_Amount\t208.66\n"

func TestEstimate_DateAndTotal(t *testing.T) {
	now := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	est := Estimate(sampleReport, now)

	require.NotNil(t, est)
	assert.Equal(t, "09/01/2025", est.PeriodStart)
	assert.Equal(t, "09/30/2025", est.PeriodEnd)
	require.NotNil(t, est.TotalOwed)
	assert.Equal(t, 208.66, *est.TotalOwed)
	// Sep 30 + 33 days.
	assert.Equal(t, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), est.EstimatedDate)
	assert.True(t, est.Pending)
	assert.Nil(t, est.PaymentDate)
	assert.Nil(t, est.PaymentAmount)
}

func TestEstimate_PaidOncePastEstimatedDate(t *testing.T) {
	now := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	est := Estimate(sampleReport, now)

	require.NotNil(t, est)
	assert.False(t, est.Pending)
	require.NotNil(t, est.PaymentDate)
	assert.Equal(t, est.EstimatedDate, *est.PaymentDate)
	require.NotNil(t, est.PaymentAmount)
	assert.Equal(t, 208.66, *est.PaymentAmount)
}

func TestEstimate_ExactlyOnEstimatedDateIsStillPending(t *testing.T) {
	est := Estimate(sampleReport, time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC))

	require.NotNil(t, est)
	assert.True(t, est.Pending)
}

func TestEstimate_SettlementLagFixture(t *testing.T) {
	// A period ending Sep 1 settles Oct 4.
	raw := "header\n09/01/2025\t09/01/2025\tA1\nTotal_Amount\t208.66\n"

	est := Estimate(raw, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC))

	require.NotNil(t, est)
	assert.Equal(t, time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), est.EstimatedDate)
	assert.Equal(t, 208.66, *est.TotalOwed)
}

func TestEstimate_FirstDateLineWins(t *testing.T) {
	raw := strings.Join([]string{
		"header",
		"08/01/2025\t08/31/2025\tA1",
		"09/01/2025\t09/30/2025\tA1",
	}, "\n")

	est := Estimate(raw, time.Now())

	require.NotNil(t, est)
	assert.Equal(t, "08/01/2025", est.PeriodStart)
	assert.Equal(t, "08/31/2025", est.PeriodEnd)
}

func TestEstimate_SentinelAfterDatesStillFound(t *testing.T) {
	raw := "header\nTotal_Amount\t10.00\n09/01/2025\t09/30/2025\tA1\n"

	est := Estimate(raw, time.Now())

	require.NotNil(t, est)
	require.NotNil(t, est.TotalOwed)
	assert.Equal(t, 10.00, *est.TotalOwed)
	assert.Equal(t, "09/30/2025", est.PeriodEnd)
}

func TestEstimate_TotalOnly_NoDates(t *testing.T) {
	raw := "header\nTotal_Amount\t55.10\n"

	est := Estimate(raw, time.Now())

	require.NotNil(t, est)
	assert.Equal(t, 55.10, *est.TotalOwed)
	assert.Empty(t, est.PeriodEnd)
	assert.True(t, est.Pending)
	assert.Nil(t, est.PaymentAmount)
}

func TestEstimate_NeitherSignalReturnsNil(t *testing.T) {
	raw := "header\nsome\tnoise\n2025-09-01\t2025-09-30\tA1\n"

	assert.Nil(t, Estimate(raw, time.Now()))
}

func TestEstimate_StrictDatePattern(t *testing.T) {
	// Single-digit months and ISO dates do not match.
	raw := "header\n9/1/2025\t9/30/2025\tA1\n"

	assert.Nil(t, Estimate(raw, time.Now()))
}
