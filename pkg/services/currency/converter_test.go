package currency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fintools/proceeds/pkg/models/domain"
)

type stubRateSource struct {
	rates map[string]float64
	fails map[string]bool
}

func (s *stubRateSource) Rate(_ context.Context, from, _ string, _ time.Time) (float64, error) {
	if s.fails[from] {
		return 0, fmt.Errorf("rate service unavailable for %s", from)
	}
	rate, ok := s.rates[from]
	if !ok {
		return 0, fmt.Errorf("unknown currency %s", from)
	}
	return rate, nil
}

func product(key string, amounts map[string]float64) *domain.ProductEarnings {
	return &domain.ProductEarnings{Key: key, Amounts: amounts}
}

func TestRates_TargetIsIdentityWithoutLookup(t *testing.T) {
	src := &stubRateSource{fails: map[string]bool{"USD": true}}
	c := NewConverter(src, "USD")

	rates := c.Rates(context.Background(), []string{"USD"}, time.Now())

	// Had USD been looked up, the stub would have failed it.
	assert.Equal(t, map[string]float64{"USD": 1.0}, rates)
}

func TestRates_PartialFailureFallsBackTo1(t *testing.T) {
	src := &stubRateSource{
		rates: map[string]float64{"GBP": 1.27},
		fails: map[string]bool{"EUR": true},
	}
	c := NewConverter(src, "USD")

	rates := c.Rates(context.Background(), []string{"EUR", "GBP", "USD"}, time.Now())

	assert.Equal(t, 1.27, rates["GBP"])
	assert.Equal(t, 1.0, rates["EUR"])
	assert.Equal(t, 1.0, rates["USD"])
	assert.Len(t, rates, 3)
}

func TestConvert_AppliesRatesToAllCurrencies(t *testing.T) {
	src := &stubRateSource{rates: map[string]float64{"EUR": 1.1, "JPY": 0.0067}}
	c := NewConverter(src, "USD")

	p := product("A1", map[string]float64{"USD": 100.0, "EUR": 50.0, "JPY": 1000.0})
	c.Convert(context.Background(), []*domain.ProductEarnings{p}, []string{"USD", "EUR", "JPY"}, time.Now())

	assert.InDelta(t, 100.0+55.0+6.7, p.ConvertedTotal, 1e-9)
}

func TestApply_IdentityRatesPreserveSums(t *testing.T) {
	p := product("A1", map[string]float64{"USD": 12.5, "EUR": 7.5, "GBP": 5.0})

	Apply([]*domain.ProductEarnings{p}, map[string]float64{"USD": 1, "EUR": 1, "GBP": 1})

	assert.InDelta(t, 25.0, p.ConvertedTotal, 1e-9)
}

func TestRates_TargetLastAmongManyCodes(t *testing.T) {
	rates := map[string]float64{}
	codes := []string{}
	for i := 0; i < 19; i++ {
		code := fmt.Sprintf("C%02d", i)
		rates[code] = float64(i) + 0.5
		codes = append(codes, code)
	}
	// The identity entry must land before any lookup goroutine runs,
	// even when the target sorts after every looked-up code.
	codes = append(codes, "USD")
	c := NewConverter(&stubRateSource{rates: rates}, "USD")

	table := c.Rates(context.Background(), codes, time.Now())

	assert.Len(t, table, 20)
	assert.Equal(t, 1.0, table["USD"])
	for i := 0; i < 19; i++ {
		assert.Equal(t, float64(i)+0.5, table[fmt.Sprintf("C%02d", i)])
	}
}

func TestConvert_ManyCurrenciesConcurrently(t *testing.T) {
	rates := map[string]float64{}
	codes := []string{}
	for i := 0; i < 50; i++ {
		code := fmt.Sprintf("C%02d", i)
		rates[code] = float64(i)
		codes = append(codes, code)
	}
	c := NewConverter(&stubRateSource{rates: rates}, "USD")

	table := c.Rates(context.Background(), codes, time.Now())

	assert.Len(t, table, 50)
	for i, code := range codes {
		assert.Equal(t, float64(i), table[code])
	}
}
