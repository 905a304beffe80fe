// Package currency normalizes per-currency proceeds into a single
// target currency.
package currency

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// RateSource supplies one conversion rate. The date is a hint for
// historical rates; implementations may ignore it.
type RateSource interface {
	Rate(ctx context.Context, from, to string, on time.Time) (float64, error)
}

// Converter builds a complete rate table for a report run and applies
// it to aggregated products.
type Converter struct {
	source RateSource
	target string
}

func NewConverter(source RateSource, target string) *Converter {
	return &Converter{source: source, target: target}
}

// Target returns the currency all proceeds are normalized into.
func (c *Converter) Target() string {
	return c.target
}

// Rates fetches one rate per code, concurrently. The target currency
// maps to 1.0 without a lookup. A failed lookup falls back to 1.0 with
// a warning; one failure never blocks or cancels the others. The
// returned table always has an entry for every requested code.
func (c *Converter) Rates(ctx context.Context, codes []string, on time.Time) map[string]float64 {
	logger := zerolog.Ctx(ctx)

	var mu sync.Mutex
	rates := make(map[string]float64, len(codes))

	// Identity entries go in before any goroutine can touch the map.
	for _, code := range codes {
		if code == c.target {
			rates[code] = 1.0
		}
	}

	var wg sync.WaitGroup
	for _, code := range codes {
		if code == c.target {
			continue
		}

		wg.Add(1)
		go func(code string) {
			defer wg.Done()

			rate, err := c.source.Rate(ctx, code, c.target, on)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("currency", code).
					Msg("rate lookup failed, falling back to 1.0")
				rate = 1.0
			}

			mu.Lock()
			rates[code] = rate
			mu.Unlock()
		}(code)
	}
	wg.Wait()

	return rates
}

// Apply recomputes every product's converted total from the rate table.
// The table must already contain every currency the products reference;
// Rates guarantees that for the codes it was given.
func Apply(products []*domain.ProductEarnings, rates map[string]float64) {
	for _, p := range products {
		total := 0.0
		for code, amount := range p.Amounts {
			rate, ok := rates[code]
			if !ok {
				rate = 1.0
			}
			total += amount * rate
		}
		p.ConvertedTotal = total
	}
}

// Convert is the full step: build the table, then apply it.
func (c *Converter) Convert(ctx context.Context, products []*domain.ProductEarnings, codes []string, on time.Time) map[string]float64 {
	rates := c.Rates(ctx, codes, on)
	Apply(products, rates)
	return rates
}
