// Package proceeds wires the report pipeline: fetch, parse, aggregate,
// convert, group, plus the payment estimate derived from the same raw
// text.
package proceeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fintools/proceeds/pkg/models/domain"
	"github.com/fintools/proceeds/pkg/services/currency"
	"github.com/fintools/proceeds/pkg/services/earnings"
	"github.com/fintools/proceeds/pkg/services/payment"
	"github.com/fintools/proceeds/pkg/services/report"
	"github.com/fintools/proceeds/pkg/services/taxonomy"
	"github.com/fintools/proceeds/pkg/store/cache"
)

// ReportSource returns raw report text for a fiscal period identifier.
// Implementations signal "no report for this period yet" with a
// sentinel the caller can test with errors.Is.
type ReportSource interface {
	FetchReport(ctx context.Context, periodID string) (string, error)
}

// MappingSource builds the product-to-parent-app mapping. May be nil,
// in which case grouping degrades to a flat product list.
type MappingSource interface {
	FetchMapping(ctx context.Context) (taxonomy.Mapping, error)
}

// Controller runs the pipeline for one period at a time.
type Controller struct {
	reports   ReportSource
	mappings  MappingSource
	converter *currency.Converter
	cache     *cache.Store
}

// NewController assembles a pipeline. mappings and store may be nil;
// everything else is required.
func NewController(reports ReportSource, mappings MappingSource, converter *currency.Converter, store *cache.Store) *Controller {
	return &Controller{
		reports:   reports,
		mappings:  mappings,
		converter: converter,
		cache:     store,
	}
}

// GetReport produces the full proceeds report for one month. now drives
// both the payment status and cache TTLs, injected for reproducibility.
//
// An empty report (no usable rows) is a valid result, not an error.
// A period the vendor has not published yet propagates the report
// source's not-found sentinel.
func (c *Controller) GetReport(ctx context.Context, month domain.CalendarMonth, now time.Time) (*domain.ProceedsReport, error) {
	raw, err := c.fetchRaw(ctx, month.PeriodID, now)
	if err != nil {
		return nil, err
	}

	rows := report.Parse(raw)
	products := earnings.Aggregate(rows)
	estimate := payment.Estimate(raw, now)

	rateDate := monthEnd(month)
	c.converter.Convert(ctx, products, earnings.Currencies(products), rateDate)

	result := &domain.ProceedsReport{
		Period:         month,
		TargetCurrency: c.converter.Target(),
		Payment:        estimate,
	}

	mapping := c.loadMapping(ctx, now)
	if mapping == nil {
		// Degraded mode: no hierarchy, flat list.
		result.Products = products
		for _, p := range products {
			result.GrandTotal += p.ConvertedTotal
		}
		return result, nil
	}

	parents := taxonomy.Group(products, mapping)
	taxonomy.SortByTotal(parents)
	result.Parents = parents
	for _, parent := range parents {
		result.GrandTotal += parent.Total
	}
	return result, nil
}

func (c *Controller) fetchRaw(ctx context.Context, periodID string, now time.Time) (string, error) {
	logger := zerolog.Ctx(ctx)

	if c.cache != nil {
		raw, err := c.cache.GetReport(periodID)
		if err == nil {
			logger.Debug().Str("period", periodID).Msg("report served from cache")
			return raw, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn().Err(err).Msg("report cache read failed")
		}
	}

	raw, err := c.reports.FetchReport(ctx, periodID)
	if err != nil {
		return "", fmt.Errorf("fetch report for %s: %w", periodID, err)
	}

	if c.cache != nil {
		if err := c.cache.PutReport(periodID, raw, now); err != nil {
			logger.Warn().Err(err).Msg("report cache write failed")
		}
	}
	return raw, nil
}

// loadMapping resolves the product mapping through the cache. Any
// failure degrades to nil: flat mode is deliberate, never an abort.
func (c *Controller) loadMapping(ctx context.Context, now time.Time) taxonomy.Mapping {
	if c.mappings == nil {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	if c.cache != nil {
		if payload, err := c.cache.GetMapping(now); err == nil {
			var mapping taxonomy.Mapping
			if err := json.Unmarshal(payload, &mapping); err == nil {
				return mapping
			}
			logger.Warn().Err(err).Msg("cached mapping is corrupt, refetching")
		}
	}

	mapping, err := c.mappings.FetchMapping(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("mapping fetch failed")
		return nil
	}

	if c.cache != nil {
		payload, err := json.Marshal(mapping)
		if err == nil {
			err = c.cache.PutMapping(payload, now)
		}
		if err != nil {
			logger.Warn().Err(err).Msg("mapping cache write failed")
		}
	}
	return mapping
}

// monthEnd is the last day of the calendar month, used as the
// historical date hint for rate lookups.
func monthEnd(month domain.CalendarMonth) time.Time {
	return time.Date(month.Year, time.Month(month.Month)+1, 0, 0, 0, 0, 0, time.UTC)
}
