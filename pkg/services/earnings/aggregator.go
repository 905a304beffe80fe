// Package earnings folds parsed report rows into per-product totals.
package earnings

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// Aggregate groups rows by stable product key and sums extended proceeds
// per currency. Rows with an extended amount of exactly zero are dropped
// before keying, so a product seen only in zero rows never appears.
//
// Title, SKU, product type, and the add-on flag are fixed by the first
// row that establishes a key. Upstream occasionally disagrees with
// itself across rows sharing a key; first-write-wins is deliberate.
func Aggregate(rows []domain.ReportRow) []*domain.ProductEarnings {
	byKey := make(map[string]*domain.ProductEarnings)
	var order []string

	for _, row := range rows {
		if row.ExtendedProceeds == 0 {
			continue
		}

		key := row.Key()
		product, ok := byKey[key]
		if !ok {
			product = &domain.ProductEarnings{
				Key:         key,
				Title:       row.Title,
				SKU:         row.SKU,
				AppleID:     row.AppleID,
				ProductType: row.ProductType,
				AddOn:       row.IsAddOn(),
				Amounts:     make(map[string]float64),
			}
			byKey[key] = product
			order = append(order, key)
		}

		product.Amounts[row.Currency] += row.ExtendedProceeds
	}

	products := make([]*domain.ProductEarnings, 0, len(order))
	for _, key := range order {
		products = append(products, byKey[key])
	}
	return products
}

// Currencies returns the sorted set of currency codes present across
// all products.
func Currencies(products []*domain.ProductEarnings) []string {
	set := make(map[string]struct{})
	for _, p := range products {
		for code := range p.Amounts {
			set[code] = struct{}{}
		}
	}

	codes := maps.Keys(set)
	sort.Strings(codes)
	return codes
}
