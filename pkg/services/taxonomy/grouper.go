// Package taxonomy reconstructs the app hierarchy: parent apps with
// their direct sales plus attached in-app purchases and subscriptions.
package taxonomy

import (
	"sort"

	"github.com/fintools/proceeds/pkg/models/domain"
)

// Mapping resolves a product key to its parent app. It is built by an
// external collaborator and may be absent for a run.
type Mapping map[string]domain.AppMapping

// lookup is one strategy in the resolution chain. Strategies run in
// order; the first hit wins.
type lookup func(p *domain.ProductEarnings, m Mapping) (domain.AppMapping, bool)

var lookupChain = []lookup{
	bySKU,
	byAppleID,
	bySelf,
}

func bySKU(p *domain.ProductEarnings, m Mapping) (domain.AppMapping, bool) {
	if p.SKU == "" {
		return domain.AppMapping{}, false
	}
	entry, ok := m[p.SKU]
	return entry, ok
}

func byAppleID(p *domain.ProductEarnings, m Mapping) (domain.AppMapping, bool) {
	if p.AppleID == "" {
		return domain.AppMapping{}, false
	}
	entry, ok := m[p.AppleID]
	return entry, ok
}

// bySelf never misses: an unmapped product becomes its own parent.
func bySelf(p *domain.ProductEarnings, _ Mapping) (domain.AppMapping, bool) {
	return domain.AppMapping{
		ParentID:    p.Key,
		ParentTitle: p.Title,
		AddOn:       p.AddOn,
	}, true
}

// Resolve walks the lookup chain for one product.
func Resolve(p *domain.ProductEarnings, m Mapping) domain.AppMapping {
	for _, try := range lookupChain {
		if entry, ok := try(p, m); ok {
			return entry
		}
	}
	// Unreachable; bySelf always hits.
	return domain.AppMapping{}
}

// Group places each converted product under its parent app. Add-ons go
// on the parent's list, base products into direct proceeds; the parent
// total grows either way. Parents appear in first-contribution order;
// each parent's add-on list is sorted descending by converted total.
func Group(products []*domain.ProductEarnings, m Mapping) []*domain.ParentAppEntry {
	byID := make(map[string]*domain.ParentAppEntry)
	var order []string

	for _, p := range products {
		entry := Resolve(p, m)

		parent, ok := byID[entry.ParentID]
		if !ok {
			parent = &domain.ParentAppEntry{
				ID:    entry.ParentID,
				Title: entry.ParentTitle,
			}
			byID[entry.ParentID] = parent
			order = append(order, entry.ParentID)
		}

		if entry.AddOn {
			parent.AddOns = append(parent.AddOns, p)
		} else {
			parent.Direct += p.ConvertedTotal
		}
		parent.Total += p.ConvertedTotal
	}

	parents := make([]*domain.ParentAppEntry, 0, len(order))
	for _, id := range order {
		parent := byID[id]
		sort.SliceStable(parent.AddOns, func(i, j int) bool {
			return parent.AddOns[i].ConvertedTotal > parent.AddOns[j].ConvertedTotal
		})
		parents = append(parents, parent)
	}
	return parents
}

// SortByTotal orders parents descending by total proceeds. Kept apart
// from Group: ordering of parents is a presentation concern.
func SortByTotal(parents []*domain.ParentAppEntry) {
	sort.SliceStable(parents, func(i, j int) bool {
		return parents[i].Total > parents[j].Total
	})
}
