package pipeline

import (
	"strings"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// CatalogIndex is an insertion-ordered product lookup keyed by identifier.
// Duplicate ids overwrite the earlier entry in place, keeping its original
// position; uniqueness is assumed, not enforced.
type CatalogIndex struct {
	byID    map[string]int
	entries []domain.CatalogEntry
}

// BuildIndex builds the index from normalized catalog entries in one pass.
// Entries are copied with their counters reset, so every join runs over a
// fresh accumulator set regardless of what earlier passes did.
func BuildIndex(catalog []domain.CatalogEntry) *CatalogIndex {
	ix := &CatalogIndex{byID: make(map[string]int, len(catalog))}
	for _, e := range catalog {
		e.Sales = 0
		e.Revenue = 0
		if pos, ok := ix.byID[e.ID]; ok {
			ix.entries[pos] = e
			continue
		}
		ix.byID[e.ID] = len(ix.entries)
		ix.entries = append(ix.entries, e)
	}
	return ix
}

// Lookup resolves a product reference: exact id match first, then the first
// entry (insertion order) whose name equals ref case-insensitively. No
// partial name matching. Returns -1 on a miss.
func (ix *CatalogIndex) Lookup(ref string) int {
	if pos, ok := ix.byID[ref]; ok {
		return pos
	}
	lower := strings.ToLower(ref)
	for i, e := range ix.entries {
		if strings.ToLower(e.Name) == lower {
			return i
		}
	}
	return -1
}

// Len returns the number of distinct catalog entries.
func (ix *CatalogIndex) Len() int {
	return len(ix.entries)
}

// JoinResult carries the accumulated side of a reconciliation pass. Buyers
// appear in first-matched order, which is also their display order on ties.
type JoinResult struct {
	Products  []domain.CatalogEntry
	Buyers    []domain.BuyerStats
	Unmatched int
}

// Join resolves every purchase against the catalog. A hit bumps the product
// (sales +1, revenue +price) and the buyer (purchases +1, totalSpent
// +price), creating the buyer aggregate lazily on first match. A miss has no
// effect anywhere: the row is silently invisible to analytics. Accumulation
// is commutative, so row order never changes totals, only the first-seen
// order of buyers.
func Join(purchases []domain.PurchaseSeed, ix *CatalogIndex) JoinResult {
	buyerPos := make(map[string]int)
	var res JoinResult

	for _, p := range purchases {
		pos := ix.Lookup(p.ProductRef)
		if pos < 0 {
			res.Unmatched++
			continue
		}
		entry := &ix.entries[pos]
		entry.Sales++
		entry.Revenue += entry.Price

		bp, ok := buyerPos[p.Buyer]
		if !ok {
			bp = len(res.Buyers)
			buyerPos[p.Buyer] = bp
			res.Buyers = append(res.Buyers, domain.BuyerStats{Name: p.Buyer})
		}
		res.Buyers[bp].Purchases++
		res.Buyers[bp].TotalSpent += entry.Price
	}

	res.Products = make([]domain.CatalogEntry, len(ix.entries))
	copy(res.Products, ix.entries)
	return res
}
