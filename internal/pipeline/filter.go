package pipeline

import (
	"strings"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// FilterAll is the sentinel equality-filter value meaning "no filter".
const FilterAll = "all"

// ProductFilter is the read-only filter state for the products view.
type ProductFilter struct {
	Search   string
	Category string
}

// LedgerFilter is the read-only filter state for the ledger rows view.
type LedgerFilter struct {
	Search  string
	Tipo    string
	Unidade string
}

func active(v string) bool {
	return v != "" && v != FilterAll
}

// FilterProducts applies the category equality filter and the
// case-insensitive search over name and id. Filters compose with AND. The
// full filtered slice comes back; truncation is the caller's presentation
// concern.
func FilterProducts(products []domain.CatalogEntry, f ProductFilter) []domain.CatalogEntry {
	term := strings.ToLower(f.Search)
	out := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		if active(f.Category) && p.Category != f.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.ID), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterLedger applies the type and management-unit equality filters and the
// case-insensitive search over the reseller, product and sector labels.
func FilterLedger(rows []domain.LedgerRow, f LedgerFilter) []domain.LedgerRow {
	term := strings.ToLower(f.Search)
	out := make([]domain.LedgerRow, 0, len(rows))
	for _, r := range rows {
		if active(f.Tipo) && r.Tipo != f.Tipo {
			continue
		}
		if active(f.Unidade) && r.Unidade != f.Unidade {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.Revendedora), term) &&
			!strings.Contains(strings.ToLower(r.Produto), term) &&
			!strings.Contains(strings.ToLower(r.Setor), term) {
			continue
		}
		out = append(out, r)
	}
	return out
}
