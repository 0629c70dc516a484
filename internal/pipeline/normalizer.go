// Package pipeline holds the pure core: row normalization, the catalog
// index, the reconciliation join, the aggregation engine and the filter
// view. Every function here is a pure computation over its inputs, so the
// whole set can be recomputed from scratch on any state change and tested
// without any transport or presentation layer.
package pipeline

import (
	"math"
	"strconv"
	"strings"

	"github.com/lucasvilela/vendalytics/internal/domain"
	"github.com/lucasvilela/vendalytics/internal/resolver"
)

const (
	// DefaultCategory labels catalog rows with no category column or value.
	DefaultCategory = "Sem Categoria"
	// NALabel labels ledger composites when neither code nor name resolve.
	NALabel = "N/A"

	// Fixed messages for the mandatory-column checks.
	MsgProductsColumns = "Tabela de produtos deve conter: ID, Nome e Preço"
	MsgBuyersColumns   = "Tabela de compradores deve conter: Comprador e Produto"
)

var (
	catalogOpts = resolver.Options{}
	ledgerOpts  = resolver.Options{StripSpace: true}
)

// ValidateCatalog checks the catalog table for its mandatory columns
// (identifier, name, price) before any row is normalized.
func ValidateCatalog(t *domain.RawTable, aliases resolver.Table) error {
	for _, field := range []string{resolver.FieldID, resolver.FieldNome, resolver.FieldPreco} {
		if resolver.Resolve(t.Headers, aliases.Aliases(field), catalogOpts) < 0 {
			return &domain.ErrMissingColumns{Slot: domain.SlotProducts, Message: MsgProductsColumns}
		}
	}
	return nil
}

// ValidateBuyers checks the buyers table for buyer-name and
// product-reference columns.
func ValidateBuyers(t *domain.RawTable, aliases resolver.Table) error {
	for _, field := range []string{resolver.FieldComprador, resolver.FieldProduto} {
		if resolver.Resolve(t.Headers, aliases.Aliases(field), catalogOpts) < 0 {
			return &domain.ErrMissingColumns{Slot: domain.SlotBuyers, Message: MsgBuyersColumns}
		}
	}
	return nil
}

// NormalizeCatalog resolves each catalog field against the header row once,
// then types every row. Identifier and name pass through verbatim; price
// coerces to 0 on parse failure; category defaults when the column is absent
// or the cell empty.
func NormalizeCatalog(t *domain.RawTable, aliases resolver.Table) []domain.CatalogEntry {
	folded := resolver.FoldHeaders(t.Headers, catalogOpts)
	idCol := resolver.ResolveFolded(folded, aliases.Aliases(resolver.FieldID), catalogOpts)
	nameCol := resolver.ResolveFolded(folded, aliases.Aliases(resolver.FieldNome), catalogOpts)
	priceCol := resolver.ResolveFolded(folded, aliases.Aliases(resolver.FieldPreco), catalogOpts)
	catCol := resolver.ResolveFolded(folded, aliases.Aliases(resolver.FieldCategoria), catalogOpts)

	entries := make([]domain.CatalogEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		category := t.Cell(row, catCol)
		if category == "" {
			category = DefaultCategory
		}
		entries = append(entries, domain.CatalogEntry{
			ID:       t.Cell(row, idCol),
			Name:     t.Cell(row, nameCol),
			Price:    ParseNumber(t.Cell(row, priceCol)),
			Category: category,
		})
	}
	return entries
}

// NormalizePurchases types the buyers table. Both fields pass through
// verbatim; the product reference is already a string here and is matched
// as one downstream.
func NormalizePurchases(t *domain.RawTable, aliases resolver.Table) []domain.PurchaseSeed {
	folded := resolver.FoldHeaders(t.Headers, catalogOpts)
	buyerCol := resolver.ResolveFolded(folded, aliases.Aliases(resolver.FieldComprador), catalogOpts)
	refCol := resolver.ResolveFolded(folded, aliases.Aliases(resolver.FieldProduto), catalogOpts)

	seeds := make([]domain.PurchaseSeed, 0, len(t.Rows))
	for _, row := range t.Rows {
		seeds = append(seeds, domain.PurchaseSeed{
			Buyer:      t.Cell(row, buyerCol),
			ProductRef: t.Cell(row, refCol),
		})
	}
	return seeds
}

// ledgerLookup resolves ledger field values per row. Unlike the one-time
// header resolution of the products pipeline, a matched header whose cell is
// empty does not stop the scan: the remaining aliases keep being tried. The
// two pipelines are intentionally asymmetric here.
type ledgerLookup struct {
	t       *domain.RawTable
	folded  []string
	aliases resolver.Table
}

func (l *ledgerLookup) value(row []string, field string) string {
	for _, alias := range l.aliases.Aliases(field) {
		a := resolver.Fold(alias, ledgerOpts)
		if a == "" {
			continue
		}
		for i, h := range l.folded {
			if strings.Contains(h, a) {
				if v := l.t.Cell(row, i); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// NormalizeLedger types the self-contained sales-ledger table. No join is
// needed downstream: reseller and product become composite labels, the
// management unit keeps only its digits, and the transaction value is the
// already-total reported by the source.
func NormalizeLedger(t *domain.RawTable, aliases resolver.Table) []domain.LedgerRow {
	l := &ledgerLookup{t: t, folded: resolver.FoldHeaders(t.Headers, ledgerOpts), aliases: aliases}

	rows := make([]domain.LedgerRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		tipo := l.value(row, resolver.FieldTipo)
		if tipo == "" {
			tipo = NALabel
		}
		valor := ParseNumber(l.value(row, resolver.FieldValor))
		rows = append(rows, domain.LedgerRow{
			Unidade:     digitsOnly(l.value(row, resolver.FieldUnidade)),
			Setor:       l.value(row, resolver.FieldSetor),
			Revendedora: compositeLabel(l.value(row, resolver.FieldCodRevendedora), l.value(row, resolver.FieldNomeRevendedora)),
			Produto:     compositeLabel(l.value(row, resolver.FieldCodProduto), l.value(row, resolver.FieldNomeProduto)),
			Tipo:        tipo,
			Itens:       ParseNumber(l.value(row, resolver.FieldItens)),
			Valor:       valor,
			ValorTotal:  valor,
		})
	}
	return rows
}

// ParseNumber coerces a raw cell to a float. It accepts plain ("1234.56")
// and Brazilian ("1.234,56", "R$ 1.234,56") notations. Anything unparseable,
// NaN or infinite comes back as 0, never an error.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// digitsOnly strips every non-digit rune: "Região 04" becomes "04".
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// compositeLabel joins a code and a name as "code - name", falling back to
// whichever side resolved, or to "N/A" when neither did.
func compositeLabel(code, name string) string {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	switch {
	case code != "" && name != "":
		return code + " - " + name
	case code != "":
		return code
	case name != "":
		return name
	default:
		return NALabel
	}
}
