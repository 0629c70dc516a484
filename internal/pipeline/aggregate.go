package pipeline

import (
	"sort"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// Top-N sizes for the ranked views.
const (
	TopProductsN     = 10
	TopBuyersN       = 10
	TopRevendedorasN = 20
	TopProdutosN     = 20
	TopPorRevendaN   = 5
)

// GroupBy runs one linear pass over rows, accumulating one GroupAggregate
// per distinct key in first-seen order. Callers sort afterwards; the
// first-seen order is what makes the descending sorts' tie-breaking
// deterministic.
func GroupBy[T any](rows []T, key func(T) string, add func(*domain.GroupAggregate, T)) []domain.GroupAggregate {
	pos := make(map[string]int, 16)
	var groups []domain.GroupAggregate
	for _, r := range rows {
		k := key(r)
		p, ok := pos[k]
		if !ok {
			p = len(groups)
			pos[k] = p
			groups = append(groups, domain.GroupAggregate{Key: k})
		}
		add(&groups[p], r)
	}
	return groups
}

// SortByValorTotal returns a copy sorted descending by ValorTotal. The sort
// is stable: equal values keep their first-seen order, never alphabetical.
func SortByValorTotal(groups []domain.GroupAggregate) []domain.GroupAggregate {
	out := make([]domain.GroupAggregate, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ValorTotal > out[j].ValorTotal })
	return out
}

// SortByItens returns a copy sorted descending by item quantity, stable on
// first-seen order. Used for the nested per-reseller product ranking, whose
// sort key deliberately differs from the outer reseller ranking.
func SortByItens(groups []domain.GroupAggregate) []domain.GroupAggregate {
	out := make([]domain.GroupAggregate, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Itens > out[j].Itens })
	return out
}

// Top slices the first n of an already-ranked sequence.
func Top(groups []domain.GroupAggregate, n int) []domain.GroupAggregate {
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

// TopProductsBySales ranks products by sales count, descending, stable.
func TopProductsBySales(products []domain.CatalogEntry, n int) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(products))
	copy(out, products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sales > out[j].Sales })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopBuyersByPurchases ranks buyers by purchase count, descending, stable.
func TopBuyersByPurchases(buyers []domain.BuyerStats, n int) []domain.BuyerStats {
	out := make([]domain.BuyerStats, len(buyers))
	copy(out, buyers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Purchases > out[j].Purchases })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// BuildProductsSnapshot recomputes the whole products+buyers analytics view
// from the normalized tables. Re-running it on the same inputs yields an
// identical snapshot.
func BuildProductsSnapshot(catalog []domain.CatalogEntry, purchases []domain.PurchaseSeed) (*domain.ProductsSnapshot, int) {
	joined := Join(purchases, BuildIndex(catalog))

	var totalRevenue float64
	var totalSales int
	for _, p := range joined.Products {
		totalRevenue += p.Revenue
		totalSales += p.Sales
	}

	byCategory := GroupBy(joined.Products, func(p domain.CatalogEntry) string { return p.Category },
		func(g *domain.GroupAggregate, p domain.CatalogEntry) {
			g.ValorTotal += p.Revenue
			g.Quantidade += p.Sales
		})

	categories := make([]string, len(byCategory))
	for i, g := range byCategory {
		categories[i] = g.Key
	}

	return &domain.ProductsSnapshot{
		TotalRevenue:  totalRevenue,
		TotalSales:    totalSales,
		TotalProducts: len(joined.Products),
		TotalBuyers:   len(joined.Buyers),
		TopProducts:   TopProductsBySales(joined.Products, TopProductsN),
		TopBuyers:     TopBuyersByPurchases(joined.Buyers, TopBuyersN),
		CategoryStats: SortByValorTotal(byCategory),
		Categories:    categories,
		AllProducts:   joined.Products,
		AllBuyers:     joined.Buyers,
	}, joined.Unmatched
}

func ledgerGroup(rows []domain.LedgerRow, key func(domain.LedgerRow) string) []domain.GroupAggregate {
	return GroupBy(rows, key, func(g *domain.GroupAggregate, r domain.LedgerRow) {
		g.ValorTotal += r.ValorTotal
		g.Quantidade++
		g.Itens += r.Itens
	})
}

// BuildLedgerSnapshot recomputes the ledger analytics view: five independent
// group-bys, the two top-20 rankings, and the per-reseller nested top-5 by
// item quantity.
func BuildLedgerSnapshot(rows []domain.LedgerRow) *domain.LedgerSnapshot {
	var totalValor, totalItens float64
	for _, r := range rows {
		totalValor += r.ValorTotal
		totalItens += r.Itens
	}

	porUnidade := ledgerGroup(rows, func(r domain.LedgerRow) string { return r.Unidade })
	porSetor := ledgerGroup(rows, func(r domain.LedgerRow) string { return r.Setor })
	porTipo := ledgerGroup(rows, func(r domain.LedgerRow) string { return r.Tipo })
	porRevendedora := ledgerGroup(rows, func(r domain.LedgerRow) string { return r.Revendedora })
	porProduto := ledgerGroup(rows, func(r domain.LedgerRow) string { return r.Produto })

	topRevendedoras := Top(SortByValorTotal(porRevendedora), TopRevendedorasN)

	topPorRevenda := make([]domain.ResellerTopProducts, 0, len(topRevendedoras))
	for _, rev := range topRevendedoras {
		var own []domain.LedgerRow
		for _, r := range rows {
			if r.Revendedora == rev.Key {
				own = append(own, r)
			}
		}
		produtos := Top(SortByItens(ledgerGroup(own, func(r domain.LedgerRow) string { return r.Produto })), TopPorRevendaN)
		topPorRevenda = append(topPorRevenda, domain.ResellerTopProducts{
			Revendedora: rev.Key,
			ValorTotal:  rev.ValorTotal,
			Produtos:    produtos,
		})
	}

	tipos := make([]string, len(porTipo))
	for i, g := range porTipo {
		tipos[i] = g.Key
	}
	unidades := make([]string, len(porUnidade))
	for i, g := range porUnidade {
		unidades[i] = g.Key
	}

	return &domain.LedgerSnapshot{
		TotalValor:        totalValor,
		TotalTransacoes:   len(rows),
		TotalItens:        totalItens,
		TotalRevendedoras: len(porRevendedora),
		PorUnidade:        SortByValorTotal(porUnidade),
		PorSetor:          SortByValorTotal(porSetor),
		PorTipo:           SortByValorTotal(porTipo),
		PorRevendedora:    SortByValorTotal(porRevendedora),
		PorProduto:        SortByValorTotal(porProduto),
		TopRevendedoras:   topRevendedoras,
		TopProdutos:       Top(SortByValorTotal(porProduto), TopProdutosN),
		TopPorRevenda:     topPorRevenda,
		Tipos:             tipos,
		Unidades:          unidades,
	}
}
