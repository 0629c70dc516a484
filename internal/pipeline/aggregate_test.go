package pipeline_test

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/lucasvilela/vendalytics/internal/domain"
	"github.com/lucasvilela/vendalytics/internal/pipeline"
)

func sampleLedger() []domain.LedgerRow {
	return []domain.LedgerRow{
		{Unidade: "04", Setor: "Centro", Revendedora: "77 - Maria", Produto: "Batom", Tipo: "Revenda", Itens: 3, Valor: 150, ValorTotal: 150},
		{Unidade: "04", Setor: "Norte", Revendedora: "78 - Joana", Produto: "Perfume", Tipo: "Revenda", Itens: 1, Valor: 500, ValorTotal: 500},
		{Unidade: "05", Setor: "Centro", Revendedora: "77 - Maria", Produto: "Perfume", Tipo: "Brinde", Itens: 10, Valor: 50, ValorTotal: 50},
	}
}

func TestGroupBy_FirstSeenOrder(t *testing.T) {
	groups := pipeline.GroupBy(sampleLedger(),
		func(r domain.LedgerRow) string { return r.Setor },
		func(g *domain.GroupAggregate, r domain.LedgerRow) { g.ValorTotal += r.ValorTotal })

	if len(groups) != 2 || groups[0].Key != "Centro" || groups[1].Key != "Norte" {
		t.Fatalf("expected first-seen grouping order, got %+v", groups)
	}
	if groups[0].ValorTotal != 200 {
		t.Errorf("expected Centro total 200, got %v", groups[0].ValorTotal)
	}
}

func TestSortStability_TiesKeepFirstSeenOrder(t *testing.T) {
	groups := []domain.GroupAggregate{
		{Key: "Zeta", ValorTotal: 100},
		{Key: "Alfa", ValorTotal: 100},
		{Key: "Meio", ValorTotal: 300},
	}
	sorted := pipeline.SortByValorTotal(groups)

	want := []string{"Meio", "Zeta", "Alfa"}
	for i, g := range sorted {
		if g.Key != want[i] {
			t.Fatalf("expected order %v, got %q at %d", want, g.Key, i)
		}
	}
	// The input slice itself stays untouched.
	if groups[0].Key != "Zeta" {
		t.Errorf("input was mutated: %+v", groups)
	}
}

func TestTop_Truncates(t *testing.T) {
	groups := make([]domain.GroupAggregate, 30)
	for i := range groups {
		groups[i].Key = fmt.Sprintf("g%d", i)
	}
	if got := len(pipeline.Top(groups, pipeline.TopRevendedorasN)); got != 20 {
		t.Errorf("expected 20 groups, got %d", got)
	}
	if got := len(pipeline.Top(groups[:3], pipeline.TopRevendedorasN)); got != 3 {
		t.Errorf("expected short input untouched, got %d", got)
	}
}

func TestBuildProductsSnapshot(t *testing.T) {
	catalog := sampleCatalog()
	purchases := []domain.PurchaseSeed{
		{Buyer: "Ana", ProductRef: "1"},
		{Buyer: "Ana", ProductRef: "2"},
		{Buyer: "Bia", ProductRef: "2"},
		{Buyer: "Bia", ProductRef: "999"},
	}
	snap, unmatched := pipeline.BuildProductsSnapshot(catalog, purchases)

	if unmatched != 1 {
		t.Errorf("expected 1 unmatched purchase, got %d", unmatched)
	}
	if snap.TotalSales != 3 || snap.TotalRevenue != 250 {
		t.Errorf("unexpected totals: vendas=%d receita=%v", snap.TotalSales, snap.TotalRevenue)
	}
	if snap.TotalProducts != 3 || snap.TotalBuyers != 2 {
		t.Errorf("unexpected counts: produtos=%d compradores=%d", snap.TotalProducts, snap.TotalBuyers)
	}
	if snap.TopProducts[0].ID != "2" {
		t.Errorf("expected product 2 ranked first by sales, got %q", snap.TopProducts[0].ID)
	}
	if snap.CategoryStats[0].Key != "Perfumaria" || snap.CategoryStats[0].ValorTotal != 240 {
		t.Errorf("expected Perfumaria leading category stats, got %+v", snap.CategoryStats[0])
	}

	// Categories follow catalog first-seen order, not the revenue ranking.
	wantCats := []string{"Maquiagem", "Perfumaria", "Cabelos"}
	if !reflect.DeepEqual(snap.Categories, wantCats) {
		t.Errorf("expected categories %v, got %v", wantCats, snap.Categories)
	}
}

func TestBuildProductsSnapshot_Idempotent(t *testing.T) {
	catalog := sampleCatalog()
	purchases := []domain.PurchaseSeed{
		{Buyer: "Ana", ProductRef: "1"},
		{Buyer: "Bia", ProductRef: "3"},
	}
	first, _ := pipeline.BuildProductsSnapshot(catalog, purchases)
	second, _ := pipeline.BuildProductsSnapshot(catalog, purchases)

	if !reflect.DeepEqual(first, second) {
		t.Error("recomputing over the same inputs produced a different snapshot")
	}
}

func TestBuildLedgerSnapshot(t *testing.T) {
	snap := pipeline.BuildLedgerSnapshot(sampleLedger())

	if snap.TotalTransacoes != 3 || snap.TotalValor != 700 || snap.TotalItens != 14 {
		t.Errorf("unexpected totals: %+v", snap)
	}
	if snap.TotalRevendedoras != 2 {
		t.Errorf("expected 2 distinct resellers, got %d", snap.TotalRevendedoras)
	}

	// Every grouping dimension conserves the grand total.
	for name, groups := range map[string][]domain.GroupAggregate{
		"unidade":     snap.PorUnidade,
		"setor":       snap.PorSetor,
		"tipo":        snap.PorTipo,
		"revendedora": snap.PorRevendedora,
		"produto":     snap.PorProduto,
	} {
		var sum float64
		for _, g := range groups {
			sum += g.ValorTotal
		}
		if math.Abs(sum-snap.TotalValor) > 1e-9 {
			t.Errorf("dimension %s sums to %v, want %v", name, sum, snap.TotalValor)
		}
	}

	if snap.TopRevendedoras[0].Key != "78 - Joana" {
		t.Errorf("expected Joana ranked first by value, got %q", snap.TopRevendedoras[0].Key)
	}
	if snap.TopProdutos[0].Key != "Perfume" || snap.TopProdutos[0].ValorTotal != 550 {
		t.Errorf("unexpected top product: %+v", snap.TopProdutos[0])
	}

	// Dropdown lists keep first-seen order.
	if !reflect.DeepEqual(snap.Tipos, []string{"Revenda", "Brinde"}) {
		t.Errorf("unexpected tipo list: %v", snap.Tipos)
	}
	if !reflect.DeepEqual(snap.Unidades, []string{"04", "05"}) {
		t.Errorf("unexpected unidade list: %v", snap.Unidades)
	}
}

func TestBuildLedgerSnapshot_NestedRankingUsesItemCount(t *testing.T) {
	rows := []domain.LedgerRow{
		{Revendedora: "77 - Maria", Produto: "Caro", Tipo: "Revenda", Itens: 1, ValorTotal: 1000},
		{Revendedora: "77 - Maria", Produto: "Volume", Tipo: "Revenda", Itens: 50, ValorTotal: 10},
	}
	snap := pipeline.BuildLedgerSnapshot(rows)

	if len(snap.TopPorRevenda) != 1 {
		t.Fatalf("expected one reseller block, got %d", len(snap.TopPorRevenda))
	}
	block := snap.TopPorRevenda[0]
	if block.Revendedora != "77 - Maria" || block.ValorTotal != 1010 {
		t.Errorf("unexpected reseller block: %+v", block)
	}
	// The outer ranking is by value; the nested one is by item quantity.
	if block.Produtos[0].Key != "Volume" {
		t.Errorf("expected item-count ranking inside the block, got %q first", block.Produtos[0].Key)
	}
}
