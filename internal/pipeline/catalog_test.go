package pipeline_test

import (
	"math"
	"testing"

	"github.com/lucasvilela/vendalytics/internal/domain"
	"github.com/lucasvilela/vendalytics/internal/pipeline"
)

func sampleCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{ID: "1", Name: "Batom", Price: 10, Category: "Maquiagem"},
		{ID: "2", Name: "Perfume", Price: 120, Category: "Perfumaria"},
		{ID: "3", Name: "Shampoo", Price: 25, Category: "Cabelos"},
	}
}

func TestJoin_AccumulatesOnBothSides(t *testing.T) {
	purchases := []domain.PurchaseSeed{
		{Buyer: "Ana", ProductRef: "1"},
		{Buyer: "Ana", ProductRef: "2"},
		{Buyer: "Bia", ProductRef: "1"},
	}
	res := pipeline.Join(purchases, pipeline.BuildIndex(sampleCatalog()))

	if res.Unmatched != 0 {
		t.Fatalf("expected no misses, got %d", res.Unmatched)
	}
	if res.Products[0].Sales != 2 || res.Products[0].Revenue != 20 {
		t.Errorf("unexpected product 1 accumulation: %+v", res.Products[0])
	}
	if res.Products[1].Sales != 1 || res.Products[1].Revenue != 120 {
		t.Errorf("unexpected product 2 accumulation: %+v", res.Products[1])
	}

	if len(res.Buyers) != 2 {
		t.Fatalf("expected 2 buyers, got %d", len(res.Buyers))
	}
	ana := res.Buyers[0]
	if ana.Name != "Ana" || ana.Purchases != 2 || ana.TotalSpent != 130 {
		t.Errorf("unexpected buyer aggregation: %+v", ana)
	}
	if got := ana.TicketMedio(); got != 65 {
		t.Errorf("expected average ticket 65, got %v", got)
	}
}

func TestJoin_MissIsInvisible(t *testing.T) {
	purchases := []domain.PurchaseSeed{
		{Buyer: "Ana", ProductRef: "999"},
		{Buyer: "Ana", ProductRef: "Inexistente"},
	}
	res := pipeline.Join(purchases, pipeline.BuildIndex(sampleCatalog()))

	if res.Unmatched != 2 {
		t.Errorf("expected 2 unmatched rows, got %d", res.Unmatched)
	}
	// A miss creates nothing, not even the buyer record.
	if len(res.Buyers) != 0 {
		t.Errorf("expected no buyers from unmatched rows, got %d", len(res.Buyers))
	}
	for _, p := range res.Products {
		if p.Sales != 0 || p.Revenue != 0 {
			t.Errorf("expected untouched counters, got %+v", p)
		}
	}
}

func TestLookup_NameFallbackCaseInsensitiveExact(t *testing.T) {
	ix := pipeline.BuildIndex(sampleCatalog())

	res := pipeline.Join([]domain.PurchaseSeed{
		{Buyer: "Ana", ProductRef: "PERFUME"},
		{Buyer: "Ana", ProductRef: "Perf"},
	}, ix)

	if res.Products[1].Sales != 1 {
		t.Errorf("expected case-insensitive exact name match, got %+v", res.Products[1])
	}
	if res.Unmatched != 1 {
		t.Errorf("expected partial name to miss, got %d unmatched", res.Unmatched)
	}
}

func TestBuildIndex_DuplicateIDKeepsPositionTakesLastValues(t *testing.T) {
	catalog := []domain.CatalogEntry{
		{ID: "1", Name: "Batom Antigo", Price: 10},
		{ID: "2", Name: "Perfume", Price: 120},
		{ID: "1", Name: "Batom Novo", Price: 15},
	}
	res := pipeline.Join([]domain.PurchaseSeed{{Buyer: "Ana", ProductRef: "1"}}, pipeline.BuildIndex(catalog))

	if len(res.Products) != 2 {
		t.Fatalf("expected duplicate id collapsed, got %d entries", len(res.Products))
	}
	// The later row wins entirely but keeps the first row's position.
	if res.Products[0].Name != "Batom Novo" || res.Products[0].Price != 15 {
		t.Errorf("expected last-loaded values in original position, got %+v", res.Products[0])
	}
	if res.Products[0].Revenue != 15 {
		t.Errorf("expected purchase priced against the surviving entry, got %v", res.Products[0].Revenue)
	}
}

func TestJoin_RevenueMatchesSpend(t *testing.T) {
	purchases := []domain.PurchaseSeed{
		{Buyer: "Ana", ProductRef: "1"},
		{Buyer: "Bia", ProductRef: "2"},
		{Buyer: "Bia", ProductRef: "3"},
		{Buyer: "Caio", ProductRef: "2"},
		{Buyer: "Ana", ProductRef: "perdido"},
	}
	res := pipeline.Join(purchases, pipeline.BuildIndex(sampleCatalog()))

	var revenue, spent float64
	var sales, bought int
	for _, p := range res.Products {
		revenue += p.Revenue
		sales += p.Sales
	}
	for _, b := range res.Buyers {
		spent += b.TotalSpent
		bought += b.Purchases
	}
	if math.Abs(revenue-spent) > 1e-9 {
		t.Errorf("revenue %v diverges from buyer spend %v", revenue, spent)
	}
	if sales != bought {
		t.Errorf("sales %d diverges from buyer purchases %d", sales, bought)
	}
	if sales+res.Unmatched != len(purchases) {
		t.Errorf("matched %d + unmatched %d does not cover %d rows", sales, res.Unmatched, len(purchases))
	}
}

func TestJoin_BuyersKeepFirstMatchedOrder(t *testing.T) {
	purchases := []domain.PurchaseSeed{
		{Buyer: "Caio", ProductRef: "1"},
		{Buyer: "Ana", ProductRef: "1"},
		{Buyer: "Bia", ProductRef: "1"},
	}
	res := pipeline.Join(purchases, pipeline.BuildIndex(sampleCatalog()))

	want := []string{"Caio", "Ana", "Bia"}
	for i, b := range res.Buyers {
		if b.Name != want[i] {
			t.Fatalf("expected first-matched order %v, got %q at %d", want, b.Name, i)
		}
	}
}
