package resolver_test

import (
	"testing"

	"github.com/lucasvilela/vendalytics/internal/resolver"
)

func TestResolve_AliasPriorityBeatsHeaderOrder(t *testing.T) {
	// "codigo" appears before "id" in the headers, but "id" is the higher
	// priority alias, so the ID column must win.
	headers := []string{"Codigo Interno", "ID Produto"}
	got := resolver.Resolve(headers, []string{"id", "codigo"}, resolver.Options{})
	if got != 1 {
		t.Errorf("expected header index 1, got %d", got)
	}
}

func TestResolve_FirstHeaderWinsWithinAlias(t *testing.T) {
	headers := []string{"Nome Fantasia", "Nome Completo"}
	got := resolver.Resolve(headers, []string{"nome"}, resolver.Options{})
	if got != 0 {
		t.Errorf("expected first matching header (0), got %d", got)
	}
}

func TestResolve_CaseAndAccentInsensitive(t *testing.T) {
	headers := []string{"PREÇO UNITÁRIO"}
	got := resolver.Resolve(headers, []string{"preco"}, resolver.Options{})
	if got != 0 {
		t.Errorf("expected accent-folded match, got %d", got)
	}
}

func TestResolve_WhitespaceInsensitiveOnlyWhenStripping(t *testing.T) {
	headers := []string{"Unidade Gerencial"}

	if got := resolver.Resolve(headers, []string{"unidadegerencial"}, resolver.Options{StripSpace: true}); got != 0 {
		t.Errorf("expected space-stripped match, got %d", got)
	}
	if got := resolver.Resolve(headers, []string{"unidadegerencial"}, resolver.Options{}); got != -1 {
		t.Errorf("expected no match without stripping, got %d", got)
	}
}

func TestResolve_NoMatch(t *testing.T) {
	got := resolver.Resolve([]string{"Coluna A", "Coluna B"}, []string{"preco"}, resolver.Options{})
	if got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	headers := []string{"Produto", "Código", "Valor", "Categoria"}
	aliases := []string{"preco", "valor", "price"}
	first := resolver.Resolve(headers, aliases, resolver.Options{})
	for i := 0; i < 50; i++ {
		if got := resolver.Resolve(headers, aliases, resolver.Options{}); got != first {
			t.Fatalf("resolution not deterministic: run %d got %d, first got %d", i, got, first)
		}
	}
}

func TestFold(t *testing.T) {
	if got := resolver.Fold("Região 04", resolver.Options{}); got != "regiao 04" {
		t.Errorf("expected 'regiao 04', got %q", got)
	}
	if got := resolver.Fold("Região 04", resolver.Options{StripSpace: true}); got != "regiao04" {
		t.Errorf("expected 'regiao04', got %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := resolver.Default()

	for field, table := range map[string]resolver.Table{
		resolver.FieldID:        cfg.Catalog,
		resolver.FieldComprador: cfg.Buyers,
		resolver.FieldValor:     cfg.Ledger,
	} {
		if len(table.Aliases(field)) == 0 {
			t.Errorf("expected embedded aliases for field %q", field)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := resolver.Load("/nonexistent/aliases.yaml"); err == nil {
		t.Fatal("expected error for missing alias file")
	}
}
