package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lucasvilela/vendalytics/internal/pipeline"
)

// Export field labels and numeric formatting are part of the contract with
// the spreadsheet consumer: currency fields always carry two decimals.
var (
	productExportHeaders = []string{"ID", "Nome", "Categoria", "Preço", "Vendas", "Receita Total"}
	ledgerExportHeaders  = []string{"Unidade Gerencial", "Setor", "Revendedora", "Produto", "Tipo", "Itens", "Valor Total"}
)

const (
	productExportSheet = "Análise de Vendas"
	productExportFile  = "analise_vendas.xlsx"
	ledgerExportSheet  = "Vendas Consolidadas"
	ledgerExportFile   = "vendas_consolidadas.xlsx"
)

// ExportProducts encodes the currently filtered products, not the whole
// catalog, as an xlsx download. Returns the bytes and the download name.
func (a *Analytics) ExportProducts(ctx context.Context, f pipeline.ProductFilter) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "Analytics.ExportProducts")
	defer span.End()

	filtered, _, err := a.Products(ctx, f)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			p.Category,
			fmt.Sprintf("%.2f", p.Price),
			strconv.Itoa(p.Sales),
			fmt.Sprintf("%.2f", p.Revenue),
		})
	}

	data, err := a.encoder.Encode(productExportSheet, productExportHeaders, rows)
	if err != nil {
		return nil, "", err
	}
	a.metrics.IncrExport("products")
	return data, productExportFile, nil
}

// ExportLedger encodes the currently filtered ledger rows as an xlsx
// download.
func (a *Analytics) ExportLedger(ctx context.Context, f pipeline.LedgerFilter) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "Analytics.ExportLedger")
	defer span.End()

	filtered, _, err := a.LedgerRows(ctx, f)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(filtered))
	for _, r := range filtered {
		rows = append(rows, []string{
			r.Unidade,
			r.Setor,
			r.Revendedora,
			r.Produto,
			r.Tipo,
			fmt.Sprintf("%g", r.Itens),
			fmt.Sprintf("%.2f", r.ValorTotal),
		})
	}

	data, err := a.encoder.Encode(ledgerExportSheet, ledgerExportHeaders, rows)
	if err != nil {
		return nil, "", err
	}
	a.metrics.IncrExport("ledger")
	return data, ledgerExportFile, nil
}
