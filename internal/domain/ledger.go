package domain

// LedgerRow is one self-contained row of the consolidated sales ledger. It
// needs no join: the reseller and product labels are composites built by the
// normalizer, the management unit is reduced to its digits, and Valor is the
// per-transaction total exactly as reported by the source (never multiplied
// by Itens). ValorTotal mirrors Valor; the source format is redundant and the
// redundancy is preserved.
type LedgerRow struct {
	Unidade     string  `json:"unidade"`
	Setor       string  `json:"setor"`
	Revendedora string  `json:"revendedora"`
	Produto     string  `json:"produto"`
	Tipo        string  `json:"tipo"`
	Itens       float64 `json:"itens"`
	Valor       float64 `json:"valor"`
	ValorTotal  float64 `json:"valorTotal"`
}

// ResellerTopProducts pairs a top-ranked reseller with its best-selling
// products ranked by item quantity.
type ResellerTopProducts struct {
	Revendedora string           `json:"revendedora"`
	ValorTotal  float64          `json:"valorTotal"`
	Produtos    []GroupAggregate `json:"produtos"`
}

// LedgerSnapshot is the immutable analytics view of the ledger pipeline.
type LedgerSnapshot struct {
	TotalValor        float64 `json:"valorTotal"`
	TotalTransacoes   int     `json:"totalTransacoes"`
	TotalItens        float64 `json:"totalItens"`
	TotalRevendedoras int     `json:"totalRevendedoras"`

	PorUnidade     []GroupAggregate `json:"porUnidade"`
	PorSetor       []GroupAggregate `json:"porSetor"`
	PorTipo        []GroupAggregate `json:"porTipo"`
	PorRevendedora []GroupAggregate `json:"porRevendedora"`
	PorProduto     []GroupAggregate `json:"porProduto"`

	TopRevendedoras []GroupAggregate      `json:"topRevendedoras"`
	TopProdutos     []GroupAggregate      `json:"topProdutos"`
	TopPorRevenda   []ResellerTopProducts `json:"topProdutosPorRevendedora"`

	// First-seen distinct values, for filter dropdowns.
	Tipos    []string `json:"tipos"`
	Unidades []string `json:"unidades"`
}
