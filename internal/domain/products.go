package domain

// RawTable is a decoded spreadsheet: the first row of the source file becomes
// Headers, everything after it becomes Rows. Cell values are kept as the raw
// strings the decoder produced; typing happens in the normalizer.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at column col for the given row, or "" when the row
// is shorter than the header row.
func (t *RawTable) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// CatalogEntry is one product from the catalog table. Sales and Revenue start
// at zero and are filled in by the reconciliation join; a fresh copy is built
// on every recompute, so they only ever grow within a single pass.
type CatalogEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"nome"`
	Price    float64 `json:"preco"`
	Category string  `json:"categoria"`
	Sales    int     `json:"vendas"`
	Revenue  float64 `json:"receita"`
}

// PurchaseSeed is one row of the buyers table: who bought, and a reference to
// a product by id or name.
type PurchaseSeed struct {
	Buyer      string `json:"comprador"`
	ProductRef string `json:"produto"`
}

// BuyerStats aggregates purchases per buyer display name. Two buyers with the
// same name collapse into one record.
type BuyerStats struct {
	Name       string  `json:"nome"`
	Purchases  int     `json:"compras"`
	TotalSpent float64 `json:"totalGasto"`
}

// TicketMedio is the average spend per purchase, 0 when there are none.
func (b BuyerStats) TicketMedio() float64 {
	if b.Purchases == 0 {
		return 0
	}
	return b.TotalSpent / float64(b.Purchases)
}

// GroupAggregate is one accumulator per distinct value of a grouping
// dimension. ValorTotal is the primary ranking value (revenue for the
// products pipeline, transaction value for the ledger pipeline); Quantidade
// counts contributing units (sales or transactions); Itens sums item
// quantities on the ledger path and stays 0 elsewhere.
type GroupAggregate struct {
	Key        string  `json:"chave"`
	ValorTotal float64 `json:"valorTotal"`
	Quantidade int     `json:"quantidade"`
	Itens      float64 `json:"itens"`
}

// ProductsSnapshot is the immutable analytics view of the products+buyers
// pipeline, recomputed in full whenever either table changes.
type ProductsSnapshot struct {
	TotalRevenue  float64          `json:"totalRevenue"`
	TotalSales    int              `json:"totalSales"`
	TotalProducts int              `json:"totalProducts"`
	TotalBuyers   int              `json:"totalBuyers"`
	TopProducts   []CatalogEntry   `json:"topProducts"`
	TopBuyers     []BuyerStats     `json:"topBuyers"`
	CategoryStats []GroupAggregate `json:"categoryStats"`
	Categories    []string         `json:"categories"`
	AllProducts   []CatalogEntry   `json:"allProducts"`
	AllBuyers     []BuyerStats     `json:"allBuyers"`
}
