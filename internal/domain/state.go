package domain

// Slot names the three upload slots.
const (
	SlotProducts = "products"
	SlotBuyers   = "buyers"
	SlotLedger   = "ledger"
)

// PipelineState is the full loaded-data state of the system. It is immutable:
// every transition returns a new value with a bumped Version, which is what
// snapshot memoization keys on. Errors never make it in here; a failed
// upload leaves the previous state untouched.
type PipelineState struct {
	Version uint64

	Catalog     []CatalogEntry
	HasCatalog  bool
	Purchases   []PurchaseSeed
	HasBuyers   bool
	LedgerRows  []LedgerRow
	HasLedger   bool
}

// WithCatalog returns a new state with the catalog table replaced.
func (s PipelineState) WithCatalog(entries []CatalogEntry) PipelineState {
	s.Catalog = entries
	s.HasCatalog = true
	s.Version++
	return s
}

// WithPurchases returns a new state with the buyers table replaced.
func (s PipelineState) WithPurchases(seeds []PurchaseSeed) PipelineState {
	s.Purchases = seeds
	s.HasBuyers = true
	s.Version++
	return s
}

// WithLedger returns a new state with the ledger table replaced.
func (s PipelineState) WithLedger(rows []LedgerRow) PipelineState {
	s.LedgerRows = rows
	s.HasLedger = true
	s.Version++
	return s
}

// Reset returns an empty state, keeping the version monotonic so stale
// memoized snapshots can never be served again.
func (s PipelineState) Reset() PipelineState {
	return PipelineState{Version: s.Version + 1}
}

// ProductsReady reports whether the products+buyers pipeline has both its
// tables.
func (s PipelineState) ProductsReady() bool {
	return s.HasCatalog && s.HasBuyers
}
