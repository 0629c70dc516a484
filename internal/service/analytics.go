// Package service orchestrates the two analytics pipelines over an
// immutable PipelineState. Uploads are the only writers; every analytics
// read is a pure function of a state value, memoized per state version.
package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lucasvilela/vendalytics/internal/domain"
	"github.com/lucasvilela/vendalytics/internal/infra/cache"
	"github.com/lucasvilela/vendalytics/internal/infra/observability"
	"github.com/lucasvilela/vendalytics/internal/pipeline"
	"github.com/lucasvilela/vendalytics/internal/port"
	"github.com/lucasvilela/vendalytics/internal/resolver"
)

var tracer = otel.Tracer("service")

// Analytics owns the pipeline state and serves snapshots, filtered views
// and exports. All methods are safe for concurrent use; state transitions
// happen under a single mutex and replace the state value wholesale.
type Analytics struct {
	mu    sync.Mutex
	state domain.PipelineState

	decoder port.SheetDecoder
	encoder port.SheetEncoder
	aliases *resolver.Config

	prodCache   *cache.InMemory[*domain.ProductsSnapshot]
	ledgerCache *cache.InMemory[*domain.LedgerSnapshot]

	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAnalytics wires the service with its collaborators.
func NewAnalytics(
	decoder port.SheetDecoder,
	encoder port.SheetEncoder,
	aliases *resolver.Config,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Analytics {
	return &Analytics{
		decoder:     decoder,
		encoder:     encoder,
		aliases:     aliases,
		prodCache:   cache.New[*domain.ProductsSnapshot](cacheTTL),
		ledgerCache: cache.New[*domain.LedgerSnapshot](cacheTTL),
		metrics:     metrics,
		logger:      logger,
	}
}

// Upload processes one file into the named slot. The extension gate runs
// before any decode; a failure at any step leaves every slot untouched and
// surfaces a typed error for this upload only.
func (a *Analytics) Upload(ctx context.Context, slot string, r io.Reader, filename string) (*domain.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "Analytics.Upload")
	defer span.End()
	span.SetAttributes(attribute.String("upload.slot", slot), attribute.String("upload.filename", filename))

	result, err := a.upload(ctx, slot, r, filename)
	if err != nil {
		a.metrics.IncrUpload(slot, "rejected")
		a.logger.Warn("upload rejected",
			zap.String("slot", slot),
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}
	a.metrics.IncrUpload(slot, "accepted")
	a.logger.Info("upload accepted",
		zap.String("slot", slot),
		zap.String("filename", filename),
		zap.String("batch_id", result.BatchID),
		zap.Int("rows", result.Rows),
	)
	return result, nil
}

func (a *Analytics) upload(ctx context.Context, slot string, r io.Reader, filename string) (*domain.UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".xlsx" && ext != ".xls" {
		return nil, &domain.ErrUnsupportedFileType{Ext: ext}
	}

	table, err := a.decoder.Decode(r, filename)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, &domain.ErrEmptyFile{}
	}

	a.mu.Lock()
	next := a.state
	switch slot {
	case domain.SlotProducts:
		if err := pipeline.ValidateCatalog(table, a.aliases.Catalog); err != nil {
			a.mu.Unlock()
			return nil, err
		}
		next = next.WithCatalog(pipeline.NormalizeCatalog(table, a.aliases.Catalog))
	case domain.SlotBuyers:
		if err := pipeline.ValidateBuyers(table, a.aliases.Buyers); err != nil {
			a.mu.Unlock()
			return nil, err
		}
		next = next.WithPurchases(pipeline.NormalizePurchases(table, a.aliases.Buyers))
	case domain.SlotLedger:
		next = next.WithLedger(pipeline.NormalizeLedger(table, a.aliases.Ledger))
	default:
		a.mu.Unlock()
		return nil, &domain.ErrValidation{Field: "slot", Message: "unknown upload slot: " + slot}
	}
	a.state = next
	a.mu.Unlock()

	a.recompute(ctx, next)

	return &domain.UploadResult{
		BatchID: uuid.New().String(),
		Slot:    slot,
		Rows:    len(table.Rows),
	}, nil
}

// Reset discards every loaded table and all derived state.
func (a *Analytics) Reset(ctx context.Context) {
	_, span := tracer.Start(ctx, "Analytics.Reset")
	defer span.End()

	a.mu.Lock()
	a.state = a.state.Reset()
	a.mu.Unlock()
	a.logger.Info("pipeline state reset")
}

func (a *Analytics) current() domain.PipelineState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// recompute warms both pipeline snapshots for a new state version. The two
// pipelines share nothing, so they run concurrently.
func (a *Analytics) recompute(ctx context.Context, state domain.PipelineState) {
	g, _ := errgroup.WithContext(ctx)
	if state.ProductsReady() {
		g.Go(func() error {
			a.productsSnapshot(state)
			return nil
		})
	}
	if state.HasLedger {
		g.Go(func() error {
			a.ledgerSnapshot(state)
			return nil
		})
	}
	_ = g.Wait()
}

func (a *Analytics) productsSnapshot(state domain.PipelineState) *domain.ProductsSnapshot {
	key := fmt.Sprintf("products:v%d", state.Version)
	if snap, ok := a.prodCache.Get(key); ok {
		a.metrics.IncrCacheHit("products")
		return snap
	}
	a.metrics.IncrCacheMiss("products")

	start := time.Now()
	snap, unmatched := pipeline.BuildProductsSnapshot(state.Catalog, state.Purchases)
	a.metrics.RecordRecompute("products", time.Since(start))
	a.metrics.AddUnmatched(unmatched)
	if unmatched > 0 {
		a.logger.Debug("purchases without catalog match", zap.Int("count", unmatched))
	}

	a.prodCache.Set(key, snap)
	return snap
}

func (a *Analytics) ledgerSnapshot(state domain.PipelineState) *domain.LedgerSnapshot {
	key := fmt.Sprintf("ledger:v%d", state.Version)
	if snap, ok := a.ledgerCache.Get(key); ok {
		a.metrics.IncrCacheHit("ledger")
		return snap
	}
	a.metrics.IncrCacheMiss("ledger")

	start := time.Now()
	snap := pipeline.BuildLedgerSnapshot(state.LedgerRows)
	a.metrics.RecordRecompute("ledger", time.Since(start))

	a.ledgerCache.Set(key, snap)
	return snap
}

// ProductsSummary returns the products+buyers snapshot. Both tables must be
// loaded; until then the pipeline has no output at all.
func (a *Analytics) ProductsSummary(ctx context.Context) (*domain.ProductsSnapshot, error) {
	_, span := tracer.Start(ctx, "Analytics.ProductsSummary")
	defer span.End()

	state := a.current()
	if !state.ProductsReady() {
		return nil, &domain.ErrTableNotLoaded{Pipeline: "produtos e compradores"}
	}
	return a.productsSnapshot(state), nil
}

// Products returns the filtered product rows and the filtered total.
func (a *Analytics) Products(ctx context.Context, f pipeline.ProductFilter) ([]domain.CatalogEntry, int, error) {
	ctx, span := tracer.Start(ctx, "Analytics.Products")
	defer span.End()

	snap, err := a.ProductsSummary(ctx)
	if err != nil {
		return nil, 0, err
	}
	filtered := pipeline.FilterProducts(snap.AllProducts, f)
	return filtered, len(filtered), nil
}

// Buyers returns every buyer aggregate in first-seen order.
func (a *Analytics) Buyers(ctx context.Context) ([]domain.BuyerStats, error) {
	ctx, span := tracer.Start(ctx, "Analytics.Buyers")
	defer span.End()

	snap, err := a.ProductsSummary(ctx)
	if err != nil {
		return nil, err
	}
	return snap.AllBuyers, nil
}

// Ledger returns the ledger snapshot; the ledger table must be loaded.
func (a *Analytics) Ledger(ctx context.Context) (*domain.LedgerSnapshot, error) {
	_, span := tracer.Start(ctx, "Analytics.Ledger")
	defer span.End()

	state := a.current()
	if !state.HasLedger {
		return nil, &domain.ErrTableNotLoaded{Pipeline: "vendas consolidadas"}
	}
	return a.ledgerSnapshot(state), nil
}

// LedgerRows returns the filtered ledger rows and the filtered total.
func (a *Analytics) LedgerRows(ctx context.Context, f pipeline.LedgerFilter) ([]domain.LedgerRow, int, error) {
	_, span := tracer.Start(ctx, "Analytics.LedgerRows")
	defer span.End()

	state := a.current()
	if !state.HasLedger {
		return nil, 0, &domain.ErrTableNotLoaded{Pipeline: "vendas consolidadas"}
	}
	filtered := pipeline.FilterLedger(state.LedgerRows, f)
	return filtered, len(filtered), nil
}

// PipelineMetrics returns the counter snapshot for the metrics endpoint.
func (a *Analytics) PipelineMetrics() *domain.PipelineMetrics {
	return a.metrics.GetPipelineSnapshot()
}
