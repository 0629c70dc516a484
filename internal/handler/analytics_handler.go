package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lucasvilela/vendalytics/internal/domain"
	"github.com/lucasvilela/vendalytics/internal/pipeline"
	"github.com/lucasvilela/vendalytics/internal/service"
)

func productFilterFrom(r *http.Request) pipeline.ProductFilter {
	q := r.URL.Query()
	return pipeline.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
}

func ledgerFilterFrom(r *http.Request) pipeline.LedgerFilter {
	q := r.URL.Query()
	return pipeline.LedgerFilter{
		Search:  q.Get("search"),
		Tipo:    q.Get("tipo"),
		Unidade: q.Get("unidade"),
	}
}

// filteredResponse carries the full filtered sequence plus its total, so the
// presentation layer can truncate and still report "showing 100 of N".
type filteredResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func summaryHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/summary")
		defer span.End()

		snap, err := svc.ProductsSummary(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func productsHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/products")
		defer span.End()

		items, total, err := svc.Products(ctx, productFilterFrom(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, filteredResponse[domain.CatalogEntry]{Items: items, Total: total})
	}
}

type buyerView struct {
	domain.BuyerStats
	TicketMedio float64 `json:"ticketMedio"`
}

func buyersHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/buyers")
		defer span.End()

		buyers, err := svc.Buyers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		views := make([]buyerView, len(buyers))
		for i, b := range buyers {
			views[i] = buyerView{BuyerStats: b, TicketMedio: b.TicketMedio()}
		}
		writeJSON(w, http.StatusOK, filteredResponse[buyerView]{Items: views, Total: len(views)})
	}
}

func ledgerHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/ledger")
		defer span.End()

		snap, err := svc.Ledger(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func ledgerRowsHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/ledger/rows")
		defer span.End()

		items, total, err := svc.LedgerRows(ctx, ledgerFilterFrom(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, filteredResponse[domain.LedgerRow]{Items: items, Total: total})
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeWorkbook(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func exportProductsHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/export")
		defer span.End()

		data, filename, err := svc.ExportProducts(ctx, productFilterFrom(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWorkbook(w, data, filename)
	}
}

func exportLedgerHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/ledger/export")
		defer span.End()

		data, filename, err := svc.ExportLedger(ctx, ledgerFilterFrom(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeWorkbook(w, data, filename)
	}
}

func pipelineMetricsHandler(svc *service.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.PipelineMetrics())
	}
}
