package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lucasvilela/vendalytics/internal/service"
)

func uploadHandler(svc *service.Analytics, maxBytes int64, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/uploads/{slot}")
		defer span.End()

		slot := chi.URLParam(r, "slot")

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeError(w, http.StatusBadRequest, "arquivo ausente ou grande demais")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "campo 'file' obrigatório")
			return
		}
		defer file.Close()

		result, err := svc.Upload(ctx, slot, file, header.Filename)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func resetHandler(svc *service.Analytics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/uploads")
		defer span.End()

		svc.Reset(ctx)
		writeJSON(w, http.StatusOK, map[string]string{"message": "dados descartados"})
	}
}
