package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lucasvilela/vendalytics/internal/domain"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses. All upload-slot
// errors are recoverable 4xx with the fixed Portuguese messages; they are
// logged at Debug because a bad upload is a user condition, not a system
// failure.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var emptyFile *domain.ErrEmptyFile
	var missingColumns *domain.ErrMissingColumns
	var unsupportedType *domain.ErrUnsupportedFileType
	var decodeFailure *domain.ErrDecodeFailure
	var notLoaded *domain.ErrTableNotLoaded
	var validation *domain.ErrValidation

	switch {
	case errors.As(err, &emptyFile):
		logger.Debug("empty file upload")
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &missingColumns):
		logger.Debug("missing required columns", zap.String("slot", missingColumns.Slot))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unsupportedType):
		logger.Debug("unsupported file type", zap.String("ext", unsupportedType.Ext))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &decodeFailure):
		logger.Debug("decode failure", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notLoaded):
		logger.Debug("pipeline tables not loaded", zap.String("pipeline", notLoaded.Pipeline))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
