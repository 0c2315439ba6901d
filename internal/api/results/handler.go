// internal/api/results/handler.go
package results

import (
	"net/http"

	"brandpulse/internal/api"
	"brandpulse/internal/cache"
	apperrors "brandpulse/internal/common/errors"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/resolver"
)

const retryLaterMessage = "Results can take a few seconds to process. Please wait a moment and try again."

// Handler serves single-respondent reads through the fallback resolver.
type Handler struct {
	resolver *resolver.Resolver
	store    cache.Store
	logger   logger.Logger
}

func NewHandler(res *resolver.Resolver, store cache.Store, log logger.Logger) *Handler {
	return &Handler{
		resolver: res,
		store:    store,
		logger:   log.WithFields(map[string]interface{}{"handler": "results"}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	// Identifier validation happens before any cache or upstream access.
	submissionID := r.URL.Query().Get("submission_id")
	if submissionID == "" {
		err := apperrors.NewMissingIdentifierError()
		api.WriteError(w, apperrors.HTTPStatus(err.Code), err.Message, "")
		return
	}

	if r.URL.Query().Get("debug") == "true" {
		h.handleDebug(w, r)
		return
	}

	result, err := h.resolver.Resolve(r.Context(), submissionID)
	if err != nil {
		h.writeResolveError(w, submissionID, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Success:      true,
		SubmissionID: result.SubmissionID,
		Nombre:       result.Nombre,
		Scores:       result.Scores,
		Timestamp:    result.Timestamp,
	})
}

func (h *Handler) handleDebug(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "Error reading cache stats", err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, DebugResponse{Success: true, Debug: true, Cache: stats})
}

func (h *Handler) writeResolveError(w http.ResponseWriter, submissionID string, err error) {
	code := apperrors.Code(err)
	status := apperrors.HTTPStatus(code)

	if code == apperrors.ErrCodeResultNotFound {
		h.logger.Info("result not found after fallback", map[string]interface{}{
			"submissionId": submissionID,
		})
		api.WriteError(w, status, "No results found", retryLaterMessage)
		return
	}

	h.logger.WithError(err).Error("result resolution failed", map[string]interface{}{
		"submissionId": submissionID,
	})
	api.WriteError(w, status, "Error retrieving results", err.Error())
}
