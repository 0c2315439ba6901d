// internal/api/webhook/handler.go
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"brandpulse/internal/api"
	apperrors "brandpulse/internal/common/errors"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/metrics"
	"brandpulse/internal/ingest"
)

// The platform sends modest payloads; anything larger is not a survey event.
const maxBodyBytes = 1 << 20

// Handler receives submission events from the survey platform.
type Handler struct {
	ingestor *ingest.Ingestor
	logger   logger.Logger
}

func NewHandler(ingestor *ingest.Ingestor, log logger.Logger) *Handler {
	return &Handler{
		ingestor: ingestor,
		logger:   log.WithFields(map[string]interface{}{"handler": "webhook"}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleInfo(w)
	case http.MethodPost:
		h.handleEvent(w, r)
	default:
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) handleInfo(w http.ResponseWriter) {
	api.WriteJSON(w, http.StatusOK, Info{
		Message:      "Survey webhook endpoint",
		Instructions: "Send POST requests with survey form data. Scores are extracted from CALCULATED_FIELDS.",
		Note:         `Calculated field labels must carry the "(70%)" or "(30%)" weight suffix per pillar.`,
	})
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.failEvent(w, apperrors.NewMalformedPayloadError(err))
		return
	}

	if err := ingest.ValidatePayload(body); err != nil {
		h.failEvent(w, apperrors.NewMalformedPayloadError(err))
		return
	}

	var payload ingest.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.failEvent(w, apperrors.NewMalformedPayloadError(err))
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), &payload)
	if err != nil {
		h.logger.WithError(err).Error("ingestion failed", map[string]interface{}{
			"eventId": payload.EventID,
		})
		api.WriteError(w, http.StatusInternalServerError,
			"Error processing webhook", errorMessage(err))
		return
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Success:      true,
		Message:      "Submission processed and cached",
		SubmissionID: result.SubmissionID,
		Nombre:       result.Nombre,
		Scores:       result.Scores,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
}

// failEvent reports a malformed payload back to the sender. The sender is a
// trusted internal integration, so the parse error message is included.
func (h *Handler) failEvent(w http.ResponseWriter, err error) {
	metrics.WebhooksFailed.WithLabelValues("malformed").Inc()
	h.logger.WithError(err).Error("webhook payload rejected", nil)
	api.WriteError(w, http.StatusInternalServerError,
		"Error processing webhook", errorMessage(err))
}

func errorMessage(err error) string {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) && stdErr.Details != "" {
		return stdErr.Details
	}
	return err.Error()
}
