// internal/api/averages/handler.go
package averages

import (
	"errors"
	"net/http"
	"time"

	"brandpulse/internal/api"
	"brandpulse/internal/average"
	"brandpulse/internal/common/logger"
)

// Handler serves the cross-respondent average, recomputed per request.
type Handler struct {
	averager *average.Averager
	logger   logger.Logger
}

func NewHandler(avg *average.Averager, log logger.Logger) *Handler {
	return &Handler{
		averager: avg,
		logger:   log.WithFields(map[string]interface{}{"handler": "averages"}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	snapshot, err := h.averager.Compute(r.Context())
	if err != nil {
		if errors.Is(err, average.ErrNoData) {
			api.WriteJSON(w, http.StatusOK, Response{
				Success:   true,
				Total:     0,
				Averages:  nil,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		h.logger.WithError(err).Error("average computation failed", nil)
		api.WriteError(w, http.StatusInternalServerError,
			"Error fetching record store data", err.Error())
		return
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Success:   true,
		Total:     snapshot.Total,
		Averages:  &snapshot.Scores,
		Timestamp: snapshot.ComputedAt.Format(time.RFC3339),
	})
}
