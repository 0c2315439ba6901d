package api

import (
	"net/http"
	"time"

	"brandpulse/internal/common/logger"
	"brandpulse/internal/common/observability"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument wraps a handler with request-id propagation, request logging,
// and request metrics.
func Instrument(route string, log logger.Logger, obs *observability.Observability, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		obs.RecordRequest(r.Context(), route, http.StatusText(rec.status))
		obs.RecordRequestDuration(r.Context(), route, duration)

		log.Info("request handled", map[string]interface{}{
			"route":     route,
			"method":    r.Method,
			"status":    rec.status,
			"duration":  duration.String(),
			"requestId": requestID,
		})
	})
}
