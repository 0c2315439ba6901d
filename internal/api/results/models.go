// internal/api/results/models.go
package results

import (
	"brandpulse/internal/cache"
	"brandpulse/internal/scores"
)

// Response is the single-respondent read contract.
type Response struct {
	Success      bool               `json:"success"`
	SubmissionID string             `json:"submission_id"`
	Nombre       string             `json:"nombre"`
	Scores       scores.ScoreVector `json:"scores"`
	Timestamp    int64              `json:"timestamp"`
}

// DebugResponse returns cache diagnostics instead of a result.
type DebugResponse struct {
	Success bool         `json:"success"`
	Debug   bool         `json:"debug"`
	Cache   *cache.Stats `json:"cache"`
}
