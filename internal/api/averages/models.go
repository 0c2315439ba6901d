// internal/api/averages/models.go
package averages

import "brandpulse/internal/scores"

// Response is the cross-respondent average contract. Averages is null when
// the record store holds no responses, so an empty store is never mistaken
// for a real all-zero average.
type Response struct {
	Success   bool                `json:"success"`
	Total     int                 `json:"total"`
	Averages  *scores.ScoreVector `json:"averages"`
	Timestamp string              `json:"timestamp"`
}
