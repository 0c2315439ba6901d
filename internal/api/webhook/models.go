// internal/api/webhook/models.go
package webhook

import "brandpulse/internal/scores"

// Response acknowledges a processed submission to the survey platform.
type Response struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	SubmissionID string             `json:"submission_id"`
	Nombre       string             `json:"nombre"`
	Scores       scores.ScoreVector `json:"scores"`
	Timestamp    string             `json:"timestamp"`
}

// Info describes the endpoint to anyone probing it with GET.
type Info struct {
	Message      string `json:"message"`
	Instructions string `json:"instructions"`
	Note         string `json:"note"`
}
