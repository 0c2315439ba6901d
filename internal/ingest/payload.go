// Package ingest turns webhook submission events from the survey platform
// into cached score results.
package ingest

import (
	"strconv"
	"strings"

	"brandpulse/internal/scores"
)

// Webhook payload shapes as the survey platform delivers them. The platform
// sends several identifier variants per submission; all of them become cache
// aliases for the same result.
type WebhookPayload struct {
	EventID   string      `json:"eventId"`
	EventType string      `json:"eventType,omitempty"`
	CreatedAt string      `json:"createdAt,omitempty"`
	Data      PayloadData `json:"data"`
}

type PayloadData struct {
	ResponseID   string  `json:"responseId"`
	SubmissionID string  `json:"submissionId"`
	RespondentID string  `json:"respondentId"`
	FormID       string  `json:"formId,omitempty"`
	FormName     string  `json:"formName,omitempty"`
	Fields       []Field `json:"fields"`
}

type Field struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// FieldTypeCalculated marks the fields carrying the pre-bucketed per-pillar
// sub-scores, labeled "<pillar> (70%)" or "<pillar> (30%)".
const FieldTypeCalculated = "CALCULATED_FIELDS"

const (
	labelNombre     = "Nombre"
	suffixPrimary   = "(70%)"
	suffixSecondary = "(30%)"

	defaultNombre = "Usuario"
)

// Number coerces the field value to a float, defaulting to 0 for anything
// that is not numeric.
func (f Field) Number() float64 {
	switch v := f.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return 0
}

// Text returns the field value as a string, or empty for non-string values.
func (f Field) Text() string {
	if s, ok := f.Value.(string); ok {
		return s
	}
	return ""
}

// displayName extracts the respondent's name from the field list.
func displayName(fields []Field) string {
	for _, f := range fields {
		if f.Label == labelNombre {
			if name := f.Text(); name != "" {
				return name
			}
		}
	}
	return defaultNombre
}

// extractRawScores routes each calculated field to its pillar by label
// substring and to the 70% or 30% slot by label suffix. Fields that match no
// pillar are ignored; pillars with no field stay at zero.
func extractRawScores(fields []Field) map[string]scores.RawScores {
	raw := make(map[string]scores.RawScores, len(scores.Pillars))

	for _, f := range fields {
		if f.Type != FieldTypeCalculated {
			continue
		}
		for _, pillar := range scores.Pillars {
			if !strings.Contains(f.Label, pillar) {
				continue
			}
			rs := raw[pillar]
			if strings.Contains(f.Label, suffixPrimary) {
				rs.Q70 = f.Number()
			} else if strings.Contains(f.Label, suffixSecondary) {
				rs.Q30 = f.Number()
			}
			raw[pillar] = rs
			break
		}
	}
	return raw
}
