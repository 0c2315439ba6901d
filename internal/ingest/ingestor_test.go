package ingest

import (
	"context"
	"testing"
	"time"

	"brandpulse/internal/cache"
	"brandpulse/internal/common/logger"
	"brandpulse/internal/scores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestIngestor(t *testing.T) (*Ingestor, cache.Store) {
	store := cache.NewMemoryStore(time.Hour, logger.NewTestLogger(t))
	return NewIngestor(store, logger.NewTestLogger(t)), store
}

func calculatedField(label string, value float64) Field {
	return Field{Key: "calc_" + label, Label: label, Type: FieldTypeCalculated, Value: value}
}

func createPayload(responseID, submissionID, respondentID, eventID string, fields ...Field) *WebhookPayload {
	return &WebhookPayload{
		EventID: eventID,
		Data: PayloadData{
			ResponseID:   responseID,
			SubmissionID: submissionID,
			RespondentID: respondentID,
			Fields:       fields,
		},
	}
}

// ==========================
// Canonical ID Tests
// ==========================

func TestIngestor_CanonicalID(t *testing.T) {
	ing, _ := createTestIngestor(t)

	tests := []struct {
		name     string
		payload  *WebhookPayload
		expected string
	}{
		{
			name:     "response id wins",
			payload:  createPayload("r1", "s1", "p1", "e1"),
			expected: "r1",
		},
		{
			name:     "submission id next",
			payload:  createPayload("", "s1", "p1", "e1"),
			expected: "s1",
		},
		{
			name:     "event id next",
			payload:  createPayload("", "", "p1", "e1"),
			expected: "e1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ing.CanonicalID(tt.payload))
		})
	}
}

func TestIngestor_CanonicalID_GeneratedFallback(t *testing.T) {
	ing, _ := createTestIngestor(t)
	fixed := time.UnixMilli(1700000000000)
	ing.now = func() time.Time { return fixed }

	// Respondent id alone never becomes canonical; the generated fallback does.
	id := ing.CanonicalID(createPayload("", "", "p1", ""))
	assert.Equal(t, "1700000000000", id)
}

// ==========================
// Ingestion Tests
// ==========================

func TestIngestor_Ingest(t *testing.T) {
	ing, store := createTestIngestor(t)
	ctx := context.Background()

	payload := createPayload("r1", "s1", "p1", "e1",
		Field{Key: "q_nombre", Label: "Nombre", Type: "INPUT_TEXT", Value: "Ana"},
		calculatedField("Calidad y eficiencia (70%)", 66),
		calculatedField("Calidad y eficiencia (30%)", 100),
		calculatedField("Relevancia (70%)", 100),
		calculatedField("Relevancia (30%)", 33),
	)

	result, err := ing.Ingest(ctx, payload)
	require.NoError(t, err)

	assert.Equal(t, "r1", result.SubmissionID)
	assert.Equal(t, "Ana", result.Nombre)
	assert.Equal(t, 76, result.Scores.Calidad) // round(0.7*66 + 0.3*100)
	assert.Equal(t, 80, result.Scores.Relevancia) // round(0.7*100 + 0.3*33)
	assert.Equal(t, 0, result.Scores.Identidad)

	// Every identifier variant resolves to the same result.
	for _, alias := range []string{"r1", "s1", "p1", "e1"} {
		got, ok, err := store.Get(ctx, alias)
		require.NoError(t, err)
		require.True(t, ok, "alias %s", alias)
		assert.Equal(t, result.Scores, got.Scores)
	}
}

func TestIngestor_Ingest_DefaultName(t *testing.T) {
	ing, _ := createTestIngestor(t)

	result, err := ing.Ingest(context.Background(), createPayload("r1", "", "", ""))
	require.NoError(t, err)
	assert.Equal(t, "Usuario", result.Nombre)
}

func TestIngestor_Ingest_MissingScoresDefaultToZero(t *testing.T) {
	ing, _ := createTestIngestor(t)

	result, err := ing.Ingest(context.Background(), createPayload("r1", "", "", "",
		calculatedField("Identidad (70%)", 66),
	))
	require.NoError(t, err)

	assert.Equal(t, 46, result.Scores.Identidad) // 30% sub-score missing
	assert.Equal(t, scores.ScoreVector{Identidad: 46}, result.Scores)
}

func TestIngestor_Ingest_IgnoresNonCalculatedFields(t *testing.T) {
	ing, _ := createTestIngestor(t)

	result, err := ing.Ingest(context.Background(), createPayload("r1", "", "", "",
		Field{Label: "Calidad y eficiencia (70%)", Type: "INPUT_NUMBER", Value: float64(100)},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scores.Calidad)
}

func TestIngestor_Ingest_Redelivery(t *testing.T) {
	ing, store := createTestIngestor(t)
	ctx := context.Background()

	first := createPayload("r1", "", "", "", calculatedField("Relevancia (70%)", 33))
	second := createPayload("r1", "", "", "", calculatedField("Relevancia (70%)", 100))

	_, err := ing.Ingest(ctx, first)
	require.NoError(t, err)
	_, err = ing.Ingest(ctx, second)
	require.NoError(t, err)

	got, ok, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 70, got.Scores.Relevancia)
}

// ==========================
// Alias Set Tests
// ==========================

func TestAliasSet(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		secondary []string
		expected  []string
	}{
		{
			name:      "filters empty identifiers",
			primary:   "r1",
			secondary: []string{"", "s1", ""},
			expected:  []string{"r1", "s1"},
		},
		{
			name:      "collapses duplicates within one event",
			primary:   "r1",
			secondary: []string{"r1", "s1", "s1"},
			expected:  []string{"r1", "s1"},
		},
		{
			name:      "primary only",
			primary:   "r1",
			secondary: nil,
			expected:  []string{"r1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AliasSet(tt.primary, tt.secondary...))
		})
	}
}

// ==========================
// Payload Validation Tests
// ==========================

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid payload",
			body: `{"eventId":"e1","data":{"responseId":"r1","fields":[{"key":"k","label":"Nombre","type":"INPUT_TEXT","value":"Ana"}]}}`,
		},
		{
			name:    "missing data",
			body:    `{"eventId":"e1"}`,
			wantErr: true,
		},
		{
			name:    "missing field list",
			body:    `{"eventId":"e1","data":{"responseId":"r1"}}`,
			wantErr: true,
		},
		{
			name:    "fields not an array",
			body:    `{"data":{"fields":{}}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
