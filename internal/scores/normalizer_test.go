package scores

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeighted(t *testing.T) {
	tests := []struct {
		name     string
		q70      float64
		q30      float64
		expected int
	}{
		{
			name:     "example from the survey form",
			q70:      66,
			q30:      100,
			expected: 76, // round(46.2 + 30)
		},
		{
			name:     "both maximal",
			q70:      100,
			q30:      100,
			expected: 100,
		},
		{
			name:     "both zero",
			q70:      0,
			q30:      0,
			expected: 0,
		},
		{
			name:     "rounds half up",
			q70:      33,
			q30:      66,
			expected: 43, // 23.1 + 19.8 = 42.9
		},
		{
			name:     "low primary high secondary",
			q70:      0,
			q30:      100,
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Weighted(tt.q70, tt.q30))
		})
	}
}

// Any pair of pre-bucketed sub-scores must combine to a value in [0, 100].
func TestWeighted_Bounds(t *testing.T) {
	buckets := []float64{0, 33, 66, 100}
	for _, a := range buckets {
		for _, b := range buckets {
			got := Weighted(a, b)
			assert.GreaterOrEqual(t, got, 0, "q70=%v q30=%v", a, b)
			assert.LessOrEqual(t, got, 100, "q70=%v q30=%v", a, b)
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := map[string]RawScores{
		PillarCalidad:    {Q70: 66, Q30: 100},
		PillarRelevancia: {Q70: 100, Q30: 100},
	}

	vec := Normalize(raw)

	assert.Equal(t, 76, vec.Calidad)
	assert.Equal(t, 100, vec.Relevancia)

	// Dimensions absent from the raw input score zero, never get omitted.
	assert.Equal(t, 0, vec.Identidad)
	assert.Equal(t, 0, vec.Consistencia)
	assert.Equal(t, 0, vec.Reconocimiento)
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := map[string]RawScores{
		PillarAdopcion:      {Q70: 33, Q30: 66},
		PillarValores:       {Q70: 66, Q30: 0},
		PillarEficienciaExp: {Q70: 100, Q30: 33},
	}

	first := Normalize(raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Normalize(raw))
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	vec := Normalize(nil)
	assert.Equal(t, ScoreVector{}, vec)
}

func TestMean(t *testing.T) {
	tests := []struct {
		name       string
		vectors    []ScoreVector
		expectOK   bool
		expectCal  int
		expectRel  int
	}{
		{
			name:     "empty input reports no data",
			vectors:  nil,
			expectOK: false,
		},
		{
			name: "simple mean",
			vectors: []ScoreVector{
				{Calidad: 20, Relevancia: 10},
				{Calidad: 40, Relevancia: 10},
				{Calidad: 60, Relevancia: 10},
			},
			expectOK:  true,
			expectCal: 40,
			expectRel: 10,
		},
		{
			name: "ties round half up",
			vectors: []ScoreVector{
				{Calidad: 1},
				{Calidad: 2},
			},
			expectOK:  true,
			expectCal: 2, // 1.5 rounds up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, ok := Mean(tt.vectors)
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.Equal(t, tt.expectCal, mean.Calidad)
				assert.Equal(t, tt.expectRel, mean.Relevancia)
			}
		})
	}
}
