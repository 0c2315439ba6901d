// Package scores holds the ten-dimension assessment score model and the
// normalization math applied to raw survey sub-scores.
package scores

import "math"

const numDimensions = 10

// Survey pillar labels as the upstream platform sends them. Field labels in
// webhook payloads and column names in the record store both use these.
const (
	PillarCalidad        = "Calidad y eficiencia"
	PillarRelevancia     = "Relevancia"
	PillarIdentidad      = "Identidad"
	PillarConsistencia   = "Consistencia"
	PillarAdopcion       = "Adopción"
	PillarValores        = "Valores e impacto"
	PillarConveniencia   = "Conveniencia"
	PillarEficienciaExp  = "Eficiencia en la experiencia"
	PillarFamiliaridad   = "Familiaridad"
	PillarReconocimiento = "Reconocimiento"
)

// Pillars lists the pillar labels in presentation order.
var Pillars = []string{
	PillarCalidad,
	PillarRelevancia,
	PillarIdentidad,
	PillarConsistencia,
	PillarAdopcion,
	PillarValores,
	PillarConveniencia,
	PillarEficienciaExp,
	PillarFamiliaridad,
	PillarReconocimiento,
}

// ScoreVector holds the normalized percentage score for each assessment
// dimension. The JSON keys are the contract consumed by the results UI;
// every field is always present, a missing raw input scores zero.
type ScoreVector struct {
	Calidad        int `json:"scoreCalidad"`
	Relevancia     int `json:"scoreRelevancia"`
	Identidad      int `json:"scoreIdentidad"`
	Consistencia   int `json:"scoreConsistencia"`
	Adopcion       int `json:"scoreAdopcion"`
	Valores        int `json:"scoreValores"`
	Conveniencia   int `json:"scoreConveniencia"`
	EficienciaExp  int `json:"scoreEficienciaExp"`
	Familiaridad   int `json:"scoreFamiliaridad"`
	Reconocimiento int `json:"scoreReconocimiento"`
}

func (v ScoreVector) values() [numDimensions]int {
	return [numDimensions]int{
		v.Calidad,
		v.Relevancia,
		v.Identidad,
		v.Consistencia,
		v.Adopcion,
		v.Valores,
		v.Conveniencia,
		v.EficienciaExp,
		v.Familiaridad,
		v.Reconocimiento,
	}
}

func vectorFromValues(vals [numDimensions]int) ScoreVector {
	return ScoreVector{
		Calidad:        vals[0],
		Relevancia:     vals[1],
		Identidad:      vals[2],
		Consistencia:   vals[3],
		Adopcion:       vals[4],
		Valores:        vals[5],
		Conveniencia:   vals[6],
		EficienciaExp:  vals[7],
		Familiaridad:   vals[8],
		Reconocimiento: vals[9],
	}
}

// Mean returns the per-dimension unweighted arithmetic mean across vectors,
// rounded half-up. ok is false when vectors is empty, so callers can tell
// "no data" apart from a legitimately all-zero average.
func Mean(vectors []ScoreVector) (ScoreVector, bool) {
	if len(vectors) == 0 {
		return ScoreVector{}, false
	}

	var sums [numDimensions]int
	for _, v := range vectors {
		vals := v.values()
		for i := range sums {
			sums[i] += vals[i]
		}
	}

	var means [numDimensions]int
	for i := range sums {
		means[i] = roundHalfUp(float64(sums[i]) / float64(len(vectors)))
	}
	return vectorFromValues(means), true
}

// roundHalfUp rounds to the nearest integer with ties going up, matching the
// rounding the record store columns were written with.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
