package scores

// The survey platform pre-buckets each answer into {0, 33, 66, 100} and sends
// two sub-scores per pillar, one weighted at 70% and one at 30%. The final
// dimension score is their weighted combination.
const (
	weightPrimary   = 0.70
	weightSecondary = 0.30
)

// RawScores holds the two weighted sub-scores submitted for one pillar.
// Sub-scores absent from the payload stay at their zero value.
type RawScores struct {
	Q70 float64
	Q30 float64
}

// Weighted combines the two pre-bucketed sub-scores of one pillar into the
// final percentage score: round(q70*0.70 + q30*0.30).
func Weighted(q70, q30 float64) int {
	return roundHalfUp(q70*weightPrimary + q30*weightSecondary)
}

// Normalize computes the complete score vector from per-pillar raw
// sub-scores. Pillars missing from raw contribute zero sub-scores, so the
// result always carries all ten dimensions. Pure and deterministic.
func Normalize(raw map[string]RawScores) ScoreVector {
	score := func(pillar string) int {
		rs := raw[pillar]
		return Weighted(rs.Q70, rs.Q30)
	}

	return ScoreVector{
		Calidad:        score(PillarCalidad),
		Relevancia:     score(PillarRelevancia),
		Identidad:      score(PillarIdentidad),
		Consistencia:   score(PillarConsistencia),
		Adopcion:       score(PillarAdopcion),
		Valores:        score(PillarValores),
		Conveniencia:   score(PillarConveniencia),
		EficienciaExp:  score(PillarEficienciaExp),
		Familiaridad:   score(PillarFamiliaridad),
		Reconocimiento: score(PillarReconocimiento),
	}
}
