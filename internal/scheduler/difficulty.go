package scheduler

// EstimateDifficulty estimates the initial difficulty of a freshly
// ingested word on the 1-10 scale. Longer concepts and definitions tend
// to be harder; a light random factor avoids identical difficulties
// across a dataset. Deterministic under a seeded random source.
func (s *Scheduler) EstimateDifficulty(concept, definition string) float64 {
	lengthFactor := (float64(len(concept)) + float64(len(definition))/5.0) / 10.0
	if lengthFactor > 8.0 {
		lengthFactor = 8.0
	}

	randomFactor := 0.5 + s.rng.Float64()

	return clamp(lengthFactor*randomFactor+3.0, 1, 10)
}
