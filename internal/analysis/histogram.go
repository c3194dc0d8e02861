package analysis

// Histogram buckets values into bins equally spaced over [min, max] and
// returns the per-bin counts. Values outside the range are clamped into
// the edge bins.
func Histogram(values []float64, bins int, min, max float64) []float64 {
	if bins < 1 || max <= min {
		return nil
	}

	counts := make([]float64, bins)
	width := (max - min) / float64(bins)

	for _, v := range values {
		idx := int((v - min) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	return counts
}
