// Package similarity scores embedding vectors against each other.
package similarity

import "math"

// Precision is the number of decimal digits scores are rounded to.
// Rounding keeps threshold comparisons reproducible across runs.
const Precision = 2

// Cosine returns the cosine similarity of a and b, rounded to Precision
// decimals and bounded in [-1, 1]. Vectors of mismatched dimension or
// zero norm score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return round(score)
}

func round(x float64) float64 {
	shift := math.Pow(10, Precision)
	return math.Round(x*shift) / shift
}
