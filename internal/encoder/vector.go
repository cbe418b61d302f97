package encoder

import "math"

// CosineSimilarity returns 0 for vectors of different or zero length and for
// zero vectors.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func FromFloat64(in []float64) Vector {
	out := make(Vector, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
