// Package vectormath provides the small amount of linear algebra the ranker
// needs over fixed-length embedding vectors.
package vectormath

import "math"

// Dot returns the dot product over the shorter of the two vectors. Length
// mismatch is tolerated rather than treated as an error so a catalog item
// with a truncated embedding degrades instead of failing a whole request.
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// Magnitude returns the L2 norm of v.
func Magnitude(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	magA := Magnitude(a)
	magB := Magnitude(b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return Dot(a, b) / (magA * magB)
}
