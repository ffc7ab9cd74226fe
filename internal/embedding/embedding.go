// Package embedding turns text into fixed-dimension vectors. The deterministic
// embedder is the reference implementation: catalog preparation and query-time
// goal embedding must run the identical algorithm or similarity scores are
// meaningless, so both call sites share one Embedder value.
package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"strings"

	pkgerrors "github.com/yungbote/learnpath-backend/internal/pkg/errors"
)

// Dim is the embedding dimensionality used across the catalog and queries.
const Dim = 128

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Deterministic derives a unit-length vector from a SHA-256 expansion of the
// text. Same text always yields bit-identical output, independent of process,
// time, or call order.
type Deterministic struct{}

func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

func (d *Deterministic) Embed(_ context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("embed: empty text: %w", pkgerrors.ErrInvalidArgument)
	}

	// Expand the digest to Dim bytes by hashing text||counter.
	raw := make([]byte, 0, Dim)
	for counter := 0; len(raw) < Dim; counter++ {
		sum := sha256.Sum256(append([]byte(text), byte(counter)))
		raw = append(raw, sum[:]...)
	}
	raw = raw[:Dim]

	vec := make([]float64, Dim)
	for i, b := range raw {
		// Map byte to a signed unit-interval value.
		vec[i] = (float64(b)/255.0)*2.0 - 1.0
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		// Rounding keeps repeated computation and serialization round-trips exact.
		vec[i] = round6(vec[i] / norm)
	}
	return vec, nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
