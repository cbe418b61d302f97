package encoder

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
)

// Pooling selects how per-token hidden states become one vector per input.
type Pooling string

const (
	// PoolingPooled uses the backend's own pooled output (the CLS/pooler head
	// for BERT-style models).
	PoolingPooled Pooling = "pooled"
	// PoolingMean averages token states weighted by the attention mask.
	PoolingMean Pooling = "mean"
)

const meanPoolEpsilon = 1e-9

func ParsePooling(s string) (Pooling, error) {
	switch Pooling(strings.ToLower(strings.TrimSpace(s))) {
	case "", PoolingPooled, "cls":
		return PoolingPooled, nil
	case PoolingMean:
		return PoolingMean, nil
	default:
		return "", apperr.NewValidation(fmt.Sprintf("unknown pooling %q (want pooled or mean)", s))
	}
}

// MeanPool averages token vectors whose mask entry is non-zero. A nil mask
// keeps every token. The divisor is clamped so an all-zero mask yields a zero
// vector instead of NaNs.
func MeanPool(tokens [][]float32, mask []int) (Vector, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("mean pool: no token states: %w", ErrInvalidInput)
	}
	if mask != nil && len(mask) != len(tokens) {
		return nil, fmt.Errorf("mean pool: mask has %d entries for %d tokens: %w", len(mask), len(tokens), ErrInvalidInput)
	}

	dim := len(tokens[0])
	sum := make([]float64, dim)
	var weight float64

	for i, tok := range tokens {
		if len(tok) != dim {
			return nil, fmt.Errorf("mean pool: token %d has dimension %d, want %d: %w", i, len(tok), dim, ErrInvalidInput)
		}
		m := 1.0
		if mask != nil {
			m = float64(mask[i])
		}
		if m == 0 {
			continue
		}
		for j, v := range tok {
			sum[j] += float64(v) * m
		}
		weight += m
	}

	weight = max(weight, meanPoolEpsilon)

	out := make(Vector, dim)
	for j := range sum {
		out[j] = float32(sum[j] / weight)
	}
	return out, nil
}
