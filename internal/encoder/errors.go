package encoder

import "errors"

var (
	// ErrInvalidInput indicates an argument the encoder cannot work with.
	ErrInvalidInput = errors.New("invalid encoder input")

	// ErrEmbeddingCount indicates a backend returned a different number of
	// vectors than it was given texts.
	ErrEmbeddingCount = errors.New("embedding count mismatch")
)
