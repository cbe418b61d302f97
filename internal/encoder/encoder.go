// Package encoder defines the common adapter contract every model family is
// normalized to, and the length-bucketed batching shared by all of them.
package encoder

import (
	"context"
)

// Vector is one embedding.
type Vector []float32

// Family names the serving ecosystem a model is loaded from.
type Family string

const (
	FamilyTransformer Family = "huggingface-transformer"
	FamilySentence    Family = "sentence-transformers"
	FamilyOpenCLIP    Family = "open-clip"
)

const DefaultBatchSize = 32

// Encoder embeds an arbitrary number of sentences, returning one vector per
// sentence in input order.
type Encoder interface {
	Encode(ctx context.Context, sentences []string) ([]Vector, error)
}

// TextEncoder embeds a single batch. Implementations send the whole slice to
// the backend in one request.
type TextEncoder interface {
	EncodeText(ctx context.Context, texts []string) ([]Vector, error)
}

type Model interface {
	Encoder
	TextEncoder
	Name() string
	Family() Family
}

// Adapter turns a family-specific single-batch primitive into a Model.
type Adapter struct {
	name      string
	family    Family
	batchSize int
	text      TextEncoder
}

type AdapterOption func(*Adapter)

func WithBatchSize(size int) AdapterOption {
	return func(a *Adapter) {
		if size > 0 {
			a.batchSize = size
		}
	}
}

func NewAdapter(name string, family Family, text TextEncoder, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		name:      name,
		family:    family,
		batchSize: DefaultBatchSize,
		text:      text,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Encode(ctx context.Context, sentences []string) ([]Vector, error) {
	return Batched(ctx, sentences, a.batchSize, a.text.EncodeText)
}

func (a *Adapter) EncodeText(ctx context.Context, texts []string) ([]Vector, error) {
	return a.text.EncodeText(ctx, texts)
}

func (a *Adapter) Name() string   { return a.name }
func (a *Adapter) Family() Family { return a.family }
func (a *Adapter) BatchSize() int { return a.batchSize }
