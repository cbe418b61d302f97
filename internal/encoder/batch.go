package encoder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// BatchFunc encodes one batch, returning exactly one vector per item.
type BatchFunc[T any] func(ctx context.Context, batch []T) ([]Vector, error)

// Batched encodes items in chunks of at most batchSize, grouping items of
// similar length together. The result is in the original input order.
func Batched[T any](ctx context.Context, items []T, batchSize int, encode BatchFunc[T]) ([]Vector, error) {
	if batchSize <= 0 {
		return nil, apperr.NewValidationWrap(fmt.Sprintf("batch size %d", batchSize), ErrInvalidInput)
	}
	if len(items) == 0 {
		return []Vector{}, nil
	}

	order := SortByLength(items)
	sorted := make([]Vector, 0, len(items))
	batches := (len(items) + batchSize - 1) / batchSize

	for start := 0; start < len(order); start += batchSize {
		end := min(start+batchSize, len(order))

		batch := make([]T, 0, end-start)
		for _, idx := range order[start:end] {
			batch = append(batch, items[idx])
		}

		embeddings, err := encodeBatch(ctx, batch, start, encode)
		if err != nil {
			return nil, err
		}
		sorted = append(sorted, embeddings...)

		slog.Debug("encoded batch", "batch", start/batchSize+1, "of", batches, "size", len(batch))
	}

	out := make([]Vector, len(items))
	for pos, idx := range order {
		out[idx] = sorted[pos]
	}

	return out, nil
}

func encodeBatch[T any](ctx context.Context, batch []T, offset int, encode BatchFunc[T]) ([]Vector, error) {
	ctx, span := tracing.StartSpan(ctx, "encoder.batch",
		attribute.Int("batch.offset", offset),
		attribute.Int("batch.size", len(batch)),
	)
	defer span.End()

	embeddings, err := encode(ctx, batch)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("encode batch at offset %d: %w", offset, err)
	}

	if len(embeddings) != len(batch) {
		err := fmt.Errorf("batch at offset %d: expected %d embeddings, got %d: %w",
			offset, len(batch), len(embeddings), ErrEmbeddingCount)
		tracing.RecordError(span, err)
		return nil, err
	}

	return embeddings, nil
}
