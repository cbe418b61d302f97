package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingStore bulk-copies the sentence vectors of a run into
// sentence_embeddings. Its pool must be created with RegisterVector.
type EmbeddingStore struct {
	db *pgxpool.Pool
}

func NewEmbeddingStore(pool *ConnectionPool) *EmbeddingStore {
	return &EmbeddingStore{db: pool.GetConn()}
}

func (e *EmbeddingStore) Name() string { return "postgres-embeddings" }

// Save copies the embeddings of every task that kept them. Tasks without
// embeddings are skipped.
func (e *EmbeddingStore) Save(ctx context.Context, rec *report.Record) error {
	total := 0
	for _, t := range rec.Tasks {
		if len(t.Embeddings) == 0 {
			continue
		}
		if len(t.Sentences) != len(t.Embeddings) {
			return fmt.Errorf("task %s: %d sentences for %d embeddings", t.Name, len(t.Sentences), len(t.Embeddings))
		}

		rows := make([][]any, len(t.Embeddings))
		for i, vec := range t.Embeddings {
			rows[i] = []any{rec.RunID, rec.Model, t.Name, i, t.Sentences[i], pgvector.NewVector([]float32(vec))}
		}

		n, err := e.db.CopyFrom(
			ctx,
			pgx.Identifier{"sentence_embeddings"},
			[]string{"run_id", "model", "task", "position", "sentence", "embedding"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy embeddings for task %s: %w", t.Name, err)
		}
		total += int(n)
	}

	slog.Info("embeddings stored", "run_id", rec.RunID, "rows", total)
	return nil
}

// Count returns the number of stored embeddings of runID.
func (e *EmbeddingStore) Count(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	err := e.db.QueryRow(ctx, `SELECT COUNT(*) FROM sentence_embeddings WHERE run_id = $1`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

// Embedding loads one stored vector.
func (e *EmbeddingStore) Embedding(ctx context.Context, runID uuid.UUID, task string, position int) ([]float32, error) {
	var vec pgvector.Vector
	err := e.db.QueryRow(ctx,
		`SELECT embedding FROM sentence_embeddings WHERE run_id = $1 AND task = $2 AND position = $3`,
		runID, task, position,
	).Scan(&vec)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedding: %w", err)
	}
	return vec.Slice(), nil
}
