package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultStore persists evaluation records to plm_evaluations.
type ResultStore struct {
	db *pgxpool.Pool
}

func NewResultStore(pool *ConnectionPool) *ResultStore {
	return &ResultStore{db: pool.GetConn()}
}

func (s *ResultStore) Name() string { return "postgres" }

func (s *ResultStore) Save(ctx context.Context, rec *report.Record) error {
	metrics, err := json.Marshal(rec.MetricMap())
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	tasks, err := json.Marshal(rec.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	cmd := `
		INSERT INTO plm_evaluations (run_id, model, family, suite, epoch, metrics, tasks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id uuid.UUID
	err = s.db.QueryRow(
		ctx,
		cmd,
		rec.RunID,
		rec.Model,
		string(rec.Family),
		rec.Suite,
		rec.Epoch,
		metrics,
		tasks,
		rec.Timestamp,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	slog.Info("evaluation stored", "id", id, "run_id", rec.RunID, "model", rec.Model)
	return nil
}

// StoredMetrics returns the metrics saved for runID.
func (s *ResultStore) StoredMetrics(ctx context.Context, runID uuid.UUID) (map[string]float64, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT metrics FROM plm_evaluations WHERE run_id = $1`, runID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation %s: %w", runID, err)
	}

	out := make(map[string]float64)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode metrics: %w", err)
	}
	return out, nil
}
