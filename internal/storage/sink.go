package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
)

// Sink persists a finished evaluation record.
type Sink interface {
	Name() string
	Save(ctx context.Context, rec *report.Record) error
}

// SaveAll writes rec to every sink in order and stops at the first failure.
func SaveAll(ctx context.Context, rec *report.Record, sinks ...Sink) error {
	for _, s := range sinks {
		if err := s.Save(ctx, rec); err != nil {
			return fmt.Errorf("save to %s: %w", s.Name(), err)
		}
		slog.Debug("record saved", "sink", s.Name(), "run_id", rec.RunID)
	}
	return nil
}
