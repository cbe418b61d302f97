package report

import (
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/runner"
	"github.com/google/uuid"
)

// ModelColumn is the trailing column of the results table.
const ModelColumn = "model"

// Record is the results row of one model.
type Record struct {
	RunID     uuid.UUID           `json:"run_id"`
	Model     string              `json:"model"`
	Family    encoder.Family      `json:"family"`
	Suite     string              `json:"suite"`
	Epoch     int                 `json:"epoch"`
	Timestamp time.Time           `json:"timestamp"`
	Metrics   []runner.Metric     `json:"metrics"`
	Tasks     []runner.TaskResult `json:"tasks"`
}

// Columns returns the metric names followed by the model column.
func (r *Record) Columns() []string {
	cols := make([]string, 0, len(r.Metrics)+1)
	for _, m := range r.Metrics {
		cols = append(cols, m.Name)
	}
	return append(cols, ModelColumn)
}

// MetricMap returns the metrics keyed by name.
func (r *Record) MetricMap() map[string]float64 {
	out := make(map[string]float64, len(r.Metrics))
	for _, m := range r.Metrics {
		out[m.Name] = m.Value
	}
	return out
}
