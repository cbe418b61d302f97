package runner

import (
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
)

const (
	AvgPearson  = "avg-pearson"
	AvgSpearman = "avg-spearman"
)

type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type TaskResult struct {
	Name     string        `json:"name"`
	Pairs    int           `json:"pairs"`
	Pearson  float64       `json:"pearson"`
	Spearman float64       `json:"spearman"`
	Duration time.Duration `json:"duration"`

	// Sentences and Embeddings are only filled with WithKeepEmbeddings.
	Sentences  []string         `json:"-"`
	Embeddings []encoder.Vector `json:"-"`
}

// Result holds the metrics of one evaluation pass in emission order: every
// task's pearson then spearman, followed by the averages.
type Result struct {
	Suite   string       `json:"suite"`
	Epoch   int          `json:"epoch"`
	Tasks   []TaskResult `json:"tasks"`
	Metrics []Metric     `json:"metrics"`
}

func (r *Result) Value(name string) (float64, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

func PearsonKey(task string) string  { return task + "-pearson" }
func SpearmanKey(task string) string { return task + "-spearman" }
