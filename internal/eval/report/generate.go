package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/runner"
	"github.com/google/uuid"
)

const DefaultOutputDir = "PLM_evaluations"

func Generate(model string, family encoder.Family, res *runner.Result) *Record {
	return &Record{
		RunID:     uuid.New(),
		Model:     model,
		Family:    family,
		Suite:     res.Suite,
		Epoch:     res.Epoch,
		Timestamp: time.Now().UTC(),
		Metrics:   res.Metrics,
		Tasks:     res.Tasks,
	}
}

// FileName returns the results file name of model; path separators in the
// identifier become dashes.
func FileName(model string) string {
	return "sts-" + strings.ReplaceAll(model, "/", "-") + ".csv"
}

func OutputPath(dir, model string) string {
	if dir == "" {
		dir = DefaultOutputDir
	}
	return filepath.Join(dir, FileName(model))
}
