package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/suite"
)

// Pair is one gold-scored sentence pair.
type Pair struct {
	Sentence1 string
	Sentence2 string
	Score     float64
}

// LoadTask reads the pairs of task from disk. A positive limit keeps only the
// first limit pairs.
func LoadTask(ctx context.Context, task suite.Task, dataDir string, limit int) ([]Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := task.ResolvePath(dataDir)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", task.Name, err)
	}
	defer f.Close()

	pairs, err := ReadPairs(f, task, limit)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s from %s: %w", task.Name, path, err)
	}

	slog.Debug("loaded dataset", "task", task.Name, "path", path, "pairs", len(pairs))
	return pairs, nil
}

// ReadPairs maps the task columns of a TSV stream into pairs. Rows without a
// parseable score are skipped.
func ReadPairs(r io.Reader, task suite.Task, limit int) ([]Pair, error) {
	headers, records, err := NewTSVReader(r).Read()
	if err != nil {
		return nil, err
	}

	for _, col := range []string{task.Sentence1Column, task.Sentence2Column, task.ScoreColumn} {
		if !slices.Contains(headers, col) {
			return nil, apperr.NewValidationWrap(fmt.Sprintf("column %q", col), ErrMissingColumn)
		}
	}

	pairs := make([]Pair, 0, len(records))
	skipped := 0
	for _, rec := range records {
		if limit > 0 && len(pairs) >= limit {
			break
		}

		s1, ok1 := rec[task.Sentence1Column]
		s2, ok2 := rec[task.Sentence2Column]
		raw, ok3 := rec[task.ScoreColumn]
		if !ok1 || !ok2 || !ok3 {
			skipped++
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			skipped++
			continue
		}

		pairs = append(pairs, Pair{Sentence1: s1, Sentence2: s2, Score: score})
	}

	if skipped > 0 {
		slog.Warn("skipped malformed rows", "task", task.Name, "count", skipped)
	}

	return pairs, nil
}

// Sentences flattens pairs into sentence1 values followed by sentence2 values.
func Sentences(pairs []Pair) []string {
	out := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p.Sentence1)
	}
	for _, p := range pairs {
		out = append(out, p.Sentence2)
	}
	return out
}

func Scores(pairs []Pair) []float64 {
	out := make([]float64, len(pairs))
	for i, p := range pairs {
		out[i] = p.Score
	}
	return out
}
