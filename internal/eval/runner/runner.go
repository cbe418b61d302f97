// Package runner scores an encoder against a suite of sentence-similarity
// tasks.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/dataset"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/metrics"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/suite"
	"github.com/DjordjeVuckovic/plm-eval/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

type options struct {
	keepEmbeddings bool
}

type Option func(*options)

// WithKeepEmbeddings retains every task's sentences and vectors on the result.
func WithKeepEmbeddings() Option {
	return func(o *options) {
		o.keepEmbeddings = true
	}
}

// Evaluate runs every task of cfg against model. The first failing task aborts
// the run.
func Evaluate(ctx context.Context, model encoder.Encoder, epoch int, cfg suite.Config, opts ...Option) (*Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if len(cfg.Tasks) == 0 {
		return nil, apperr.NewValidation("suite has no tasks")
	}

	ctx, span := tracing.StartSpan(ctx, "eval.run",
		attribute.String("suite", cfg.Name),
		attribute.Int("epoch", epoch),
		attribute.Int("tasks", len(cfg.Tasks)),
	)
	defer span.End()

	res := &Result{
		Suite:   cfg.Name,
		Epoch:   epoch,
		Tasks:   make([]TaskResult, 0, len(cfg.Tasks)),
		Metrics: make([]Metric, 0, 2*len(cfg.Tasks)+2),
	}

	pearsons := make([]float64, 0, len(cfg.Tasks))
	spearmans := make([]float64, 0, len(cfg.Tasks))

	for _, task := range cfg.Tasks {
		tr, err := runTask(ctx, model, task, cfg, o)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, fmt.Errorf("evaluate task %s: %w", task.Name, err)
		}

		res.Tasks = append(res.Tasks, *tr)
		res.Metrics = append(res.Metrics,
			Metric{Name: PearsonKey(task.Name), Value: tr.Pearson},
			Metric{Name: SpearmanKey(task.Name), Value: tr.Spearman},
		)
		pearsons = append(pearsons, tr.Pearson)
		spearmans = append(spearmans, tr.Spearman)
	}

	res.Metrics = append(res.Metrics,
		Metric{Name: AvgPearson, Value: metrics.Mean(pearsons)},
		Metric{Name: AvgSpearman, Value: metrics.Mean(spearmans)},
	)

	slog.Info("evaluation finished",
		"suite", cfg.Name,
		"epoch", epoch,
		AvgPearson, metrics.Mean(pearsons),
		AvgSpearman, metrics.Mean(spearmans),
	)

	return res, nil
}

func runTask(ctx context.Context, model encoder.Encoder, task suite.Task, cfg suite.Config, o options) (*TaskResult, error) {
	ctx, span := tracing.StartSpan(ctx, "eval.task", attribute.String("task", task.Name))
	defer span.End()

	start := time.Now()

	pairs, err := dataset.LoadTask(ctx, task, cfg.DataDir, cfg.Limit())
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if len(pairs) == 0 {
		err := apperr.NewValidation(fmt.Sprintf("task %s has no scored pairs", task.Name))
		tracing.RecordError(span, err)
		return nil, err
	}

	sentences := dataset.Sentences(pairs)
	vecs, err := model.Encode(ctx, sentences)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("encode sentences: %w", err)
	}
	if len(vecs) != len(sentences) {
		err := fmt.Errorf("got %d embeddings for %d sentences: %w", len(vecs), len(sentences), encoder.ErrEmbeddingCount)
		tracing.RecordError(span, err)
		return nil, err
	}

	n := len(pairs)
	predicted := make([]float64, n)
	for i := range n {
		predicted[i] = encoder.CosineSimilarity(vecs[i], vecs[n+i])
	}
	gold := dataset.Scores(pairs)

	tr := &TaskResult{
		Name:     task.Name,
		Pairs:    n,
		Pearson:  metrics.Pearson(predicted, gold),
		Spearman: metrics.Spearman(predicted, gold),
		Duration: time.Since(start),
	}
	if o.keepEmbeddings {
		tr.Sentences = sentences
		tr.Embeddings = vecs
	}

	span.SetAttributes(
		attribute.Int("pairs", n),
		attribute.Float64("pearson", tr.Pearson),
		attribute.Float64("spearman", tr.Spearman),
	)
	slog.Info("task evaluated",
		"task", task.Name,
		"pairs", n,
		"pearson", tr.Pearson,
		"spearman", tr.Spearman,
		"duration", tr.Duration,
	)

	return tr, nil
}
