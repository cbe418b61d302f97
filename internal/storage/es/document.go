package es

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/runner"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type ResultDocument struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Family      string             `json:"family"`
	Suite       string             `json:"suite"`
	Epoch       int                `json:"epoch"`
	Metrics     map[string]float64 `json:"metrics"`
	AvgPearson  float64            `json:"avg_pearson"`
	AvgSpearman float64            `json:"avg_spearman"`
	CreatedAt   time.Time          `json:"created_at"`
	IndexedAt   time.Time          `json:"indexed_at"`
}

type TaskDocument struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Model     string    `json:"model"`
	Task      string    `json:"task"`
	Pairs     int       `json:"pairs"`
	Pearson   float64   `json:"pearson"`
	Spearman  float64   `json:"spearman"`
	CreatedAt time.Time `json:"created_at"`
}

func toResultDocument(rec *report.Record) ResultDocument {
	metrics := rec.MetricMap()
	return ResultDocument{
		ID:          rec.RunID.String(),
		Model:       rec.Model,
		Family:      string(rec.Family),
		Suite:       rec.Suite,
		Epoch:       rec.Epoch,
		Metrics:     metrics,
		AvgPearson:  metrics[runner.AvgPearson],
		AvgSpearman: metrics[runner.AvgSpearman],
		CreatedAt:   rec.Timestamp,
		IndexedAt:   time.Now().UTC(),
	}
}

func toTaskDocuments(rec *report.Record) []TaskDocument {
	docs := make([]TaskDocument, 0, len(rec.Tasks))
	for _, t := range rec.Tasks {
		docs = append(docs, TaskDocument{
			ID:        fmt.Sprintf("%s-%s", rec.RunID, t.Name),
			RunID:     rec.RunID.String(),
			Model:     rec.Model,
			Task:      t.Name,
			Pairs:     t.Pairs,
			Pearson:   t.Pearson,
			Spearman:  t.Spearman,
			CreatedAt: rec.Timestamp,
		})
	}
	return docs
}

func resultMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"model":        modelProperty(),
			"family":       types.NewKeywordProperty(),
			"suite":        types.NewKeywordProperty(),
			"epoch":        types.NewIntegerNumberProperty(),
			"metrics":      types.NewObjectProperty(),
			"avg_pearson":  types.NewDoubleNumberProperty(),
			"avg_spearman": types.NewDoubleNumberProperty(),
			"created_at":   types.NewDateProperty(),
			"indexed_at":   types.NewDateProperty(),
		},
	}
}

func taskMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":         types.NewKeywordProperty(),
			"run_id":     types.NewKeywordProperty(),
			"model":      modelProperty(),
			"task":       types.NewKeywordProperty(),
			"pairs":      types.NewIntegerNumberProperty(),
			"pearson":    types.NewDoubleNumberProperty(),
			"spearman":   types.NewDoubleNumberProperty(),
			"created_at": types.NewDateProperty(),
		},
	}
}

// modelProperty indexes identifiers as text with an exact keyword subfield.
func modelProperty() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
