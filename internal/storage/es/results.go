package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("document not found")

// ResultIndexer writes evaluation records to Elasticsearch: one document per
// run and one per task.
type ResultIndexer struct {
	client    *elasticsearch.TypedClient
	indexName string
	taskIndex string
}

func NewResultIndexer(ctx context.Context, config ClientConfig) (*ResultIndexer, error) {
	if config.IndexName == "" {
		config.IndexName = DefaultIndexName
	}

	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &ResultIndexer{
		client:    client,
		indexName: config.IndexName,
		taskIndex: config.TaskIndexName(),
	}

	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

func (e *ResultIndexer) Name() string { return "elasticsearch" }

func (e *ResultIndexer) Save(ctx context.Context, rec *report.Record) error {
	doc := toResultDocument(rec)

	res, err := e.client.Index(e.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	slog.Info("evaluation indexed", "id", doc.ID, "index", e.indexName, "result", res.Result)

	return e.saveTasks(ctx, toTaskDocuments(rec))
}

func (e *ResultIndexer) saveTasks(ctx context.Context, docs []TaskDocument) error {
	if len(docs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      e.taskIndex,
		Client:     e.client,
		NumWorkers: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed atomic.Int64
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			failed.Add(1)
			slog.Error("failed to marshal task document", "error", err, "id", doc.ID)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add task document", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d task documents", n, len(docs))
	}
	slog.Debug("task documents indexed", "count", len(docs), "index", e.taskIndex)
	return nil
}

// Get loads the run document of runID.
func (e *ResultIndexer) Get(ctx context.Context, runID uuid.UUID) (*ResultDocument, error) {
	res, err := e.client.Get(e.indexName, runID.String()).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if !res.Found {
		return nil, ErrNotFound
	}

	var doc ResultDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// CountTasks returns the number of task documents of runID.
func (e *ResultIndexer) CountTasks(ctx context.Context, runID uuid.UUID) (int64, error) {
	if _, err := e.client.Indices.Refresh().Index(e.taskIndex).Do(ctx); err != nil {
		return 0, fmt.Errorf("failed to refresh index: %w", err)
	}

	res, err := e.client.Count().Index(e.taskIndex).Query(&types.Query{
		Term: map[string]types.TermQuery{
			"run_id": {Value: runID.String()},
		},
	}).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count task documents: %w", err)
	}
	return res.Count, nil
}

func (e *ResultIndexer) EnsureIndex(ctx context.Context) error {
	if err := e.ensureIndex(ctx, e.indexName, resultMapping()); err != nil {
		return err
	}
	return e.ensureIndex(ctx, e.taskIndex, taskMapping())
}

func (e *ResultIndexer) ensureIndex(ctx context.Context, name string, mappings types.TypeMapping) error {
	exists, err := e.client.Indices.Exists(name).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Debug("index already exists", "index", name)
		return nil
	}

	createRes, err := e.client.Indices.Create(name).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index %s creation was not acknowledged", name)
	}

	slog.Info("index created", "index", name)
	return nil
}
