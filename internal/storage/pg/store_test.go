package pg

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/runner"
	pkgtesting "github.com/DjordjeVuckovic/plm-eval/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "plm_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString, RegisterVector: true})
	if err != nil {
		_ = testcontainers.TerminateContainer(pg.Container)
		panic(err)
	}

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE plm_evaluations CASCADE")
	require.NoError(t, err)
}

func testRecord() *report.Record {
	return &report.Record{
		RunID:     uuid.New(),
		Model:     "facebook/contriever",
		Family:    encoder.FamilyTransformer,
		Suite:     "sts",
		Epoch:     0,
		Timestamp: time.Now().UTC(),
		Metrics: []runner.Metric{
			{Name: "STS12-pearson", Value: 0.61},
			{Name: "STS12-spearman", Value: 0.58},
			{Name: "avg-pearson", Value: 0.61},
			{Name: "avg-spearman", Value: 0.58},
		},
		Tasks: []runner.TaskResult{
			{
				Name:       "STS12",
				Pairs:      1,
				Sentences:  []string{"a cat", "a dog"},
				Embeddings: []encoder.Vector{{1, 0, 0}, {0, 1, 0}},
			},
		},
	}
}

func TestConnectionPool_Ping(t *testing.T) {
	requireDB(t)

	assert.NoError(t, testPool.Ping(testCtx))
}

func TestNewConnectionPool_BadConnString(t *testing.T) {
	_, err := NewConnectionPool(context.Background(), PoolConfig{ConnStr: "host=localhost port=notaport"})
	assert.Error(t, err)
}

func TestResultStore_Save(t *testing.T) {
	requireDB(t)
	truncateTables(t)
	defer truncateTables(t)

	store := NewResultStore(testPool)
	rec := testRecord()

	require.NoError(t, store.Save(testCtx, rec))

	metrics, err := store.StoredMetrics(testCtx, rec.RunID)
	require.NoError(t, err)
	assert.Equal(t, rec.MetricMap(), metrics)

	assert.Error(t, store.Save(testCtx, rec), "run ids are unique")
}

func TestEmbeddingStore_Save(t *testing.T) {
	requireDB(t)
	truncateTables(t)
	defer truncateTables(t)

	rec := testRecord()
	require.NoError(t, NewResultStore(testPool).Save(testCtx, rec))

	store := NewEmbeddingStore(testPool)
	require.NoError(t, store.Save(testCtx, rec))

	n, err := store.Count(testCtx, rec.RunID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	vec, err := store.Embedding(testCtx, rec.RunID, "STS12", 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0}, vec)
}

func TestEmbeddingStore_SkipsTasksWithoutEmbeddings(t *testing.T) {
	requireDB(t)
	truncateTables(t)
	defer truncateTables(t)

	rec := testRecord()
	rec.Tasks[0].Embeddings = nil
	require.NoError(t, NewResultStore(testPool).Save(testCtx, rec))

	store := NewEmbeddingStore(testPool)
	require.NoError(t, store.Save(testCtx, rec))

	n, err := store.Count(testCtx, rec.RunID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
