package encoder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lengthEncoder embeds each text as [len(text), position-in-batch] and records
// every batch it is handed.
type lengthEncoder struct {
	batches [][]string
	fail    error
	short   bool
}

func (e *lengthEncoder) EncodeText(_ context.Context, texts []string) ([]Vector, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	e.batches = append(e.batches, append([]string(nil), texts...))

	n := len(texts)
	if e.short {
		n--
	}
	out := make([]Vector, n)
	for i := 0; i < n; i++ {
		out[i] = Vector{float32(len(texts[i])), float32(i)}
	}
	return out, nil
}

func TestBatched_PreservesInputOrder(t *testing.T) {
	inputs := []string{
		"a much longer sentence than the others",
		"hi",
		"medium sized",
		"",
		"x",
		"another fairly long sentence here",
		"mid length",
	}

	for _, batchSize := range []int{1, 2, 3, 7, 100} {
		t.Run(fmt.Sprintf("batch=%d", batchSize), func(t *testing.T) {
			enc := &lengthEncoder{}
			got, err := Batched(context.Background(), inputs, batchSize, enc.EncodeText)
			require.NoError(t, err)
			require.Len(t, got, len(inputs))

			for i, in := range inputs {
				assert.Equal(t, float32(len(in)), got[i][0], "input %d (%q)", i, in)
			}
		})
	}
}

func TestBatched_SortsByLengthWithinBatches(t *testing.T) {
	enc := &lengthEncoder{}
	inputs := []string{"ccc", "a", "bb", "dddd"}

	_, err := Batched(context.Background(), inputs, 2, enc.EncodeText)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc", "dddd"}}, enc.batches)
}

func TestBatched_SingleChunkWhenBatchCoversInput(t *testing.T) {
	enc := &lengthEncoder{}
	inputs := []string{"one", "two", "three"}

	_, err := Batched(context.Background(), inputs, len(inputs), enc.EncodeText)
	require.NoError(t, err)
	assert.Len(t, enc.batches, 1)

	enc = &lengthEncoder{}
	_, err = Batched(context.Background(), inputs, 2048, enc.EncodeText)
	require.NoError(t, err)
	assert.Len(t, enc.batches, 1)
}

func TestBatched_ChunkCount(t *testing.T) {
	enc := &lengthEncoder{}
	inputs := strings.Split("a b c d e f g", " ")

	_, err := Batched(context.Background(), inputs, 3, enc.EncodeText)
	require.NoError(t, err)

	require.Len(t, enc.batches, 3)
	assert.Len(t, enc.batches[0], 3)
	assert.Len(t, enc.batches[1], 3)
	assert.Len(t, enc.batches[2], 1)
}

func TestBatched_Empty(t *testing.T) {
	enc := &lengthEncoder{}

	got, err := Batched(context.Background(), []string{}, 8, enc.EncodeText)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, enc.batches)

	got, err = Batched[string](context.Background(), nil, 8, enc.EncodeText)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBatched_SingleItem(t *testing.T) {
	enc := &lengthEncoder{}

	got, err := Batched(context.Background(), []string{"solo"}, 32, enc.EncodeText)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, [][]string{{"solo"}}, enc.batches)
}

func TestBatched_InvalidBatchSize(t *testing.T) {
	enc := &lengthEncoder{}

	_, err := Batched(context.Background(), []string{"a"}, 0, enc.EncodeText)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, apperr.IsValidation(err))
}

func TestBatched_PropagatesBackendError(t *testing.T) {
	backendErr := errors.New("connection refused")
	enc := &lengthEncoder{fail: backendErr}

	_, err := Batched(context.Background(), []string{"a", "b"}, 1, enc.EncodeText)
	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
	assert.Contains(t, err.Error(), "offset 0")
}

func TestBatched_CountMismatch(t *testing.T) {
	enc := &lengthEncoder{short: true}

	_, err := Batched(context.Background(), []string{"a", "bb"}, 2, enc.EncodeText)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbeddingCount)
}

func TestBatched_PreTokenizedInput(t *testing.T) {
	inputs := [][]int{{1, 2, 3, 4, 5}, {1}, {1, 2, 3}}
	var seen [][]int

	got, err := Batched(context.Background(), inputs, 2, func(_ context.Context, batch [][]int) ([]Vector, error) {
		out := make([]Vector, len(batch))
		for i, ids := range batch {
			seen = append(seen, ids)
			out[i] = Vector{float32(len(ids))}
		}
		return out, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []Vector{{5}, {1}, {3}}, got)
	assert.Equal(t, [][]int{{1}, {1, 2, 3}, {1, 2, 3, 4, 5}}, seen)
}

func TestAdapter_EncodeUsesBatchSize(t *testing.T) {
	enc := &lengthEncoder{}
	a := NewAdapter("bert-base-uncased", FamilyTransformer, enc, WithBatchSize(2))

	got, err := a.Encode(context.Background(), []string{"aaa", "b", "cc"})
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.Len(t, enc.batches, 2)
	assert.Equal(t, "bert-base-uncased", a.Name())
	assert.Equal(t, FamilyTransformer, a.Family())
	assert.Equal(t, 2, a.BatchSize())
}

func TestAdapter_DefaultBatchSize(t *testing.T) {
	a := NewAdapter("RN50", FamilyOpenCLIP, &lengthEncoder{}, WithBatchSize(0))
	assert.Equal(t, DefaultBatchSize, a.BatchSize())
}

func TestAdapter_EncodeTextIsSingleBatch(t *testing.T) {
	enc := &lengthEncoder{}
	a := NewAdapter("RN50", FamilyOpenCLIP, enc, WithBatchSize(1))

	_, err := a.EncodeText(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, enc.batches, 1)
}
