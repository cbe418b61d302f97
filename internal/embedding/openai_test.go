package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAIServer(t *testing.T, handler func(model string, inputs []string) string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			http.NotFound(w, r)
			return
		}

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(req.Model, req.Input)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_EmbedOrdersByIndex(t *testing.T) {
	srv := newOpenAIServer(t, func(model string, inputs []string) string {
		assert.Equal(t, "ViT-B-32", model)
		assert.Equal(t, []string{"a photo", "a diagram"}, inputs)
		return `{
			"object": "list",
			"model": "ViT-B-32",
			"data": [
				{"object": "embedding", "index": 1, "embedding": [0.0, 1.0]},
				{"object": "embedding", "index": 0, "embedding": [1.0, 0.0]}
			],
			"usage": {"prompt_tokens": 4, "total_tokens": 4}
		}`
	})

	client := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "test"})

	vecs, err := client.Embed(context.Background(), "ViT-B-32", []string{"a photo", "a diagram"})
	require.NoError(t, err)
	assert.Equal(t, []encoder.Vector{{1, 0}, {0, 1}}, vecs)
}

func TestOpenAIClient_CountMismatch(t *testing.T) {
	srv := newOpenAIServer(t, func(string, []string) string {
		return `{"object":"list","model":"RN50","data":[{"object":"embedding","index":0,"embedding":[1.0]}],"usage":{"prompt_tokens":1,"total_tokens":1}}`
	})

	client := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "test"})

	_, err := client.Embed(context.Background(), "RN50", []string{"a", "b"})
	assert.ErrorIs(t, err, encoder.ErrEmbeddingCount)
}

func TestOpenAIClient_BadIndices(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "duplicate", data: `[{"object":"embedding","index":0,"embedding":[1.0]},{"object":"embedding","index":0,"embedding":[2.0]}]`},
		{name: "out of range", data: `[{"object":"embedding","index":0,"embedding":[1.0]},{"object":"embedding","index":2,"embedding":[2.0]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newOpenAIServer(t, func(string, []string) string {
				return `{"object":"list","model":"RN50","data":` + tt.data + `,"usage":{"prompt_tokens":2,"total_tokens":2}}`
			})
			client := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "test"})

			_, err := client.Embed(context.Background(), "RN50", []string{"a", "b"})
			assert.ErrorIs(t, err, encoder.ErrEmbeddingCount)
		})
	}
}

func TestOpenAIClient_EmptyInput(t *testing.T) {
	client := NewOpenAIClient(OpenAIConfig{BaseURL: "http://localhost:7997/v1", APIKey: "test"})

	_, err := client.Embed(context.Background(), "RN50", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCLIPEncoder_EncodeText(t *testing.T) {
	srv := newOpenAIServer(t, func(model string, inputs []string) string {
		return `{"object":"list","model":"RN50","data":[{"object":"embedding","index":0,"embedding":[0.5,0.5]}],"usage":{"prompt_tokens":1,"total_tokens":1}}`
	})

	client := NewOpenAIClient(OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "test"})
	enc := NewCLIPEncoder(client, "RN50")

	vecs, err := enc.EncodeText(context.Background(), []string{"a dog"})
	require.NoError(t, err)
	assert.Equal(t, []encoder.Vector{{0.5, 0.5}}, vecs)
}
