package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
)

// OllamaClient talks to the Ollama embed API. Sentence-transformers models
// are served through it.
type OllamaClient struct {
	*httpClient
}

func NewOllamaClient(baseUrl string, opts ...ClientOption) (*OllamaClient, error) {
	c, err := newHTTPClient(baseUrl, opts...)
	if err != nil {
		return nil, err
	}
	return &OllamaClient{httpClient: c}, nil
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
	// Truncate cuts inputs to the model's context length instead of failing.
	Truncate bool `json:"truncate"`
}

type ollamaEmbedResponse struct {
	Model      string           `json:"model"`
	Embeddings []encoder.Vector `json:"embeddings"`
}

func (oc *OllamaClient) Embed(ctx context.Context, model string, input []string) ([]encoder.Vector, error) {
	if len(input) == 0 {
		return nil, apperr.NewValidationWrap("ollama embed", ErrEmptyInput)
	}
	if model == "" {
		return nil, apperr.NewValidation("ollama embed: missing model name")
	}

	req := ollamaEmbedRequest{
		Model:    model,
		Input:    input,
		Truncate: true,
	}

	var resp ollamaEmbedResponse
	if err := oc.do(ctx, http.MethodPost, "/api/embed", req, &resp); err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	return resp.Embeddings, nil
}

// SentenceEncoder is the single-batch primitive for sentence-transformers
// models.
type SentenceEncoder struct {
	client *OllamaClient
	model  string
}

func NewSentenceEncoder(client *OllamaClient, model string) *SentenceEncoder {
	return &SentenceEncoder{client: client, model: model}
}

func (e *SentenceEncoder) EncodeText(ctx context.Context, texts []string) ([]encoder.Vector, error) {
	slog.Debug("ollama embed", "model", e.model, "texts", len(texts))
	return e.client.Embed(ctx, e.model, texts)
}
