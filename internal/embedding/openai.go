package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient talks to an OpenAI-compatible embeddings endpoint. OpenCLIP
// text towers are served through it.
type OpenAIClient struct {
	client openai.Client
}

type OpenAIConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		// A failed batch fails the evaluation.
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIClient{client: openai.NewClient(opts...)}
}

func (c *OpenAIClient) Embed(ctx context.Context, model string, inputs []string) ([]encoder.Vector, error) {
	if len(inputs) == 0 {
		return nil, apperr.NewValidationWrap("openai embed", ErrEmptyInput)
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: inputs,
		},
		Model: openai.EmbeddingModel(model),
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("openai embed: expected %d embeddings, got %d: %w", len(inputs), len(resp.Data), encoder.ErrEmbeddingCount)
	}

	out := make([]encoder.Vector, len(inputs))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("openai embed: index %d out of range: %w", idx, encoder.ErrEmbeddingCount)
		}
		if out[idx] != nil {
			return nil, fmt.Errorf("openai embed: index %d returned twice: %w", idx, encoder.ErrEmbeddingCount)
		}
		out[idx] = encoder.FromFloat64(d.Embedding)
	}

	return out, nil
}

// CLIPEncoder is the single-batch primitive for OpenCLIP text towers. The
// server returns projected text features.
type CLIPEncoder struct {
	client *OpenAIClient
	model  string
}

func NewCLIPEncoder(client *OpenAIClient, model string) *CLIPEncoder {
	return &CLIPEncoder{client: client, model: model}
}

func (e *CLIPEncoder) EncodeText(ctx context.Context, texts []string) ([]encoder.Vector, error) {
	return e.client.Embed(ctx, e.model, texts)
}
