package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
)

// TEIClient talks to a text-embeddings-inference server. A TEI server hosts a
// single model, so requests carry no model name.
type TEIClient struct {
	*httpClient
}

func NewTEIClient(baseUrl string, opts ...ClientOption) (*TEIClient, error) {
	c, err := newHTTPClient(baseUrl, opts...)
	if err != nil {
		return nil, err
	}
	return &TEIClient{httpClient: c}, nil
}

type teiRequest struct {
	Inputs    []string `json:"inputs"`
	Truncate  bool     `json:"truncate"`
	Normalize *bool    `json:"normalize,omitempty"`
}

type TEIInfo struct {
	ModelID            string `json:"model_id"`
	MaxInputLength     int    `json:"max_input_length"`
	MaxClientBatchSize int    `json:"max_client_batch_size"`
}

// Embed returns the server's pooled output, unnormalized.
func (c *TEIClient) Embed(ctx context.Context, inputs []string) ([]encoder.Vector, error) {
	if len(inputs) == 0 {
		return nil, apperr.NewValidationWrap("tei embed", ErrEmptyInput)
	}

	normalize := false
	req := teiRequest{Inputs: inputs, Truncate: true, Normalize: &normalize}

	var resp []encoder.Vector
	if err := c.do(ctx, http.MethodPost, "/embed", req, &resp); err != nil {
		return nil, fmt.Errorf("tei embed: %w", err)
	}
	return resp, nil
}

// EmbedAll returns the last hidden state of every token of every input.
func (c *TEIClient) EmbedAll(ctx context.Context, inputs []string) ([][][]float32, error) {
	if len(inputs) == 0 {
		return nil, apperr.NewValidationWrap("tei embed_all", ErrEmptyInput)
	}

	req := teiRequest{Inputs: inputs, Truncate: true}

	var resp [][][]float32
	if err := c.do(ctx, http.MethodPost, "/embed_all", req, &resp); err != nil {
		return nil, fmt.Errorf("tei embed_all: %w", err)
	}
	return resp, nil
}

func (c *TEIClient) Info(ctx context.Context) (*TEIInfo, error) {
	var info TEIInfo
	if err := c.do(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, fmt.Errorf("tei info: %w", err)
	}
	return &info, nil
}

// TransformerEncoder is the single-batch primitive for Hugging Face
// transformer models.
type TransformerEncoder struct {
	client   *TEIClient
	model    string
	pooling  encoder.Pooling
	maxBatch int
}

func NewTransformerEncoder(client *TEIClient, model string, pooling encoder.Pooling) *TransformerEncoder {
	if pooling == "" {
		pooling = encoder.PoolingPooled
	}
	return &TransformerEncoder{client: client, model: model, pooling: pooling}
}

// CheckModel reads the server info, warns when the TEI server hosts a
// different model than the one being evaluated and remembers the server's
// request size limit.
func (e *TransformerEncoder) CheckModel(ctx context.Context) (*TEIInfo, error) {
	info, err := e.client.Info(ctx)
	if err != nil {
		return nil, err
	}
	if info.ModelID != e.model {
		slog.Warn("TEI server hosts a different model", "expected", e.model, "served", info.ModelID)
	}
	e.maxBatch = info.MaxClientBatchSize
	return info, nil
}

// MaxBatchSize is the largest request the server accepts, 0 when unknown.
func (e *TransformerEncoder) MaxBatchSize() int { return e.maxBatch }

func (e *TransformerEncoder) Pooling() encoder.Pooling { return e.pooling }

func (e *TransformerEncoder) EncodeText(ctx context.Context, texts []string) ([]encoder.Vector, error) {
	if e.pooling == encoder.PoolingPooled {
		return e.client.Embed(ctx, texts)
	}

	hidden, err := e.client.EmbedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	out := make([]encoder.Vector, len(hidden))
	for i, tokens := range hidden {
		// TEI strips padding, so every returned token is a real one.
		pooled, err := encoder.MeanPool(tokens, nil)
		if err != nil {
			return nil, fmt.Errorf("pool input %d: %w", i, err)
		}
		out[i] = pooled
	}
	return out, nil
}
