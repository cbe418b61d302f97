package registry

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DjordjeVuckovic/plm-eval/internal/embedding"
	"github.com/DjordjeVuckovic/plm-eval/internal/encoder"
)

const clipContextLength = 77

var transformerModels = []string{
	"bert-base-uncased",
	"bert-base-cased",
	"bert-large-uncased",
	"bert-large-cased",
	"roberta-base",
	"roberta-large",
	"roberta-large-mnli",
	"facebook/muppet-roberta-large",
	"facebook/contriever",
	"facebook/contriever-msmarco",
	"Jean-Baptiste/roberta-large-ner-english",
	"princeton-nlp/unsup-simcse-roberta-large",
	"princeton-nlp/sup-simcse-roberta-large",
	"xlm-roberta-large",
	"xlm-roberta-large-finetuned-conll03-english",
	"deepset/xlm-roberta-large-squad2",
	"joeddav/xlm-roberta-large-xnli",
	"sentence-transformers/distiluse-base-multilingual-cased-v2",
	"sentence-transformers/paraphrase-distilroberta-base-v2",
	"sentence-transformers/paraphrase-MiniLM-L6-v2",
	"sentence-transformers/msmarco-distilbert-base-tas-b",
	"sentence-transformers/all-MiniLM-L12-v1",
	"sentence-transformers/all-mpnet-base-v2",
	"sentence-transformers/all-roberta-large-v1",
}

var sentenceModels = []string{
	"average_word_embeddings_glove.6B.300d",
	"average_word_embeddings_komninos",
}

var openCLIPModels = []string{
	"RN50",
	"RN101",
	"RN50x4",
	"RN50x16",
	"ViT-B-32",
	"ViT-B-16",
	"ViT-L-14",
	"ViT-L-14-336",
}

// Default returns the registry of every model this tool knows how to load.
func Default() *Registry {
	r := New()
	specs := []FamilySpec{
		{
			Family: encoder.FamilyTransformer,
			Names:  transformerModels,
			New:    newTransformer,
		},
		{
			Family: encoder.FamilySentence,
			Names:  sentenceModels,
			New:    newSentence,
		},
		{
			Family:        encoder.FamilyOpenCLIP,
			ContextLength: clipContextLength,
			Names:         openCLIPModels,
			New:           newOpenCLIP,
		},
	}
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			panic(err)
		}
	}
	return r
}

func newTransformer(ctx context.Context, name string, cfg *embedding.Config, opts Options) (encoder.TextEncoder, error) {
	client, err := embedding.NewTEIClient(cfg.TEIURL, embedding.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	enc := embedding.NewTransformerEncoder(client, name, opts.Pooling)
	if _, err := enc.CheckModel(ctx); err != nil {
		slog.Warn("could not verify TEI model", "model", name, "error", err)
	}

	slog.Info("loaded transformer model",
		"model", name,
		"pooling", enc.Pooling(),
		"max_batch_size", enc.MaxBatchSize(),
		"url", cfg.TEIURL,
	)
	return enc, nil
}

func newSentence(_ context.Context, name string, cfg *embedding.Config, _ Options) (encoder.TextEncoder, error) {
	client, err := embedding.NewOllamaClient(cfg.OllamaURL, embedding.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, err
	}

	slog.Info("loaded sentence-transformers model", "model", name, "url", cfg.OllamaURL)
	return embedding.NewSentenceEncoder(client, name), nil
}

func newOpenCLIP(_ context.Context, name string, cfg *embedding.Config, _ Options) (encoder.TextEncoder, error) {
	client := embedding.NewOpenAIClient(embedding.OpenAIConfig{
		BaseURL:    cfg.OpenAIURL,
		APIKey:     cfg.OpenAIKey,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})

	slog.Info("loaded open-clip model", "model", name, "context_length", clipContextLength, "url", cfg.OpenAIURL)
	return embedding.NewCLIPEncoder(client, name), nil
}
