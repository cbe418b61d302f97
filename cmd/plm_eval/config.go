package main

import (
	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"github.com/DjordjeVuckovic/plm-eval/internal/eval/report"
	"github.com/DjordjeVuckovic/plm-eval/internal/storage/es"
	"github.com/DjordjeVuckovic/plm-eval/pkg/stringsutil"
	"github.com/spf13/pflag"
)

type cliConfig struct {
	TextModel       string
	SuitePath       string
	Pooling         string
	Epoch           int
	OutputDir       string
	JSONPath        string
	PgConnStr       string
	EsAddresses     string
	EsIndex         string
	StoreEmbeddings bool
	Trace           bool
}

func (c *cliConfig) bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.TextModel, "text-model", "", "Model identifier to evaluate (required)")
	fs.StringVar(&c.SuitePath, "suite", "", "Path to evaluation suite YAML (default: built-in STS tasks)")
	fs.StringVar(&c.Pooling, "pooling", "pooled", "Transformer pooling strategy: pooled or mean")
	fs.IntVar(&c.Epoch, "epoch", 0, "Epoch number recorded with the results")
	fs.StringVar(&c.OutputDir, "output-dir", report.DefaultOutputDir, "Directory receiving the results table")
	fs.StringVar(&c.JSONPath, "json", "", "Also write the full record as JSON to this path")
	fs.StringVar(&c.PgConnStr, "pg", "", "PostgreSQL connection string (enables the results table sink)")
	fs.StringVar(&c.EsAddresses, "es-addresses", "", "Elasticsearch addresses, comma-separated (enables the index sink)")
	fs.StringVar(&c.EsIndex, "es-index", es.DefaultIndexName, "Elasticsearch index name")
	fs.BoolVar(&c.StoreEmbeddings, "store-embeddings", false, "Store sentence embeddings in PostgreSQL (requires --pg)")
	fs.BoolVar(&c.Trace, "trace", false, "Print OpenTelemetry spans to stderr")
}

func (c *cliConfig) validate() error {
	if c.TextModel == "" {
		return apperr.NewValidation("--text-model is required")
	}
	if c.StoreEmbeddings && c.PgConnStr == "" {
		return apperr.NewValidation("--store-embeddings requires --pg")
	}
	if c.Epoch < 0 {
		return apperr.NewValidation("--epoch must not be negative")
	}
	return nil
}

func (c *cliConfig) esAddresses() []string {
	return stringsutil.SplitTrim(c.EsAddresses, ",")
}
