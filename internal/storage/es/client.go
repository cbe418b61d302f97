package es

import "github.com/elastic/go-elasticsearch/v8"

const DefaultIndexName = "plm-evaluations"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

// TaskIndexName is the index holding one document per evaluated task.
func (c ClientConfig) TaskIndexName() string {
	return c.IndexName + "-tasks"
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
