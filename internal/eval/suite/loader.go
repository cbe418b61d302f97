package suite

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/plm-eval/internal/apperr"
	"gopkg.in/yaml.v3"
)

const dataDirEnv = "PLM_EVAL_DATA_DIR"

// Default returns the built-in STS configuration.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read suite file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperr.NewValidationWrap("parse suite YAML", err)
	}
	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.BatchSize < 0 {
		return apperr.NewValidation(fmt.Sprintf("batch_size must be positive, got %d", cfg.BatchSize))
	}
	if cfg.FastLimit < 0 {
		return apperr.NewValidation(fmt.Sprintf("fast_limit must be positive, got %d", cfg.FastLimit))
	}

	seen := make(map[string]bool, len(cfg.Tasks))
	for i, t := range cfg.Tasks {
		if t.Name == "" {
			return apperr.NewValidation(fmt.Sprintf("task at index %d has no name", i))
		}
		if seen[t.Name] {
			return apperr.NewValidation(fmt.Sprintf("task %q listed twice", t.Name))
		}
		seen[t.Name] = true
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FastLimit == 0 {
		cfg.FastLimit = DefaultFastLimit
	}
	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv(dataDirEnv)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if len(cfg.Tasks) == 0 {
		cfg.Tasks = make([]Task, 0, len(BuiltinTasks))
		for _, name := range BuiltinTasks {
			cfg.Tasks = append(cfg.Tasks, Task{Name: name})
		}
	}

	for i := range cfg.Tasks {
		t := &cfg.Tasks[i]
		if t.Path == "" {
			t.Path = "sts/" + t.Name + ".tsv"
		}
		if t.Sentence1Column == "" {
			t.Sentence1Column = DefaultSentence1Column
		}
		if t.Sentence2Column == "" {
			t.Sentence2Column = DefaultSentence2Column
		}
		if t.ScoreColumn == "" {
			t.ScoreColumn = DefaultScoreColumn
		}
	}
}
