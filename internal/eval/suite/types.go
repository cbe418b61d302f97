package suite

import "path/filepath"

const (
	DefaultName      = "sts"
	DefaultBatchSize = 2048
	DefaultFastLimit = 1000
	DefaultDataDir   = "/data/Datasets"

	DefaultSentence1Column = "sentence1"
	DefaultSentence2Column = "sentence2"
	DefaultScoreColumn     = "score"
)

// BuiltinTasks are evaluated when no suite file names its own tasks.
var BuiltinTasks = []string{"STS12", "STS13", "STS14", "STS15", "STS16", "STSBenchmark", "SICK-R"}

// Config drives one evaluation pass.
type Config struct {
	Name           string `yaml:"name"`
	BatchSize      int    `yaml:"batch_size"`
	FastEvaluation bool   `yaml:"fast_evaluation"`
	FastLimit      int    `yaml:"fast_limit"`
	DataDir        string `yaml:"data_dir"`
	Tasks          []Task `yaml:"tasks"`
}

type Task struct {
	Name            string `yaml:"name"`
	Path            string `yaml:"path"`
	Sentence1Column string `yaml:"sentence1_column"`
	Sentence2Column string `yaml:"sentence2_column"`
	ScoreColumn     string `yaml:"score_column"`
}

// ResolvePath returns the dataset location, relative paths being taken from
// dataDir.
func (t Task) ResolvePath(dataDir string) string {
	if filepath.IsAbs(t.Path) {
		return t.Path
	}
	return filepath.Join(dataDir, t.Path)
}

// Limit returns the maximum number of pairs to read per task, 0 meaning all.
func (c Config) Limit() int {
	if c.FastEvaluation {
		return c.FastLimit
	}
	return 0
}
