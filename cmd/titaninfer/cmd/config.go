package cmd

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of a titaninfer.yaml overlay: values read from
// it are applied before command-line flag overrides, so a flag the user
// actually passed always wins.
type fileConfig struct {
	ModelPath  string `yaml:"model_path"`
	Profiling  bool   `yaml:"enable_profiling"`
	WarmupRuns int    `yaml:"warmup_runs"`
	LogLevel   string `yaml:"log_level"`
	InputShape []int  `yaml:"input_shape"`
}

// loadFileConfig reads path if it exists, returning a zero fileConfig
// (not an error) if the path is empty or the file is absent — the
// config file is an optional overlay, not a requirement.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
