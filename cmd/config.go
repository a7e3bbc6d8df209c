package cmd

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

const (
	DictCliHisFileEnv     = "DICTCLI_HISTFILE"
	DictCliHisFileDefault = ".dictcli_history"
	DictCliLogLevelEnv    = "DICTCLI_LOG_LEVEL"

	defaultPrompt = "dict> "
)

// Config holds the settings of dict-cli. File values are overridden by
// command line flags.
type Config struct {
	LogLevel    string `yaml:"logLevel"`
	MaxMemory   int64  `yaml:"maxMemory"`
	HistoryFile string `yaml:"historyFile"`
	Prompt      string `yaml:"prompt"`
}

// DefaultConfig returns the settings used when no file is given, seeded
// from the environment.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    env.Str(DictCliLogLevelEnv, "warn"),
		HistoryFile: getDotfilePath(DictCliHisFileEnv, DictCliHisFileDefault),
		Prompt:      defaultPrompt,
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig. An empty
// path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxMemory < 0 {
		return nil, fmt.Errorf("parse config %s: maxMemory must not be negative", path)
	}
	return cfg, nil
}

// override applies the flags that were given on the command line.
func (c *Config) override(opts *Options) error {
	if opts.LogLevel != "" {
		c.LogLevel = opts.LogLevel
	}
	if opts.MaxMemory != nil {
		if *opts.MaxMemory < 0 {
			return fmt.Errorf("max-memory must not be negative: %d", *opts.MaxMemory)
		}
		c.MaxMemory = *opts.MaxMemory
	}
	return nil
}

// getDotfilePath returns the path named by envOverride, or dotFilename in
// the home directory. "/dev/null" disables the file.
func getDotfilePath(envOverride, dotFilename string) string {
	path := env.Str(envOverride)
	if path != "" {
		if path == "/dev/null" {
			return ""
		}
		return path
	}
	if home := env.Str("HOME"); home != "" {
		return fmt.Sprintf("%s/%s", home, dotFilename)
	}
	return ""
}
