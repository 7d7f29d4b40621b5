// Package config loads the host configuration for the quill CLI from
// quill.yaml plus environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "quill.yaml"

type LLMConfig struct {
	Backend    string `yaml:"backend"`
	Model      string `yaml:"model"`
	OllamaHost string `yaml:"ollama_host,omitempty"`
}

type Config struct {
	LLM              LLMConfig `yaml:"llm"`
	ActionsFile      string    `yaml:"actions_file"`
	CitationEndpoint string    `yaml:"citation_endpoint,omitempty"`
	LogFile          string    `yaml:"log_file"`
}

func defaults() *Config {
	return &Config{
		LLM:         LLMConfig{Backend: "gemini"},
		ActionsFile: "actions.conf",
		LogFile:     "quill.log",
	}
}

// Load reads path (DefaultPath when empty). A missing file is not an error;
// defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// no config file, run on defaults
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideEnv(&c.LLM.Backend, "QUILL_BACKEND")
	overrideEnv(&c.LLM.Model, "QUILL_MODEL")
	overrideEnv(&c.LLM.OllamaHost, "OLLAMA_HOST")
	overrideEnv(&c.ActionsFile, "QUILL_ACTIONS_FILE")
	overrideEnv(&c.CitationEndpoint, "QUILL_CITATION_ENDPOINT")
	overrideEnv(&c.LogFile, "QUILL_LOG_FILE")
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
