package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost  = "0.0.0.0"
	DefaultPort  = 8080
	DefaultModel = "gemini-2.5-flash"
	// DefaultMaxBodyBytes bounds chat request bodies, inline images included.
	DefaultMaxBodyBytes int64 = 20 << 20
)

// Config represents the structure of the configuration file.
type Config struct {
	Server struct {
		Port              int     `yaml:"port"`
		Host              string  `yaml:"host"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
		MaxBodyBytes      int64   `yaml:"max_body_bytes"`
	} `yaml:"server"`
	Gemini struct {
		TextModel   string   `yaml:"text_model"`
		VisionModel string   `yaml:"vision_model"`
		APIKeys     []string `yaml:"api_keys"`
	} `yaml:"gemini"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads a YAML file from the given path and unmarshals it into a Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.RequestsPerSecond > 0 && c.Server.Burst <= 0 {
		c.Server.Burst = 1
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Gemini.TextModel == "" {
		c.Gemini.TextModel = DefaultModel
	}
	if c.Gemini.VisionModel == "" {
		c.Gemini.VisionModel = DefaultModel
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}
