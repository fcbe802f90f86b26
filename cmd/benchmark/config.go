package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultIterations = 100
)

// Config is the propagate matrix: every width is combined with every
// height.
type Config struct {
	Widths     []int  `yaml:"widths"`
	Heights    []int  `yaml:"heights"`
	Iterations int    `yaml:"iterations"`
	Scheduled  bool   `yaml:"scheduled"`
	Plot       bool   `yaml:"plot"`
	Profile    string `yaml:"profile"`
}

func DefaultConfig() *Config {
	return &Config{
		Widths:     []int{1, 10, 100},
		Heights:    []int{1, 10, 100},
		Iterations: DefaultIterations,
		Plot:       true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if len(c.Widths) == 0 || len(c.Heights) == 0 {
		return errors.New("widths and heights must not be empty")
	}
	for _, n := range append(append([]int{}, c.Widths...), c.Heights...) {
		if n <= 0 {
			return fmt.Errorf("graph dimensions must be positive, got %d", n)
		}
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	return nil
}
