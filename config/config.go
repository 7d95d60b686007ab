// Package config loads the YAML construction and collaborator-registry
// configuration used to build an eos.Evaluator, in the same strict-decode
// style as the teacher's PolicyBundle (sim/bundle.go): unrecognized keys
// are rejected rather than silently ignored.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaterialCollaborators names which collaborator implementation to
// register for one material. An empty string means absent for that
// role — the construction-time equivalent of a nil Registry entry.
type MaterialCollaborators struct {
	EOS       string `yaml:"eos"`
	Surrogate string `yaml:"surrogate"`
	UQCache   string `yaml:"uq_cache"`
}

// Config is the full construction configuration for an eos.Evaluator.
type Config struct {
	Materials      int    `yaml:"materials"`
	Elements       int    `yaml:"elements"`
	Qpts           int    `yaml:"qpts"`
	IsCPU          bool   `yaml:"is_cpu"`
	PackSparseMats bool   `yaml:"pack_sparse_mats"`

	EnableDB       bool   `yaml:"enable_db"`
	StorePath      string `yaml:"store_path"`
	SurrogateDebug bool   `yaml:"surrogate_debug"`
	EnableTrace    bool   `yaml:"enable_trace"`

	PartitionBudgetBytes int `yaml:"partition_budget_bytes"`

	Collaborators []MaterialCollaborators `yaml:"material_collaborators"`
}

// Load reads and strictly decodes a YAML construction config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the construction parameters are internally consistent.
func (c *Config) Validate() error {
	if c.Materials <= 0 {
		return fmt.Errorf("config: materials must be positive, got %d", c.Materials)
	}
	if c.Elements <= 0 {
		return fmt.Errorf("config: elements must be positive, got %d", c.Elements)
	}
	if c.Qpts <= 0 {
		return fmt.Errorf("config: qpts must be positive, got %d", c.Qpts)
	}
	if len(c.Collaborators) != 0 && len(c.Collaborators) != c.Materials {
		return fmt.Errorf("config: material_collaborators has %d entries, want 0 or %d", len(c.Collaborators), c.Materials)
	}
	if c.EnableDB && c.StorePath == "" {
		return fmt.Errorf("config: enable_db is set but store_path is empty")
	}
	return nil
}
