package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseConfigYAML parses a Config from YAML bytes on top of Default() and validates it.
func ParseConfigYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ParseBatchYAML parses a Batch from YAML bytes and validates it.
func ParseBatchYAML(data []byte) (*Batch, error) {
	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch yaml: %w", err)
	}

	if err := validateBatch(&batch); err != nil {
		return nil, fmt.Errorf("invalid batch: %w", err)
	}

	return &batch, nil
}

// ParseBatchYAMLString parses a Batch from a YAML string and validates it.
func ParseBatchYAMLString(yamlText string) (*Batch, error) {
	return ParseBatchYAML([]byte(yamlText))
}
