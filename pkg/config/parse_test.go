package config

import (
	"strings"
	"testing"
)

func TestParseConfigYAMLOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfigYAML([]byte(`
log_level: debug
server:
  http_addr: ":9090"
simulation:
  seed: 7
`))
	if err != nil {
		t.Fatalf("ParseConfigYAML error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Server.HTTPAddr)
	}
	if cfg.Server.GRPCAddr != ":50051" {
		t.Errorf("expected default grpc addr to survive, got %s", cfg.Server.GRPCAddr)
	}
	if cfg.Simulation.Seed != 7 || cfg.Simulation.DefaultCustomers != 20 {
		t.Errorf("unexpected simulation config %+v", cfg.Simulation)
	}
}

func TestParseConfigYAMLErrors(t *testing.T) {
	if _, err := ParseConfigYAML([]byte("log_level: [")); err == nil || !strings.Contains(err.Error(), "failed to parse config yaml") {
		t.Errorf("expected parse error, got %v", err)
	}
	if _, err := ParseConfigYAML([]byte("log_level: loud")); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseBatchYAMLString(t *testing.T) {
	batch, err := ParseBatchYAMLString(`
cases:
  - name: a
    arrival_rate: 2
    service_rate: 5
    capacity: inf
  - name: b
    arrival_rate: 1
    service_rate: 1
    capacity: 4
    customers: 10
`)
	if err != nil {
		t.Fatalf("ParseBatchYAMLString error: %v", err)
	}
	if batch.Cases[0].Params().Capacity.IsFinite() {
		t.Error("expected case a to be unbounded")
	}
	if got := batch.Cases[1].Params().Capacity.Int(); got != 4 {
		t.Errorf("expected K=4, got %d", got)
	}
}

func TestParseBatchYAMLValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no cases", "cases: []", "at least one case"},
		{"missing name", "cases:\n  - arrival_rate: 1\n    service_rate: 2", "name cannot be empty"},
		{"duplicate", "cases:\n  - name: x\n    arrival_rate: 1\n    service_rate: 2\n  - name: x\n    arrival_rate: 1\n    service_rate: 2", "duplicate case name"},
		{"negative customers", "cases:\n  - name: x\n    arrival_rate: 1\n    service_rate: 2\n    customers: -3", "customers cannot be negative"},
		{"compare without customers", "cases:\n  - name: x\n    arrival_rate: 1\n    service_rate: 2\n    compare: true", "compare requires"},
		{"bad capacity", "cases:\n  - name: x\n    arrival_rate: 1\n    service_rate: 2\n    capacity: lots", "capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBatchYAMLString(tt.yaml)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
