package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "solve", "-a", "2", "-s", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "L: 0.6666")
	assert.Contains(t, out, "Ru: 0.4\n")

	out, err = execute(t, "solve", "-a", "1", "-s", "1", "-k", "4", "--detail", "--distribution", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "M/M/1/K")
	assert.Contains(t, out, "L: 2\n")
	assert.Contains(t, out, "P4: 0.2\n")
}

func TestSolveCommandErrors(t *testing.T) {
	_, err := execute(t, "solve", "-a", "5", "-s", "5")
	assert.ErrorContains(t, err, "arrival_rate")

	_, err = execute(t, "solve", "-a", "1", "-s", "5", "-k", "lots")
	assert.ErrorContains(t, err, "capacity")

	_, err = execute(t, "solve", "-a", "two", "-s", "5")
	assert.ErrorContains(t, err, "must be a number")

	_, err = execute(t, "solve", "-a", "1")
	assert.Error(t, err, "service rate is required")
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "records.csv")
	chartPath := filepath.Join(dir, "occupancy.svg")

	first, err := execute(t, "simulate", "-a", "3", "-s", "5", "-n", "15", "--seed", "5", "--table", "--csv", csvPath, "--chart", chartPath)
	require.NoError(t, err)
	assert.Contains(t, first, "Average Waiting Time:")
	assert.Contains(t, first, "Seed: 5\n")

	second, err := execute(t, "simulate", "-a", "3", "-s", "5", "-n", "15", "--seed", "5", "--table")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 16)

	chart, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.Contains(t, string(chart), "<svg")
}

func TestSimulateUsesEnvironment(t *testing.T) {
	t.Setenv("QUEUESIM_SIMULATION_DEFAULT_CUSTOMERS", "7")
	t.Setenv("QUEUESIM_SIMULATION_SEED", "3")
	csvPath := filepath.Join(t.TempDir(), "records.csv")

	out, err := execute(t, "simulate", "-a", "3", "-s", "5", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 3\n")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(string(data), "\n"))
}

func TestConfigFileLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  seed: 11\n  default_customers: 4\n  max_customers: 100\n"), 0o644))

	out, err := execute(t, "--config", path, "simulate", "-a", "1", "-s", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 11\n")

	// flags beat the file
	out, err = execute(t, "--config", path, "simulate", "-a", "1", "-s", "2", "--seed", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 12\n")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log_level: loud\n"), 0o644))
	_, err = execute(t, "--config", bad, "solve", "-a", "1", "-s", "2")
	assert.ErrorContains(t, err, "log_level")
}

func TestCompareCommand(t *testing.T) {
	out, err := execute(t, "compare", "-a", "2", "-s", "5", "-n", "2000", "--seed", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Model: M/M/1, customers: 2000")
	for _, name := range []string{"L ", "Lq", "W ", "Wq", "Ru"} {
		assert.Contains(t, out, name)
	}

	_, err = execute(t, "compare", "-a", "2", "-s", "5", "-n", "50", "--seed", "4", "--tolerance", "0.0000001")
	assert.ErrorContains(t, err, "exceeds tolerance")
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	batch := `seed: 9
cases:
  - name: light
    arrival_rate: 2
    service_rate: 5
    customers: 100
    compare: true
  - name: finite
    arrival_rate: 1
    service_rate: 1
    capacity: 4
  - name: overloaded
    arrival_rate: 6
    service_rate: 2
    servers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(batch), 0o644))

	out, err := execute(t, "batch", path, "--summary", "-")
	require.ErrorContains(t, err, "1 of 3 cases failed")
	assert.Contains(t, out, "== light ==")
	assert.Contains(t, out, "== finite ==")
	assert.Contains(t, out, "Model: M/M/1, customers: 100")

	idx := strings.Index(out, "case,arrival_rate")
	require.GreaterOrEqual(t, idx, 0)
	rows, err := csv.NewReader(strings.NewReader(out[idx:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "M/M/1/K", rows[2][5])
	assert.NotEmpty(t, rows[3][14])
}

func TestBatchCommandMissingFile(t *testing.T) {
	_, err := execute(t, "batch", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
