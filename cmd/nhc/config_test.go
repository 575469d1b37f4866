package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1700000000, 0)

func TestParseConfigDefaults(t *testing.T) {
	cfg, _, err := ParseConfig([]string{"-case", "cases.txt"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "cases.txt", cfg.Case)
	assert.Equal(t, 0.99, cfg.EdgeWeight)
	assert.Equal(t, 100, cfg.Hub)
	assert.Equal(t, 0.5, cfg.Merge)
	assert.Equal(t, "output_case_only_1700000000.txt", cfg.Output)
	assert.Equal(t, "./Data_NHC_Network.txt", cfg.NetworkPath())
}

func TestParseConfigShortFlags(t *testing.T) {
	cfg, _, err := ParseConfig([]string{"-case", "c.txt", "-w", "0.8", "-b", "0", "-m", "0.3", "-o", "out.txt"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.EdgeWeight)
	assert.Equal(t, 0, cfg.Hub)
	assert.Equal(t, 0.3, cfg.Merge)
	assert.Equal(t, "out.txt", cfg.Output)
}

func TestParseConfigRequiresCase(t *testing.T) {
	_, _, err := ParseConfig(nil, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Case is required")
}

func TestParseConfigRejectsOutOfRange(t *testing.T) {
	_, _, err := ParseConfig([]string{"-case", "c.txt", "-w", "1.5"}, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EdgeWeight")

	_, _, err = ParseConfig([]string{"-case", "c.txt", "-b", "-1"}, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hub")

	_, _, err = ParseConfig([]string{"-case", "c.txt", "-merge", "2"}, fixedNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Merge")
}

func TestParseConfigFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nhc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`case: from_file.txt
data: gs://bucket/reference/
edge_weight: 0.9
hub: 50
merge: 0.7
go_mf: /elsewhere/mf.txt
`), 0644))

	// -w is an alias of -edgeweight, so setting it shields the field from
	// the file just as well.
	cfg, _, err := ParseConfig([]string{"-config", path, "-m", "0.2", "-w", "0.8"}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "from_file.txt", cfg.Case)
	assert.Equal(t, 0.8, cfg.EdgeWeight)
	assert.Equal(t, 50, cfg.Hub)
	assert.Equal(t, 0.2, cfg.Merge)
	assert.Equal(t, "gs://bucket/reference/Data_NHC_Network.txt", cfg.NetworkPath())
	assert.Equal(t, "/elsewhere/mf.txt", cfg.GOMFPath())
	assert.Equal(t, "output_case_only_1700000000.txt", cfg.Output)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestInputPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Case = "c.txt"
	cfg.DataDir = "ref"

	assert.Contains(t, cfg.InputPaths(), "ref/Data_NHC_Connectivity.txt")

	cfg.Hub = 0
	assert.Equal(t, []string{
		"c.txt",
		"ref/Data_NHC_Network.txt",
		"ref/Data_NHC_Pathway.txt",
		"ref/Data_NHC_GO_BP.txt",
		"ref/Data_NHC_GO_MF.txt",
	}, cfg.InputPaths())
}
