package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joinbench/perftest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	cmd := RootCommand(&logs)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return logs.String(), err
}

func Test_RootCommand_Generate(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "perf")
	logs, err := execute(t, outDir,
		"--numr", "4", "--nums", "4", "--amax", "10",
		"--selrater", "0.5", "--selrates", "1.0", "--seed", "42",
		"--log-format", "json")
	require.NoError(t, err)
	require.Contains(t, logs, `"message":"done"`)

	cfg, err := perftest.ReadSettings(outDir)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.NumR)
	require.Equal(t, int64(42), cfg.Seed)
	require.Equal(t, "r.csv", cfg.RFile)
	require.Equal(t, 0.5, cfg.SelRateR)

	_, err = execute(t, "verify", outDir, "--log-level", "error")
	require.NoError(t, err)
}

func Test_RootCommand_TrailingSeparator(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "perf")
	_, err := execute(t, outDir+string(filepath.Separator),
		"--numr", "4", "--nums", "4", "--selrates", "1", "--log-level", "error")
	require.NoError(t, err)

	cfg, err := perftest.ReadSettings(outDir)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.NumS)
}

func Test_RootCommand_Errors(t *testing.T) {
	existing := t.TempDir()
	cases := []struct {
		name string
		args []string
		err  error
	}{
		{"no outdir", []string{}, perftest.ErrInvalidArgument},
		{"two outdirs", []string{"a", "b"}, perftest.ErrInvalidArgument},
		{"bad int", []string{filepath.Join(existing, "x"), "--numr", "ten"}, perftest.ErrInvalidArgument},
		{"bad float", []string{filepath.Join(existing, "x"), "--selrater", "most"}, perftest.ErrInvalidArgument},
		{"unknown flag", []string{filepath.Join(existing, "x"), "--fast"}, perftest.ErrInvalidArgument},
		{"bad log level", []string{filepath.Join(existing, "x"), "--log-level", "loud"}, perftest.ErrInvalidArgument},
		{"existing dir", []string{existing, "--selrates", "1"}, perftest.ErrDirectoryConflict},
		{"tree selectivity", []string{filepath.Join(existing, "y")}, perftest.ErrConfiguration},
		{"reserved rfile", []string{filepath.Join(existing, "z"), "--selrates", "1", "--rfile", "stats.json"}, perftest.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			require.ErrorIs(t, err, tc.err)
		})
	}
	_, err := os.Stat(filepath.Join(existing, "y"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
