package perftest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_WriteDataset(t *testing.T) {
	d := &Dataset{
		Params:  RParams(DefaultConfig()),
		A:       []int64{3, 0, 1000},
		Key:     []int64{1, 10, 9},
		Payload: []int64{-1073741824, 0, -17},
	}
	filename := filepath.Join(t.TempDir(), "r.csv")
	require.NoError(t, writeDataset(filename, d))

	bz, err := os.ReadFile(filename)
	require.NoError(t, err)
	require.Equal(t, "ra,rc,rd\n3,1,-1073741824\n0,10,0\n1000,9,-17\n", string(bz))

	got, err := readDataset(filename, d.Params)
	require.NoError(t, err)
	require.Equal(t, d, got)
}

func Test_ReadDataset_BadHeader(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "s.csv")
	require.NoError(t, os.WriteFile(filename, []byte("ra,rc,rd\n1,2,3\n"), 0o644))

	_, err := readDataset(filename, SParams(DefaultConfig()))
	require.ErrorContains(t, err, `column 0 is "ra", want "sa"`)
}

func Test_ReadDataset_BadValue(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "s.csv")
	require.NoError(t, os.WriteFile(filename, []byte("sa,sf,sg\n1,2,3\n4,x,6\n"), 0o644))

	_, err := readDataset(filename, SParams(DefaultConfig()))
	require.ErrorContains(t, err, "line 3 column sf")
}

func Test_CreateOutDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "run1")
	require.NoError(t, createOutDir(outDir))
	fi, err := os.Stat(outDir)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	require.ErrorIs(t, createOutDir(outDir), ErrDirectoryConflict)

	trailing := filepath.Join(t.TempDir(), "fresh") + string(filepath.Separator)
	require.NoError(t, createOutDir(trailing))
	require.ErrorIs(t, createOutDir(trailing), ErrDirectoryConflict)
}

func Test_Settings(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "run")
	require.NoError(t, createOutDir(outDir))

	cfg := DefaultConfig()
	cfg.OutDir = outDir
	cfg.Seed = -5
	cfg.JoinTypes = JoinTypes{JoinLoop}
	require.NoError(t, writeSettings(cfg))

	got, err := ReadSettings(outDir)
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	bz, err := os.ReadFile(settingsFile(outDir))
	require.NoError(t, err)
	for _, key := range []string{"outdir", "seed", "rfile", "sfile", "numr", "nums", "amax", "selrater", "selrates", "jointypes"} {
		require.Contains(t, string(bz), `"`+key+`":`)
	}
}
