package perftest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joinbench/perftest/util"
)

const (
	settingsFilename = "settings.json"
	statsFilename    = "stats.json"
)

func settingsFile(outDir string) string {
	return filepath.Join(outDir, settingsFilename)
}

func statsFile(outDir string) string {
	return filepath.Join(outDir, statsFilename)
}

// createOutDir creates outDir and any missing parents. The run never writes
// into a directory that already exists.
func createOutDir(outDir string) error {
	outDir = filepath.Clean(outDir)
	if err := os.MkdirAll(filepath.Dir(outDir), 0o755); err != nil {
		return fmt.Errorf("error creating parent of %s: %w", outDir, err)
	}
	err := os.Mkdir(outDir, 0o755)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrDirectoryConflict, outDir)
	}
	if err != nil {
		return fmt.Errorf("error creating output dir: %w", err)
	}
	return nil
}

func writeSettings(cfg Config) error {
	if err := util.WriteJSON(settingsFile(cfg.OutDir), cfg); err != nil {
		return fmt.Errorf("error writing settings file: %w", err)
	}
	return nil
}

// ReadSettings loads the settings persisted by a previous run in outDir.
func ReadSettings(outDir string) (Config, error) {
	var cfg Config
	if err := util.ReadJSON(settingsFile(outDir), &cfg); err != nil {
		return Config{}, fmt.Errorf("error reading settings file: %w", err)
	}
	// the directory may have been moved since it was generated
	cfg.OutDir = outDir
	return cfg, nil
}

// writeDataset writes d as csv with a header line. Errors are fatal to the run.
func writeDataset(filename string, d *Dataset) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", filename, err)
	}
	bw := bufio.NewWriterSize(f, 1<<20)
	w := csv.NewWriter(bw)

	if err := w.Write(d.Params.Header[:]); err != nil {
		_ = f.Close()
		return fmt.Errorf("error writing header of %s: %w", filename, err)
	}
	record := make([]string, 3)
	for i := 0; i < d.Len(); i++ {
		row := d.Row(i)
		for j, v := range row {
			record[j] = strconv.FormatInt(v, 10)
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return fmt.Errorf("error at row %d writing %s: %w", i, filename, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("error flushing %s: %w", filename, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("error flushing %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", filename, err)
	}
	return nil
}

// readDataset parses a csv written by writeDataset. The header must match p.
func readDataset(filename string, p DatasetParams) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = 3
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header of %s: %w", filename, err)
	}
	for i, col := range p.Header {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header in %s: column %d is %q, want %q", filename, i, header[i], col)
		}
	}

	d := &Dataset{Params: p}
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", filename, err)
		}
		var row Row
		for j, field := range record {
			row[j], err = strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %s: %w", filename, line, p.Header[j], err)
			}
		}
		d.A = append(d.A, row[0])
		d.Key = append(d.Key, row[1])
		d.Payload = append(d.Payload, row[2])
	}
	return d, nil
}
