package perftest

import (
	"errors"
	"fmt"
	"io/fs"
)

// maxViolations bounds how many bad rows are reported per dataset.
const maxViolations = 10

// VerifyReport is the outcome of Verify on an output dir.
type VerifyReport struct {
	Config Config
	Stats  JoinStats

	// StatsChecked is set when stats.json was present and compared.
	StatsChecked bool
}

// Verify re-reads the datasets of a generated output dir and checks them
// against the persisted settings. All violations are returned joined in one error.
func Verify(outDir string) (VerifyReport, error) {
	cfg, err := ReadSettings(outDir)
	if err != nil {
		return VerifyReport{}, err
	}
	report := VerifyReport{Config: cfg}

	var (
		violations []error
		summaries  []*DatasetSummary
	)
	for _, ds := range []struct {
		filename string
		params   DatasetParams
	}{
		{cfg.RPath(), RParams(cfg)},
		{cfg.SPath(), SParams(cfg)},
	} {
		d, err := readDataset(ds.filename, ds.params)
		if err != nil {
			return report, err
		}
		violations = append(violations, CheckDataset(d)...)
		summaries = append(summaries, Summarize(d))
	}
	report.Stats = ComputeJoinStats(cfg.Seed, summaries[0], summaries[1])

	persisted, err := ReadStats(outDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		violations = append(violations, err)
	default:
		report.StatsChecked = true
		if persisted != report.Stats {
			violations = append(violations, fmt.Errorf("stats.json does not match the datasets: persisted %+v, computed %+v", persisted, report.Stats))
		}
	}

	return report, errors.Join(violations...)
}

// CheckDataset returns one error per violated generation invariant of d.
func CheckDataset(d *Dataset) []error {
	p := d.Params
	var violations []error
	if d.Len() != p.NumRows {
		violations = append(violations, fmt.Errorf("%s: %d rows, want %d", p.Name, d.Len(), p.NumRows))
	}

	bad := 0
	report := func(format string, args ...any) {
		bad++
		if bad <= maxViolations {
			violations = append(violations, fmt.Errorf(p.Name+": "+format, args...))
		}
	}
	matching := 0
	for i := 0; i < d.Len(); i++ {
		row := d.Row(i)
		if row[0] < p.AMin || row[0] > p.AMax {
			report("row %d: %s=%d outside [%d,%d]", i, p.Header[0], row[0], p.AMin, p.AMax)
		}
		switch {
		case p.IsMatching(row[1]):
			matching++
		case row[1] != p.NotMatch():
			report("row %d: %s=%d is neither matching nor %d", i, p.Header[1], row[1], p.NotMatch())
		}
		if row[2] < p.PayloadMin || row[2] > p.PayloadMax {
			report("row %d: %s=%d outside [%d,%d]", i, p.Header[2], row[2], p.PayloadMin, p.PayloadMax)
		}
	}
	if bad > maxViolations {
		violations = append(violations, fmt.Errorf("%s: %d more bad rows", p.Name, bad-maxViolations))
	}
	if want := p.MatchingRows(); matching != want {
		violations = append(violations, fmt.Errorf("%s: %d matching keys, want %d", p.Name, matching, want))
	}
	return violations
}
