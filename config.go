package perftest

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// JoinType names a join algorithm of the benchmark harness. It is substituted
// verbatim into the scenario template.
type JoinType string

const (
	JoinHash JoinType = "hash"
	JoinSort JoinType = "sort"
	JoinLoop JoinType = "loop"
	JoinTree JoinType = "tree"
)

// AllJoinTypes in the order their scenario files are rendered.
var AllJoinTypes = JoinTypes{JoinHash, JoinSort, JoinLoop, JoinTree}

// ParseJoinType accepts a join type name in any case.
func ParseJoinType(s string) (JoinType, error) {
	switch jt := JoinType(strings.TrimSpace(strings.ToLower(s))); jt {
	case JoinHash, JoinSort, JoinLoop, JoinTree:
		return jt, nil
	default:
		return "", fmt.Errorf("%w: unknown join type %q", ErrInvalidArgument, s)
	}
}

// RequiresFullSelectivity reports whether the join needs every s key to match.
func (jt JoinType) RequiresFullSelectivity() bool {
	return jt == JoinTree
}

// JoinTypes is a comma separated list flag.
type JoinTypes []JoinType

var _ pflag.Value = (*JoinTypes)(nil)

// String renders the list the way Set accepts it.
func (j *JoinTypes) String() string {
	names := make([]string, len(*j))
	for i, jt := range *j {
		names[i] = string(jt)
	}
	return strings.Join(names, ",")
}

// Set replaces the list, dropping duplicates and keeping first-seen order.
func (j *JoinTypes) Set(s string) error {
	var parsed JoinTypes
	seen := map[JoinType]bool{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		jt, err := ParseJoinType(part)
		if err != nil {
			return err
		}
		if seen[jt] {
			continue
		}
		seen[jt] = true
		parsed = append(parsed, jt)
	}
	*j = parsed
	return nil
}

// Type names the flag value in usage output.
func (j *JoinTypes) Type() string { return "jointypes" }

// Config holds every option of a generation run. It is built once from the
// command line and persisted as settings.json next to the generated files.
type Config struct {
	OutDir   string  `json:"outdir"`
	Seed     int64   `json:"seed"`
	RFile    string  `json:"rfile"`
	SFile    string  `json:"sfile"`
	NumR     int     `json:"numr"`
	NumS     int     `json:"nums"`
	AMax     int64   `json:"amax"`
	SelRateR float64 `json:"selrater"`
	SelRateS float64 `json:"selrates"`

	JoinTypes   JoinTypes `json:"jointypes"`
	TemplateDir string    `json:"template_dir"`
	ScriptDir   string    `json:"script_dir"`
	Stats       bool      `json:"stats"`
	MetricsFile string    `json:"metrics_file"`
}

// DefaultConfig returns the defaults of every option. OutDir is left empty.
func DefaultConfig() Config {
	return Config{
		RFile:     "r.csv",
		SFile:     "s.csv",
		NumR:      10_000,
		NumS:      10_000,
		AMax:      1000,
		SelRateR:  0.75,
		SelRateS:  0.75,
		JoinTypes: append(JoinTypes(nil), AllJoinTypes...),
		ScriptDir: "../scripts",
		Stats:     true,
	}
}

// BindFlags registers the generation options on fs, using the current values of c as defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random generator seed")
	fs.StringVar(&c.RFile, "rfile", c.RFile, "output r csv file")
	fs.StringVar(&c.SFile, "sfile", c.SFile, "output s csv file")
	fs.IntVar(&c.NumR, "numr", c.NumR, "num rows for r")
	fs.IntVar(&c.NumS, "nums", c.NumS, "num rows for s")
	fs.Int64Var(&c.AMax, "amax", c.AMax, "max diff a values")
	fs.Float64Var(&c.SelRateR, "selrater", c.SelRateR, "selectivity rate r")
	fs.Float64Var(&c.SelRateS, "selrates", c.SelRateS, "selectivity rate s")
	fs.Var(&c.JoinTypes, "jointypes", "join types to render scenario files for (hash,sort,loop,tree)")
	fs.StringVar(&c.TemplateDir, "template-dir", c.TemplateDir, "directory holding perftest.sql.template and perftest.txt.template; embedded templates are used when empty")
	fs.StringVar(&c.ScriptDir, "script-dir", c.ScriptDir, "link target directory for the test scripts, relative to the output dir")
	fs.BoolVar(&c.Stats, "stats", c.Stats, "write expected join cardinalities to stats.json")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile, "write generation metrics in prometheus text format to this file")
}

// Validate checks option ranges and the join type preconditions. It does not
// touch the file system.
func (c Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("%w: output dir is required", ErrInvalidArgument)
	}
	if c.RFile == "" || c.SFile == "" {
		return fmt.Errorf("%w: rfile and sfile must be set", ErrInvalidArgument)
	}
	if filepath.Clean(c.RFile) == filepath.Clean(c.SFile) {
		return fmt.Errorf("%w: rfile and sfile must differ, both are %q", ErrInvalidArgument, c.RFile)
	}
	for _, name := range []string{c.RFile, c.SFile} {
		if reservedFilename(name) {
			return fmt.Errorf("%w: %q is written by the generator itself", ErrInvalidArgument, name)
		}
	}
	if c.NumR <= 0 {
		return fmt.Errorf("%w: numr must be positive, got %d", ErrInvalidArgument, c.NumR)
	}
	if c.NumS <= 0 {
		return fmt.Errorf("%w: nums must be positive, got %d", ErrInvalidArgument, c.NumS)
	}
	if c.AMax <= 0 || c.AMax > MaxAMax {
		return fmt.Errorf("%w: amax must be in [1,%d], got %d", ErrInvalidArgument, MaxAMax, c.AMax)
	}
	if !validRate(c.SelRateR) {
		return fmt.Errorf("%w: selrater must be in [0,1], got %v", ErrInvalidArgument, c.SelRateR)
	}
	if !validRate(c.SelRateS) {
		return fmt.Errorf("%w: selrates must be in [0,1], got %v", ErrInvalidArgument, c.SelRateS)
	}
	if len(c.JoinTypes) == 0 {
		return fmt.Errorf("%w: at least one join type is required", ErrInvalidArgument)
	}
	for _, jt := range c.JoinTypes {
		if jt.RequiresFullSelectivity() && c.SelRateS != 1.0 {
			return fmt.Errorf("%w: selectivity must be 1.0 for %s join, got %v", ErrConfiguration, jt, c.SelRateS)
		}
	}
	return nil
}

// MaxAMax keeps the width of [AMin, AMax] representable as an int64.
const MaxAMax = math.MaxInt64 - 1

// reservedFilename reports whether name would overwrite another output of the run.
func reservedFilename(name string) bool {
	name = filepath.Clean(name)
	reserved := []string{settingsFilename, statsFilename, SQLFilename()}
	for _, jt := range AllJoinTypes {
		reserved = append(reserved, ScenarioFilename(jt))
	}
	reserved = append(reserved, TestScripts...)
	for _, r := range reserved {
		if name == r {
			return true
		}
	}
	return false
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 1
}

// RPath is where the r dataset is written.
func (c Config) RPath() string { return filepath.Join(c.OutDir, c.RFile) }

func (c Config) SPath() string { return filepath.Join(c.OutDir, c.SFile) }
