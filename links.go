package perftest

import (
	"os"
	"path/filepath"
)

// TestScripts are the harness helpers linked into every output dir.
var TestScripts = []string{"test_sql.sh", "test_server.sh", "test_client.sh"}

// LinkResult is the outcome of one best-effort symlink. A non-nil Err is
// reported but never stops the run.
type LinkResult struct {
	Link   string
	Target string
	Err    error
}

func (r LinkResult) OK() bool { return r.Err == nil }

// LinkScripts creates outDir/<script> -> scriptDir/<script> for each test
// script. The targets are not required to exist.
func LinkScripts(outDir, scriptDir string) []LinkResult {
	results := make([]LinkResult, 0, len(TestScripts))
	for _, script := range TestScripts {
		r := LinkResult{
			Link:   filepath.Join(outDir, script),
			Target: filepath.Join(scriptDir, script),
		}
		r.Err = os.Symlink(r.Target, r.Link)
		results = append(results, r)
	}
	return results
}
