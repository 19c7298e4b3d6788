package perftest

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/*.template
var embeddedTemplates embed.FS

const (
	RFilePlaceholder    = "{{ RFILE }}"
	SFilePlaceholder    = "{{ SFILE }}"
	JoinTypePlaceholder = "{{ JOINTYPE }}"

	sqlTemplateName      = "perftest.sql.template"
	scenarioTemplateName = "perftest.txt.template"
)

// Replacement substitutes every literal occurrence of Token with Value.
type Replacement struct {
	Token string
	Value string
}

// Render applies the replacements in order. Tokens are plain text, not template syntax,
// so a template without a token is returned unchanged.
func Render(template string, replacements ...Replacement) string {
	for _, r := range replacements {
		template = strings.ReplaceAll(template, r.Token, r.Value)
	}
	return template
}

// SQLFilename is the name of the rendered sql script.
func SQLFilename() string { return "perftest.sql" }

// ScenarioFilename is the name of the rendered scenario for jt.
func ScenarioFilename(jt JoinType) string {
	return fmt.Sprintf("perftest_%s.txt", jt)
}

// Emitter renders the sql script and the per join type scenario files into the output dir.
type Emitter struct {
	templates fs.FS
	outDir    string
	rfile     string
	sfile     string
}

// NewEmitter reads templates from cfg.TemplateDir, or from the templates built
// into the binary when it is empty.
func NewEmitter(cfg Config) (*Emitter, error) {
	var templates fs.FS
	if cfg.TemplateDir != "" {
		templates = os.DirFS(cfg.TemplateDir)
	} else {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("error opening embedded templates: %w", err)
		}
		templates = sub
	}
	return &Emitter{
		templates: templates,
		outDir:    cfg.OutDir,
		rfile:     cfg.RFile,
		sfile:     cfg.SFile,
	}, nil
}

// EmitSQL writes perftest.sql and returns its path.
func (e *Emitter) EmitSQL() (string, error) {
	return e.emit(sqlTemplateName, SQLFilename(),
		Replacement{RFilePlaceholder, e.rfile},
		Replacement{SFilePlaceholder, e.sfile},
	)
}

// EmitScenario writes perftest_<jt>.txt and returns its path.
func (e *Emitter) EmitScenario(jt JoinType) (string, error) {
	return e.emit(scenarioTemplateName, ScenarioFilename(jt),
		Replacement{RFilePlaceholder, e.rfile},
		Replacement{SFilePlaceholder, e.sfile},
		Replacement{JoinTypePlaceholder, string(jt)},
	)
}

func (e *Emitter) emit(templateName, outName string, replacements ...Replacement) (string, error) {
	bz, err := fs.ReadFile(e.templates, templateName)
	if err != nil {
		return "", fmt.Errorf("error reading template %s: %w", templateName, err)
	}
	filename := filepath.Join(e.outDir, outName)
	if err := os.WriteFile(filename, []byte(Render(string(bz), replacements...)), 0o644); err != nil {
		return "", fmt.Errorf("error writing %s: %w", filename, err)
	}
	return filename, nil
}
