package perftest

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/joinbench/perftest/metrics"
	"github.com/joinbench/perftest/util"
)

// GenContext carries the collaborators of a generation run.
type GenContext struct {
	Log     zerolog.Logger
	Metrics *metrics.Metrics
}

func NewGenContext(log zerolog.Logger) *GenContext {
	return &GenContext{Log: log, Metrics: metrics.New()}
}

// Generate performs one full run into cfg.OutDir: settings, templates, script
// links, then r and s. A failure leaves whatever was already written in place.
func (c *GenContext) Generate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.Metrics == nil {
		c.Metrics = metrics.New()
	}
	log := c.Log.With().Str("outdir", cfg.OutDir).Logger()

	if err := createOutDir(cfg.OutDir); err != nil {
		return err
	}
	if err := writeSettings(cfg); err != nil {
		return err
	}
	c.Metrics.ArtifactsWritten.WithLabelValues("settings").Inc()
	log.Debug().Str("file", settingsFile(cfg.OutDir)).Msg("wrote settings")

	if err := c.emitArtifacts(log, cfg); err != nil {
		return err
	}
	c.linkScripts(log, cfg)

	rng := NewRand(cfg.Seed)
	r, err := c.generateDataset(log, rng, RParams(cfg), cfg.RPath(), cfg.Stats)
	if err != nil {
		return err
	}
	s, err := c.generateDataset(log, rng, SParams(cfg), cfg.SPath(), cfg.Stats)
	if err != nil {
		return err
	}

	if cfg.Stats {
		stats := ComputeJoinStats(cfg.Seed, r, s)
		if err := writeStats(cfg.OutDir, stats); err != nil {
			return err
		}
		c.Metrics.ArtifactsWritten.WithLabelValues("stats").Inc()
		log.Info().
			Str("join_rows", humanize.Comma(stats.JoinRows)).
			Str("filtered_join_rows", humanize.Comma(stats.FilteredJoinRows)).
			Msg("wrote join stats")
	}

	if cfg.MetricsFile != "" {
		if err := c.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("error writing metrics file: %w", err)
		}
	}
	summary, err := c.Metrics.Print()
	if err != nil {
		return fmt.Errorf("error gathering metrics: %w", err)
	}
	log.Debug().Msg("metrics:\n" + summary)
	log.Info().Msg("done")
	return nil
}

func (c *GenContext) emitArtifacts(log zerolog.Logger, cfg Config) error {
	emitter, err := NewEmitter(cfg)
	if err != nil {
		return err
	}
	filename, err := emitter.EmitSQL()
	if err != nil {
		return err
	}
	c.Metrics.ArtifactsWritten.WithLabelValues("sql").Inc()
	log.Info().Str("file", filename).Msg("rendered sql script")

	for _, jt := range cfg.JoinTypes {
		filename, err = emitter.EmitScenario(jt)
		if err != nil {
			return err
		}
		c.Metrics.ArtifactsWritten.WithLabelValues("scenario").Inc()
		log.Info().Str("file", filename).Str("join", string(jt)).Msg("rendered scenario")
	}
	return nil
}

func (c *GenContext) linkScripts(log zerolog.Logger, cfg Config) {
	for _, res := range LinkScripts(cfg.OutDir, cfg.ScriptDir) {
		if !res.OK() {
			c.Metrics.BestEffortFailures.WithLabelValues("symlink").Inc()
			log.Warn().Err(res.Err).Str("link", res.Link).Msg("could not link test script")
			continue
		}
		log.Debug().Str("link", res.Link).Str("target", res.Target).Msg("linked test script")
	}
}

// generateDataset draws, writes and forgets one dataset. Only its histograms
// are kept, and only when summarize is set.
func (c *GenContext) generateDataset(log zerolog.Logger, rng *rand.Rand, p DatasetParams, filename string, summarize bool) (*DatasetSummary, error) {
	since := time.Now()
	d := Generate(rng, p)

	if err := util.RemoveIfExists(filename); err != nil {
		c.Metrics.BestEffortFailures.WithLabelValues("remove").Inc()
		log.Warn().Err(err).Str("file", filename).Msg("could not remove stale dataset")
	}
	if err := writeDataset(filename, d); err != nil {
		return nil, err
	}

	matching := p.MatchingRows()
	c.Metrics.RowsGenerated.WithLabelValues(p.Name).Add(float64(d.Len()))
	c.Metrics.MatchingKeys.WithLabelValues(p.Name).Add(float64(matching))
	c.Metrics.ArtifactsWritten.WithLabelValues("dataset").Inc()
	log.Info().Msgf("wrote %s rows (%s matching) to %s in %s",
		humanize.Comma(int64(d.Len())),
		humanize.Comma(int64(matching)),
		filename,
		time.Since(since))

	if !summarize {
		return nil, nil
	}
	return Summarize(d), nil
}
