package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joinbench/perftest"
)

func main() {
	root := RootCommand(os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

// RootCommand generates a perftest output dir; `verify` checks one.
func RootCommand(logOut io.Writer) *cobra.Command {
	var (
		logLevel  string
		logFormat string
		log       zerolog.Logger
	)
	cfg := perftest.DefaultConfig()

	root := &cobra.Command{
		Use:           "perftest-gen [out-dir]",
		Short:         "Generate r and s datasets and scenario files for the join benchmark",
		Args:          exactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = newLogger(logOut, logLevel, logFormat)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.OutDir = filepath.Clean(args[0])
			return perftest.NewGenContext(log).Generate(cfg)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console|json)")
	cfg.BindFlags(root.Flags())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", perftest.ErrInvalidArgument, err)
	})

	root.AddCommand(&cobra.Command{
		Use:   "verify [out-dir]",
		Short: "Check the datasets of an output dir against its settings.json",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := perftest.Verify(args[0])
			if err != nil {
				return err
			}
			log.Info().
				Str("outdir", args[0]).
				Int("r_matching", report.Stats.R.MatchingRows).
				Int("s_matching", report.Stats.S.MatchingRows).
				Int64("filtered_join_rows", report.Stats.FilteredJoinRows).
				Bool("stats_checked", report.StatsChecked).
				Msg("output dir is consistent")
			return nil
		},
	})
	return root
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", perftest.ErrInvalidArgument, err)
		}
		return nil
	}
}

func newLogger(out io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("%w: %v", perftest.ErrInvalidArgument, err)
	}
	switch format {
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("%w: unknown log format %q", perftest.ErrInvalidArgument, format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
