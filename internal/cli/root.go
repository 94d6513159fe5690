// Package cli implements the autumn command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tessro/autumn/internal/config"
	autumnerrors "github.com/tessro/autumn/internal/errors"
	"github.com/tessro/autumn/internal/logger"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "autumn",
	Short: "A fall-themed desk widget for your terminal",
	Long: `Autumn shows a clock, the local weather and what Spotify is playing,
with play/pause and skip controls. Run without a command to open the widget.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogging(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.autumnrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	// A missing .env is fine.
	_ = godotenv.Load()

	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid config"), autumnerrors.ErrInvalidConfig)
	}

	return nil
}

// initLogging sends logs to stderr for one-shot commands and to a file when
// the widget owns the terminal.
func initLogging(cmd *cobra.Command) error {
	lc := logger.Config{Output: cfg.Log.File, Level: cfg.Log.Level}
	if verbose {
		lc.Level = "debug"
	}
	if lc.Output == "" {
		if ownsTerminal(cmd) {
			lc.Output = logger.DefaultFile()
		} else {
			lc.Output = "stderr"
			if !verbose {
				lc.Level = "warn"
			}
		}
	}

	closer, err := logger.Init(lc)
	if err != nil {
		return err
	}
	logCloser = closer
	zlog.Debug().Str("config", config.Path()).Str("command", cmd.Name()).Msg("starting")
	return nil
}

// ownsTerminal reports whether cmd runs the widget: the root command or ui.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "ui"
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 130
		}
		fmt.Fprintln(os.Stderr, autumnerrors.Format(err))
		return 1
	}
	return 0
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
