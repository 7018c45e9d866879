// Command esper-mail analyzes email through a swarm of deterministic
// scoring agents and routes each message to a priority folder. Works on
// .eml files or a live IMAP mailbox; decisions can be archived to
// SQLite for later inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/esperstack/esper-mail/internal/archive"
	"github.com/esperstack/esper-mail/internal/config"
	"github.com/esperstack/esper-mail/internal/pipeline"
	"github.com/esperstack/esper-mail/internal/render"
	"github.com/esperstack/esper-mail/internal/router"
)

var (
	// Global flags
	debug       bool
	quiet       bool
	verbose     bool
	explainFlag bool
	configPath  string
	format      string
	jsonPath    string
	archivePath string

	logger *zap.Logger
	cfg    config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "esper-mail",
	Short: "Deterministic email priority routing",
	Long: `esper-mail runs each message through five deterministic scoring agents
(urgency, importance, topic, tone, action), merges their signals with a
benevolence clamp, and routes the message to one of five priority folders.

Same message in, same routing out. Every decision carries a plain-language
explanation and a stable three-glyph fingerprint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		switch {
		case debug:
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		case quiet:
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		default:
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if archivePath != "" {
			cfg.Archive = archivePath
		}

		switch format {
		case "pretty", "minimal", "json":
			return nil
		default:
			return fmt.Errorf("unknown format %q (want pretty, minimal, or json)", format)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	pf.BoolVarP(&verbose, "verbose", "v", false, "include the per-agent packet dump")
	pf.BoolVar(&explainFlag, "explain", false, "print the routing decision explanation")
	pf.StringVar(&configPath, "config", "", "path to YAML config file")
	pf.StringVarP(&format, "format", "f", "pretty", "output format: pretty, minimal, or json")
	pf.StringVar(&jsonPath, "json", "", "also write the JSON export to this file")
	pf.StringVar(&archivePath, "archive", "", "archive analyses to this SQLite database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newProcessor builds the pipeline, opening the archive when one is
// configured. The returned closer is non-nil only with an archive.
func newProcessor() (*pipeline.Processor, func() error, error) {
	if cfg.Archive == "" {
		return pipeline.New(logger, nil), nil, nil
	}
	store, err := archive.Open(cfg.Archive)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(logger, store), store.Close, nil
}

// emit writes the analyses in the selected format and reports failures
// on stderr. A non-nil error means at least one message failed.
func emit(analyses []router.Analysis, failures []pipeline.Failure) error {
	switch format {
	case "json":
		raw, err := render.JSONBytes(analyses)
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
	case "minimal":
		for _, a := range analyses {
			fmt.Println(render.Minimal(a))
		}
	default:
		for _, a := range analyses {
			if verbose {
				fmt.Print(render.Verbose(a))
			} else {
				fmt.Print(render.Pretty(a))
			}
			if explainFlag {
				fmt.Println(router.Explain(a))
			}
		}
	}

	if jsonPath != "" {
		raw, err := render.JSONBytes(analyses)
		if err != nil {
			return err
		}
		if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", jsonPath, err)
		}
	}

	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "failed: %s: %v\n", f.ID, f.Err)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d message(s) failed", len(failures), len(failures)+len(analyses))
	}
	return nil
}
