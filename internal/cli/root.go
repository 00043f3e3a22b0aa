// Package cli implements the koref command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cours-de-latin/koref"
	"github.com/cours-de-latin/koref/internal/config"
	"github.com/cours-de-latin/koref/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "v0.1.0"

var (
	cfgFile     string
	lexiconFile string
	logLevel    string

	cfg      *config.Config
	logger   *slog.Logger
	logClose io.Closer
	analyzer *koref.Analyzer
)

var rootCmd = &cobra.Command{
	Use:   "koref",
	Short: "koref - rule-based coreference analysis for Polish",
	Long: `koref reads dependency-parsed Polish text in CoNLL-U format and applies
the rules a coreference resolver needs: coordination, anaphor and noun
candidacy, agreement and binding between referents and anaphors.`,
	SilenceErrors:      true,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "koref %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.koref/config.yaml)")
	pf.StringVar(&lexiconFile, "lexicon", "", "lexicon YAML file replacing the embedded Polish one")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration and the lexicon, then builds the logger
// and the analyzer every subcommand shares. Flags win over KOREF_*
// variables, which win over the config file.
func setup(cmd *cobra.Command, args []string) error {
	logger, logClose, analyzer = nil, nil, nil
	v, err := config.NewViper(cfgFile)
	if err != nil {
		return err
	}
	pf := rootCmd.PersistentFlags()
	if err := v.BindPFlag("analysis.lexicon", pf.Lookup("lexicon")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.level", pf.Lookup("log-level")); err != nil {
		return err
	}
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}

	// cobra skips teardown when setup fails: open the log file last.
	var opts []koref.Option
	if cfg.Analysis.Lexicon != "" {
		lx, err := koref.LoadLexicon(cfg.Analysis.Lexicon)
		if err != nil {
			return err
		}
		opts = append(opts, koref.WithLexicon(lx))
	}

	logger, logClose, err = logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if path := v.ConfigFileUsed(); path != "" {
		logger.Debug("using config file", "path", path)
	}
	analyzer = koref.New(append(opts, koref.WithLogger(logger))...)
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if logClose != nil {
		return logClose.Close()
	}
	return nil
}

// Main runs the command and exits non-zero on error.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
