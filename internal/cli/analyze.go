package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cours-de-latin/koref/internal/report"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	workers      int
	outputFormat string
	withTokens   bool
	withLinks    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.conllu>...",
	Short: "Report rule answers for every token of CoNLL-U files",
	Long: `Analyze reads CoNLL-U files in parallel and prints, per document, a
summary of every token (coordination, anaphor and noun candidacy,
agreement, reflexivity) and the scored antecedents of each anaphor.

Example:
  koref analyze corpus/*.conllu
  koref analyze --workers 8 --format yaml --tokens=false text.conllu`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "number of files analysed at once (default: analysis.workers)")
	analyzeCmd.Flags().StringVar(&outputFormat, "format", "json", "output format: json or yaml")
	analyzeCmd.Flags().BoolVar(&withTokens, "tokens", true, "include token summaries")
	analyzeCmd.Flags().BoolVar(&withLinks, "links", true, "include antecedent candidates")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	n := workers
	if !cmd.Flags().Changed("workers") {
		n = cfg.Analysis.Workers
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := report.AnalyzeFiles(ctx, analyzer, logger, args, n, report.Options{Tokens: withTokens, Links: withLinks})
	if err != nil {
		return err
	}
	if err := encode(cmd.OutOrStdout(), outputFormat, files); err != nil {
		return err
	}
	for _, f := range files {
		if f.Error != "" {
			return fmt.Errorf("%s: %s", f.Path, f.Error)
		}
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q: want json or yaml", format)
}
