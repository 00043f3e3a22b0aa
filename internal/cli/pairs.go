package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/cours-de-latin/koref"
	"github.com/spf13/cobra"
)

var (
	pairsDoc string
	showAll  bool
)

var pairsCmd = &cobra.Command{
	Use:   "pairs <file.conllu>",
	Short: "List anaphors and referring-back nouns with their candidate antecedents",
	Long: `Pairs prints one line per candidate antecedent: the anaphor, the
candidate mention (a trailing "+" marks a mention taken together with its
coordinated siblings) and the score.

Example:
  koref pairs text.conllu
  koref pairs --doc d1 --all text.conllu`,
	Args: cobra.ExactArgs(1),
	RunE: runPairs,
}

func init() {
	rootCmd.AddCommand(pairsCmd)

	pairsCmd.Flags().StringVar(&pairsDoc, "doc", "", "only the document with this id")
	pairsCmd.Flags().BoolVar(&showAll, "all", false, "also list anaphors without candidates")
}

func runPairs(cmd *cobra.Command, args []string) error {
	docs, err := koref.ReadCoNLLUFile(args[0])
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	seen := false
	for _, doc := range docs {
		if pairsDoc != "" && doc.ID != pairsDoc {
			continue
		}
		seen = true
		a := analyzer.Analyze(doc)
		fmt.Fprintf(tw, "# %s\n", doc.ID)
		for _, t := range doc.Tokens() {
			if !a.IsPotentialAnaphor(t) && !a.IsPotentiallyReferringBackNoun(t) {
				continue
			}
			cands := a.Antecedents(t)
			if len(cands) == 0 && showAll {
				fmt.Fprintf(tw, "%s\t-\t\n", t)
			}
			for _, c := range cands {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t, c.Mention, c.Score)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if pairsDoc != "" && !seen {
		return fmt.Errorf("no document %q in %s", pairsDoc, args[0])
	}
	return nil
}
