package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vista/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search policy documents",
	Long: `Ranks policy passages by TF-IDF cosine similarity to the query.
Scores are scaled by each document's retrieval weight, so catalog-style
documents rank below prose policy with the same wording.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = top_k setting)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if _, err := loadPolicies(cmd); err != nil {
		return fmt.Errorf("loading policies: %w", err)
	}

	hits, err := policyService.Search(cmd.Context(), args[0], domain.SearchOptions{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, hits)
	}

	return outputSearchList(cmd, hits)
}

func outputSearchList(cmd *cobra.Command, hits []domain.Hit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	out := cmd.OutOrStdout()
	st := newStyles(out)
	width := terminalWidth(out)

	cmd.Println(st.Title.Render("Results:"))
	cmd.Println()
	for i := range hits {
		h := hits[i]
		// Format: [N] Title > Section (score)
		heading := h.SourceTitle
		if heading == "" {
			heading = h.Source
		}
		if h.Section != "" {
			heading += " > " + st.Section.Render(h.Section)
		}
		cmd.Printf("[%d] %s %s\n", i+1, heading, st.Score.Render(fmt.Sprintf("(%.3f)", h.Score)))

		text := oneLine(h.Text)
		if width > 0 {
			text = truncate(text, width-4)
		}
		cmd.Printf("    %s\n", text)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
