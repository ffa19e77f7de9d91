package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var groundJSON bool

var groundCmd = &cobra.Command{
	Use:   "ground [query]",
	Short: "Check whether policy covers a question",
	Long: `Searches policy and applies the grounding thresholds to the top hit.

The result is one of:
  policy   - a policy passage covers the question; cite it
  general  - nothing qualifies; answer as general coaching with a disclaimer
  refused  - nothing qualifies and strict mode is on; do not answer`,
	Args: cobra.ExactArgs(1),
	RunE: runGround,
}

func init() {
	groundCmd.Flags().Bool("strict", false, "use the strict threshold and refuse when nothing qualifies")
	groundCmd.Flags().BoolVar(&groundJSON, "json", false, "output the decision as JSON")
	rootCmd.AddCommand(groundCmd)
}

func runGround(cmd *cobra.Command, args []string) error {
	if _, err := loadPolicies(cmd); err != nil {
		return fmt.Errorf("loading policies: %w", err)
	}

	d, err := policyService.Ground(cmd.Context(), args[0], strictMode(cmd))
	if err != nil {
		return fmt.Errorf("grounding failed: %w", err)
	}

	if groundJSON {
		return printJSON(cmd, d)
	}

	st := newStyles(cmd.OutOrStdout())
	mode := "standard"
	if d.Strict {
		mode = "strict"
	}

	cmd.Printf("Disposition: %s\n", st.disposition(d.Disposition))
	cmd.Printf("Mode:        %s (threshold %.2f)\n", mode, d.Threshold)
	if d.TopSource != "" {
		top := d.TopSource
		if d.TopSection != "" {
			top += " > " + d.TopSection
		}
		if d.TopIsCatalog {
			top += " " + st.Muted.Render("[catalog]")
		}
		cmd.Printf("Top match:   %s (%.3f)\n", top, d.TopScore)
	} else {
		cmd.Println("Top match:   none")
	}

	if len(d.Citations) > 0 {
		cmd.Println()
		cmd.Println(st.Title.Render("Citations:"))
		for i, c := range d.Citations {
			label := c.SourceTitle
			if c.Section != "" {
				label += " > " + c.Section
			}
			cmd.Printf("  %d. %s %s\n", i+1, label, st.Score.Render(fmt.Sprintf("(%.3f)", c.Score)))
		}
	}
	return nil
}
