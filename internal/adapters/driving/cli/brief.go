package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var briefJSON bool

var briefCmd = &cobra.Command{
	Use:   "brief [query]",
	Short: "Render the coaching context for a question",
	Long: `Grounds a question and prints what a text generator should receive:
the coaching instructions followed by the grounding status and the top
policy excerpts. In strict mode with no qualifying policy, prints the
refusal message instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrief,
}

func init() {
	briefCmd.Flags().Bool("strict", false, "use the strict threshold and refuse when nothing qualifies")
	briefCmd.Flags().BoolVar(&briefJSON, "json", false, "output the briefing as JSON")
	rootCmd.AddCommand(briefCmd)
}

func runBrief(cmd *cobra.Command, args []string) error {
	if _, err := loadPolicies(cmd); err != nil {
		return fmt.Errorf("loading policies: %w", err)
	}

	b, err := policyService.Brief(cmd.Context(), args[0], strictMode(cmd))
	if err != nil {
		return fmt.Errorf("briefing failed: %w", err)
	}

	if briefJSON {
		return printJSON(cmd, b)
	}

	if b.Refusal != "" {
		cmd.Println(strings.TrimRight(b.Refusal, "\n"))
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	if b.System != "" {
		cmd.Println(st.Muted.Render(b.System))
		cmd.Println()
	}
	cmd.Println(strings.TrimRight(b.Context, "\n"))
	return nil
}
