package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/vista/internal/core/ports/driving"
)

var sourcesJSON bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List indexed policy documents",
	Long: `Loads the policy directory and lists each document with its title,
catalog flag, retrieval weight and chunk count.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "output sources as JSON")
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesReport is the JSON shape of the sources command.
type sourcesReport struct {
	PolicyDir string               `json:"policy_dir"`
	Stats     driving.ReloadStats  `json:"stats"`
	Sources   []driving.SourceInfo `json:"sources"`
}

func runSources(cmd *cobra.Command, _ []string) error {
	stats, err := loadPolicies(cmd)
	if err != nil {
		return fmt.Errorf("loading policies: %w", err)
	}

	sources, err := policyService.Sources(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if sourcesJSON {
		if sources == nil {
			sources = []driving.SourceInfo{}
		}
		return printJSON(cmd, sourcesReport{
			PolicyDir: effective.PolicyDir,
			Stats:     stats,
			Sources:   sources,
		})
	}

	if len(sources) == 0 {
		cmd.Printf("No policy documents found in %s\n", effective.PolicyDir)
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("SOURCE", "TITLE", "CATALOG", "WEIGHT", "CHUNKS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, s := range sources {
		catalog := ""
		if s.IsCatalog {
			catalog = "yes"
		}
		t.Row(s.Source, s.Title, catalog, strconv.FormatFloat(s.Weight, 'g', -1, 64), strconv.Itoa(s.Chunks))
	}

	cmd.Println(t.String())
	cmd.Println(st.Muted.Render(fmt.Sprintf("%d documents (%d catalogs), %d chunks, generation %d",
		stats.Documents, stats.Catalogs, stats.Chunks, stats.Generation)))
	return nil
}
