package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vista/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change retrieval and grounding settings.

Settings are stored in config.toml in the configuration directory.
Available keys:
  policies.dir                     directory of policy documents
  policies.extensions              comma-separated file extensions to load
  chunking.max_len                 maximum chunk length in characters
  chunking.overlap                 characters shared by adjacent chunks
  search.top_k                     hits used for grounding and context
  grounding.strict                 refuse when no policy qualifies
  grounding.base_threshold         minimum top score in standard mode
  grounding.strict_threshold       minimum top score in strict mode
  grounding.catalog_extra_margin   extra score required of catalog hits
  grounding.max_citations          hits cited when policy is found
  watch.min_interval_ms            minimum time between watch reloads`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "output settings as JSON")
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	s, err := settingsService.Get()
	if err != nil {
		return err
	}
	if flagPolicyDir != "" {
		s.PolicyDir = flagPolicyDir
	}

	if configJSON {
		return printJSON(cmd, s)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Settings"))
	cmd.Println()
	rows := [][2]string{
		{domain.KeyPolicyDir, s.PolicyDir},
		{domain.KeyPolicyExtensions, strings.Join(s.Extensions, ", ")},
		{domain.KeyChunkMaxLen, fmt.Sprint(s.ChunkMaxLen)},
		{domain.KeyChunkOverlap, fmt.Sprint(s.ChunkOverlap)},
		{domain.KeySearchTopK, fmt.Sprint(s.TopK)},
		{domain.KeyStrict, fmt.Sprint(s.Strict)},
		{domain.KeyBaseThreshold, fmt.Sprintf("%.2f", s.Grounding.BaseThreshold)},
		{domain.KeyStrictThreshold, fmt.Sprintf("%.2f", s.Grounding.StrictThreshold)},
		{domain.KeyCatalogExtraMargin, fmt.Sprintf("%.2f", s.Grounding.CatalogExtraMargin)},
		{domain.KeyMaxCitations, fmt.Sprint(s.Grounding.MaxCitations)},
		{domain.KeyWatchMinInterval, fmt.Sprint(s.WatchMinInterval.Milliseconds())},
	}
	for _, r := range rows {
		cmd.Printf("  %-32s %s\n", r[0], r[1])
	}
	cmd.Println()
	cmd.Println(st.Muted.Render("Config file: " + settingsService.Path()))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.Path())
	return nil
}
