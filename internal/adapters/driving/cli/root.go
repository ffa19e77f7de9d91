// Package cli provides the vista command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driving"
	"github.com/custodia-labs/vista/internal/logger"
)

// annotationSkipServices marks commands that run without services.
const annotationSkipServices = "vista.skip-services"

// Options carries the global flags a Factory needs.
type Options struct {
	// ConfigDir overrides the configuration directory (default ~/.vista).
	ConfigDir string

	// PolicyDir overrides the configured policy directory.
	PolicyDir string

	// NoConfig keeps settings in memory and ignores the config directory.
	NoConfig bool
}

// Services is the set of wired driving ports the commands use.
type Services struct {
	Policy    driving.PolicyService
	Settings  driving.SettingsService
	Effective domain.Settings

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Factory builds the services for one invocation.
type Factory func(opts Options) (*Services, error)

var (
	version = "dev"

	factory  Factory
	injected bool

	policyService   driving.PolicyService
	settingsService driving.SettingsService
	effective       = domain.DefaultSettings()
	closeServices   func() error

	flagVerbose   bool
	flagConfigDir string
	flagPolicyDir string
	flagNoConfig  bool
)

var rootCmd = &cobra.Command{
	Use:   "vista",
	Short: "Policy-grounded leadership coaching",
	Long: `Vista answers leadership questions with your company's own policies.

It indexes a directory of Markdown and text policy documents, finds the
passages most relevant to a question and decides whether the answer can be
grounded in policy or needs a general-coaching disclaimer.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.vista)")
	rootCmd.PersistentFlags().StringVar(&flagPolicyDir, "policies", "", "policy directory (overrides policies.dir)")
	rootCmd.PersistentFlags().BoolVar(&flagNoConfig, "no-config", false, "use built-in defaults and keep settings in memory")
}

// SetFactory installs the function that wires services for each run.
func SetFactory(f Factory) {
	factory = f
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := releaseServices(); closeErr != nil {
		logger.Warn("closing services: %v", closeErr)
	}
	return err
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if injected || cmd.Annotations[annotationSkipServices] == "true" {
		return nil
	}
	if factory == nil {
		return errors.New("services not configured")
	}

	svc, err := factory(Options{ConfigDir: flagConfigDir, PolicyDir: flagPolicyDir, NoConfig: flagNoConfig})
	if err != nil {
		return err
	}

	policyService = svc.Policy
	settingsService = svc.Settings
	effective = svc.Effective
	closeServices = svc.Close
	return nil
}

func releaseServices() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// loadPolicies builds the index for this invocation.
func loadPolicies(cmd *cobra.Command) (driving.ReloadStats, error) {
	if policyService == nil {
		return driving.ReloadStats{}, errors.New("policy service not configured")
	}
	stats, err := policyService.Reload(cmd.Context())
	if err != nil {
		return stats, err
	}
	if stats.Chunks == 0 {
		logger.Warn("no policy text found in %s", effective.PolicyDir)
	}
	return stats, nil
}

// strictMode returns --strict when it was given, else the configured mode.
func strictMode(cmd *cobra.Command) bool {
	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		v, err := cmd.Flags().GetBool("strict")
		return err == nil && v
	}
	return effective.Strict
}
