// Command vista answers leadership questions grounded in company policy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/vista/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vista/internal/adapters/driven/index/tfidf"
	"github.com/custodia-labs/vista/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vista/internal/adapters/driving/cli"
	"github.com/custodia-labs/vista/internal/connectors/filesystem"
	"github.com/custodia-labs/vista/internal/core/domain"
	"github.com/custodia-labs/vista/internal/core/ports/driven"
	"github.com/custodia-labs/vista/internal/core/services"
	"github.com/custodia-labs/vista/internal/logger"
	"github.com/custodia-labs/vista/internal/normalisers"
	"github.com/custodia-labs/vista/internal/postprocessors/chunker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetFactory(buildServices)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// buildServices wires the driven adapters into the core services.
func buildServices(opts cli.Options) (*cli.Services, error) {
	store, prompts, err := openStores(opts)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("invalid configuration, using defaults: %v", err)
		settings = domain.DefaultSettings()
	}
	if opts.PolicyDir != "" {
		settings.PolicyDir = opts.PolicyDir
	}

	conn := filesystem.New(settings.PolicyDir, filesystem.WithExtensions(settings.Extensions...))
	policyService := services.NewPolicyService(
		conn,
		normalisers.NewDefaultRegistry(),
		chunker.New(chunker.WithChunkSize(settings.ChunkMaxLen), chunker.WithOverlap(settings.ChunkOverlap)),
		tfidf.New(),
		prompts,
		settings,
	)

	logger.Debug("config %s, policies %s", store.Path(), settings.PolicyDir)

	return &cli.Services{
		Policy:    policyService,
		Settings:  settingsService,
		Effective: settings,
		Close:     conn.Close,
	}, nil
}

// openStores returns the config and prompt stores, on disk or in memory.
func openStores(opts cli.Options) (driven.ConfigStore, driven.PromptStore, error) {
	if opts.NoConfig {
		defaults := make(map[string]string)
		for _, name := range file.PromptNames() {
			defaults[name], _ = file.DefaultPrompt(name)
		}
		return memory.NewConfigStore(nil), memory.NewPromptStore(defaults), nil
	}

	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(filepath.Dir(store.Path()), "prompts"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening prompts: %w", err)
	}
	return store, prompts, nil
}
