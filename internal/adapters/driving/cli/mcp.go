package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vista/internal/adapters/driving/mcp"
	"github.com/custodia-labs/vista/internal/logger"
	"github.com/custodia-labs/vista/internal/metrics"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes search_policies, ground_question, brief_question and
reload_policies tools plus a vista://sources resource.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead; it also serves Prometheus metrics at
/metrics. Use --watch to reload the index whenever the policy directory
changes.

Examples:
  # Stdio mode (default)
  vista mcp serve

  # HTTP mode with live reload
  vista mcp serve --port 8080 --watch

MCP client configuration:
  {
    "mcpServers": {
      "vista": {
        "command": "/path/to/vista",
        "args": ["mcp", "serve", "--watch"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("watch", false, "reload policies when the policy directory changes")
	mcpServeCmd.Flags().Bool("strict", false, "default tools to strict grounding")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	// An unreadable directory is not fatal here; reload_policies or the
	// watcher can recover once it exists.
	if _, err := loadPolicies(cmd); err != nil {
		logger.Warn("initial policy load failed: %v", err)
	}

	policy := policyService
	var opts []mcp.Option
	if port > 0 && policy != nil {
		m := metrics.New()
		policy = m.Instrument(policy)
		opts = append(opts, mcp.WithMetricsHandler(m.Handler()))
	}

	ports := &mcp.Ports{
		Policy:   policy,
		Settings: settingsService,
		Strict:   strictMode(cmd),
	}

	server, err := mcp.NewServer(ports, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if watch {
		go func() {
			if err := policy.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("policy watch stopped: %v", err)
			}
		}()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
