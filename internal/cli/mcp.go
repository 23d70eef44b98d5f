package cli

import (
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/cloudydeno/module-visualizer/pkg/mcp"
)

func (c *CLI) mcpCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the module graph tools over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing the
module_graph, classify_url and registry_key tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCache(cmd.Context(), noCache, true)
			if err != nil {
				return err
			}
			runner := c.newRunner(store)
			defer runner.Close()

			c.Logger.Debug("serving MCP on stdio")
			return mcpserver.ServeStdio(mcp.NewServer(runner))
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
