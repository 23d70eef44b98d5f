package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudydeno/module-visualizer/pkg/integrations/denoland"
	"github.com/cloudydeno/module-visualizer/pkg/integrations/github"
	"github.com/cloudydeno/module-visualizer/pkg/integrations/npm"
	"github.com/cloudydeno/module-visualizer/pkg/resolve"
	"github.com/cloudydeno/module-visualizer/pkg/server"
	"github.com/cloudydeno/module-visualizer/pkg/shields"
)

// lookupTTL bounds how long upstream metadata (default branches, tags,
// version lists, npm audits) is reused.
const lookupTTL = 15 * time.Minute

func (c *CLI) serveCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Serve module graph pages, DOT/JSON/image downloads and shields.io badges
(dep-count, updates, cache-size, latest-version) with a setup page per module.

The port defaults to the PORT environment variable, then the config file,
then 5000.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("port") {
				c.Config.Server.Port = port
			}

			store, err := c.openCache(ctx, false, false)
			if err != nil {
				return err
			}
			runner := c.newRunner(store)
			defer runner.Close()

			gh := github.NewClient(store, c.Config.GitHub.Token, lookupTTL)
			deno := denoland.NewClient(store, lookupTTL)

			srv := server.New(
				runner,
				resolve.New(gh, c.Logger),
				&shields.Service{
					Graphs:   runner,
					Versions: deno,
					Tags:     gh,
					Packages: npm.NewClient(store, lookupTTL),
				},
				server.Options{
					CORSOrigin: c.Config.Server.CORSOrigin,
					PageFont:   c.Config.Render.PageFont,
					Logger:     c.Logger,
				},
			)

			addr := c.Config.Server.Addr()
			c.Logger.Info("listening", "addr", addr, "cache", c.Config.Cache.Backend)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 5000, "listen port")

	return cmd
}
