// Package cli implements the modviz command-line interface.
//
// # Commands
//
//   - graph: compute the module graph of a URL or local file and write it
//   - inspect: browse a computed graph interactively
//   - serve: run the HTTP front end
//   - mcp: serve the graph tools over stdio
//   - registry-key: print the node color legend
//   - cache: manage the on-disk cache
//
// All commands support --verbose (-v) for debug-level logging and
// --config for an alternate TOML configuration file.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cloudydeno/module-visualizer/pkg/buildinfo"
	"github.com/cloudydeno/module-visualizer/pkg/cache"
	"github.com/cloudydeno/module-visualizer/pkg/config"
	"github.com/cloudydeno/module-visualizer/pkg/observability"
	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
	"github.com/cloudydeno/module-visualizer/pkg/source"
)

// appName is the application name used for directories and display.
const appName = "modviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with default configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// LoadConfig reads the configuration file given by --config, or the
// default location when the flag is unset.
func (c *CLI) LoadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "modviz draws the module graph of Deno programs",
		Long: `modviz runs "deno info" on a module and groups its files into packages:
registry modules, npm packages and local directories. The result is written
as Graphviz DOT, JSON or a rendered image, or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.NewLogHooks(c.Logger).Install()
			}
			return c.LoadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/modviz/config.toml)")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.registryKeyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// openCache opens the configured cache backend. One-shot commands pass
// onDisk so the default in-memory backend is swapped for the file cache,
// which outlives the process.
func (c *CLI) openCache(ctx context.Context, noCache, onDisk bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	if onDisk && cfg.Backend == config.BackendMemory {
		cfg.Backend = config.BackendFile
	}
	return cfg.Open(ctx)
}

// newRunner creates a pipeline runner backed by deno info. Raw reports
// and encoded outputs share store.
func (c *CLI) newRunner(store cache.Cache) *pipeline.Runner {
	deno := source.NewDenoInfo(c.Config.Deno.Binary, c.Config.Deno.Timeout, c.Logger)
	keyer := c.Config.Cache.Keyer()
	src := source.NewCached(deno, store, c.Config.Cache.TTL, c.Logger)
	src.Keyer = keyer

	runner := pipeline.NewRunner(src, store, keyer, c.Logger)
	if c.Config.Cache.TTL > 0 {
		runner.ArtifactTTL = c.Config.Cache.TTL
	}
	return runner
}

// cacheDir returns the file cache directory: the configured one, else
// the XDG default (~/.cache/modviz/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// moduleURL turns a command-line argument into a module URL. Anything
// without a scheme is a local path and becomes a file:// URL.
func moduleURL(arg string) (string, error) {
	if strings.Contains(arg, "://") {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
