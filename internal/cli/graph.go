package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
	"github.com/cloudydeno/module-visualizer/pkg/render"
	"github.com/cloudydeno/module-visualizer/pkg/source"
)

// graphOpts holds the flags of the graph command.
type graphOpts struct {
	output  string
	noCache bool
	pipeline.Options
}

func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <module>",
		Short: "Compute the module graph of a URL or local file",
		Long: `Compute the package-level module graph of a Deno module.

The module is a URL or a local path. Without -o the graph is written to
stdout; with -o the format follows the file extension unless --format is
given.`,
		Example: `  modviz graph https://deno.land/x/oak/mod.ts
  modviz graph ./main.ts --isolate-files -o deps.svg
  modviz graph https://deno.land/std/http/server.ts --format json --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot, .json, .svg, .png, .jpg)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: dot, json, svg, png, jpg")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")
	cmd.Flags().BoolVar(&opts.IsolateStd, "isolate-std", false, "give each std module its own node")
	cmd.Flags().BoolVar(&opts.IsolateFiles, "isolate-files", false, "give each local file its own node")
	cmd.Flags().StringVar(&opts.RankDir, "rankdir", "", "graph direction: TB or LR")
	cmd.Flags().StringVar(&opts.Font, "font", "", "node font (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached output exists")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, arg string, opts graphOpts) error {
	ctx := cmd.Context()

	if opts.Format == "" && opts.output != "" {
		opts.Format = formatFromPath(opts.output)
	}
	if opts.Font == "" {
		opts.Font = c.Config.Render.Font
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	url, err := moduleURL(arg)
	if err != nil {
		return err
	}

	store, err := c.openCache(ctx, opts.noCache, true)
	if err != nil {
		return err
	}
	runner := c.newRunner(store)
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing "+url)
	if opts.output != "" {
		spinner.Start()
	}
	res, err := runner.Execute(ctx, url, opts.Options)
	if opts.output != "" {
		spinner.Stop()
	}
	if err != nil {
		printGraphError(err)
		return err
	}
	prog.done(fmt.Sprintf("graph of %s", url))

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(res.Output)
		return err
	}
	if err := os.WriteFile(opts.output, res.Output, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote %s graph", opts.Format)
	printFile(opts.output)
	printKeyValue("module", url)
	if opts.IsolateStd || opts.IsolateFiles {
		printKeyValue("isolated", isolatedLabel(opts.Options))
	}
	printStats(res.Stats, res.CacheHit)
	return nil
}

// formatFromPath infers the output format from a file extension. Unknown
// extensions yield "" and fall back to the default format.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if pipeline.ValidFormats[ext] {
		return ext
	}
	if ext == "gv" {
		return render.FormatDOT
	}
	return ""
}

func isolatedLabel(opts pipeline.Options) string {
	var parts []string
	if opts.IsolateStd {
		parts = append(parts, "std")
	}
	if opts.IsolateFiles {
		parts = append(parts, "files")
	}
	return strings.Join(parts, ", ")
}

// printGraphError prints the details of a failed deno subprocess.
func printGraphError(err error) {
	pe, ok := source.AsProcessError(err)
	if !ok {
		return
	}
	printError("%s failed with exit code %d", pe.Label, pe.ExitCode)
	printDetail("$ %s", strings.Join(pe.CmdLine, " "))
	if pe.FoundError != "" {
		printDetail("%s", pe.FoundError)
	}
}
