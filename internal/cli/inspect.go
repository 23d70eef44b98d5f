package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cloudydeno/module-visualizer/pkg/pipeline"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		opts    pipeline.Options
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <module>",
		Short: "Browse the module graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			url, err := moduleURL(args[0])
			if err != nil {
				return err
			}

			store, err := c.openCache(ctx, noCache, true)
			if err != nil {
				return err
			}
			runner := c.newRunner(store)
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, "Computing "+url)
			spinner.Start()
			m, err := runner.Compute(ctx, url, opts)
			spinner.Stop()
			if err != nil {
				printGraphError(err)
				return err
			}
			if m.Len() == 0 {
				printWarning("No modules found")
				return nil
			}

			p := tea.NewProgram(NewInspectModel(m), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.IsolateStd, "isolate-std", false, "give each std module its own node")
	cmd.Flags().BoolVar(&opts.IsolateFiles, "isolate-files", false, "give each local file its own node")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
