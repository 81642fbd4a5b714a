package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/source"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		grouped bool
		groupBy string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "view [edit]",
		Short: "Browse the thumbnail layout of an edit in the terminal",
		Long: `Browse the thumbnail layout of an edit in the terminal.

The layout follows the terminal size. Arrow keys or a mouse click select a
shot; g toggles grouping, t cycles the grouping criterion, u toggles the
unassigned group and p opens a panel with the selected shot. When the edit is a file, it is reloaded whenever it
changes on disk.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeEdits,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.defaultOptions()
			opts.Grouped = grouped || groupBy != ""
			opts.GroupBy = groupBy
			return c.runView(cmd.Context(), args[0], opts, !noWatch)
		},
	}

	cmd.Flags().BoolVarP(&grouped, "grouped", "g", false, "start grouped")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "grouping criterion: scene, or a tag id or name")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the edit when its file changes")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options, watch bool) error {
	runner := c.newRunner(ctx, true)
	defer runner.Close()

	e, err := c.loadEdit(ctx, runner, input)
	if err != nil {
		return fmt.Errorf("load edit %s: %w", input, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The viewer owns the terminal; keep log lines out of the way.
	runner.Logger = log.NewWithOptions(io.Discard, log.Options{})

	m := newViewModel(ctx, runner, e, opts)
	if _, err := os.Stat(input); err == nil && watch {
		m.path = input
		m.changes, err = source.Watch(ctx, source.WatchOptions{Logger: runner.Logger}, input)
		if err != nil {
			return err
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
