package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shotgrid/pkg/layout"
	"github.com/matzehuels/shotgrid/pkg/pipeline"
	"github.com/matzehuels/shotgrid/pkg/shot"
)

// layoutCommand creates the layout command for computing thumbnail layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [edit]",
		Short: "Compute the thumbnail layout of an edit",
		Long: `Compute the thumbnail layout of an edit.

The edit is a YAML or JSON file, or the id of an edit in the configured
store. The layout is printed as a table; with -o it is also written as a
JSON snapshot that 'render' and external tools can consume.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeEdits,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.defaultOptions()
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout snapshot as JSON")
	flags.register(cmd)

	return cmd
}

// runLayout loads the edit, computes the layout, and prints it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	e, err := c.loadEdit(ctx, runner, input)
	if err != nil {
		return fmt.Errorf("load edit %s: %w", input, err)
	}
	prog.stage("load")

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	snap, _, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, e, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("laid out", "status", snap.Status, "cached", cacheHit)

	printSuccess("Layout complete")
	printKeyValue("region", fmt.Sprintf("%s × %s at (%s, %s)",
		humanize.Ftoa(snap.Viewport.W), humanize.Ftoa(snap.Viewport.H),
		humanize.Ftoa(snap.Viewport.X), humanize.Ftoa(snap.Viewport.Y)))
	if snap.Status == layout.StatusOK {
		printKeyValue("thumbnail", fmt.Sprintf("%s × %s", humanize.FtoaWithDigits(snap.Size.W, 1), humanize.FtoaWithDigits(snap.Size.H, 1)))
		printKeyValue("grid", fmt.Sprintf("%d columns, %d rows", snap.Columns, snap.Rows))
	}
	if snap.Grouped && !snap.Converged {
		printWarning("grouped layout did not converge after %d iterations", snap.Iterations)
	}
	printStats(statsOf(e, snap), cacheHit)

	if snap.Grouped && len(snap.Groups) > 0 {
		printNewline()
		fmt.Println(groupTable(snap))
	}

	if output != "" {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printFile(output)
	}

	if _, err := os.Stat(input); err == nil {
		printNewline()
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		printNextStep("Render", fmt.Sprintf("%s render %s -o %s.svg", appName, input, base))
	}
	return nil
}

// groupTable formats the groups of a grouped layout.
func groupTable(snap layout.Snapshot) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("GROUP", "SHOTS", "ROWS", "LENGTH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTitle.Padding(0, 1)
			}
			if col > 0 {
				return StyleNumber.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		})
	for _, g := range snap.Groups {
		t.Row(g.Name, humanize.Comma(int64(g.Members)), fmt.Sprint(g.Rows), formatSeconds(g.Seconds))
	}
	return t.Render()
}

func formatSeconds(s float64) string {
	if s < 60 {
		return humanize.FtoaWithDigits(s, 1) + "s"
	}
	m := int(s) / 60
	return fmt.Sprintf("%dm %ss", m, humanize.FtoaWithDigits(s-float64(m*60), 1))
}

func statsOf(e *shot.Edit, snap layout.Snapshot) layoutStats {
	return layoutStats{
		shots:      len(e.Shots),
		placements: len(snap.Placements),
		groups:     len(snap.Groups),
		status:     string(snap.Status),
	}
}
