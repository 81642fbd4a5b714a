package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	shotio "github.com/matzehuels/shotgrid/pkg/io"
)

// exportCommand creates the export command that writes a CSV breakdown.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [edit]",
		Short: "Export the shot list of an edit as CSV",
		Long: `Export the shot list of an edit as CSV.

Each row holds a shot's name, start frame, duration, timestamp, scene and
one column per tag. Without -o the CSV is written to stdout.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeEdits,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write (default: stdout)")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, output string) error {
	runner := c.newRunner(ctx, true)
	defer runner.Close()

	e, err := c.loadEdit(ctx, runner, input)
	if err != nil {
		return fmt.Errorf("load edit %s: %w", input, err)
	}

	if output == "" {
		return shotio.WriteCSV(e, os.Stdout)
	}
	if err := shotio.ExportCSV(e, output); err != nil {
		return err
	}
	printSuccess("Exported %d shots", len(e.Shots))
	printFile(output)
	return nil
}
