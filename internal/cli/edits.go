package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	shotio "github.com/matzehuels/shotgrid/pkg/io"
	"github.com/matzehuels/shotgrid/pkg/store"
)

// editsCommand creates the command group that manages the edit store.
func (c *CLI) editsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edits",
		Short: "Manage edits in the configured store",
	}

	cmd.AddCommand(c.editsListCommand())
	cmd.AddCommand(c.editsPutCommand())
	cmd.AddCommand(c.editsGetCommand())
	cmd.AddCommand(c.editsRemoveCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := store.Open(ctx, c.Config.Store, c.Logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) editsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored edits",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				edits, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(edits) == 0 {
					printInfo("No stored edits")
					return nil
				}
				fmt.Println(editTable(edits))
				return nil
			})
		},
	}
}

func (c *CLI) editsPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put [edit file]",
		Short: "Store an edit file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := shotio.ImportFile(args[0])
			if err != nil {
				return err
			}
			return c.saveEdit(cmd.Context(), e)
		},
	}
}

func (c *CLI) editsGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Write a stored edit to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				e, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = e.ID + ".yaml"
				}
				if err := shotio.ExportFile(e, path); err != nil {
					return err
				}
				printSuccess("Fetched %s", e.ID)
				printFile(path)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "edit file to write (default: <id>.yaml)")
	return cmd
}

func (c *CLI) editsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"remove"},
		Short:   "Delete a stored edit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

func editTable(edits []store.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("ID", "NAME", "SHOTS", "UPDATED").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			case col == 2:
				return StyleNumber.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		})
	for _, s := range edits {
		t.Row(s.ID, s.Name, humanize.Comma(int64(s.Shots)), humanize.Time(s.UpdatedAt))
	}
	return t.Render()
}
