package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	shotio "github.com/matzehuels/shotgrid/pkg/io"
	"github.com/matzehuels/shotgrid/pkg/shot"
	"github.com/matzehuels/shotgrid/pkg/source"
	"github.com/matzehuels/shotgrid/pkg/store"
)

// importOpts holds the flags of the import command.
type importOpts struct {
	output  string
	save    bool
	options source.ImportOptions
}

// importCommand creates the import command that turns a thumbnail folder
// into an edit.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import [folder]",
		Short: "Create an edit from a folder of thumbnails",
		Long: `Create an edit from a folder of thumbnails.

Every image named after its first frame (0001.png, 0120.jpg, ...) becomes a
shot starting at that frame. Durations run to the next shot's start; the
last shot ends at --frame-end, or after the median shot length.

The edit is written to <folder>.yaml unless -o is given. With --save it is
also stored in the configured edit store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "edit file to write (default: <folder>.yaml)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "also put the edit into the configured store")
	cmd.Flags().StringVar(&opts.options.ID, "id", "", "edit id (default: folder name)")
	cmd.Flags().StringVar(&opts.options.Name, "name", "", "display name (default: the id)")
	cmd.Flags().Float64Var(&opts.options.FPS, "fps", 24, "frames per second")
	cmd.Flags().IntVar(&opts.options.FrameEnd, "frame-end", 0, "frame after the last shot (default: estimated)")
	cmd.Flags().BoolVarP(&opts.options.Recursive, "recursive", "r", false, "descend into subfolders")
	cmd.Flags().IntVar(&opts.options.Workers, "workers", 0, "images probed in parallel (default: number of CPUs)")

	return cmd
}

// runImport scans the folder, writes the edit and optionally stores it.
func (c *CLI) runImport(ctx context.Context, dir string, opts importOpts) error {
	logger := loggerFromContext(ctx)
	opts.options.Logger = logger
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Scanning thumbnails...")
	opts.options.Progress = spinner.Update
	spinner.Start()

	e, err := source.Import(ctx, dir, opts.options)
	if err != nil {
		spinner.StopWithError("Import failed")
		return err
	}
	spinner.Stop()
	prog.stage("scan")

	output := opts.output
	if output == "" {
		output = filepath.Clean(dir) + ".yaml"
	}
	if err := shotio.ExportFile(e, output); err != nil {
		return fmt.Errorf("write edit %s: %w", output, err)
	}

	if opts.save {
		if err := c.saveEdit(ctx, e); err != nil {
			return err
		}
	}

	prog.done("imported", "shots", len(e.Shots), "edit", e.ID)
	printSuccess("Import complete")
	printFile(output)
	printKeyValue("edit", e.ID)
	printKeyValue("length", fmt.Sprintf("%s frames (%s)",
		humanize.Comma(int64(e.TotalFrames())), shot.Timestamp(e.TotalFrames(), e.FPS)))
	printKeyValue("aspect", humanize.FtoaWithDigits(e.AspectRatio(), 3))
	printStats(layoutStats{shots: len(e.Shots), placements: len(e.Shots)}, false)
	printNewline()
	printNextStep("Lay out", fmt.Sprintf("%s layout %s", appName, output))
	return nil
}

func (c *CLI) saveEdit(ctx context.Context, e *shot.Edit) error {
	st, err := store.Open(ctx, c.Config.Store, c.Logger)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Put(ctx, e); err != nil {
		return fmt.Errorf("store edit %s: %w", e.ID, err)
	}
	printInfo("Stored %s in the %s store", e.ID, storeBackend(c.Config.Store))
	return nil
}

func storeBackend(cfg store.Config) string {
	return orDefault(cfg.Backend, store.BackendFile)
}
