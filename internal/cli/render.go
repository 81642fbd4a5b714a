package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shotgrid/pkg/pipeline"
)

// renderCommand creates the render command for producing artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lflags layoutFlags
		rflags renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render [edit]",
		Short: "Render the thumbnail layout of an edit",
		Long: `Render the thumbnail layout of an edit to SVG, PNG, DOT or JSON.

With a single format, -o names the output file. With several formats, -o is
the base path and each format gets its own extension. Without -o, outputs
are written next to the edit file.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeEdits,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.defaultOptions()
			lflags.apply(&opts)
			rflags.apply(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Thumbnails && opts.ThumbDir == "" {
				if _, err := os.Stat(args[0]); err == nil {
					opts.ThumbDir = filepath.Dir(args[0])
				}
			}
			return c.runRender(cmd.Context(), args[0], opts, output, lflags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	lflags.register(cmd)
	rflags.register(cmd)

	return cmd
}

// runRender loads the edit, lays it out and writes every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	e, err := c.loadEdit(ctx, runner, input)
	if err != nil {
		return fmt.Errorf("load edit %s: %w", input, err)
	}
	opts.Edit = e
	prog.stage("load")

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("rendered", "formats", len(opts.Formats))

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		stats:     statsOf(e, result.Snapshot),
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams holds what writeArtifacts needs to place outputs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	stats     layoutStats
	cacheHit  bool
}

// writeArtifacts writes rendered outputs and reports their paths.
func writeArtifacts(p artifactWriteParams) error {
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := outputPath(p.output, p.input, format, len(p.formats) > 1)
		data := p.artifacts[format]
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	var total uint64
	for _, f := range p.formats {
		total += uint64(len(p.artifacts[f]))
	}
	printDetail("%s written", humanize.Bytes(total))
	printStats(p.stats, p.cacheHit)
	return nil
}

// outputPath derives the file for one format. A single format uses the
// output path as given; several formats share its base name.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath strips a known format extension from output, or the edit's
// extension from input when no output is given.
func basePath(output, input string) string {
	if output == "" {
		if _, err := os.Stat(input); err != nil {
			return input
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
