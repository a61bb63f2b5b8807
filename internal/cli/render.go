package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/errors"
	chartio "github.com/matzehuels/barchart/pkg/io"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file (single format) or base path
	formats string // comma-separated output formats
	animate bool   // embed entrance animations in SVG
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <chart-file>",
		Short: "Render a chart file to SVG, PNG, PDF, JSON or HTML",
		Long: `Render a chart definition (TOML, YAML or JSON) to one or more formats.

With a single format, -o names the output file. With several formats, -o is a
base path and each file gets the format as its extension. Without -o, outputs
are written next to the chart file.

Rendered artifacts are cached; --refresh recomputes and overwrites them.`,
		Example: `  barchart render week.toml
  barchart render week.toml -f svg,png --animate -o out/week
  barchart render hourly.yaml -f pdf --width 640 --height 400`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeChartFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.ValidFormats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.animate, "animate", false, "embed entrance animations in SVG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and recompute")
	addRenderFlags(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// addRenderFlags registers the flags that override render settings. Their
// defaults come from settings, so the flag defaults here are never read.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("width", 0, fmt.Sprintf("container width (default %v)", pipeline.DefaultWidth))
	cmd.Flags().Float64("height", 0, fmt.Sprintf("container height (default %v)", pipeline.DefaultHeight))
	cmd.Flags().Float64("scale", 0, fmt.Sprintf("PNG pixel density (default %v)", pipeline.DefaultScale))
	cmd.Flags().String("measurer", "", "text measurer: "+strings.Join(pipeline.ValidMeasurers, ", ")+" (default "+pipeline.DefaultMeasurer+")")
	_ = cmd.RegisterFlagCompletionFunc("measurer", completeMeasurers)
}

// runRender loads the chart, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	vm, err := chartio.ImportChart(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded chart", "file", input, "bars", vm.Len(), "labels", len(vm.Labels))

	formats := parseFormats(ro.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	paths, err := outputPaths(ro.output, input, formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.Config.PipelineOptions()
	opts.Formats = formats
	opts.Animate = ro.animate
	opts.Refresh = ro.refresh
	opts.Logger = logger

	sp := newSpinner(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	sp.Start()
	result, err := runner.Execute(ctx, vm, opts)
	if err != nil {
		sp.StopWithError("Render failed")
		return err
	}
	sp.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		data := result.Artifacts[f]
		if err := os.WriteFile(paths[f], data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", paths[f])
		}
		logger.Debug("wrote artifact", "path", paths[f], "size", humanize.Bytes(uint64(len(data))))
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(paths)))

	printSuccess("Rendered %s", filepath.Base(input))
	for _, f := range formats {
		printFile(paths[strings.ToLower(strings.TrimSpace(f))])
	}
	printStats(result.Stats.BarCount, result.Stats.NodeCount, result.CacheInfo.RenderHit)
	if !ro.animate && containsFormat(formats, pipeline.FormatSVG) {
		printNewline()
		printNextStep("Animate", "barchart render "+input+" --animate")
	}
	return nil
}

// outputPaths maps each format to the file it is written to. Derived names
// step around the input file; an explicit output naming the input is an
// error.
func outputPaths(output, input string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && !isFormatExt(output) && filepath.Ext(output) != "" {
		// Explicit file name with an unrelated extension.
		if filepath.Clean(output) == filepath.Clean(input) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the chart file", output)
		}
		paths[strings.ToLower(strings.TrimSpace(formats[0]))] = output
		return paths, nil
	}
	base := basePath(output, input)
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		path := base + "." + f
		if filepath.Clean(path) == filepath.Clean(input) {
			path = base + ".scene." + f
		}
		paths[f] = path
	}
	return paths, nil
}

// basePath derives the base output path. An empty output strips the
// extension from input; an output ending in a render format's extension
// has it stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if isFormatExt(output) {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

func isFormatExt(path string) bool {
	return containsFormat(pipeline.ValidFormats, strings.TrimPrefix(filepath.Ext(path), "."))
}

func containsFormat(formats []string, f string) bool {
	for _, x := range formats {
		if strings.EqualFold(strings.TrimSpace(x), f) {
			return true
		}
	}
	return false
}
