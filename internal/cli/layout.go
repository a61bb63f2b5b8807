package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/chart/layout"
	chartio "github.com/matzehuels/barchart/pkg/io"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// layoutCommand creates the layout command for inspecting computed geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout <chart-file>",
		Short: "Print the computed geometry of a chart",
		Long: `Compute the layout of a chart file and print it.

By default the plot box, bars, x-axis labels, y-axis ticks and the average
line are printed as tables. With --json the geometry and animated scene are
written as JSON, the same document 'render -f json' produces.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeChartFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], asJSON, noCache, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print geometry and scene as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addRenderFlags(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, asJSON, noCache bool, w io.Writer) error {
	vm, err := chartio.ImportChart(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.Config.PipelineOptions()
	opts.Logger = loggerFromContext(ctx)
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	if err := pipeline.ValidateChart(vm); err != nil {
		return err
	}
	hash, err := pipeline.ChartHash(vm)
	if err != nil {
		return err
	}

	entry, hit, err := runner.LayoutWithCacheInfo(ctx, vm, hash, opts)
	if err != nil {
		return err
	}
	opts.Logger.Debug("layout ready", "cached", hit, "nodes", len(entry.Scene.Nodes))

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	fmt.Fprintln(w, formatGeometry(entry.Geometry))
	return nil
}

// formatGeometry renders g as a set of go-pretty tables.
func formatGeometry(g layout.Geometry) string {
	if g.Empty() {
		return fmt.Sprintf("Empty chart (%s)", formatSize(g.Bounds))
	}

	var parts []string

	summary := newTable()
	summary.AppendHeader(table.Row{"Property", "Value"})
	summary.AppendRows([]table.Row{
		{"bounds", formatSize(g.Bounds)},
		{"plot box", formatRect(g.Box)},
		{"baseline", num(g.Baseline)},
		{"bar width", num(g.BarWidth)},
		{"max bar height", num(g.MaxBarHeight)},
		{"labels", g.LabelMode.String()},
	})
	parts = append(parts, summary.Render())

	bars := newTable()
	bars.AppendHeader(table.Row{"#", "Value", "X", "Y", "W", "H", "Label"})
	for _, b := range g.Bars {
		label := ""
		if g.LabelMode == layout.LabelsAligned {
			label = g.Labels[b.Index].Text
		}
		bars.AppendRow(table.Row{b.Index, chart.FormatValue(b.Value), num(b.Rect.X), num(b.Rect.Y), num(b.Rect.W), num(b.Rect.H), label})
	}
	bars.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d bars", len(g.Bars))})
	parts = append(parts, bars.Render())

	if g.LabelMode == layout.LabelsStride {
		labels := newTable()
		labels.AppendHeader(table.Row{"Label", "Rect"})
		for _, l := range g.Labels {
			labels.AppendRow(table.Row{l.Text, formatRect(l.Rect)})
		}
		parts = append(parts, labels.Render())
	}

	if len(g.Ticks) > 0 {
		ticks := newTable()
		ticks.AppendHeader(table.Row{"Tick", "Value", "Y"})
		for _, t := range g.Ticks {
			ticks.AppendRow(table.Row{t.Label.Text, chart.FormatValue(t.Value), num(t.Y)})
		}
		parts = append(parts, ticks.Render())
	}

	if a := g.Average; a != nil {
		avg := newTable()
		avg.AppendHeader(table.Row{"Average", "Y", "From", "To"})
		avg.AppendRow(table.Row{chart.FormatValue(a.Value), num(a.Y), num(a.X1), num(a.X2)})
		parts = append(parts, avg.Render())
	}

	return strings.Join(parts, "\n\n")
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func num(v float64) string { return chart.FormatValue(v) }

func formatSize(s chart.Size) string {
	return fmt.Sprintf("%s×%s", num(s.W), num(s.H))
}

func formatRect(r chart.Rect) string {
	return fmt.Sprintf("(%s, %s) %s", num(r.X), num(r.Y), formatSize(r.Size()))
}
