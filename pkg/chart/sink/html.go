package sink

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matzehuels/barchart/pkg/chart"
)

const defaultSeriesName = "Value"

// HTMLOption configures HTML rendering.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	series string
}

// WithSeriesName sets the legend and tooltip name of the bars.
func WithSeriesName(name string) HTMLOption {
	return func(r *htmlRenderer) { r.series = name }
}

// RenderHTML renders vm as an interactive ECharts page of the given size.
// Unlike the other sinks it works from the view model, since ECharts does
// its own layout. The average mark line uses the same positive-only mean as
// the native layout.
func RenderHTML(vm *chart.ViewModel, size chart.Size, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{series: defaultSeriesName}
	for _, opt := range opts {
		opt(&r)
	}
	bar := buildBarChart(vm, size, r)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func buildBarChart(vm *chart.ViewModel, size chart.Size, r htmlRenderer) *charts.Bar {
	bar := charts.NewBar()
	title := ""
	if vm != nil {
		title = vm.Title
	}
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:     fmt.Sprintf("%.0fpx", size.W),
			Height:    fmt.Sprintf("%.0fpx", size.H),
			PageTitle: pageTitle(title),
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0}),
	)
	if vm.Empty() {
		return bar
	}

	bar.SetXAxis(xAxisLabels(vm))
	data := make([]opts.BarData, len(vm.Values))
	for i, v := range vm.Values {
		data[i] = opts.BarData{Value: v}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{Color: vm.BarColor.Hex()}),
		charts.WithBarChartOpts(opts.BarChart{BarGap: "0%"}),
	}
	if avg, ok := vm.Average(); ok && vm.ShowAverage {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: chart.AverageLabel, YAxis: avg}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol:    []string{"none", "none"},
				LineStyle: &opts.LineStyle{Color: vm.AverageColor.Hex(), Width: 1},
			}),
		)
	}
	bar.AddSeries(r.series, data, seriesOpts...)
	return bar
}

// xAxisLabels returns one category per bar. Stride-mode labels do not map
// onto bars, so they are spread evenly and the remaining slots left blank.
func xAxisLabels(vm *chart.ViewModel) []string {
	out := make([]string, vm.Len())
	if vm.LabelsAligned() {
		copy(out, vm.Labels)
		return out
	}
	if len(vm.Labels) == 0 {
		return out
	}
	step := float64(vm.Len()) / float64(len(vm.Labels))
	for i, l := range vm.Labels {
		if j := int(float64(i) * step); j < len(out) {
			out[j] = l
		}
	}
	return out
}

func pageTitle(title string) string {
	if title == "" {
		return "Bar chart"
	}
	return title
}
