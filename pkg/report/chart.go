package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

const (
	chartTitle  = "Red-black tree height"
	chartWidth  = "100%"
	chartHeight = "500px"
	lineWidth   = 2
)

// Series names.
const (
	SeriesHeight      = "Height"
	SeriesBlackHeight = "Black height"
	SeriesBound       = "2*log2(n+1)"
)

// RenderHeightChart writes an HTML line chart of height, black-height and the
// theoretical bound for each sample.
func RenderHeightChart(w io.Writer, samples []workload.HeightSample) error {
	labels := make([]string, len(samples))
	height := make([]opts.LineData, len(samples))
	blackHeight := make([]opts.LineData, len(samples))
	bound := make([]opts.LineData, len(samples))

	for i, sample := range samples {
		labels[i] = strconv.Itoa(sample.Step)
		height[i] = opts.LineData{Value: sample.Height}
		blackHeight[i] = opts.LineData{Value: sample.BlackHeight}
		bound[i] = opts.LineData{Value: strconv.FormatFloat(sample.Bound, 'f', 2, 64)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: chartTitle, Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: chartTitle, Subtitle: "sampled during the workload"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Nodes"}),
	)
	line.SetXAxis(labels)
	line.AddSeries(SeriesHeight, height,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	line.AddSeries(SeriesBlackHeight, blackHeight,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	line.AddSeries(SeriesBound, bound,
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth, Type: "dashed"}),
	)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render height chart: %w", err)
	}

	return nil
}
