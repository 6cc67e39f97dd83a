// Package chart renders the dashboard's performance chart with go-echarts.
package chart

import (
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/dataplunge/dataplunge/internal/pkg/aggregate"
	"github.com/dataplunge/dataplunge/internal/pkg/env"
)

const (
	ChartID       = "performance-chart"
	PageTitle     = "Performance"
	defaultHeight = "360px"

	// DefaultAssetsHost is where the web server serves echarts.min.js and
	// themes/westeros.js from public/assets/echarts.
	DefaultAssetsHost = "/assets/echarts/"

	seriesConversions = "Conversions"
	seriesCosts       = "Costs"
)

// Frame is a rendered chart split into the pieces the chart page embeds.
type Frame struct {
	Title   string
	Scripts []string
	Element string
	Script  string
}

// Performance renders conversions as bars on the left axis and costs as a
// line on the right axis, one x-axis entry per day.
func Performance(days []aggregate.DayRow) (Frame, error) {
	labels := make([]string, len(days))
	conversions := make([]opts.BarData, len(days))
	costs := make([]opts.LineData, len(days))
	for i, d := range days {
		labels[i] = d.Day()
		conversions[i] = opts.BarData{Name: labels[i], Value: d.Conversions}
		costs[i] = opts.LineData{Name: labels[i], Value: aggregate.Round2(d.Costs)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  PageTitle,
			AssetsHost: AssetsHost(),
			ChartID:    ChartID,
			Theme:      types.ThemeWesteros,
			Width:      "100%",
			Height:     defaultHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: seriesConversions}),
	)
	bar.ExtendYAxis(opts.YAxis{Name: seriesCosts})
	bar.SetXAxis(labels).AddSeries(seriesConversions, conversions)

	line := charts.NewLine()
	line.SetXAxis(labels).AddSeries(seriesCosts, costs,
		charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1, Smooth: opts.Bool(true)}),
	)
	bar.Overlap(line)

	return renderFrame(bar)
}

// AssetsHost returns ECHARTS_ASSETS_HOST when set, DefaultAssetsHost otherwise.
func AssetsHost() string {
	host := strings.TrimSpace(env.GetEnv("ECHARTS_ASSETS_HOST", DefaultAssetsHost))
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host
}

// renderFrame turns the chart into a snippet. go-echarts panics on template
// errors, which are reported as an error here.
func renderFrame(bar *charts.Bar) (frame Frame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render chart: %v", r)
		}
	}()

	snippet := bar.RenderSnippet()
	return Frame{
		Title:   bar.PageTitle,
		Scripts: append([]string(nil), bar.JSAssets.Values...),
		Element: snippet.Element,
		Script:  snippet.Script,
	}, nil
}
