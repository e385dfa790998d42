package trends

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartDateLayout = "2006-01-02"

// RenderChart writes an HTML line chart of the series, one line per group.
func RenderChart(w io.Writer, points []Point, q Query) error {
	var dates []string
	dateIdx := make(map[string]int)
	values := make(map[string]map[string]float64)
	for _, p := range points {
		d := p.Date.Format(chartDateLayout)
		if _, ok := dateIdx[d]; !ok {
			dateIdx[d] = len(dates)
			dates = append(dates, d)
		}
		if values[p.GroupLabel] == nil {
			values[p.GroupLabel] = make(map[string]float64)
		}
		values[p.GroupLabel][d] = p.Value
	}

	labels := make([]string, 0, len(values))
	for l := range values {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	granularity := "Weekly"
	if q.Granularity == Monthly {
		granularity = "Monthly"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Workout Trends", Width: "100%", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s Over Time (%s)", q.Metric.Label(), granularity)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: q.Metric.Label()}),
	)
	line.SetXAxis(dates)

	for _, l := range labels {
		data := make([]opts.LineData, len(dates))
		for d, i := range dateIdx {
			if v, ok := values[l][d]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(l, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), ConnectNulls: opts.Bool(true)}))
	}

	return line.Render(w)
}
