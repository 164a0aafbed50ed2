package heightplot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/footfall/internal/footstep"
)

// RenderHTML writes an interactive line chart of res to w.
func RenderHTML(w io.Writer, res *footstep.Result, title string) error {
	series := Collect(res)
	if len(series) == 0 {
		return ErrNoSeries
	}

	n := frameCount(series)
	frames := make([]int, n)
	for i := range frames {
		frames[i] = i
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("frames=%d length=%.2fs down=%.3fm upper=%.3fm", res.FrameCount, res.LengthSeconds, res.DownHeight, res.UpperLimit),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Height (m)", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(frames)

	for _, s := range series {
		data := make([]opts.LineData, n)
		for i := range data {
			if i < len(s.Heights) {
				data[i] = opts.LineData{Value: s.Heights[i]}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(s.Label, data)
	}
	line.AddSeries("down", constant(n, res.DownHeight), charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))
	line.AddSeries("upper", constant(n, res.UpperLimit), charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))

	plants := charts.NewScatter()
	for _, s := range series {
		plants.AddSeries(s.Label+" plants", markers(s.Heights, s.Plants), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
		if len(s.Shuffle) > 0 {
			plants.AddSeries(s.Label+" shuffle", markers(s.Heights, s.Shuffle), charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
		}
	}
	line.Overlap(plants)

	return line.Render(w)
}

func constant(n int, v float64) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func markers(heights []float64, frames []int) []opts.ScatterData {
	out := make([]opts.ScatterData, 0, len(frames))
	for _, f := range frames {
		if f >= 0 && f < len(heights) {
			out = append(out, opts.ScatterData{Value: []interface{}{f, heights[f]}})
		}
	}
	return out
}
