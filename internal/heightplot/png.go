package heightplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/footfall/internal/footstep"
)

// ErrNoSeries is returned when a run has no sampled foot to draw.
var ErrNoSeries = errors.New("no foot height series to plot")

var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 148, G: 103, B: 189, A: 255},
}

var (
	downColor  = color.RGBA{R: 127, G: 127, B: 127, A: 255}
	upperColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// WritePNG renders the height plot of res as a PNG to w.
func WritePNG(w io.Writer, res *footstep.Result, title string) error {
	series := Collect(res)
	if len(series) == 0 {
		return ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Height (m)"

	for i, s := range series {
		c := palette[i%len(palette)]

		pts := make(plotter.XYs, len(s.Heights))
		for f, h := range s.Heights {
			pts[f] = plotter.XY{X: float64(f), Y: h}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = c
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Label, line)

		if err := addPlants(p, s.Heights, s.Plants, c, draw.CircleGlyph{}); err != nil {
			return err
		}
		if err := addPlants(p, s.Heights, s.Shuffle, c, draw.TriangleGlyph{}); err != nil {
			return err
		}
	}

	last := float64(frameCount(series) - 1)
	if err := addThreshold(p, "down", res.DownHeight, last, downColor); err != nil {
		return err
	}
	if err := addThreshold(p, "upper", res.UpperLimit, last, upperColor); err != nil {
		return err
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render height plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write height plot: %w", err)
	}
	return nil
}

func addPlants(p *plot.Plot, heights []float64, frames []int, c color.Color, shape draw.GlyphDrawer) error {
	if len(frames) == 0 {
		return nil
	}
	pts := make(plotter.XYs, 0, len(frames))
	for _, f := range frames {
		if f >= 0 && f < len(heights) {
			pts = append(pts, plotter.XY{X: float64(f), Y: heights[f]})
		}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Shape = shape
	sc.GlyphStyle.Radius = vg.Points(4)
	p.Add(sc)
	return nil
}

func addThreshold(p *plot.Plot, label string, y, lastFrame float64, c color.Color) error {
	if lastFrame < 1 {
		lastFrame = 1
	}
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: y}, {X: lastFrame, Y: y}})
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("%s %.3fm", label, y), line)
	return nil
}
