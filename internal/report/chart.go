package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/gamma-omg/backtester/internal/engine"
	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	defaultChartWidth  = 1024
	defaultChartHeight = 320
)

// Chart stacks plots vertically on a shared time axis.
type Chart struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewChart(w, h int) *Chart {
	if w <= 0 {
		w = defaultChartWidth
	}
	if h <= 0 {
		h = defaultChartHeight
	}
	return &Chart{w: w, h: h}
}

func (c *Chart) Add(p *plot.Plot, height float64) {
	c.plots = append(c.plots, p)
	c.heights = append(c.heights, height)
}

// AddCurve adds an equity panel and a cash panel for curve.
func (c *Chart) AddCurve(curve []engine.Point) error {
	if len(curve) == 0 {
		return errors.New("empty equity curve")
	}

	equity := make(plotter.XYs, len(curve))
	cash := make(plotter.XYs, len(curve))
	for i, pt := range curve {
		x := float64(pt.Time.Unix())
		equity[i] = plotter.XY{X: x, Y: pt.Equity.InexactFloat64()}
		cash[i] = plotter.XY{X: x, Y: pt.Cash.InexactFloat64()}
	}

	for _, panel := range []struct {
		title  string
		pts    plotter.XYs
		height float64
	}{
		{"Equity", equity, 2},
		{"Cash", cash, 1},
	} {
		p := plot.New()
		p.Title.Text = panel.title
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04:05"}

		line, err := plotter.NewLine(panel.pts)
		if err != nil {
			return fmt.Errorf("failed to create %s graph: %w", panel.title, err)
		}
		p.Add(line, plotter.NewGrid())
		c.Add(p, panel.height)
	}

	return nil
}

func (c *Chart) WriteTo(w io.Writer) (int64, error) {
	if len(c.plots) == 0 {
		return 0, errors.New("chart has no plots")
	}

	axis := make([]*plot.Axis, len(c.plots))
	rows := make([][]*plot.Plot, len(c.plots))
	h := 0.0
	for i, p := range c.plots {
		axis[i] = &p.X
		rows[i] = []*plot.Plot{p}
		h += c.heights[i] * float64(c.h)
	}
	plotext.UniteAxisRanges(axis)

	tbl := plotext.Table{
		RowHeights: c.heights,
		ColWidths:  []float64{1},
	}

	img := vgimg.New(vg.Points(float64(c.w)), vg.Points(h))
	canvases := tbl.Align(rows, draw.New(img))
	for i, p := range c.plots {
		p.Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	n, err := png.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write chart: %w", err)
	}
	return n, nil
}

// ChartWriter renders the equity curve of a result as png.
func ChartWriter(w, h int) writeFunc {
	return func(out io.Writer, r engine.Result) error {
		c := NewChart(w, h)
		if err := c.AddCurve(r.Curve); err != nil {
			return err
		}
		_, err := c.WriteTo(out)
		return err
	}
}
