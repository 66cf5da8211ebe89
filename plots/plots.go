// Package plots renders monitoring graphics from fitted models: score
// plots with confidence ellipses and univariate control charts. It only
// consumes exported model state, keeping the numerical core free of any
// presentation concern.
package plots

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/spcgo/pkg/errors"
)

// ScorePlot builds a scatter plot of two score columns with the
// confidence ellipse overlaid. The ellipse coordinates come from the
// model's EllipseCoordinates method so the plot and the limit always
// agree.
func ScorePlot(scores mat.Matrix, scoreH, scoreV int, ellipseX, ellipseY []float64) (*plot.Plot, error) {
	r, c := scores.Dims()
	if scoreH < 0 || scoreH >= c || scoreV < 0 || scoreV >= c {
		return nil, errors.NewValueError("plots.ScorePlot", "score dimension out of range")
	}
	if len(ellipseX) != len(ellipseY) {
		return nil, errors.NewDimensionError("plots.ScorePlot", len(ellipseX), len(ellipseY), 0)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Score plot: t%d vs t%d", scoreH+1, scoreV+1)
	p.X.Label.Text = fmt.Sprintf("t%d", scoreH+1)
	p.Y.Label.Text = fmt.Sprintf("t%d", scoreV+1)

	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = scores.At(i, scoreH)
		pts[i].Y = scores.At(i, scoreV)
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "plots.ScorePlot: scatter")
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)

	ell := make(plotter.XYs, len(ellipseX))
	for i := range ellipseX {
		ell[i].X = ellipseX[i]
		ell[i].Y = ellipseY[i]
	}
	ellipse, err := plotter.NewLine(ell)
	if err != nil {
		return nil, errors.Wrap(err, "plots.ScorePlot: ellipse")
	}
	ellipse.LineStyle.Width = vg.Points(1)
	ellipse.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(ellipse)
	p.Legend.Add("confidence region", ellipse)

	return p, nil
}

// ControlChart builds a line chart of a per-observation statistic (T2 or
// SPE) with its control limit drawn as a horizontal rule.
func ControlChart(name string, values []float64, limit float64) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.NewValueError("plots.ControlChart", "no values to chart")
	}

	p := plot.New()
	p.Title.Text = name + " control chart"
	p.X.Label.Text = "observation"
	p.Y.Label.Text = name

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.Wrap(err, "plots.ControlChart: series")
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(line, scatter)

	rule := plotter.XYs{
		{X: 0, Y: limit},
		{X: float64(len(values) - 1), Y: limit},
	}
	limitLine, err := plotter.NewLine(rule)
	if err != nil {
		return nil, errors.Wrap(err, "plots.ControlChart: limit")
	}
	limitLine.LineStyle.Width = vg.Points(1)
	limitLine.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(limitLine)
	p.Legend.Add("limit", limitLine)

	return p, nil
}
