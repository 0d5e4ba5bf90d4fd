/*
Copyright © 2024 the Exposure authors.
This file is part of Exposure.

Exposure is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Exposure is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Exposure.  If not, see <http://www.gnu.org/licenses/>.
*/

package exposureutil

import (
	"fmt"
	"image/color"

	"github.com/spatialmodel/exposure"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	figWidth  = 6 * vg.Inch
	figHeight = 4 * vg.Inch
)

// riskPlot draws the histogram of trial risks in r, in percent, with
// the mean and median marked.
func riskPlot(r *exposure.Result) (*plot.Plot, error) {
	d := r.Distribution
	if d == nil {
		return nil, fmt.Errorf("exposure: no risk distribution to plot")
	}
	h := d.Histogram

	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, c := range h.Counts {
		bins[i] = plotter.HistogramBin{
			Min:    h.Edges[i] * 100,
			Max:    h.Edges[i+1] * 100,
			Weight: float64(c),
		}
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     (h.Edges[len(h.Edges)-1] - h.Edges[0]) * 100,
		FillColor: color.RGBA{R: 70, G: 130, B: 180, A: 255},
		LineStyle: plotter.DefaultLineStyle,
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Infection risk (%d trials)", h.Total)
	p.X.Label.Text = d.Axis.XLabel
	p.Y.Label.Text = d.Axis.YLabel
	p.Add(hist)

	ymax := float64(h.MaxCount)
	for _, m := range []struct {
		name  string
		v     float64
		color color.Color
	}{
		{"Mean", d.Statistics.Mean, color.RGBA{R: 200, A: 255}},
		{"Median", d.Statistics.Median, color.RGBA{G: 150, A: 255}},
	} {
		l, err := plotter.NewLine(plotter.XYs{{X: m.v * 100, Y: 0}, {X: m.v * 100, Y: ymax}})
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = m.color
		l.LineStyle.Width = vg.Points(1.5)
		l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("%s %.3g%%", m.name, m.v*100), l)
	}
	p.Legend.Top = true
	return p, nil
}

// savePlot saves the risk histogram of r to path.
func savePlot(r *exposure.Result, path string) error {
	p, err := riskPlot(r)
	if err != nil {
		return err
	}
	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("exposure: saving plot: %v", err)
	}
	return nil
}
