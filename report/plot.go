/*
Copyright © 2019 the TOUCAN authors.
This file is part of TOUCAN.

TOUCAN is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

TOUCAN is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with TOUCAN.  If not, see <http://www.gnu.org/licenses/>.
*/

package report

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one labeled line in a figure.
type Series struct {
	Label string
	X, Y  []float64
}

// Figure holds the settings for a line plot.
type Figure struct {
	Title, XLabel, YLabel string

	// LogY specifies whether the y axis has a logarithmic scale. Points
	// with y <= 0 are left out of logarithmic plots.
	LogY bool

	Width, Height vg.Length
}

// DefaultFigure returns a figure with a logarithmic y axis.
func DefaultFigure(title, xLabel, yLabel string) Figure {
	return Figure{
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		LogY:   true,
		Width:  8 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

func (f Figure) points(s Series) (plotter.XYs, error) {
	if len(s.X) != len(s.Y) {
		return nil, fmt.Errorf("report: series %q has %d x values and %d y values", s.Label, len(s.X), len(s.Y))
	}
	xy := make(plotter.XYs, 0, len(s.X))
	for i, x := range s.X {
		if f.LogY && !(s.Y[i] > 0) {
			continue
		}
		xy = append(xy, plotter.XYs{{X: x, Y: s.Y[i]}}...)
	}
	return xy, nil
}

// Plot creates a plot with one line for each series.
func (f Figure) Plot(series ...Series) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("report: creating plot: %v", err)
	}
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	if f.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	p.Add(plotter.NewGrid())
	for i, s := range series {
		xy, err := f.points(s)
		if err != nil {
			return nil, err
		}
		if len(xy) == 0 {
			continue
		}
		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, fmt.Errorf("report: plotting %q: %v", s.Label, err)
		}
		l.Color = plotutil.Color(i)
		l.Dashes = plotutil.Dashes(i)
		p.Add(l)
		if s.Label != "" {
			p.Legend.Add(s.Label, l)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// Save plots the series and saves the figure to path. The file format is
// determined by the extension of path, for example .png, .svg or .pdf.
func (f Figure) Save(path string, series ...Series) error {
	p, err := f.Plot(series...)
	if err != nil {
		return err
	}
	if err := p.Save(f.Width, f.Height, os.ExpandEnv(path)); err != nil {
		return fmt.Errorf("report: saving figure: %v", err)
	}
	return nil
}

// SegmentSeries returns one series per time segment, with times divided
// by timeScale [s] and values taken from traj.
func SegmentSeries(segments, traj [][]float64, labels []string, timeScale float64) []Series {
	o := make([]Series, len(traj))
	for i, v := range traj {
		x := make([]float64, len(v))
		for j := range v {
			x[j] = segments[i][j] / timeScale
		}
		o[i] = Series{X: x, Y: v}
		if i < len(labels) {
			o[i].Label = labels[i]
		}
	}
	return o
}
