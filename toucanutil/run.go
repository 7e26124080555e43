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

package toucanutil

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/toucan"
	"github.com/spatialmodel/toucan/properties"
	"github.com/spatialmodel/toucan/report"
)

// Run simulates outgassing from setup over the scenario and writes the
// results to w or out.File, and a figure of the flow rate to out.PlotFile.
// timeScale is the name of the time scale used for the figure.
func Run(w io.Writer, sim *toucan.Simulator, setup *toucan.Setup, sc toucan.Scenario, timeScale string, out Output) error {
	r, err := sim.Run(setup, sc)
	if err != nil {
		if seg := toucan.FailedSegment(err); seg >= 0 && sim.Log != nil {
			sim.Log.WithFields(logrus.Fields{"segment": seg}).Error("simulation stopped")
		}
		return err
	}
	peak, err := r.PeakFlow()
	if err != nil {
		return err
	}
	if sim.Log != nil {
		sim.Log.WithFields(logrus.Fields{
			"initial impurities": fmt.Sprintf("%g", r.InitialQuantity),
			"peak flow rate":     fmt.Sprintf("%g", peak),
		}).Info("outgassing calculated")
	}
	t, err := writeTable(w, out, "Outgassing", report.FromResult(r))
	if err != nil {
		return err
	}
	if out.Summary {
		fmt.Fprintf(w, "initial impurities: %g\n", r.InitialQuantity)
		fmt.Fprintf(w, "peak flow rate: %g\n", peak)
		if err = report.WriteSummary(w, report.Summarize(t)); err != nil {
			return err
		}
	}
	scale, err := toucan.TimeScale(timeScale)
	if err != nil {
		return err
	}
	fig := report.DefaultFigure(
		fmt.Sprintf("%s outgassing from %s", setup.Solute, setup.Fixture),
		fmt.Sprintf("Time [%s]", timeScale),
		fmt.Sprintf("Flow rate [%s]", r.FlowLabel()))
	return savePlot(out, fig, report.SegmentSeries(r.Segments, r.FlowRate, r.Labels, scale)...)
}

// Lifetime calculates the electron lifetime in the xenon of setup at
// each of the given times [s], and writes the results to w or out.File,
// and a figure to out.PlotFile.
func Lifetime(w io.Writer, setup *toucan.Setup, times []float64, c0 float64, p toucan.Purification, timeScale string, out Output) error {
	tau, err := setup.ElectronLifetime(times, c0, p)
	if err != nil {
		return err
	}
	scale, err := toucan.TimeScale(timeScale)
	if err != nil {
		return err
	}
	t := &report.Table{Columns: []string{report.VarTime, report.VarImpurities, "lifetime"}}
	s := report.Series{Label: setup.Name}
	for i, ti := range times {
		var c float64
		if !math.IsInf(tau[i], 1) {
			c = setup.FieldFactor / tau[i]
			s.X = append(s.X, ti/scale)
			s.Y = append(s.Y, tau[i])
		}
		t.Rows = append(t.Rows, []float64{ti, c, tau[i]})
	}
	if t, err = writeTable(w, out, "Lifetime", t); err != nil {
		return err
	}
	if out.Summary {
		if err = report.WriteSummary(w, report.Summarize(t)); err != nil {
			return err
		}
	}
	fig := report.DefaultFigure(fmt.Sprintf("Electron lifetime in %s", setup.Name),
		fmt.Sprintf("Time [%s]", timeScale), "Electron lifetime")
	fig.LogY = false
	return savePlot(out, fig, s)
}

// Fit fits the purity monitor model to the electron lifetimes [μs] in the
// 'lifetime' column of the given sheet of an Excel file, measured at the
// times [s] in its 't' column. It writes the fit parameters to w and the
// measurements together with the fitted lifetimes and their bounds to w
// or out.File.
func Fit(w io.Writer, inputFile, sheet string, electronConstant, xenonMass float64, out Output) error {
	if inputFile == "" {
		return fmt.Errorf("toucan: you need to specify Fit.InputFile")
	}
	in, err := report.ReadXLSX(inputFile, sheet)
	if err != nil {
		return err
	}
	times, err := in.Column(report.VarTime)
	if err != nil {
		return err
	}
	lifetimes, err := in.Column("lifetime")
	if err != nil {
		return err
	}
	fit, err := toucan.FitXPM(times, lifetimes, electronConstant, xenonMass)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "n0 = %g ± %g\n", fit.N0, fit.N0Err)
	fmt.Fprintf(w, "r0 = %g ± %g\n", fit.R0, fit.R0Err)
	fmt.Fprintf(w, "R² = %.4f (%d measurements)\n", fit.RSquared, fit.Count)

	t := &report.Table{Columns: []string{report.VarTime, "lifetime", "fit", "fit_lower", "fit_upper"}}
	measured := report.Series{Label: "measured", X: make([]float64, len(times)), Y: lifetimes}
	fitted := report.Series{Label: "fit", X: make([]float64, len(times))}
	for i, ti := range times {
		tau, lower, upper, err := toucan.XPMBounds(ti, electronConstant, fit.N0, fit.N0Err, fit.R0, fit.R0Err, xenonMass)
		if err != nil {
			return err
		}
		t.Rows = append(t.Rows, []float64{ti, lifetimes[i], tau, lower, upper})
		measured.X[i] = ti / toucan.Day
		fitted.X[i] = ti / toucan.Day
		fitted.Y = append(fitted.Y, tau)
	}
	if _, err = writeTable(w, Output{File: out.File}, "Fit", t); err != nil {
		return err
	}
	fig := report.DefaultFigure("Purity monitor fit", "Time [Days]", "Electron lifetime [μs]")
	fig.LogY = false
	return savePlot(out, fig, measured, fitted)
}

// Steel calculates the outgassing rate of a stainless steel surface with
// the area of the setup's fixture at each of the given pumping times [s],
// where unbaked [mBar L/(s cm²)] is the rate per unit area measured after
// pumpedTime [s]. It writes the results to w or out.File, and a figure to
// out.PlotFile.
func Steel(w io.Writer, setup *toucan.Setup, times []float64, unbaked, pumpedTime float64, timeScale string, out Output) error {
	flow, err := setup.SteelFlowRate(unbaked, pumpedTime, times)
	if err != nil {
		return err
	}
	scale, err := toucan.TimeScale(timeScale)
	if err != nil {
		return err
	}
	t := &report.Table{Columns: []string{report.VarTime, report.VarFlow}}
	s := report.Series{Label: fmt.Sprintf("%s, A=%g cm²", setup.Fixture, setup.Geometry.Area)}
	for i, ti := range times {
		t.Rows = append(t.Rows, []float64{ti, flow[i]})
		s.X = append(s.X, ti/scale)
		s.Y = append(s.Y, flow[i])
	}
	if t, err = writeTable(w, out, "Steel", t); err != nil {
		return err
	}
	if out.Summary {
		if err = report.WriteSummary(w, report.Summarize(t)); err != nil {
			return err
		}
	}
	fig := report.DefaultFigure("Stainless steel outgassing",
		fmt.Sprintf("Pumping time [%s]", timeScale), "Flow rate [mBar L/s]")
	return savePlot(out, fig, s)
}

// ListLibrary writes the contents of lib to w.
func ListLibrary(w io.Writer, lib *properties.Library) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Material\tSolutes")
	for _, m := range lib.Materials() {
		fmt.Fprintf(tw, "%s\t%s\n", m, strings.Join(lib.Solutes(m), ", "))
	}
	fmt.Fprintln(tw, "\nGas\t")
	for _, g := range lib.Gases() {
		fmt.Fprintf(tw, "%s\t\n", g)
	}
	fmt.Fprintln(tw, "\nSetup\tFixtures")
	for _, s := range lib.Setups() {
		var fixtures []string
		for _, f := range lib.Fixtures(s) {
			fixtures = append(fixtures, f.Material+"/"+f.Fixture)
		}
		fmt.Fprintf(tw, "%s\t%s\n", s, strings.Join(fixtures, ", "))
	}
	return tw.Flush()
}

// writeTable applies the output variables to t and writes it to out.File,
// as a sheet with the given name for .xlsx files and as text otherwise.
// If out.File is empty, t is written as text to w. It returns the table
// that was written.
func writeTable(w io.Writer, out Output, sheet string, t *report.Table) (*report.Table, error) {
	if len(out.Variables) > 0 {
		o, err := report.NewOutputter(out.Variables, nil)
		if err != nil {
			return nil, err
		}
		if t, err = o.Output(t); err != nil {
			return nil, err
		}
	}
	switch {
	case out.File == "":
		return t, report.WriteText(w, t)
	case strings.EqualFold(filepath.Ext(out.File), ".xlsx"):
		return t, report.WriteXLSX(out.File, sheet, t)
	}
	f, err := os.Create(out.File)
	if err != nil {
		return nil, fmt.Errorf("toucan: creating output file: %v", err)
	}
	if err = report.WriteText(f, t); err != nil {
		f.Close()
		return nil, err
	}
	return t, f.Close()
}

// savePlot saves a figure of the series to out.PlotFile, if it is not
// empty, and opens it if out.OpenPlot is true.
func savePlot(out Output, fig report.Figure, series ...report.Series) error {
	if out.PlotFile == "" {
		return nil
	}
	if err := fig.Save(out.PlotFile, series...); err != nil {
		return err
	}
	if out.OpenPlot {
		return open.Run(out.PlotFile)
	}
	return nil
}
