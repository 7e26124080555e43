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

// Package report formats simulation results as tables, spreadsheets and
// figures.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/spatialmodel/toucan"
	"gonum.org/v1/gonum/floats"
)

// Names of the variables available for each timestamp of a simulation.
const (
	VarTime        = "t"
	VarTimeHours   = "t_hours"
	VarTimeDays    = "t_days"
	VarSegment     = "segment"
	VarTemperature = "temperature"
	VarDiffusion   = "diffusion"
	VarImpurities  = "impurities"
	VarFlow        = "flow"
)

// ModelVariables are the names of the columns in a table created by
// FromResult.
var ModelVariables = []string{VarTime, VarTimeHours, VarTimeDays, VarSegment,
	VarTemperature, VarDiffusion, VarImpurities, VarFlow}

// Table holds one row of values for each simulation timestamp.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the values in the named column.
func (t *Table) Column(name string) ([]float64, error) {
	for j, c := range t.Columns {
		if c == name {
			o := make([]float64, len(t.Rows))
			for i, row := range t.Rows {
				o[i] = row[j]
			}
			return o, nil
		}
	}
	return nil, fmt.Errorf("report: table has no column %q", name)
}

// FromResult flattens a simulation result into a table with the columns
// in ModelVariables.
func FromResult(r *toucan.Result) *Table {
	t := &Table{Columns: ModelVariables}
	for i, seg := range r.Segments {
		var temp, diff float64
		if len(r.Temperatures) == 1 {
			temp = r.Temperatures[0]
		} else if i < len(r.Temperatures) {
			temp = r.Temperatures[i]
		}
		if len(r.Diffusion) == 1 {
			diff = r.Diffusion[0]
		} else if i < len(r.Diffusion) {
			diff = r.Diffusion[i]
		}
		for j, time := range seg {
			row := []float64{time, time / toucan.Hour, time / toucan.Day, float64(i), temp, diff, 0, 0}
			if r.Impurities != nil && i < len(r.Impurities.Values) {
				row[6] = r.Impurities.Values[i][j]
			}
			if i < len(r.FlowRate) {
				row[7] = r.FlowRate[i][j]
			}
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// WriteText writes t to w as aligned text columns.
func WriteText(w io.Writer, t *Table) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for j, c := range t.Columns {
		if j > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
	for _, row := range t.Rows {
		for j, v := range row {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprintf(tw, "%.6g", v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Summary holds summary statistics of one table column.
type Summary struct {
	Name                   string
	Min, Max, Mean, StdDev float64
}

// Summarize returns summary statistics for each column of t, sorted by
// column name.
func Summarize(t *Table) []Summary {
	o := make([]Summary, len(t.Columns))
	for j, c := range t.Columns {
		v, _ := t.Column(c)
		s := Summary{Name: c}
		if len(v) > 0 {
			s.Min = floats.Min(v)
			s.Max = floats.Max(v)
			s.Mean = stats.StatsMean(v)
		}
		if len(v) > 1 {
			s.StdDev = stats.StatsSampleStandardDeviation(v)
		}
		o[j] = s
	}
	sort.Slice(o, func(i, j int) bool { return o[i].Name < o[j].Name })
	return o
}

// WriteSummary writes the summary statistics to w as aligned text.
func WriteSummary(w io.Writer, summary []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "variable\tmin\tmax\tmean\tstd. dev.")
	for _, s := range summary {
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%.6g\t%.6g\n", s.Name, s.Min, s.Max, s.Mean, s.StdDev)
	}
	return tw.Flush()
}
