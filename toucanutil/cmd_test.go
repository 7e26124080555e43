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
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/kr/pretty"
	"github.com/spatialmodel/toucan"
	"github.com/spatialmodel/toucan/properties"
	"github.com/spatialmodel/toucan/report"
)

const configExample = "../cmd/toucan/configExample.toml"

// testConfig returns a configuration that writes command output to the
// returned buffer and discards log messages.
func testConfig(args ...string) (*Cfg, *bytes.Buffer) {
	cfg := InitializeConfig()
	cfg.Log.Out = ioutil.Discard
	b := new(bytes.Buffer)
	cfg.Root.SetOutput(b)
	cfg.Root.SetArgs(args)
	return cfg, b
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "toucanutil")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// textTable parses the rows of a table written by report.WriteText.
func textTable(t *testing.T, s string) (header []string, rows [][]float64) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	header = strings.Fields(lines[0])
	for _, l := range lines[1:] {
		var row []float64
		for _, f := range strings.Fields(l) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				t.Fatalf("parsing %q: %v", l, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return header, rows
}

func TestVersion(t *testing.T) {
	cfg, b := testConfig("version")
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "TOUCAN v" + toucan.Version; strings.TrimSpace(b.String()) != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestConfigExample(t *testing.T) {
	var c struct {
		Setup, Material, Solute, Fixture string
		TimePoints, Temperatures         []float64
		TimeSpacing                      float64
		Terms                            int
		OutputVariables                  map[string]string
		Tail                             struct{ DecayRate, Split float64 }
		Lifetime                         struct{ FieldFactor float64 }
	}
	if _, err := toml.DecodeFile(configExample, &c); err != nil {
		t.Fatal(err)
	}
	if _, err := toucan.NewSetup(properties.Default(), c.Setup, c.Material, c.Solute, c.Fixture); err != nil {
		t.Error(err)
	}
	if len(c.Temperatures) != len(c.TimePoints)-1 {
		t.Errorf("%d temperatures for %d time points", len(c.Temperatures), len(c.TimePoints))
	}
	if c.Terms != toucan.DefaultTerms || c.Tail.Split != 1 || c.Lifetime.FieldFactor != 300 {
		t.Errorf("%+v", c)
	}
	if _, err := report.NewOutputter(c.OutputVariables, nil); err != nil {
		t.Error(err)
	}
}

func TestRunConfig(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	outFile := filepath.Join(dir, "out.xlsx")
	plotFile := filepath.Join(dir, "flow.png")

	cfg, _ := testConfig("run", "--config="+configExample, "--OutputFile="+outFile, "--PlotFile="+plotFile)
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	r, err := report.ReadXLSX(outFile, "Outgassing")
	if err != nil {
		t.Fatal(err)
	}
	wantCols := []string{"days", "flow", "impurities", "log_flow"}
	if !reflect.DeepEqual(r.Columns, wantCols) {
		t.Fatalf("columns: %v", pretty.Diff(r.Columns, wantCols))
	}
	if len(r.Rows) != 60 {
		t.Fatalf("%d rows, want 60", len(r.Rows))
	}
	days, _ := r.Column("days")
	if days[0] != 0 || days[59] != 59 {
		t.Errorf("days: %v", days)
	}
	imp, _ := r.Column("impurities")
	if !(imp[0] > imp[59]) || imp[59] < 0 {
		t.Errorf("impurities should decrease: %g, %g", imp[0], imp[59])
	}
	flow, _ := r.Column("flow")
	if !(flow[0] > flow[29]) {
		t.Errorf("flow should decrease: %g, %g", flow[0], flow[29])
	}
	if _, err := os.Stat(plotFile); err != nil {
		t.Error(err)
	}
}

func TestRunFlags(t *testing.T) {
	cfg, b := testConfig("run", "--TimePoints=[0, 2]", "--TimeScale=Hours",
		"--TimeSpacing=0.5", "--Temperatures=[293.15]", `--OutputVariables={"hours": "t_hours", "flow": "flow"}`)
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	header, rows := textTable(t, b.String())
	if !reflect.DeepEqual(header, []string{"flow", "hours"}) {
		t.Errorf("header: %v", header)
	}
	if len(rows) != 4 {
		t.Fatalf("%d rows, want 4", len(rows))
	}
	for i, row := range rows {
		if row[1] != float64(i)*0.5 {
			t.Errorf("row %d: hours=%g", i, row[1])
		}
		if i > 0 && !(row[0] < rows[i-1][0]) {
			t.Errorf("row %d: flow %g should be less than %g", i, row[0], rows[i-1][0])
		}
	}
}

func TestRunInvalid(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{name: "setup", args: []string{"--Setup=XENONnT"}, target: properties.ErrMissingLookup},
		{name: "time scale", args: []string{"--TimeScale=Fortnights"}, target: toucan.ErrInvalidUnit},
		{name: "time points", args: []string{"--TimePoints=[10, 0]"}, target: toucan.ErrInvalidParameter},
		{name: "flow units", args: []string{"--FlowUnits=mBar Liter", "--ImpurityUnits=ppb"}, target: toucan.ErrInvalidUnit},
		{name: "terms", args: []string{"--Terms=0"}, target: toucan.ErrInvalidParameter},
		{name: "tail", args: []string{"--Tail.DecayRate=1e-3", "--Tail.Split=2"}, target: toucan.ErrInvalidParameter},
		{name: "temperatures", args: []string{"--TimePoints=[0, 1, 2]", "--Temperatures=[300, 200, 100]"}, target: toucan.ErrInvalidParameter},
		{name: "constraint below 1", args: []string{"--Constraints=[0.5]"}, target: toucan.ErrInvalidParameter},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg, _ := testConfig(append([]string{"run"}, test.args...)...)
			if err := cfg.Root.Execute(); !errors.Is(err, test.target) {
				t.Errorf("have %v, want %v", err, test.target)
			}
		})
	}
	t.Run("time grid", func(t *testing.T) {
		cfg, _ := testConfig("run", "--TimeGrid=random")
		if err := cfg.Root.Execute(); err == nil {
			t.Error("invalid time grid should fail")
		}
	})
	t.Run("log level", func(t *testing.T) {
		cfg, _ := testConfig("run", "--log_level=chatty")
		if err := cfg.Root.Execute(); err == nil {
			t.Error("invalid log level should fail")
		}
	})
}

func TestRunSummary(t *testing.T) {
	cfg, b := testConfig("run", "--TimePoints=[0, 2]", "--TimeScale=Hours", "--TimeSpacing=0.5",
		"--ImpurityUnits=mass", "--Summary", `--OutputVariables={"flow": "flow"}`)
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	parts := strings.SplitN(b.String(), "initial impurities:", 2)
	if len(parts) != 2 {
		t.Fatalf("no summary in output:\n%s", b.String())
	}
	_, rows := textTable(t, parts[0])
	lines := strings.Split(strings.TrimSpace(parts[1]), "\n")
	if len(lines) != 4 {
		t.Fatalf("summary:\n%s", parts[1])
	}
	if !strings.HasSuffix(lines[0], " kg") {
		t.Errorf("initial impurities should be in kg: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "peak flow rate: ") || !strings.HasSuffix(lines[1], " kg s^-1") {
		t.Errorf("peak flow rate should be in kg/s: %q", lines[1])
	}
	peak, err := strconv.ParseFloat(strings.Fields(lines[1])[3], 64)
	if err != nil {
		t.Fatal(err)
	}
	// The table is in g/s and the peak is in kg/s.
	if d := peak*1000/rows[0][0] - 1; d > 1.e-5 || d < -1.e-5 {
		t.Errorf("peak flow %g kg/s does not match the first flow rate %g g/s", peak, rows[0][0])
	}
	summary := strings.Fields(lines[3])
	if summary[0] != "flow" || summary[2] != strconv.FormatFloat(rows[0][0], 'g', 6, 64) {
		t.Errorf("flow summary: %v, first row %v", summary, rows[0])
	}
}

func TestSteel(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	plotFile := filepath.Join(dir, "steel.svg")

	cfg, b := testConfig("steel", "--TimePoints=[1, 5]", "--TimeScale=Hours", "--TimeSpacing=1",
		"--Steel.UnbakedRate=2e-10", "--Steel.PumpedTime=3600", "--PlotFile="+plotFile)
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	header, rows := textTable(t, b.String())
	if !reflect.DeepEqual(header, []string{"t", "flow"}) {
		t.Errorf("header: %v", header)
	}
	if len(rows) != 4 {
		t.Fatalf("%d rows, want 4", len(rows))
	}
	f, err := properties.Default().Fixture("EXO-200", "Teflon", "EXO-Teflon")
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		want := 2.e-10 * f.Area * 3600 / row[0]
		if d := row[1]/want - 1; d > 1.e-5 || d < -1.e-5 {
			t.Errorf("row %d: flow %g, want %g", i, row[1], want)
		}
	}
	if _, err := os.Stat(plotFile); err != nil {
		t.Error(err)
	}

	// Pumping times must be after zero.
	cfg, _ = testConfig("steel")
	if err := cfg.Root.Execute(); !errors.Is(err, toucan.ErrInvalidParameter) {
		t.Errorf("have %v, want ErrInvalidParameter", err)
	}
}

func TestLifetime(t *testing.T) {
	cfg, b := testConfig("lifetime", "--Lifetime.FieldFactor=300", "--Lifetime.InitialImpurities=10",
		"--TimePoints=[0, 10]", "--TimeScale=Days", "--TimeSpacing=1", "--ImpurityUnits=ppb")
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	header, rows := textTable(t, b.String())
	if !reflect.DeepEqual(header, []string{"t", "impurities", "lifetime"}) {
		t.Errorf("header: %v", header)
	}
	if len(rows) != 10 {
		t.Fatalf("%d rows, want 10", len(rows))
	}
	if rows[0][1] != 10 || rows[0][2] != 30 {
		t.Errorf("initial impurities and lifetime: %v", rows[0])
	}
	for i := 1; i < len(rows); i++ {
		if !(rows[i][2] > rows[i-1][2]) {
			t.Errorf("lifetime should increase as impurities are removed: %v", rows[i])
		}
	}
}

func TestLifetimeNoFieldFactor(t *testing.T) {
	cfg, _ := testConfig("lifetime")
	if err := cfg.Root.Execute(); err == nil {
		t.Error("the built-in EXO-200 setup has no field factor, so this should fail")
	}
}

func TestFit(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	in := filepath.Join(dir, "xpm.xlsx")

	const cEl, n0, r0, mass = 300., 1., 1., 200.
	meas := &report.Table{Columns: []string{"t", "lifetime"}}
	for _, ti := range []float64{0, 2.5e5, 5e5, 7.5e5, 1e6} {
		tau, err := toucan.XPMLifetime(ti, cEl, n0, r0, mass)
		if err != nil {
			t.Fatal(err)
		}
		meas.Rows = append(meas.Rows, []float64{ti, tau})
	}
	if err := report.WriteXLSX(in, "XPM", meas); err != nil {
		t.Fatal(err)
	}

	cfg, b := testConfig("fit", "--Fit.InputFile="+in, "--PlotFile="+filepath.Join(dir, "fit.svg"))
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "R² = 1.0000 (5 measurements)") {
		t.Errorf("output:\n%s", b.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "fit.svg")); err != nil {
		t.Error(err)
	}

	cfg, _ = testConfig("fit")
	if err := cfg.Root.Execute(); err == nil {
		t.Error("missing input file should fail")
	}
}

func TestLibrary(t *testing.T) {
	cfg, b := testConfig("library", "--Library=../properties/testdata/library.yaml")
	if err := cfg.Root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Teflon", "Oxygen", "EXO-200", "Teflon/EXO-Teflon"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("library listing is missing %s:\n%s", want, b.String())
		}
	}
	cfg, _ = testConfig("library", "--Library=missing.json")
	if err := cfg.Root.Execute(); err == nil {
		t.Error("missing library file should fail")
	}
}

func TestToFloatSliceE(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []float64
	}{
		{name: "json", in: "[0, 1.5, 3]", want: []float64{0, 1.5, 3}},
		{name: "toml", in: []interface{}{int64(0), 1.5, int64(3)}, want: []float64{0, 1.5, 3}},
		{name: "empty", in: "", want: nil},
		{name: "floats", in: []float64{2}, want: []float64{2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have, err := toFloatSliceE(test.in)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
	if _, err := toFloatSliceE("[0, a]"); err == nil {
		t.Error("invalid JSON should fail")
	}
	if _, err := toFloatSliceE(3); err == nil {
		t.Error("a number is not a list")
	}
}

func TestGetStringMapString(t *testing.T) {
	cfg := InitializeConfig()
	cfg.Set("OutputVariables", `{"a": "flow * 2"}`)
	have, err := GetStringMapString("OutputVariables", cfg.Viper)
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]string{"a": "flow * 2"}; !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
	cfg.Set("OutputVariables", map[string]interface{}{"b": "impurities"})
	if have, _ = GetStringMapString("OutputVariables", cfg.Viper); have["b"] != "impurities" {
		t.Errorf("have %v", have)
	}
	cfg.Set("OutputVariables", "{")
	if _, err = GetStringMapString("OutputVariables", cfg.Viper); err == nil {
		t.Error("invalid JSON should fail")
	}
}
