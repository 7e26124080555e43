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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/toucan"
	"github.com/spatialmodel/toucan/properties"
	"github.com/spf13/cast"
)

// Output specifies where and how results are written.
type Output struct {
	// File is the path to write the results table to. If it is empty, the
	// table is written as text to the command output.
	File string

	// Variables maps output column names to expressions of the result
	// columns. If it is empty, all result columns are written.
	Variables map[string]string

	// PlotFile is the path to save a figure to, if it is not empty.
	PlotFile string
	OpenPlot bool

	// Summary specifies whether summary statistics of the results are
	// written to the command output.
	Summary bool
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// checkOutputFile makes sure that the directory of an output file exists,
// and expands any environment variables. Empty paths are allowed.
func checkOutputFile(name, f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("toucan: the %s directory doesn't exist: %v", name, err)
	}
	return f, nil
}

func (cfg *Cfg) output() (Output, error) {
	var o Output
	var err error
	if o.File, err = checkOutputFile("OutputFile", cfg.GetString("OutputFile")); err != nil {
		return o, err
	}
	if o.PlotFile, err = checkOutputFile("PlotFile", cfg.GetString("PlotFile")); err != nil {
		return o, err
	}
	o.OpenPlot = cfg.GetBool("OpenPlot")
	o.Summary = cfg.GetBool("Summary")
	vars, err := GetStringMapString("OutputVariables", cfg.Viper)
	if err != nil {
		return o, err
	}
	o.Variables = checkOutputVars(vars)
	return o, nil
}

// library loads the property library given by the Library option, or
// returns the built-in library.
func (cfg *Cfg) library() (*properties.Library, error) {
	path := os.ExpandEnv(cfg.GetString("Library"))
	if path == "" {
		return properties.Default(), nil
	}
	return properties.LoadFile(path)
}

func (cfg *Cfg) setup(lib *properties.Library) (*toucan.Setup, error) {
	return toucan.NewSetup(lib,
		cfg.GetString("Setup"),
		cfg.GetString("Material"),
		cfg.GetString("Solute"),
		cfg.GetString("Fixture"))
}

// timeGrid returns the time segments [s] given by the TimePoints,
// TimeSpacing, TimeScale and TimeGrid options, and the name of the time
// scale.
func (cfg *Cfg) timeGrid() ([][]float64, string, error) {
	points, err := toFloatSliceE(cfg.Get("TimePoints"))
	if err != nil {
		return nil, "", fmt.Errorf("toucan: reading TimePoints: %v", err)
	}
	scale := cfg.GetString("TimeScale")
	spacing := cfg.GetFloat64("TimeSpacing")
	var segments [][]float64
	switch grid := strings.ToLower(cfg.GetString("TimeGrid")); grid {
	case "step", "":
		segments, err = toucan.TimeStamps(points, spacing, scale)
	case "linspace":
		segments, err = toucan.Linspace(points, spacing, scale)
	default:
		return nil, "", fmt.Errorf("toucan: invalid TimeGrid '%s'; options are step and linspace", grid)
	}
	if err != nil {
		return nil, "", err
	}
	return segments, scale, nil
}

// scenario creates a simulation scenario from the configuration. It also
// returns the name of the time scale of the TimePoints option.
func (cfg *Cfg) scenario() (toucan.Scenario, string, error) {
	var sc toucan.Scenario
	var scale string
	var err error
	if sc.Segments, scale, err = cfg.timeGrid(); err != nil {
		return sc, "", err
	}
	if sc.Temperatures, err = toFloatSliceE(cfg.Get("Temperatures")); err != nil {
		return sc, "", fmt.Errorf("toucan: reading Temperatures: %v", err)
	}
	if sc.Constraints, err = toFloatSliceE(cfg.Get("Constraints")); err != nil {
		return sc, "", fmt.Errorf("toucan: reading Constraints: %v", err)
	}
	if sc.ImpurityUnit, err = toucan.ParseImpurityUnit(cfg.GetString("ImpurityUnits")); err != nil {
		return sc, "", err
	}
	if sc.FlowUnit, err = toucan.ParseFlowUnit(cfg.GetString("FlowUnits")); err != nil {
		return sc, "", err
	}
	return sc, scale, nil
}

func (cfg *Cfg) simulator() (*toucan.Simulator, error) {
	k, err := toucan.NewKernel(cfg.GetInt("Terms"))
	if err != nil {
		return nil, err
	}
	clock, err := toucan.ParseClock(cfg.GetString("Clock"))
	if err != nil {
		return nil, err
	}
	sim := &toucan.Simulator{Kernel: k, Clock: clock, Tail: toucan.HardClamp(), Log: cfg.Log}
	if rate := cfg.GetFloat64("Tail.DecayRate"); rate != 0 {
		if sim.Tail, err = toucan.NewRelaxation(rate, cfg.GetFloat64("Tail.Split")); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// purification returns the initial impurity concentration and the
// purification settings for the lifetime command. A nonzero
// Lifetime.FieldFactor option replaces the field factor of the setup.
func (cfg *Cfg) purification(setup *toucan.Setup, u toucan.ImpurityUnit) (float64, toucan.Purification, error) {
	p := toucan.Purification{
		CirculationRate: cfg.GetFloat64("Lifetime.CirculationRate"),
		Efficiency:      cfg.GetFloat64("Lifetime.Efficiency"),
		OutDiffusion:    cfg.GetFloat64("Lifetime.OutDiffusion"),
		PurifierOutput:  cfg.GetFloat64("Lifetime.PurifierOutput"),
	}
	if ff := cfg.GetFloat64("Lifetime.FieldFactor"); ff != 0 {
		setup.FieldFactor = ff
	}
	if !(setup.FieldFactor > 0) {
		return 0, p, fmt.Errorf("toucan: setup %s has no field factor; set Lifetime.FieldFactor", setup.Name)
	}
	c0 := cfg.GetFloat64("Lifetime.InitialImpurities")
	if c0 < 0 {
		var err error
		if c0, err = setup.InitialImpurities(u); err != nil {
			return 0, p, err
		}
	}
	return c0, p, nil
}

// toFloatSliceE converts a configuration value into a slice of floats. The
// value may be a list from a configuration file or a JSON array from a
// command-line argument.
func toFloatSliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		var o []float64
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, err
		}
		return o, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("invalid type %T for a list of numbers", s)
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	switch v := cfg.Get(varName).(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("toucan: reading %s: %v", varName, err)
		}
		return o, nil
	case nil:
		return map[string]string{}, nil
	default:
		return nil, fmt.Errorf("toucan: invalid type for %s: %#v", varName, v)
	}
}

// flatten joins time segments into a single list of timestamps.
func flatten(segments [][]float64) []float64 {
	var o []float64
	for _, s := range segments {
		o = append(o, s...)
	}
	return o
}
