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

package toucan

import (
	"errors"
	"strings"
	"testing"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/toucan/properties"
)

func exoTeflonOxygen(t *testing.T) *Setup {
	t.Helper()
	s, err := NewSetup(properties.Default(), "EXO-200", "Teflon", "Oxygen", "EXO-Teflon")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSetup(t *testing.T) {
	s := exoTeflonOxygen(t)
	if s.MaterialProperties.Diffusion != teflonO2D || s.Geometry.Thickness != teflonO2L ||
		s.Geometry.Area != exoTeflonArea || s.XenonMass != exoXenonMass {
		t.Errorf("setup: %+v", s)
	}

	str := s.String()
	for _, want := range []string{"Setup: EXO-200", "Fixture: EXO-Teflon", "Xenon Mass: 200000", "Thickness: 0.15"} {
		if !strings.Contains(str, want) {
			t.Errorf("%q is missing from\n%s", want, str)
		}
	}
	for _, unwanted := range []string{"Field Factor", "Comment"} {
		if strings.Contains(str, unwanted) {
			t.Errorf("unset field %q in\n%s", unwanted, str)
		}
	}

	lib := properties.Default()
	for _, args := range [][4]string{
		{"EXO-200", "Teflon", "Radon", "EXO-Teflon"},
		{"XENON1T", "Teflon", "Oxygen", "EXO-Teflon"},
		{"EXO-200", "Viton", "Oxygen", "EXO-Teflon"},
		{"EXO-200", "Teflon", "Oxygen", "Reflector"},
	} {
		if _, err := NewSetup(lib, args[0], args[1], args[2], args[3]); !errors.Is(err, properties.ErrMissingLookup) {
			t.Errorf("%v: have %v, want ErrMissingLookup", args, err)
		}
	}
}

func TestRun(t *testing.T) {
	setup := exoTeflonOxygen(t)
	sim := quietSimulator()
	r, err := sim.Run(setup, Scenario{
		Segments:     [][]float64{{0, 3600, 7200}},
		Temperatures: []float64{ReferenceTemperature},
		ImpurityUnit: Count,
		FlowUnit:     FlowCount,
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Diffusion[0] != teflonO2D {
		t.Errorf("diffusion %g, want %g", r.Diffusion[0], teflonO2D)
	}
	c0, err := InitialImpurities(exoVolume, teflonO2Sol, o2Abundance, o2MolarMass, exoXenonMass, Count)
	if err != nil {
		t.Fatal(err)
	}
	if different(r.InitialImpurities, c0, 1.e-14) {
		t.Errorf("initial impurities %g, want %g", r.InitialImpurities, c0)
	}
	v := r.Impurities.Values[0]
	if len(v) != 3 {
		t.Fatalf("%d impurity values, want 3", len(v))
	}
	if different(v[0], c0, 1.e-3) {
		t.Errorf("first impurity value %g, want %g", v[0], c0)
	}
	nonIncreasing(t, "impurities", v)
	nonIncreasing(t, "flow", r.FlowRate[0])
	if different(r.EntryConcentrations[0], v[0]/(exoVolume*1000), 1.e-14) {
		t.Errorf("entry concentration %g", r.EntryConcentrations[0])
	}
	if want := "EXO-Teflon, d=0.15 cm, T=293 K, Ea=0.47 eV"; r.Labels[0] != want {
		t.Errorf("label %q, want %q", r.Labels[0], want)
	}

	if r.InitialQuantity.Value() != r.InitialImpurities ||
		!r.InitialQuantity.Dimensions().Matches(unit.Dimensions{particleDim: 1}) {
		t.Errorf("initial quantity %v", r.InitialQuantity)
	}
	peak, err := r.PeakFlow()
	if err != nil {
		t.Fatal(err)
	}
	if peak.Value() != r.FlowRate[0][0] {
		t.Errorf("peak flow %g, want %g", peak.Value(), r.FlowRate[0][0])
	}
	if l := r.FlowLabel(); l != "particles/s" {
		t.Errorf("flow label %q", l)
	}
}

func TestRun_massImpurities(t *testing.T) {
	setup := exoTeflonOxygen(t)
	r, err := quietSimulator().Run(setup, Scenario{
		Segments:     [][]float64{{0, 3600, 7200}},
		Temperatures: []float64{ReferenceTemperature},
		ImpurityUnit: Mass,
		FlowUnit:     FlowCount,
	})
	if err != nil {
		t.Fatal(err)
	}
	if l := r.FlowLabel(); l != "g/s" {
		t.Errorf("flow label %q, want g/s", l)
	}
	if !r.InitialQuantity.Dimensions().Matches(unit.Kilogram) {
		t.Errorf("initial quantity %v should be in kg", r.InitialQuantity)
	}
	peak, err := r.PeakFlow()
	if err != nil {
		t.Fatal(err)
	}
	if !peak.Dimensions().Matches(unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}) {
		t.Errorf("peak flow %v should be in kg/s", peak)
	}
	if different(peak.Value(), r.FlowRate[0][0]/1000, 1.e-14) {
		t.Errorf("peak flow %g kg/s, want %g", peak.Value(), r.FlowRate[0][0]/1000)
	}
}

func TestRun_cooling(t *testing.T) {
	setup := exoTeflonOxygen(t)
	segments, err := TimeStamps([]float64{0, 2, 20}, 0.5, "Days")
	if err != nil {
		t.Fatal(err)
	}
	r, err := quietSimulator().Run(setup, Scenario{
		Segments:     segments,
		Temperatures: []float64{293.15, 170},
		ImpurityUnit: Count,
		FlowUnit:     FlowMass,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(r.FlowRate) != 2 || len(r.FlowRate[1]) != len(segments[1]) {
		t.Fatalf("flow rate shape does not match segments")
	}
	if !(r.Diffusion[1] < r.Diffusion[0]) {
		t.Errorf("cold diffusion %g should be less than %g", r.Diffusion[1], r.Diffusion[0])
	}
	last := r.Impurities.Values[0][len(r.Impurities.Values[0])-1]
	if r.Impurities.Values[1][0] != last {
		t.Errorf("segment 1 starts at %g, want %g", r.Impurities.Values[1][0], last)
	}
	if r.Labels[1] != "EXO-Teflon, d=0.15 cm, T=170 K, Ea=0.47 eV" {
		t.Errorf("label %q", r.Labels[1])
	}
}

func TestRunInvalid(t *testing.T) {
	setup := exoTeflonOxygen(t)
	sim := quietSimulator()
	_, err := sim.Run(setup, Scenario{
		Segments:     [][]float64{{0, 3600}},
		Temperatures: []float64{293.15},
		ImpurityUnit: PPB,
		FlowUnit:     FlowMass,
	})
	if !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("mass flow from ppb: have %v, want ErrInvalidUnit", err)
	}
	_, err = sim.Run(setup, Scenario{
		Segments:     [][]float64{{0, 3600}, {3600, 7200}},
		Temperatures: []float64{293.15, 200, 170},
	})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("temperature count: have %v, want ErrInvalidParameter", err)
	}
	r, err := sim.Run(setup, Scenario{
		Segments:     [][]float64{{0, 3600}, {7200, 3600}},
		Temperatures: []float64{293.15},
	})
	if FailedSegment(err) != 1 || r == nil || len(r.Impurities.Values) != 1 {
		t.Errorf("descending segment: have %v", err)
	}
	if _, err := setup.ElectronLifetime([]float64{0}, 1, Purification{CirculationRate: 1, Efficiency: 1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("no field factor: have %v, want ErrInvalidParameter", err)
	}
}
