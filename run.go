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
	"fmt"
	"math"

	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Scenario specifies the time segments and temperatures over which to
// simulate outgassing, and the units to report the results in.
type Scenario struct {
	// Segments are the timestamps [s] of each time segment.
	Segments [][]float64

	// Temperatures are the temperature [K] of each segment, or a single
	// temperature for all segments.
	Temperatures []float64

	ImpurityUnit ImpurityUnit
	FlowUnit     FlowUnit

	// Constraints are optional floors for each segment's impurities;
	// see Simulator.ImpuritiesOverTime.
	Constraints []float64
}

// Result holds the output of a simulation.
type Result struct {
	Segments     [][]float64
	Temperatures []float64

	// Diffusion holds the diffusion constant [cm²/s] for each
	// temperature.
	Diffusion []float64

	ImpurityUnit ImpurityUnit
	FlowUnit     FlowUnit

	// InitialImpurities are in the scenario's impurity unit.
	InitialImpurities float64

	// InitialQuantity holds the initial impurities with their dimensions.
	InitialQuantity *unit.Unit
	Impurities      *ImpurityTrajectory

	// EntryConcentrations are the concentrations [amount/cm³] at the
	// start of each segment.
	EntryConcentrations []float64

	// FlowRate is in the scenario's flow unit.
	FlowRate [][]float64

	// Labels describe each segment.
	Labels []string
}

// Run simulates the outgassing of the setup's solute over the scenario's
// time segments. If a segment fails, the partial Result is returned
// together with the error.
func (s *Simulator) Run(setup *Setup, sc Scenario) (*Result, error) {
	if err := CheckUnits(sc.ImpurityUnit, sc.FlowUnit); err != nil {
		return nil, err
	}
	if err := checkBroadcast("temperatures", len(sc.Temperatures), len(sc.Segments)); err != nil {
		return nil, err
	}
	log := s.log().WithFields(logrus.Fields{
		"setup":    setup.Name,
		"material": setup.Material,
		"solute":   setup.Solute,
		"fixture":  setup.Fixture,
	})

	r := &Result{
		Segments:     sc.Segments,
		Temperatures: sc.Temperatures,
		ImpurityUnit: sc.ImpurityUnit,
		FlowUnit:     sc.FlowUnit,
	}
	var err error
	if r.Diffusion, err = setup.DiffusionConstants(sc.Temperatures); err != nil {
		return nil, fmt.Errorf("toucan: calculating diffusion constants: %w", err)
	}
	if r.InitialImpurities, err = setup.InitialImpurities(sc.ImpurityUnit); err != nil {
		return nil, fmt.Errorf("toucan: calculating initial impurities: %w", err)
	}
	if r.InitialQuantity, err = setup.ImpurityQuantity(sc.ImpurityUnit); err != nil {
		return nil, fmt.Errorf("toucan: calculating initial impurities: %w", err)
	}
	r.Labels = make([]string, len(sc.Segments))
	for i := range r.Labels {
		r.Labels[i] = fmt.Sprintf("%s, d=%g cm, T=%.0f K, Ea=%g eV", setup.Fixture,
			setup.Geometry.Thickness, broadcast(sc.Temperatures, i), setup.MaterialProperties.ActivationEnergy)
	}
	log.WithFields(logrus.Fields{
		"segments":           len(sc.Segments),
		"initial impurities": fmt.Sprintf("%g", r.InitialQuantity),
	}).Info("starting simulation")

	r.Impurities, err = s.ImpuritiesOverTime(sc.Segments, r.Diffusion, setup.Geometry.Thickness,
		r.InitialImpurities, sc.Constraints)
	if err != nil {
		return r, err
	}
	if r.EntryConcentrations, err = EntryConcentrations(r.Impurities.Values, setup.Geometry.Volume); err != nil {
		return r, err
	}
	r.FlowRate, err = s.FlowRateOverTime(sc.Segments, r.Diffusion, setup.Geometry.Thickness,
		r.EntryConcentrations, setup.Geometry.Area, r.Impurities.ClampIndex, sc.Temperatures, sc.FlowUnit)
	if err != nil {
		return r, err
	}
	log.Info("simulation finished")
	return r, nil
}

// FlowLabel returns the unit of r.FlowRate, for example "particles/s".
func (r *Result) FlowLabel() string {
	l, err := FlowLabel(r.ImpurityUnit, r.FlowUnit)
	if err != nil {
		return r.FlowUnit.String() + "/s"
	}
	return l
}

// PeakFlow returns the largest flow rate of any segment with its
// dimensions. See FlowQuantity.
func (r *Result) PeakFlow() (*unit.Unit, error) {
	if len(r.FlowRate) == 0 {
		return nil, invalidParameter("result has no flow rates")
	}
	peak := math.Inf(-1)
	for _, seg := range r.FlowRate {
		if len(seg) > 0 {
			peak = math.Max(peak, floats.Max(seg))
		}
	}
	if math.IsInf(peak, -1) {
		return nil, invalidParameter("result has no flow rates")
	}
	return FlowQuantity(peak, r.ImpurityUnit, r.FlowUnit)
}

// FailedSegment returns the index of the segment reported by a
// *SegmentError in err's chain, or -1 if there is none.
func FailedSegment(err error) int {
	var se *SegmentError
	if errors.As(err, &se) {
		return se.Segment
	}
	return -1
}
