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
	"strings"

	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
)

// FlowUnit is the unit system that outgassing rates are reported in.
type FlowUnit int

const (
	// FlowCount reports flow rates in [particles/s].
	FlowCount FlowUnit = iota

	// FlowMass reports flow rates in [mBar L/s].
	FlowMass
)

func (u FlowUnit) String() string {
	switch u {
	case FlowCount:
		return "count"
	case FlowMass:
		return "mBar Liter"
	}
	return "FlowUnit(invalid)"
}

// ParseFlowUnit returns the flow unit with the given name. "count", "#"
// and "" give FlowCount; "mass", "mass-flow" and "mBar Liter" give
// FlowMass.
func ParseFlowUnit(name string) (FlowUnit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "count", "#", "":
		return FlowCount, nil
	case "mass", "mass-flow", "mbar liter":
		return FlowMass, nil
	}
	return -1, invalidUnit("flow unit %q; valid options are count, #, mass, mass-flow and mBar Liter", name)
}

// mBarLiter is the energy equivalent of one millibar liter [J].
const mBarLiter = 0.1

// CheckUnits returns an error wrapping ErrInvalidUnit if flow rates in
// unit fu cannot be calculated from impurities in unit iu. FlowMass is
// converted from a particle count, so it requires Count impurities.
func CheckUnits(iu ImpurityUnit, fu FlowUnit) error {
	if _, ok := impurityUnitNames[iu]; !ok {
		return invalidUnit("impurity unit %d", int(iu))
	}
	switch fu {
	case FlowCount:
		return nil
	case FlowMass:
		if iu != Count {
			return invalidUnit("%s flow rates require %s impurities, not %s", FlowMass, Count, iu)
		}
		return nil
	}
	return invalidUnit("flow unit %d", int(fu))
}

// FlowLabel returns the unit of flow rates in unit fu calculated from
// impurities in unit iu, for example "particles/s", "g/s" or "ppm/s".
func FlowLabel(iu ImpurityUnit, fu FlowUnit) (string, error) {
	if err := CheckUnits(iu, fu); err != nil {
		return "", err
	}
	if fu == FlowMass {
		return "mBar L/s", nil
	}
	switch iu {
	case Count:
		return "particles/s", nil
	case Mass:
		return "g/s", nil
	}
	return iu.String() + "/s", nil
}

// FlowQuantity attaches dimensions to a flow rate v calculated from
// impurities in unit iu. For FlowCount the result is the impurity
// dimension per second: particles/s for Count, kg/s for Mass and 1/s for
// the parts-per units. FlowMass results are in watts (pressure times
// volume per time).
func FlowQuantity(v float64, iu ImpurityUnit, fu FlowUnit) (*unit.Unit, error) {
	if err := CheckUnits(iu, fu); err != nil {
		return nil, err
	}
	if fu == FlowMass {
		return unit.New(v*mBarLiter, unit.Watt), nil
	}
	switch iu {
	case Count:
		return unit.New(v, unit.Dimensions{particleDim: 1, unit.TimeDim: -1}), nil
	case Mass:
		return unit.New(v/1000, unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}), nil
	}
	return unit.New(v, unit.Dimensions{unit.TimeDim: -1}), nil
}

// EntryConcentrations returns the concentration [amount/cm³] at the start
// of each segment of an impurity trajectory, for impurities dissolved in a
// fixture with the given volume [L].
func EntryConcentrations(traj [][]float64, volume float64) ([]float64, error) {
	if err := positive("volume", volume); err != nil {
		return nil, err
	}
	o := make([]float64, len(traj))
	for i, seg := range traj {
		if len(seg) == 0 {
			return nil, &SegmentError{Segment: i, Err: invalidParameter("segment has no impurity values")}
		}
		o[i] = seg[0] / (volume * litersToCm3)
	}
	return o, nil
}

// FlowRateOverTime calculates the outgassing rate from a slab with the
// given thickness [cm] and area [cm²] at each timestamp [s] of each
// segment. Each segment is treated as a separate constant-temperature
// problem whose boundary concentration is entry[i] [particles/cm³];
// see EntryConcentrations.
//
// clamp holds the clamp index of each segment, as calculated by
// ImpuritiesOverTime. For each segment with a clamp index >= 0, the flow
// rate from that index on is rewritten by the simulator's Tail policy.
//
// For FlowMass, temps must hold the temperature [K] of each segment, or
// a single temperature for all segments.
//
// If a segment cannot be calculated, the flow rates of the segments
// before it are returned together with a *SegmentError.
func (s *Simulator) FlowRateOverTime(segments [][]float64, diff []float64, thickness float64, entry []float64,
	area float64, clamp []int, temps []float64, u FlowUnit) ([][]float64, error) {
	if err := positive("thickness", thickness); err != nil {
		return nil, err
	}
	if err := positive("area", area); err != nil {
		return nil, err
	}
	if err := checkBroadcast("diffusion constants", len(diff), len(segments)); err != nil {
		return nil, err
	}
	if len(entry) != len(segments) {
		return nil, invalidParameter("%d entry concentrations for %d time segments", len(entry), len(segments))
	}
	switch u {
	case FlowCount:
	case FlowMass:
		if err := checkBroadcast("temperatures", len(temps), len(segments)); err != nil {
			return nil, err
		}
	default:
		return nil, invalidUnit("flow unit %d", int(u))
	}
	tail := s.tail()
	o := make([][]float64, 0, len(segments))
	for i, seg := range segments {
		d := broadcast(diff, i)
		if err := ValidateSlab(d, thickness); err != nil {
			return o, &SegmentError{Segment: i, Err: err}
		}
		if err := nonNegative("entry concentration", entry[i]); err != nil {
			return o, &SegmentError{Segment: i, Err: err}
		}
		times, err := s.localTimes(i, seg)
		if err != nil {
			return o, &SegmentError{Segment: i, Err: err}
		}
		s.log().WithFields(logrus.Fields{
			"segment":       i,
			"diffusion":     d,
			"concentration": entry[i],
		}).Debugf("calculating flow rate for %d timestamps", len(times))

		flow := make([]float64, len(times))
		for j, t := range times {
			flow[j] = s.Flux(t, d, thickness, entry[i], area)
		}
		if i < len(clamp) && clamp[i] >= 0 {
			tail(flow, times, clamp[i])
		}
		if u == FlowMass {
			temp := broadcast(temps, i)
			if err := positive("temperature", temp); err != nil {
				return o, &SegmentError{Segment: i, Err: err}
			}
			for j := range flow {
				flow[j] *= BoltzmannL * temp / Avogadro
			}
		}
		o = append(o, flow)
	}
	return o, nil
}
