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

import "math"

// Purification describes how impurities are removed from and returned
// to a xenon system.
type Purification struct {
	// CirculationRate is the rate at which xenon is pushed through the
	// purifier [L/s of gas].
	CirculationRate float64

	// Efficiency is the fraction of impurities removed in one pass
	// through the purifier.
	Efficiency float64

	// OutDiffusion is the rate at which impurities are added by
	// outgassing from the system's materials.
	OutDiffusion float64

	// PurifierOutput is the impurity concentration of the xenon leaving
	// the purifier.
	PurifierOutput float64
}

// ElectronLifetime returns the electron lifetime at time t [s] in a system
// with xenonMass [kg] of xenon, where the impurity concentration starts at
// c0 and evolves as dC/dt = -k·C + S with k = ρ·η·Q/M and
// S = (R + P·Q)/(η·Q). fieldFactor converts the impurity concentration
// to an electron lifetime. The lifetime is +Inf if the impurity
// concentration is exactly zero.
func ElectronLifetime(t, c0 float64, p Purification, xenonMass, fieldFactor float64) (float64, error) {
	if err := positive("xenon mass", xenonMass); err != nil {
		return math.NaN(), err
	}
	if err := positive("field factor", fieldFactor); err != nil {
		return math.NaN(), err
	}
	etaQ := p.Efficiency * p.CirculationRate
	if !(etaQ > 0) {
		return math.NaN(), invalidParameter("purification efficiency × circulation rate=%g but should be >0", etaQ)
	}
	decay := math.Exp(-GXeDensity * etaQ * t / xenonMass)
	floor := (p.OutDiffusion + p.PurifierOutput*p.CirculationRate) / etaQ
	c := c0*decay + floor*(1-decay)
	if c == 0 {
		return math.Inf(1), nil
	}
	return fieldFactor / c, nil
}

// LifetimeOverTime returns the electron lifetime at each of the given
// times [s]. See ElectronLifetime for the meaning of the other arguments.
func LifetimeOverTime(times []float64, c0 float64, p Purification, xenonMass, fieldFactor float64) ([]float64, error) {
	o := make([]float64, len(times))
	for i, t := range times {
		tau, err := ElectronLifetime(t, c0, p, xenonMass, fieldFactor)
		if err != nil {
			return nil, err
		}
		o[i] = tau
	}
	return o, nil
}
