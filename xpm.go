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
	"fmt"
	"math"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/floats"
)

// XPMLifetime returns the electron lifetime [μs] measured by a purity
// monitor at time t [s] after a material sample is placed in liquid
// xenon, where cEl is the electron lifetime constant [ppb μs], n0 is the
// initial impurity concentration [ppb], r0 is the out-diffusion rate of
// the sample [ppb L/s] and mass is the xenon mass [kg].
func XPMLifetime(t, cEl, n0, r0, mass float64) (float64, error) {
	if err := positive("xenon mass", mass); err != nil {
		return math.NaN(), err
	}
	den := n0 + r0*GXeDensity*t/mass
	if den == 0 {
		return math.Inf(1), nil
	}
	return cEl / den, nil
}

// XPMBounds is like XPMLifetime, but additionally returns the lower and
// upper lifetime bounds for the given uncertainties in n0 and r0.
func XPMBounds(t, cEl, n0, n0Err, r0, r0Err, mass float64) (tau, lower, upper float64, err error) {
	if tau, err = XPMLifetime(t, cEl, n0, r0, mass); err != nil {
		return
	}
	lower, _ = XPMLifetime(t, cEl, n0+n0Err, r0+r0Err, mass)
	upper, _ = XPMLifetime(t, cEl, n0-n0Err, r0-r0Err, mass)
	return
}

// XPMFit holds the parameters of the purity monitor lifetime model fit
// to a series of measurements.
type XPMFit struct {
	N0, R0           float64
	N0Err, R0Err     float64
	RSquared         float64
	Count            int
	ElectronConstant float64
	XenonMass        float64
}

// Lifetime returns the fitted electron lifetime at time t [s].
func (f *XPMFit) Lifetime(t float64) float64 {
	tau, _ := XPMLifetime(t, f.ElectronConstant, f.N0, f.R0, f.XenonMass)
	return tau
}

// FitXPM fits the parameters of XPMLifetime to electron lifetimes [μs]
// measured at the given times [s]. 1/τ is linear in t, so the fit is a
// linear regression of cEl/τ against t.
func FitXPM(times, lifetimes []float64, cEl, mass float64) (*XPMFit, error) {
	if err := positive("electron lifetime constant", cEl); err != nil {
		return nil, err
	}
	if err := positive("xenon mass", mass); err != nil {
		return nil, err
	}
	if len(times) != len(lifetimes) {
		return nil, invalidParameter("%d times but %d lifetimes", len(times), len(lifetimes))
	}
	if len(times) < 2 {
		return nil, invalidParameter("%d measurements but at least 2 are required", len(times))
	}
	if floats.Max(times) == floats.Min(times) {
		return nil, fmt.Errorf("%w: all measurements are at t=%g s", ErrDegenerateSolution, times[0])
	}
	y := make([]float64, len(lifetimes))
	for i, tau := range lifetimes {
		if err := positive("electron lifetime", tau); err != nil {
			return nil, err
		}
		y[i] = cEl / tau
	}
	slope, intercept, rsq, count, slopeErr, interceptErr := stats.LinearRegression(times, y)
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, ErrDegenerateSolution
	}
	scale := mass / GXeDensity
	return &XPMFit{
		N0:               intercept,
		R0:               slope * scale,
		N0Err:            interceptErr,
		R0Err:            slopeErr * scale,
		RSquared:         rsq,
		Count:            count,
		ElectronConstant: cEl,
		XenonMass:        mass,
	}, nil
}
