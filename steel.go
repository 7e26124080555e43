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

// SteelFlowRate returns the outgassing rate of stainless steel with the
// given surface area [cm²] at time t [s] of pumping, for steel whose
// unbaked outgassing rate per unit area was measured after pumpedTime [s].
// The rate falls as 1/t.
func SteelFlowRate(unbaked, area, pumpedTime, t float64) (float64, error) {
	if err := positive("time", t); err != nil {
		return math.NaN(), err
	}
	return unbaked * area * pumpedTime / t, nil
}

// SteelFlowRateOverTime returns SteelFlowRate at each of the given times.
func SteelFlowRateOverTime(unbaked, area, pumpedTime float64, times []float64) ([]float64, error) {
	if err := nonNegative("unbaked flow rate", unbaked); err != nil {
		return nil, err
	}
	if err := positive("area", area); err != nil {
		return nil, err
	}
	o := make([]float64, len(times))
	for i, t := range times {
		r, err := SteelFlowRate(unbaked, area, pumpedTime, t)
		if err != nil {
			return nil, err
		}
		o[i] = r
	}
	return o, nil
}
