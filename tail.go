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

// TailPolicy rewrites the part of a segment's flow rate trajectory that
// comes after the segment's impurities were clamped to their constraint
// floor. flow and localTimes are the segment's flow rates and its
// timestamps on the simulator clock; clamp is the first clamped index.
// TailPolicy modifies flow in place.
type TailPolicy func(flow, localTimes []float64, clamp int)

// HardClamp returns a TailPolicy that holds the flow rate constant at its
// value at the clamp index.
func HardClamp() TailPolicy {
	return func(flow, _ []float64, clamp int) {
		if clamp < 0 || clamp >= len(flow) {
			return
		}
		for j := clamp + 1; j < len(flow); j++ {
			flow[j] = flow[clamp]
		}
	}
}

// Relaxation returns a TailPolicy where, after the clamp index, the flow
// rate relaxes exponentially with the given rate [1/s] from its value A
// at the clamp index toward the floor split·A. A split of 1 is the same
// as HardClamp. The arguments are not checked; see NewRelaxation.
func Relaxation(rate, split float64) TailPolicy {
	return func(flow, localTimes []float64, clamp int) {
		if clamp < 0 || clamp >= len(flow) {
			return
		}
		a := flow[clamp]
		floor := split * a
		t0 := localTimes[clamp]
		for j := clamp + 1; j < len(flow); j++ {
			flow[j] = floor + (a-floor)*math.Exp(-rate*(localTimes[j]-t0))
		}
	}
}

// NewRelaxation returns a Relaxation tail policy after checking that
// rate >= 0 and 0 < split <= 1.
func NewRelaxation(rate, split float64) (TailPolicy, error) {
	if err := nonNegative("tail decay rate", rate); err != nil {
		return nil, err
	}
	if !(split > 0 && split <= 1) {
		return nil, invalidParameter("tail split=%g but should be in (0, 1]", split)
	}
	return Relaxation(rate, split), nil
}
