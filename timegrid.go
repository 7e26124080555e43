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
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Seconds per unit of each supported time scale.
const (
	Second = 1.
	Minute = 60 * Second
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Week   = 7 * Day
)

// TimeScale returns the number of seconds in one unit of the named
// time scale. Singular and plural names are accepted, in any case.
func TimeScale(name string) (float64, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "s") {
	case "second":
		return Second, nil
	case "minute":
		return Minute, nil
	case "hour":
		return Hour, nil
	case "day":
		return Day, nil
	case "week":
		return Week, nil
	}
	return math.NaN(), invalidUnit("time scale %q; valid options are Seconds, Minutes, Hours, Days and Weeks", name)
}

func checkGrid(points []float64, spacing float64) error {
	if err := positive("time spacing", spacing); err != nil {
		return err
	}
	if len(points) < 2 {
		return invalidParameter("%d time points but at least 2 are required", len(points))
	}
	for i := 1; i < len(points); i++ {
		if !(points[i] > points[i-1]) {
			return invalidParameter("time points must be increasing but point %d (%g) <= point %d (%g)",
				i, points[i], i-1, points[i-1])
		}
	}
	return nil
}

// TimeStamps returns one time segment for each pair of consecutive
// points. Segment i covers the half-open interval [points[i], points[i+1])
// in steps of spacing. points and spacing are in units of scale, which is
// the name of a time scale accepted by TimeScale; the returned timestamps
// are in seconds.
func TimeStamps(points []float64, spacing float64, scale string) ([][]float64, error) {
	factor, err := TimeScale(scale)
	if err != nil {
		return nil, err
	}
	if err = checkGrid(points, spacing); err != nil {
		return nil, err
	}
	o := make([][]float64, len(points)-1)
	for i := range o {
		start, end := points[i], points[i+1]
		for j := 0; ; j++ {
			t := start + float64(j)*spacing
			if t >= end {
				break
			}
			o[i] = append(o[i], t*factor)
		}
	}
	return o, nil
}

// Linspace is like TimeStamps, except that each segment includes both of
// its end points and the steps are stretched so that they evenly divide
// the segment. Segment i has int((points[i+1]-points[i])/spacing + 1)
// timestamps.
func Linspace(points []float64, spacing float64, scale string) ([][]float64, error) {
	factor, err := TimeScale(scale)
	if err != nil {
		return nil, err
	}
	if err = checkGrid(points, spacing); err != nil {
		return nil, err
	}
	o := make([][]float64, len(points)-1)
	for i := range o {
		n := int((points[i+1]-points[i])/spacing + 1)
		if n < 2 {
			n = 2
		}
		seg := floats.Span(make([]float64, n), points[i]*factor, points[i+1]*factor)
		o[i] = seg
	}
	return o, nil
}
