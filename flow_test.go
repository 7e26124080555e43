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
	"testing"

	"github.com/ctessum/unit"
)

func TestParseFlowUnit(t *testing.T) {
	tests := []struct {
		in   string
		want FlowUnit
		err  bool
	}{
		{in: "count", want: FlowCount},
		{in: "#", want: FlowCount},
		{in: "", want: FlowCount},
		{in: "mass", want: FlowMass},
		{in: "Mass-Flow", want: FlowMass},
		{in: "mBar Liter", want: FlowMass},
		{in: "torr liter", err: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			have, err := ParseFlowUnit(test.in)
			if test.err {
				if !errors.Is(err, ErrInvalidUnit) {
					t.Errorf("have %v, want ErrInvalidUnit", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if have != test.want {
				t.Errorf("have %v, want %v", have, test.want)
			}
		})
	}
}

func TestFlowQuantity(t *testing.T) {
	tests := []struct {
		iu    ImpurityUnit
		fu    FlowUnit
		v     float64
		want  float64
		dims  unit.Dimensions
		label string
	}{
		{iu: Count, fu: FlowCount, v: 2.5e12, want: 2.5e12, dims: unit.Dimensions{particleDim: 1, unit.TimeDim: -1}, label: "particles/s"},
		{iu: Mass, fu: FlowCount, v: 4, want: 4.e-3, dims: unit.Dimensions{unit.MassDim: 1, unit.TimeDim: -1}, label: "g/s"},
		{iu: PPB, fu: FlowCount, v: 7, want: 7, dims: unit.Dimensions{unit.TimeDim: -1}, label: "ppb/s"},
		{iu: Count, fu: FlowMass, v: 3, want: 0.3, dims: unit.Watt, label: "mBar L/s"},
	}
	for _, test := range tests {
		t.Run(test.label, func(t *testing.T) {
			q, err := FlowQuantity(test.v, test.iu, test.fu)
			if err != nil {
				t.Fatal(err)
			}
			if !q.Dimensions().Matches(test.dims) {
				t.Errorf("dimensions: have %v, want %v", q.Dimensions(), test.dims)
			}
			if different(q.Value(), test.want, 1.e-14) {
				t.Errorf("have %g, want %g", q.Value(), test.want)
			}
			label, err := FlowLabel(test.iu, test.fu)
			if err != nil {
				t.Fatal(err)
			}
			if label != test.label {
				t.Errorf("label: have %q, want %q", label, test.label)
			}
		})
	}

	if _, err := FlowQuantity(1, Count, FlowUnit(7)); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("bad flow unit: have %v, want ErrInvalidUnit", err)
	}
	if _, err := FlowQuantity(1, ImpurityUnit(9), FlowCount); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("bad impurity unit: have %v, want ErrInvalidUnit", err)
	}
	for _, iu := range []ImpurityUnit{Mass, PPM, PPB, PPT} {
		if _, err := FlowLabel(iu, FlowMass); !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("%s impurities with mass flow: have %v, want ErrInvalidUnit", iu, err)
		}
	}
}
