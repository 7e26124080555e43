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
	"testing"
)

// Teflon/Oxygen in the EXO-200 teflon reflector.
const (
	teflonO2D = 31.4e-8
	teflonO2L = 0.15
)

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestResidualConcentration(t *testing.T) {
	const c0 = 1.e20
	k := DefaultKernel

	t.Run("initial", func(t *testing.T) {
		have := k.ResidualConcentration(0, teflonO2D, teflonO2L, c0)
		if different(have, c0, 1.e-3) {
			t.Errorf("have %g, want %g", have, c0)
		}
		if have > c0 {
			t.Errorf("truncated series %g should not exceed %g", have, c0)
		}
	})
	t.Run("monotonic", func(t *testing.T) {
		prev := math.Inf(1)
		for _, time := range []float64{0, 1, 10, 100, 1000, 3600, 7200, 1.e4, 1.e5, 1.e6} {
			have := k.ResidualConcentration(time, teflonO2D, teflonO2L, c0)
			if have > prev {
				t.Errorf("t=%g: %g > %g", time, have, prev)
			}
			if have < 0 {
				t.Errorf("t=%g: negative concentration %g", time, have)
			}
			prev = have
		}
	})
	t.Run("long time", func(t *testing.T) {
		if have := k.ResidualConcentration(1.e9, teflonO2D, teflonO2L, c0); have != 0 {
			t.Errorf("have %g, want 0", have)
		}
	})
	t.Run("one term", func(t *testing.T) {
		k1, err := NewKernel(1)
		if err != nil {
			t.Fatal(err)
		}
		const time = 5000.
		want := 8 / (math.Pi * math.Pi) * c0 *
			math.Exp(-math.Pi*math.Pi/(teflonO2L*teflonO2L)*teflonO2D*time)
		have := k1.ResidualConcentration(time, teflonO2D, teflonO2L, c0)
		if different(have, want, 1.e-12) {
			t.Errorf("have %g, want %g", have, want)
		}
	})
	t.Run("terms", func(t *testing.T) {
		// More terms are closer to the initial value.
		var prevErr = math.Inf(1)
		for _, n := range []int{1, 10, 100, 1000} {
			k, err := NewKernel(n)
			if err != nil {
				t.Fatal(err)
			}
			e := c0 - k.ResidualConcentration(0, teflonO2D, teflonO2L, c0)
			if e >= prevErr {
				t.Errorf("%d terms: error %g >= %g", n, e, prevErr)
			}
			prevErr = e
		}
	})
}

func TestFlux(t *testing.T) {
	const (
		conc = 1.e15
		area = 9200.
	)
	k := DefaultKernel

	t.Run("initial", func(t *testing.T) {
		want := float64(k.Terms) * 4 * conc * teflonO2D / teflonO2L * area
		have := k.Flux(0, teflonO2D, teflonO2L, conc, area)
		if different(have, want, 1.e-12) {
			t.Errorf("have %g, want %g", have, want)
		}
	})
	t.Run("decreasing", func(t *testing.T) {
		prev := math.Inf(1)
		for _, time := range []float64{0, 1, 60, 3600, 86400, 1.e6} {
			have := k.Flux(time, teflonO2D, teflonO2L, conc, area)
			if have < 0 {
				t.Errorf("t=%g: negative flux %g", time, have)
			}
			if have > prev {
				t.Errorf("t=%g: %g > %g", time, have, prev)
			}
			prev = have
		}
		if have := k.Flux(1.e9, teflonO2D, teflonO2L, conc, area); have != 0 {
			t.Errorf("long time flux %g, want 0", have)
		}
	})
	t.Run("area", func(t *testing.T) {
		a := k.Flux(3600, teflonO2D, teflonO2L, conc, area)
		b := k.Flux(3600, teflonO2D, teflonO2L, conc, 2*area)
		if different(2*a, b, 1.e-14) {
			t.Errorf("flux should be proportional to area: %g, %g", a, b)
		}
	})
}

func TestNewKernel(t *testing.T) {
	for _, n := range []int{0, -1} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			if _, err := NewKernel(n); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("have %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestValidateSlab(t *testing.T) {
	tests := []struct {
		d, l float64
		ok   bool
	}{
		{d: teflonO2D, l: teflonO2L, ok: true},
		{d: 0, l: teflonO2L},
		{d: -teflonO2D, l: teflonO2L},
		{d: math.NaN(), l: teflonO2L},
		{d: teflonO2D, l: 0},
		{d: teflonO2D, l: math.Inf(1)},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%g_%g", test.d, test.l), func(t *testing.T) {
			err := ValidateSlab(test.d, test.l)
			if test.ok && err != nil {
				t.Error(err)
			}
			if !test.ok && !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("have %v, want ErrInvalidParameter", err)
			}
		})
	}
}
