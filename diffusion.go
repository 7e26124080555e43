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

// Kernel evaluates the series solutions of the one-dimensional diffusion
// equation for a slab of material that loses solute through both faces.
// Terms is the number of odd harmonics that are summed; more terms are
// more accurate at short times.
type Kernel struct {
	Terms int
}

// DefaultKernel sums DefaultTerms harmonics.
var DefaultKernel = Kernel{Terms: DefaultTerms}

// NewKernel returns a kernel that sums the given number of terms.
func NewKernel(terms int) (Kernel, error) {
	if terms < 1 {
		return Kernel{}, invalidParameter("series terms=%d but should be >=1", terms)
	}
	return Kernel{Terms: terms}, nil
}

// decay returns exp(-((π(2n+1)/thickness)² D t)), the time dependence of
// harmonic n.
func decay(n int, t, diff, thickness float64) float64 {
	k := math.Pi * (2*float64(n) + 1) / thickness
	return math.Exp(-k * k * diff * t)
}

// ResidualConcentration returns the amount of solute remaining in a slab
// with the given thickness [cm] after time t [s], when the slab started
// with initial amount conc and the solute diffuses out with diffusion
// constant diff [cm²/s]. The units of the result are the units of conc.
//
// The series is normalized so that the result at t=0 is conc, up to
// truncation error. Multiplying by thickness/2 gives the per-unit-area
// form 8·L·C0/(2π²)·Σ... found in older outgassing notes.
// The arguments are not validated; see ValidateSlab.
func (k Kernel) ResidualConcentration(t, diff, thickness, conc float64) float64 {
	prefactor := conc * 8 / (math.Pi * math.Pi)
	var sum float64
	for n := 0; n < k.Terms; n++ {
		e := decay(n, t, diff, thickness)
		if e == 0 {
			break // all higher harmonics have decayed too.
		}
		m := 2*float64(n) + 1
		sum += e / (m * m)
	}
	return sum * prefactor
}

// Flux returns the rate at which solute leaves a slab of the given
// thickness [cm] and area [cm²] at time t [s] (Fick's first law), for
// boundary concentration conc [amount/cm³] and diffusion constant
// diff [cm²/s]. The result is in [amount/s].
// The arguments are not validated; see ValidateSlab.
func (k Kernel) Flux(t, diff, thickness, conc, area float64) float64 {
	var sum float64
	for n := 0; n < k.Terms; n++ {
		e := decay(n, t, diff, thickness)
		if e == 0 {
			break
		}
		sum += e
	}
	return sum * 4 * conc * diff / thickness * area
}

// ValidateSlab checks the preconditions of the Kernel functions.
func ValidateSlab(diff, thickness float64) error {
	if err := positive("diffusion constant", diff); err != nil {
		return err
	}
	return positive("thickness", thickness)
}
