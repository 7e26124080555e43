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

// ScaledDiffusion converts diffusion constant base, measured at temperature
// refT [K], to its value at temperature targetT [K] using the Arrhenius
// relation with activation energy ea [eV].
func ScaledDiffusion(base, ea, refT, targetT float64) (float64, error) {
	if err := positive("diffusion constant", base); err != nil {
		return math.NaN(), err
	}
	if err := nonNegative("activation energy", ea); err != nil {
		return math.NaN(), err
	}
	if err := positive("reference temperature", refT); err != nil {
		return math.NaN(), err
	}
	if err := positive("temperature", targetT); err != nil {
		return math.NaN(), err
	}
	return base * math.Exp(ea/BoltzmannEV*(1/refT-1/targetT)), nil
}

// DiffusionConstants returns the diffusion constant at each of the given
// temperatures [K], where base is the diffusion constant at
// ReferenceTemperature and ea is the activation energy [eV].
func DiffusionConstants(base, ea float64, temperatures []float64) ([]float64, error) {
	o := make([]float64, len(temperatures))
	for i, temp := range temperatures {
		d, err := ScaledDiffusion(base, ea, ReferenceTemperature, temp)
		if err != nil {
			return nil, err
		}
		o[i] = d
	}
	return o, nil
}
