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

// Package toucan models the outgassing of trace impurities from solid
// barrier materials into a sealed xenon volume, and the electron lifetime
// that results from the balance between outgassing and purification.
//
// Diffusion out of a material is calculated with the closed-form solution
// of Fick's second law for a slab that loses material through both faces.
// Temperature changes are represented as a sequence of time segments, each
// with its own diffusion constant, where the impurities left at the end of
// one segment are the starting impurities of the next.
package toucan

// Version gives the version number.
const Version = "0.2.0"

// Physical constants.
const (
	// IdealGasMolarVolume is the volume of one mole of ideal gas at
	// standard conditions [L/mol].
	IdealGasMolarVolume = 22.4

	// Avogadro is Avogadro's number [particles/mol].
	Avogadro = 6.022e23

	// BoltzmannEV is the Boltzmann constant [eV/K].
	BoltzmannEV = 8.6173303e-5

	// BoltzmannL is the gas constant expressed in [mBar L/(mol K)].
	BoltzmannL = 83.14

	// GXeDensity is the density of gaseous xenon [kg/L].
	GXeDensity = 5.5e-3

	// ReferenceTemperature is the temperature at which diffusion constants
	// are tabulated [K].
	ReferenceTemperature = 293.15
)

// DefaultTerms is the number of series terms used by DefaultKernel.
const DefaultTerms = 1000

const litersToCm3 = 1.e3
