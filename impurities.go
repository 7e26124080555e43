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
	"strings"

	"github.com/ctessum/unit"
)

// ImpurityUnit is the unit system that impurity quantities are reported in.
type ImpurityUnit int

// These are the supported impurity units.
const (
	// Count is the number of impurity particles.
	Count ImpurityUnit = iota
	// Mass is the impurity mass in grams.
	Mass
	// PPM is parts per million of the xenon mass.
	PPM
	// PPB is parts per billion of the xenon mass.
	PPB
	// PPT is parts per trillion of the xenon mass.
	PPT
)

var impurityUnitNames = map[ImpurityUnit]string{
	Count: "count",
	Mass:  "mass",
	PPM:   "ppm",
	PPB:   "ppb",
	PPT:   "ppt",
}

func (u ImpurityUnit) String() string {
	if s, ok := impurityUnitNames[u]; ok {
		return s
	}
	return "ImpurityUnit(invalid)"
}

// ParseImpurityUnit returns the impurity unit with the given name.
// "#" is accepted as an alias of "count".
func ParseImpurityUnit(name string) (ImpurityUnit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "count", "#":
		return Count, nil
	case "mass":
		return Mass, nil
	case "ppm":
		return PPM, nil
	case "ppb":
		return PPB, nil
	case "ppt":
		return PPT, nil
	}
	return -1, invalidUnit("impurity unit %q; valid options are count, #, mass, ppm, ppb and ppt", name)
}

// partsFactor returns the multiplier for the parts-per units.
func (u ImpurityUnit) partsFactor() float64 {
	switch u {
	case PPM:
		return 1.e6
	case PPB:
		return 1.e9
	case PPT:
		return 1.e12
	}
	return 1
}

// ImpurityMass returns the mass [g] of gas dissolved in a fixture with the
// given volume [L], when the gas has the given solubility in the fixture
// material, abundance in air and molar mass [g/mol].
func ImpurityMass(volume, solubility, abundance, molarMass float64) float64 {
	impurityVolume := volume * solubility * abundance
	return impurityVolume / IdealGasMolarVolume * molarMass
}

// InitialImpurities returns the amount of gas initially dissolved in a
// fixture, in the requested unit. xenonMass [g] is only used by the
// parts-per units.
func InitialImpurities(volume, solubility, abundance, molarMass, xenonMass float64, u ImpurityUnit) (float64, error) {
	if err := positive("volume", volume); err != nil {
		return 0, err
	}
	if err := nonNegative("solubility", solubility); err != nil {
		return 0, err
	}
	if err := nonNegative("abundance", abundance); err != nil {
		return 0, err
	}
	if err := positive("molar mass", molarMass); err != nil {
		return 0, err
	}
	m := ImpurityMass(volume, solubility, abundance, molarMass)
	switch u {
	case Count:
		return m / molarMass * Avogadro, nil
	case Mass:
		return m, nil
	case PPM, PPB, PPT:
		if err := positive("xenon mass", xenonMass); err != nil {
			return 0, err
		}
		return m / xenonMass * u.partsFactor(), nil
	}
	return 0, invalidUnit("impurity unit %d", int(u))
}

// particleDim is the dimension of a count of impurity particles.
var particleDim = unit.NewDimension("particles")

// ImpurityQuantity is the same as InitialImpurities, except that the
// result carries its dimensions: particles for Count, kilograms for Mass
// and dimensionless for the parts-per units.
func ImpurityQuantity(volume, solubility, abundance, molarMass, xenonMass float64, u ImpurityUnit) (*unit.Unit, error) {
	v, err := InitialImpurities(volume, solubility, abundance, molarMass, xenonMass, u)
	if err != nil {
		return nil, err
	}
	switch u {
	case Count:
		return unit.New(v, unit.Dimensions{particleDim: 1}), nil
	case Mass:
		return unit.New(v/1000, unit.Kilogram), nil
	default:
		return unit.New(v, unit.Dimless), nil
	}
}
