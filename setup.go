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
	"strings"

	"github.com/ctessum/unit"
	"github.com/spatialmodel/toucan/properties"
)

// Setup combines the properties needed to simulate outgassing of one
// solute from one fixture in a detector setup. It is created once per
// simulation and is not modified afterwards.
type Setup struct {
	Name, Material, Solute, Fixture string

	MaterialProperties properties.Material
	GasProperties      properties.Gas
	Geometry           properties.Fixture

	// XenonMass is in [g].
	XenonMass   float64
	FieldFactor float64
	Comment     string
}

// NewSetup looks up the properties of solute dissolved in the named
// fixture, which is made out of material and is part of setup.
// It returns an error wrapping properties.ErrMissingLookup if any of the
// properties are not in lib.
func NewSetup(lib *properties.Library, setup, material, solute, fixture string) (*Setup, error) {
	m, err := lib.Material(material, solute)
	if err != nil {
		return nil, err
	}
	g, err := lib.Gas(solute)
	if err != nil {
		return nil, err
	}
	sys, err := lib.System(setup)
	if err != nil {
		return nil, err
	}
	f, err := lib.Fixture(setup, material, fixture)
	if err != nil {
		return nil, err
	}
	return &Setup{
		Name:               setup,
		Material:           material,
		Solute:             solute,
		Fixture:            fixture,
		MaterialProperties: m,
		GasProperties:      g,
		Geometry:           f,
		XenonMass:          sys.XenonMass,
		FieldFactor:        sys.FieldFactor,
		Comment:            sys.Comment,
	}, nil
}

// String lists the fields of s that are set, one per line.
func (s *Setup) String() string {
	var b strings.Builder
	str := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "%s: %s\n", k, v)
		}
	}
	num := func(k string, v float64) {
		if v != 0 {
			fmt.Fprintf(&b, "%s: %g\n", k, v)
		}
	}
	str("Setup", s.Name)
	str("Material", s.Material)
	str("Solute", s.Solute)
	str("Fixture", s.Fixture)
	num("Diffusion Constant", s.MaterialProperties.Diffusion)
	num("Solubility", s.MaterialProperties.Solubility)
	num("Activation Energy", s.MaterialProperties.ActivationEnergy)
	num("Abundance in Air", s.GasProperties.Abundance)
	num("Molar Mass", s.GasProperties.MolarMass)
	num("Volume", s.Geometry.Volume)
	num("Area", s.Geometry.Area)
	num("Thickness", s.Geometry.Thickness)
	num("Xenon Mass", s.XenonMass)
	num("Field Factor", s.FieldFactor)
	str("Comment", s.Comment)
	return strings.TrimSuffix(b.String(), "\n")
}

// DiffusionConstants returns the diffusion constant of the solute in the
// material at each of the given temperatures [K].
func (s *Setup) DiffusionConstants(temperatures []float64) ([]float64, error) {
	return DiffusionConstants(s.MaterialProperties.Diffusion, s.MaterialProperties.ActivationEnergy, temperatures)
}

// InitialImpurities returns the amount of solute initially dissolved in
// the fixture.
func (s *Setup) InitialImpurities(u ImpurityUnit) (float64, error) {
	return InitialImpurities(s.Geometry.Volume, s.MaterialProperties.Solubility,
		s.GasProperties.Abundance, s.GasProperties.MolarMass, s.XenonMass, u)
}

// ImpurityQuantity is the same as InitialImpurities, except that the
// result carries its dimensions.
func (s *Setup) ImpurityQuantity(u ImpurityUnit) (*unit.Unit, error) {
	return ImpurityQuantity(s.Geometry.Volume, s.MaterialProperties.Solubility,
		s.GasProperties.Abundance, s.GasProperties.MolarMass, s.XenonMass, u)
}

// ElectronLifetime returns the electron lifetime of the setup's xenon at
// each of the given times [s]. The setup must have a field factor.
func (s *Setup) ElectronLifetime(times []float64, c0 float64, p Purification) ([]float64, error) {
	return LifetimeOverTime(times, c0, p, s.XenonMass/1.e3, s.FieldFactor)
}

// SteelFlowRate returns the outgassing rate of a steel surface with the
// area of the setup's fixture at each of the given pumping times [s].
func (s *Setup) SteelFlowRate(unbaked, pumpedTime float64, times []float64) ([]float64, error) {
	return SteelFlowRateOverTime(unbaked, s.Geometry.Area, pumpedTime, times)
}
