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

// Package properties holds read-only tables of the physical properties of
// barrier materials, dissolved gases and detector systems.
package properties

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMissingLookup indicates that a material, solute, setup or
	// fixture is not in the library.
	ErrMissingLookup = errors.New("properties: not found")

	// ErrInvalidProperty indicates a library entry that cannot be
	// decoded.
	ErrInvalidProperty = errors.New("properties: invalid property")
)

// Material holds the properties of a gas dissolved in a material.
type Material struct {
	// Diffusion is the diffusion constant at 293.15 K [cm²/s].
	Diffusion float64

	// Solubility is the fraction of gas that dissolves into the
	// material from the atmosphere.
	Solubility float64

	// ActivationEnergy is the Arrhenius activation energy [eV].
	ActivationEnergy float64
}

// Gas holds the properties of a gas.
type Gas struct {
	// Abundance is the fraction of air made up of the gas.
	Abundance float64

	// MolarMass is in [g/mol].
	MolarMass float64
}

// Fixture holds the geometry of a part made out of a material.
type Fixture struct {
	Volume    float64 // [L]
	Area      float64 // [cm²]
	Thickness float64 // [cm]
}

// System holds the properties of a detector setup.
type System struct {
	// XenonMass is in [g].
	XenonMass float64

	// FieldFactor converts an impurity concentration into an electron
	// lifetime. It is zero when the library does not specify it.
	FieldFactor float64

	Comment string

	// Fixtures are indexed by material and then fixture name.
	Fixtures map[string]map[string]Fixture
}

// Library is a read-only lookup of physical properties. It is safe for
// concurrent use once it has been loaded.
type Library struct {
	materials map[string]map[string]Material
	systems   map[string]System
	gases     map[string]Gas
}

// Material returns the properties of solute dissolved in material.
func (l *Library) Material(material, solute string) (Material, error) {
	m, ok := l.materials[material]
	if !ok {
		return Material{}, fmt.Errorf("%w: material %q", ErrMissingLookup, material)
	}
	p, ok := m[solute]
	if !ok {
		return Material{}, fmt.Errorf("%w: solute %q in material %q", ErrMissingLookup, solute, material)
	}
	return p, nil
}

// Gas returns the properties of the named gas.
func (l *Library) Gas(solute string) (Gas, error) {
	g, ok := l.gases[solute]
	if !ok {
		return Gas{}, fmt.Errorf("%w: gas %q", ErrMissingLookup, solute)
	}
	return g, nil
}

// System returns the properties of the named setup.
func (l *Library) System(setup string) (System, error) {
	s, ok := l.systems[setup]
	if !ok {
		return System{}, fmt.Errorf("%w: setup %q", ErrMissingLookup, setup)
	}
	return s, nil
}

// Fixture returns the geometry of the named fixture made out of material
// in setup.
func (l *Library) Fixture(setup, material, fixture string) (Fixture, error) {
	s, err := l.System(setup)
	if err != nil {
		return Fixture{}, err
	}
	m, ok := s.Fixtures[material]
	if !ok {
		return Fixture{}, fmt.Errorf("%w: material %q in setup %q", ErrMissingLookup, material, setup)
	}
	f, ok := m[fixture]
	if !ok {
		return Fixture{}, fmt.Errorf("%w: fixture %q of material %q in setup %q", ErrMissingLookup, fixture, material, setup)
	}
	return f, nil
}

func sortedKeys(n int, each func(func(string))) []string {
	o := make([]string, 0, n)
	each(func(k string) { o = append(o, k) })
	sort.Strings(o)
	return o
}

// Materials returns the names of the materials in the library.
func (l *Library) Materials() []string {
	return sortedKeys(len(l.materials), func(f func(string)) {
		for k := range l.materials {
			f(k)
		}
	})
}

// Solutes returns the names of the gases with properties for material.
func (l *Library) Solutes(material string) []string {
	m := l.materials[material]
	return sortedKeys(len(m), func(f func(string)) {
		for k := range m {
			f(k)
		}
	})
}

// Gases returns the names of the gases in the library.
func (l *Library) Gases() []string {
	return sortedKeys(len(l.gases), func(f func(string)) {
		for k := range l.gases {
			f(k)
		}
	})
}

// Setups returns the names of the setups in the library.
func (l *Library) Setups() []string {
	return sortedKeys(len(l.systems), func(f func(string)) {
		for k := range l.systems {
			f(k)
		}
	})
}

// FixtureKey identifies a fixture within a setup.
type FixtureKey struct {
	Material, Fixture string
}

// Fixtures returns the fixtures in setup, sorted by material and then
// fixture name.
func (l *Library) Fixtures(setup string) []FixtureKey {
	var o []FixtureKey
	for m, fixtures := range l.systems[setup].Fixtures {
		for f := range fixtures {
			o = append(o, FixtureKey{Material: m, Fixture: f})
		}
	}
	sort.Slice(o, func(i, j int) bool {
		if o[i].Material != o[j].Material {
			return o[i].Material < o[j].Material
		}
		return o[i].Fixture < o[j].Fixture
	})
	return o
}
