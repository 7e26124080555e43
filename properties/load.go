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

package properties

import (
	"bytes"
	_ "embed" // for the default library
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a library file.
type Format int

// These are the supported library encodings.
const (
	JSON Format = iota
	TOML
	YAML
)

// FormatFromPath returns the library encoding that matches the extension
// of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return -1, fmt.Errorf("properties: unsupported library file extension %q; valid options are .json, .toml, .yaml and .yml", filepath.Ext(path))
}

// Names of the entries in a library file.
const (
	keyMaterial    = "Material"
	keySystem      = "System"
	keyGas         = "Gas"
	keyDiffusion   = "Diffusion Constant"
	keySolubility  = "Solubility"
	keyActivation  = "Activation Energy"
	keyAbundance   = "Abundance in Air"
	keyMolarMass   = "Molar Mass"
	keyXenonMass   = "Xenon Mass"
	keyFieldFactor = "Field Factor"
	keyComment     = "Comment"
	keyVolume      = "Volume"
	keyArea        = "Area"
	keyThickness   = "Thickness"
)

// Load reads a library in the given format from r. The library has
// top-level "Material", "System" and "Gas" tables.
func Load(r io.Reader, f Format) (*Library, error) {
	raw := make(map[string]interface{})
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&raw)
	case TOML:
		_, err = toml.DecodeReader(r, &raw)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&raw)
	default:
		return nil, fmt.Errorf("properties: invalid library format %d", int(f))
	}
	if err != nil {
		return nil, fmt.Errorf("properties: decoding library: %w", err)
	}
	return fromMap(raw)
}

// LoadFile reads a library from the file at path, with the format
// determined by the file extension.
func LoadFile(path string) (*Library, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("properties: opening library: %w", err)
	}
	defer f.Close()
	l, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%v (file %s)", err, path)
	}
	return l, nil
}

//go:embed data/library.json
var defaultLibrary []byte

// Default returns the built-in library of material, gas and setup
// properties.
func Default() *Library {
	l, err := Load(bytes.NewReader(defaultLibrary), JSON)
	if err != nil {
		panic(err)
	}
	return l
}

func invalidProperty(path []string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidProperty, strings.Join(path, "/"), err)
}

func table(v interface{}, path ...string) (map[string]interface{}, error) {
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, invalidProperty(path, err)
	}
	return m, nil
}

func number(m map[string]interface{}, key string, path ...string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, invalidProperty(append(path, key), fmt.Errorf("missing value"))
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, invalidProperty(append(path, key), err)
	}
	return f, nil
}

func fromMap(raw map[string]interface{}) (*Library, error) {
	l := &Library{
		materials: make(map[string]map[string]Material),
		systems:   make(map[string]System),
		gases:     make(map[string]Gas),
	}
	materials, err := table(raw[keyMaterial], keyMaterial)
	if err != nil {
		return nil, err
	}
	for name, v := range materials {
		solutes, err := table(v, keyMaterial, name)
		if err != nil {
			return nil, err
		}
		l.materials[name] = make(map[string]Material)
		for solute, v := range solutes {
			path := []string{keyMaterial, name, solute}
			p, err := table(v, path...)
			if err != nil {
				return nil, err
			}
			var m Material
			if m.Diffusion, err = number(p, keyDiffusion, path...); err != nil {
				return nil, err
			}
			if m.Solubility, err = number(p, keySolubility, path...); err != nil {
				return nil, err
			}
			if m.ActivationEnergy, err = number(p, keyActivation, path...); err != nil {
				return nil, err
			}
			l.materials[name][solute] = m
		}
	}

	gases, err := table(raw[keyGas], keyGas)
	if err != nil {
		return nil, err
	}
	for name, v := range gases {
		path := []string{keyGas, name}
		p, err := table(v, path...)
		if err != nil {
			return nil, err
		}
		var g Gas
		if g.Abundance, err = number(p, keyAbundance, path...); err != nil {
			return nil, err
		}
		if g.MolarMass, err = number(p, keyMolarMass, path...); err != nil {
			return nil, err
		}
		l.gases[name] = g
	}

	systems, err := table(raw[keySystem], keySystem)
	if err != nil {
		return nil, err
	}
	for name, v := range systems {
		s, err := systemFromMap(name, v)
		if err != nil {
			return nil, err
		}
		l.systems[name] = s
	}
	return l, nil
}

// systemFromMap decodes a setup, where every entry other than the xenon
// mass, field factor and comment is a table of fixtures for one material.
func systemFromMap(name string, v interface{}) (System, error) {
	p, err := table(v, keySystem, name)
	if err != nil {
		return System{}, err
	}
	s := System{Fixtures: make(map[string]map[string]Fixture)}
	if s.XenonMass, err = number(p, keyXenonMass, keySystem, name); err != nil {
		return System{}, err
	}
	if _, ok := p[keyFieldFactor]; ok {
		if s.FieldFactor, err = number(p, keyFieldFactor, keySystem, name); err != nil {
			return System{}, err
		}
	}
	if c, ok := p[keyComment]; ok {
		if s.Comment, err = cast.ToStringE(c); err != nil {
			return System{}, invalidProperty([]string{keySystem, name, keyComment}, err)
		}
	}
	for material, v := range p {
		switch material {
		case keyXenonMass, keyFieldFactor, keyComment:
			continue
		}
		fixtures, err := table(v, keySystem, name, material)
		if err != nil {
			return System{}, err
		}
		s.Fixtures[material] = make(map[string]Fixture)
		for fixture, v := range fixtures {
			path := []string{keySystem, name, material, fixture}
			fp, err := table(v, path...)
			if err != nil {
				return System{}, err
			}
			var f Fixture
			if f.Volume, err = number(fp, keyVolume, path...); err != nil {
				return System{}, err
			}
			if f.Area, err = number(fp, keyArea, path...); err != nil {
				return System{}, err
			}
			if f.Thickness, err = number(fp, keyThickness, path...); err != nil {
				return System{}, err
			}
			s.Fixtures[material][fixture] = f
		}
	}
	return s, nil
}
