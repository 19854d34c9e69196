package variant

import (
	"fmt"
	"sort"
	"strings"
)

// Assembly identifies a coordinate system: a genome assembly version and
// the source that supplied positions on it.
type Assembly struct {
	Version string `mapstructure:"version" yaml:"version" json:"version"`
	Source  string `mapstructure:"source" yaml:"source" json:"source"`
}

func (a Assembly) String() string {
	return a.Version + " (" + a.Source + ")"
}

// Assemblies maps short assembly names (e.g. "OAR3") to coordinate systems.
// Names are upper case.
type Assemblies map[string]Assembly

// DefaultAssemblies returns the assemblies supported for a species.
func DefaultAssemblies(s Species) Assemblies {
	switch s {
	case Sheep:
		return Assemblies{
			"OAR3": {Version: "Oar_v3.1", Source: "SNPchiMp v.3"},
			"OAR4": {Version: "Oar_v4.0", Source: "SNPchiMp v.3"},
		}
	case Goat:
		return Assemblies{
			"CHI1": {Version: "CHI1.0", Source: "SNPchiMp v.3"},
			"ARS1": {Version: "ARS1", Source: "manifest"},
		}
	default:
		return Assemblies{}
	}
}

// Normalize returns a copy of a with upper-cased names. Configuration
// loaders lower-case map keys, so names read from config go through here.
func (a Assemblies) Normalize() Assemblies {
	out := make(Assemblies, len(a))
	for name, asm := range a {
		out[strings.ToUpper(name)] = asm
	}
	return out
}

// Lookup resolves a short assembly name, case-insensitively.
func (a Assemblies) Lookup(name string) (Assembly, error) {
	asm, ok := a[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Assembly{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedAssembly, name, strings.Join(a.Names(), ", "))
	}
	return asm, nil
}

// Names returns the sorted assembly names.
func (a Assemblies) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
