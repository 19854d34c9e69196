// Package variant models SNP variants and their positions on several
// genome assemblies.
//
// A Variant owns an ordered list of Locations, at most one per (assembly
// version, coordinate source) pair. Locations are only ever appended.
// A Variant is not safe for concurrent mutation; reads are safe once it
// is fully built.
package variant

import (
	"fmt"

	"gopkg.in/guregu/null.v3"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
)

// Variant is a SNP marker.
type Variant struct {
	ID       string
	Species  Species
	Name     string
	RsID     []string
	ChipName []string
	// IlluminaTop is the variant's "X/Y" allele pair in TOP coding. It does
	// not depend on the assembly.
	IlluminaTop string
	AffySNPID   null.String

	locations []Location
}

// New creates a variant without locations.
func New(species Species, name string) *Variant {
	return &Variant{Species: species, Name: name}
}

// AddLocation appends loc. It fails with ErrDuplicateLocation, leaving the
// variant untouched, if a location with the same version and source is
// already present.
func (v *Variant) AddLocation(loc Location) error {
	for _, l := range v.locations {
		if l.Version == loc.Version && l.ImportedFrom == loc.ImportedFrom {
			return fmt.Errorf("%w: %s has %s/%s", ErrDuplicateLocation, v.Name, loc.Version, loc.ImportedFrom)
		}
	}
	v.locations = append(v.locations, loc)
	return nil
}

// Locations returns a copy of the variant's locations in insertion order.
func (v *Variant) Locations() []Location {
	out := make([]Location, len(v.locations))
	copy(out, v.locations)
	return out
}

// LocationCount returns the number of locations.
func (v *Variant) LocationCount() int {
	return len(v.locations)
}

// GetLocationIndex returns the position of the location matching version
// and source. No match, or more than one, fails with ErrLocationNotFound.
func (v *Variant) GetLocationIndex(version, source string) (int, error) {
	found := -1
	for i, l := range v.locations {
		if l.Version != version || l.ImportedFrom != source {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: %s has more than one %s/%s", ErrLocationNotFound, v.Name, version, source)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: %s has no %s/%s", ErrLocationNotFound, v.Name, version, source)
	}
	return found, nil
}

// GetLocation returns the location matching version and source.
func (v *Variant) GetLocation(version, source string) (Location, error) {
	i, err := v.GetLocationIndex(version, source)
	if err != nil {
		return Location{}, err
	}
	return v.locations[i], nil
}

// Reference returns the reference allele pairs of the variant on the given
// assembly. The TOP pair comes from the variant itself when set, otherwise
// it is derived from the location.
func (v *Variant) Reference(version, source string) (genotype.Reference, Location, error) {
	loc, err := v.GetLocation(version, source)
	if err != nil {
		return genotype.Reference{}, Location{}, err
	}

	top := v.IlluminaTop
	if top == "" {
		top, err = TopAllele(loc)
		if err != nil {
			return genotype.Reference{}, Location{}, fmt.Errorf("%s on %s: %w", v.Name, version, err)
		}
	}

	return genotype.Reference{Top: top, Forward: loc.IlluminaForward.String}, loc, nil
}
