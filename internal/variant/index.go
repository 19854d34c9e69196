package variant

import "fmt"

// Index is an in-memory set of variants keyed by species and name.
type Index struct {
	variants map[Species]map[string]*Variant
}

// NewIndex creates an index holding the given variants.
func NewIndex(variants ...*Variant) (*Index, error) {
	ix := &Index{variants: make(map[Species]map[string]*Variant)}
	for _, v := range variants {
		if err := ix.Add(v); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Add adds v to the index. Names must be unique within a species.
func (ix *Index) Add(v *Variant) error {
	byName, ok := ix.variants[v.Species]
	if !ok {
		byName = make(map[string]*Variant)
		ix.variants[v.Species] = byName
	}
	if _, dup := byName[v.Name]; dup {
		return fmt.Errorf("duplicate %s variant %q", v.Species, v.Name)
	}
	byName[v.Name] = v
	return nil
}

// LookupVariant returns the named variant of a species.
func (ix *Index) LookupVariant(species Species, name string) (*Variant, error) {
	v, ok := ix.variants[species][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrVariantNotFound, species, name)
	}
	return v, nil
}

// Len returns the number of indexed variants across all species.
func (ix *Index) Len() int {
	n := 0
	for _, byName := range ix.variants {
		n += len(byName)
	}
	return n
}
