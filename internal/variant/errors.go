package variant

import "errors"

// Errors returned by variant and location lookups. Lookups that miss map
// to "not found"; the others reject inconsistent input.
var (
	ErrDuplicateLocation   = errors.New("duplicate location")
	ErrLocationNotFound    = errors.New("location not found")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrUnsupportedAssembly = errors.New("unsupported assembly")
	ErrUnknownSpecies      = errors.New("unknown species")
)
