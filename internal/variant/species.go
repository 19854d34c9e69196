package variant

import (
	"fmt"
	"strings"
)

// Species tags which animal a Variant belongs to. Storage routes each
// species to its own tables; the domain types are shared.
type Species int

const (
	Sheep Species = iota + 1
	Goat
)

// AllSpecies lists the supported species.
var AllSpecies = []Species{Sheep, Goat}

// ParseSpecies parses a species name such as "sheep" or "Goat".
func ParseSpecies(s string) (Species, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sheep":
		return Sheep, nil
	case "goat":
		return Goat, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSpecies, s)
	}
}

func (s Species) String() string {
	switch s {
	case Sheep:
		return "sheep"
	case Goat:
		return "goat"
	default:
		return fmt.Sprintf("species(%d)", int(s))
	}
}
