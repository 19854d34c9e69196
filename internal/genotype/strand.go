package genotype

import (
	"fmt"
	"strings"
)

// Strand is the Illumina strand designation of a locus.
type Strand string

// Strand values. An empty strand behaves like TOP.
const (
	StrandUnspecified Strand = ""
	StrandTop         Strand = "TOP"
	StrandBot         Strand = "BOT"
)

// ParseStrand parses a strand tag. Matching is case-insensitive.
func ParseStrand(s string) (Strand, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return StrandUnspecified, nil
	case "TOP":
		return StrandTop, nil
	case "BOT":
		return StrandBot, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStrand, s)
	}
}

// Valid reports whether s is one of the known strand values.
func (s Strand) Valid() bool {
	return s == StrandUnspecified || s == StrandTop || s == StrandBot
}
