package genotype

import (
	"fmt"
	"strings"
)

// Coding identifies the convention a genotype is expressed in.
type Coding string

// Supported codings.
const (
	CodingTop      Coding = "top"
	CodingForward  Coding = "forward"
	CodingAB       Coding = "ab"
	CodingIllumina Coding = "illumina"
)

// Default missing-allele markers.
const (
	MissingTop = "0"
	MissingAB  = "-"
)

// ParseCoding parses a coding name. Matching is case-insensitive.
func ParseCoding(s string) (Coding, error) {
	switch c := Coding(strings.ToLower(strings.TrimSpace(s))); c {
	case CodingTop, CodingForward, CodingAB, CodingIllumina:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCoding, s)
	}
}

// Missing returns the default missing-allele marker of the coding.
func (c Coding) Missing() string {
	if c == CodingAB {
		return MissingAB
	}
	return MissingTop
}

// Genotype is an ordered list of alleles, usually two.
type Genotype []string

// ParseGenotype parses "A/G", "A G" or "AG" into a Genotype.
func ParseGenotype(s string) Genotype {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "/ \t") {
		return Genotype(strings.FieldsFunc(s, func(r rune) bool {
			return r == '/' || r == ' ' || r == '\t'
		}))
	}
	g := make(Genotype, 0, len(s))
	for _, r := range s {
		g = append(g, string(r))
	}
	return g
}

// String joins the alleles with "/".
func (g Genotype) String() string {
	return strings.Join(g, "/")
}
