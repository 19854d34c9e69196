// Package genotype converts SNP genotype calls between the Illumina
// FORWARD, TOP and AB conventions.
//
// TOP is the only convention comparable across loci, so every conversion
// goes through it. FORWARD and AB are only meaningful together with the
// reference allele pairs of their locus, see Reference.
package genotype

import (
	"fmt"
	"strings"
)

// Complement returns s with each base complemented (A<->T, C<->G).
// The allele separator "/" is kept as is.
func Complement(s string) (string, error) {
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := complementBase(s[i])
		if !ok {
			return "", fmt.Errorf("%w %q in %q", ErrInvalidBase, s[i], s)
		}
		buf[i] = c
	}
	return string(buf), nil
}

func complementBase(b byte) (byte, bool) {
	switch b {
	case 'A':
		return 'T', true
	case 'T':
		return 'A', true
	case 'C':
		return 'G', true
	case 'G':
		return 'C', true
	case '/':
		return '/', true
	default:
		return 0, false
	}
}

// DeriveTopFromIllumina returns the TOP representation of an allele string
// read on the given Illumina strand.
func DeriveTopFromIllumina(illumina string, strand Strand) (string, error) {
	switch strand {
	case StrandBot:
		return Complement(illumina)
	case StrandTop, StrandUnspecified:
		return illumina, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStrand, string(strand))
	}
}

// IlluminaFromTop is the inverse of DeriveTopFromIllumina: it returns the
// allele string to store for a locus on the given strand.
func IlluminaFromTop(top string, strand Strand) (string, error) {
	// complement is an involution, so the transform is its own inverse
	return DeriveTopFromIllumina(top, strand)
}

// SplitAlleles splits a reference pair like "A/G" into its two alleles.
func SplitAlleles(pair string) ([]string, error) {
	first, second, ok := strings.Cut(pair, "/")
	if !ok || first == "" || second == "" || strings.Contains(second, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReference, pair)
	}
	return []string{first, second}, nil
}
