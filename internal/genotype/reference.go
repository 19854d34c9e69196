package genotype

import "fmt"

var abAlleles = []string{"A", "B"}

// Reference holds the allele pairs of one locus, each formatted "X/Y".
// Forward[i] and Top[i] name the same physical base, so translating
// between them is a positional lookup.
type Reference struct {
	Top     string
	Forward string
}

// IsTop reports whether every allele of g is missing or one of the TOP
// alleles of the locus.
func (r Reference) IsTop(g Genotype, missing string) (bool, error) {
	top, err := SplitAlleles(r.Top)
	if err != nil {
		return false, err
	}
	return inCoding(g, top, missing), nil
}

// IsForward reports whether every allele of g is missing or one of the
// FORWARD alleles of the locus.
func (r Reference) IsForward(g Genotype, missing string) (bool, error) {
	forward, err := SplitAlleles(r.Forward)
	if err != nil {
		return false, err
	}
	return inCoding(g, forward, missing), nil
}

// IsAB reports whether every allele of g is missing, "A" or "B". The AB
// coding does not depend on the locus.
func IsAB(g Genotype, missing string) bool {
	return inCoding(g, abAlleles, missing)
}

func inCoding(g Genotype, alleles []string, missing string) bool {
	for _, a := range g {
		if a == missing {
			continue
		}
		if indexOf(alleles, a) < 0 {
			return false
		}
	}
	return true
}

func indexOf(alleles []string, a string) int {
	for i, x := range alleles {
		if x == a {
			return i
		}
	}
	return -1
}

// ForwardToTop translates a FORWARD genotype into TOP. Missing alleles are
// passed through unchanged.
func (r Reference) ForwardToTop(g Genotype, missing string) (Genotype, error) {
	return translate(g, r.Forward, r.Top, missing, CodingForward)
}

// TopToForward translates a TOP genotype into FORWARD. Missing alleles are
// passed through unchanged.
func (r Reference) TopToForward(g Genotype, missing string) (Genotype, error) {
	return translate(g, r.Top, r.Forward, missing, CodingTop)
}

// ABToTop translates an AB genotype into TOP: A is the first TOP allele and
// B the second. Missing alleles become MissingTop.
func (r Reference) ABToTop(g Genotype, missing string) (Genotype, error) {
	top, err := SplitAlleles(r.Top)
	if err != nil {
		return nil, err
	}
	return lookup(g, abAlleles, top, missing, MissingTop, CodingAB)
}

// TopToAB translates a TOP genotype into AB. Missing alleles become
// MissingAB.
func (r Reference) TopToAB(g Genotype, missing string) (Genotype, error) {
	top, err := SplitAlleles(r.Top)
	if err != nil {
		return nil, err
	}
	return lookup(g, top, abAlleles, missing, MissingAB, CodingTop)
}

func translate(g Genotype, from, to, missing string, c Coding) (Genotype, error) {
	src, err := SplitAlleles(from)
	if err != nil {
		return nil, err
	}
	dst, err := SplitAlleles(to)
	if err != nil {
		return nil, err
	}
	return lookup(g, src, dst, missing, missing, c)
}

func lookup(g Genotype, src, dst []string, missing, outMissing string, c Coding) (Genotype, error) {
	out := make(Genotype, len(g))
	for i, a := range g {
		if a == missing {
			out[i] = outMissing
			continue
		}
		j := indexOf(src, a)
		if j < 0 {
			return nil, fmt.Errorf("%w: allele %q not in %s alleles %v", ErrGenotypeNotInCoding, a, c, src)
		}
		out[i] = dst[j]
	}
	return out, nil
}
