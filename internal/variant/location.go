package variant

import (
	"gopkg.in/guregu/null.v3"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
)

// Location is the position of a variant on one assembly, as reported by
// one coordinate source.
type Location struct {
	Version         string          `json:"version"`
	ImportedFrom    string          `json:"imported_from"`
	Chrom           string          `json:"chrom"`
	Position        int64           `json:"position"`
	Alleles         null.String     `json:"alleles"`
	Illumina        string          `json:"illumina"`
	IlluminaForward null.String     `json:"illumina_forward"`
	Strand          genotype.Strand `json:"illumina_strand"`
	AffymetrixAB    null.String     `json:"affymetrix_ab"`
}

// Key returns the (version, source) pair identifying the location within
// its variant.
func (l Location) Key() Assembly {
	return Assembly{Version: l.Version, Source: l.ImportedFrom}
}

// TopAllele returns the location's Illumina alleles in TOP coding. It is
// derived on every call from the stored Illumina alleles and strand.
func TopAllele(l Location) (string, error) {
	return genotype.DeriveTopFromIllumina(l.Illumina, l.Strand)
}

// NewLocationFromTop returns a copy of l whose Illumina alleles are set
// from top, a TOP coded "X/Y" string, according to l.Strand.
func NewLocationFromTop(l Location, top string) (Location, error) {
	illumina, err := genotype.IlluminaFromTop(top, l.Strand)
	if err != nil {
		return Location{}, err
	}
	l.Illumina = illumina
	return l, nil
}

// LocationsEquivalent reports whether a and b describe the same site:
// same chromosome, position and TOP alleles. Storage identity is ignored.
func LocationsEquivalent(a, b Location) (bool, error) {
	if a.Chrom != b.Chrom || a.Position != b.Position {
		return false, nil
	}
	topA, err := TopAllele(a)
	if err != nil {
		return false, err
	}
	topB, err := TopAllele(b)
	if err != nil {
		return false, err
	}
	return topA == topB, nil
}
