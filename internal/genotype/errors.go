package genotype

import "errors"

// Errors returned by the codec. All of them describe malformed or
// inconsistent input and are never retryable.
var (
	ErrInvalidBase         = errors.New("invalid base")
	ErrUnsupportedStrand   = errors.New("unsupported strand")
	ErrInvalidReference    = errors.New("invalid reference alleles")
	ErrGenotypeNotInCoding = errors.New("genotype not in coding")
	ErrUnknownCoding       = errors.New("unknown coding")
)
