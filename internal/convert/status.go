package convert

import (
	"errors"
	"net/http"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

// HTTPStatus maps a conversion or lookup error to the status code an API
// layer should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, variant.ErrUnsupportedAssembly),
		errors.Is(err, variant.ErrVariantNotFound),
		errors.Is(err, variant.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, genotype.ErrInvalidBase),
		errors.Is(err, genotype.ErrGenotypeNotInCoding),
		errors.Is(err, genotype.ErrUnknownCoding),
		errors.Is(err, variant.ErrUnknownSpecies):
		return http.StatusBadRequest
	default:
		// bad strand tags and reference pairs are stored-data problems
		return http.StatusInternalServerError
	}
}
