// Package convert translates genotype calls into TOP coding using the
// location and reference alleles of each variant on a chosen assembly.
package convert

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

// VariantLookup defines the interface for finding a variant by name.
type VariantLookup interface {
	LookupVariant(species variant.Species, name string) (*variant.Variant, error)
}

// Request is a genotype call to convert.
type Request struct {
	Variant  string
	Assembly string
	Coding   genotype.Coding
	Genotype genotype.Genotype
	// Missing overrides the coding's default missing marker.
	Missing string
}

// Result is a converted call.
type Result struct {
	Request
	Location variant.Location
	Top      genotype.Genotype
}

// Converter converts calls for one species. Variants are looked up once
// and reused; they must not be mutated while a Converter uses them.
type Converter struct {
	lookup     VariantLookup
	species    variant.Species
	assemblies variant.Assemblies
	logger     *zap.Logger

	variants sync.Map // name -> *variant.Variant
}

// NewConverter creates a converter resolving variants through lookup.
func NewConverter(lookup VariantLookup, species variant.Species, assemblies variant.Assemblies) *Converter {
	return &Converter{
		lookup:     lookup,
		species:    species,
		assemblies: assemblies,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Locate resolves the location of a variant on the named assembly.
func (c *Converter) Locate(name, assembly string) (*variant.Variant, variant.Location, error) {
	asm, err := c.assemblies.Lookup(assembly)
	if err != nil {
		return nil, variant.Location{}, err
	}
	v, err := c.variant(name)
	if err != nil {
		return nil, variant.Location{}, err
	}
	loc, err := v.GetLocation(asm.Version, asm.Source)
	if err != nil {
		return nil, variant.Location{}, err
	}
	return v, loc, nil
}

func (c *Converter) variant(name string) (*variant.Variant, error) {
	if v, ok := c.variants.Load(name); ok {
		return v.(*variant.Variant), nil
	}
	v, err := c.lookup.LookupVariant(c.species, name)
	if err != nil {
		return nil, err
	}
	actual, _ := c.variants.LoadOrStore(name, v)
	return actual.(*variant.Variant), nil
}

// Convert translates req.Genotype into TOP coding. Missing alleles are
// reported with genotype.MissingTop.
func (c *Converter) Convert(req Request) (Result, error) {
	asm, err := c.assemblies.Lookup(req.Assembly)
	if err != nil {
		return Result{}, err
	}
	v, err := c.variant(req.Variant)
	if err != nil {
		return Result{}, err
	}
	ref, loc, err := v.Reference(asm.Version, asm.Source)
	if err != nil {
		return Result{}, err
	}

	missing := req.Missing
	if missing == "" {
		missing = req.Coding.Missing()
	}

	var top genotype.Genotype
	switch req.Coding {
	case genotype.CodingTop:
		top, err = checkTop(ref, req.Genotype, missing)
	case genotype.CodingForward:
		top, err = ref.ForwardToTop(req.Genotype, missing)
		if err == nil {
			top = normalizeMissing(top, missing)
		}
	case genotype.CodingAB:
		if !genotype.IsAB(req.Genotype, missing) {
			err = fmt.Errorf("%w: %s is not an AB genotype", genotype.ErrGenotypeNotInCoding, req.Genotype)
			break
		}
		top, err = ref.ABToTop(req.Genotype, missing)
	case genotype.CodingIllumina:
		top, err = illuminaToTop(ref, loc, req.Genotype, missing)
	default:
		err = fmt.Errorf("%w: %q", genotype.ErrUnknownCoding, string(req.Coding))
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s on %s: %w", req.Variant, asm.Version, err)
	}

	return Result{Request: req, Location: loc, Top: top}, nil
}

func checkTop(ref genotype.Reference, g genotype.Genotype, missing string) (genotype.Genotype, error) {
	ok, err := ref.IsTop(g, missing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s not in top alleles %s", genotype.ErrGenotypeNotInCoding, g, ref.Top)
	}
	return normalizeMissing(g, missing), nil
}

// illuminaToTop converts alleles read on the location's own strand.
func illuminaToTop(ref genotype.Reference, loc variant.Location, g genotype.Genotype, missing string) (genotype.Genotype, error) {
	top := make(genotype.Genotype, len(g))
	for i, a := range g {
		if a == missing {
			top[i] = missing
			continue
		}
		t, err := genotype.DeriveTopFromIllumina(a, loc.Strand)
		if err != nil {
			return nil, err
		}
		top[i] = t
	}
	return checkTop(ref, top, missing)
}

func normalizeMissing(g genotype.Genotype, missing string) genotype.Genotype {
	out := make(genotype.Genotype, len(g))
	for i, a := range g {
		if a == missing {
			a = genotype.MissingTop
		}
		out[i] = a
	}
	return out
}
