package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
)

func oar3Location() Location {
	return Location{
		Version: "Oar_v3.1", ImportedFrom: "SNPchiMp v.3",
		Chrom: "15", Position: 5870057,
		Illumina: "A/G", IlluminaForward: null.StringFrom("T/C"),
		Strand: genotype.StrandBot,
	}
}

func oar4Location() Location {
	return Location{
		Version: "Oar_v4.0", ImportedFrom: "SNPchiMp v.3",
		Chrom: "15", Position: 5859890,
		Illumina: "A/G", IlluminaForward: null.StringFrom("T/C"),
		Strand: genotype.StrandBot,
	}
}

func TestAddLocation(t *testing.T) {
	v := New(Sheep, "250506CS3900065000002_1238.1")

	require.NoError(t, v.AddLocation(oar3Location()))
	require.NoError(t, v.AddLocation(oar4Location()))
	assert.Equal(t, 2, v.LocationCount())

	// Same version from a different source is a distinct location
	manifest := oar3Location()
	manifest.ImportedFrom = "manifest"
	require.NoError(t, v.AddLocation(manifest))
	assert.Equal(t, 3, v.LocationCount())
}

func TestAddLocation_Duplicate(t *testing.T) {
	v := New(Sheep, "250506CS3900065000002_1238.1")
	require.NoError(t, v.AddLocation(oar3Location()))

	dup := oar3Location()
	dup.Position = 1
	err := v.AddLocation(dup)
	assert.ErrorIs(t, err, ErrDuplicateLocation)

	require.Equal(t, 1, v.LocationCount())
	assert.Equal(t, int64(5870057), v.Locations()[0].Position)
}

func TestGetLocation(t *testing.T) {
	v := New(Sheep, "250506CS3900065000002_1238.1")
	require.NoError(t, v.AddLocation(oar3Location()))
	require.NoError(t, v.AddLocation(oar4Location()))

	idx, err := v.GetLocationIndex("Oar_v4.0", "SNPchiMp v.3")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	loc, err := v.GetLocation("Oar_v4.0", "SNPchiMp v.3")
	require.NoError(t, err)
	assert.Equal(t, int64(5859890), loc.Position)

	_, err = v.GetLocation("Oar_v5.0", "SNPchiMp v.3")
	assert.ErrorIs(t, err, ErrLocationNotFound)

	_, err = v.GetLocationIndex("Oar_v3.1", "manifest")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestGetLocationIndex_Ambiguous(t *testing.T) {
	v := New(Sheep, "broken")
	// bypass AddLocation to build an inconsistent variant
	v.locations = []Location{oar3Location(), oar3Location()}

	_, err := v.GetLocationIndex("Oar_v3.1", "SNPchiMp v.3")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestLocations_ReturnsCopy(t *testing.T) {
	v := New(Sheep, "snp")
	require.NoError(t, v.AddLocation(oar3Location()))

	locs := v.Locations()
	locs[0].Chrom = "99"

	loc, err := v.GetLocation("Oar_v3.1", "SNPchiMp v.3")
	require.NoError(t, err)
	assert.Equal(t, "15", loc.Chrom)
}

func TestTopAllele(t *testing.T) {
	top, err := TopAllele(oar3Location())
	require.NoError(t, err)
	assert.Equal(t, "T/C", top)

	loc := oar3Location()
	loc.Strand = genotype.StrandTop
	top, err = TopAllele(loc)
	require.NoError(t, err)
	assert.Equal(t, "A/G", top)

	loc.Strand = "FWD"
	_, err = TopAllele(loc)
	assert.ErrorIs(t, err, genotype.ErrUnsupportedStrand)
}

func TestNewLocationFromTop(t *testing.T) {
	tmpl := Location{Version: "Oar_v3.1", ImportedFrom: "manifest", Chrom: "1", Position: 10, Strand: genotype.StrandBot}

	loc, err := NewLocationFromTop(tmpl, "A/G")
	require.NoError(t, err)
	assert.Equal(t, "T/C", loc.Illumina)

	top, err := TopAllele(loc)
	require.NoError(t, err)
	assert.Equal(t, "A/G", top)

	tmpl.Strand = genotype.StrandTop
	loc, err = NewLocationFromTop(tmpl, "A/G")
	require.NoError(t, err)
	assert.Equal(t, "A/G", loc.Illumina)

	tmpl.Strand = "XYZ"
	_, err = NewLocationFromTop(tmpl, "A/G")
	assert.ErrorIs(t, err, genotype.ErrUnsupportedStrand)

	tmpl.Strand = genotype.StrandBot
	_, err = NewLocationFromTop(tmpl, "A/N")
	assert.ErrorIs(t, err, genotype.ErrInvalidBase)
}

func TestLocationsEquivalent(t *testing.T) {
	a := oar3Location()

	// Same site described on the other strand
	b := Location{Version: "Oar_v3.1", ImportedFrom: "manifest", Chrom: "15", Position: 5870057, Illumina: "T/C", Strand: genotype.StrandTop}
	eq, err := LocationsEquivalent(a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	b.Position++
	eq, err = LocationsEquivalent(a, b)
	require.NoError(t, err)
	assert.False(t, eq)

	c := a
	c.Illumina = "A/C"
	eq, err = LocationsEquivalent(a, c)
	require.NoError(t, err)
	assert.False(t, eq)

	c.Strand = "bad"
	_, err = LocationsEquivalent(a, c)
	assert.ErrorIs(t, err, genotype.ErrUnsupportedStrand)
}

func TestReference(t *testing.T) {
	v := New(Sheep, "snp")
	require.NoError(t, v.AddLocation(oar3Location()))

	// derived from the location when the variant has no TOP pair
	ref, loc, err := v.Reference("Oar_v3.1", "SNPchiMp v.3")
	require.NoError(t, err)
	assert.Equal(t, genotype.Reference{Top: "T/C", Forward: "T/C"}, ref)
	assert.Equal(t, "15", loc.Chrom)

	v.IlluminaTop = "A/G"
	ref, _, err = v.Reference("Oar_v3.1", "SNPchiMp v.3")
	require.NoError(t, err)
	assert.Equal(t, "A/G", ref.Top)

	_, _, err = v.Reference("Oar_v4.0", "SNPchiMp v.3")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
