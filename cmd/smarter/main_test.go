package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnr-ibba/smarter-backend/internal/convert"
	"github.com/cnr-ibba/smarter-backend/internal/duckdb"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

const variantsJSON = `[{"name": "snp1", "illumina_top": "A/G", "locations": [
  {"version": "Oar_v3.1", "imported_from": "SNPchiMp v.3", "chrom": "15", "position": 5870057,
   "illumina": "T/C", "illumina_forward": "A/G", "illumina_strand": "BOT"},
  {"version": "Oar_v4.0", "imported_from": "SNPchiMp v.3", "chrom": "15", "position": 5859890,
   "illumina": "A/G", "illumina_strand": "TOP"}
]}]`

func TestAssembliesFor_Config(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(strings.NewReader(`
assemblies:
  sheep:
    OAR5:
      version: Oar_rambouillet_v1.0
      source: manifest
`)))

	asm, err := assembliesFor(variant.Sheep)
	require.NoError(t, err)

	a, err := asm.Lookup("OAR5")
	require.NoError(t, err)
	assert.Equal(t, variant.Assembly{Version: "Oar_rambouillet_v1.0", Source: "manifest"}, a)

	// defaults are kept
	_, err = asm.Lookup("OAR3")
	assert.NoError(t, err)

	goat, err := assembliesFor(variant.Goat)
	require.NoError(t, err)
	assert.Equal(t, variant.DefaultAssemblies(variant.Goat), goat)
}

func TestAssembliesFor_Incomplete(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("assemblies.sheep.oar5.version", "Oar_rambouillet_v1.0")
	_, err := assembliesFor(variant.Sheep)
	assert.Error(t, err)
}

func TestRunLoadAndLocation(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "variantSheep.json")
	require.NoError(t, os.WriteFile(input, []byte(variantsJSON), 0644))
	dbPath := filepath.Join(dir, "db", "smarter.duckdb")

	require.NoError(t, runLoad(variant.Sheep, input, dbPath, false))
	// loading twice without --replace hits the primary key
	assert.Error(t, runLoad(variant.Sheep, input, dbPath, false))
	require.NoError(t, runLoad(variant.Sheep, input, dbPath, true))

	store, err := duckdb.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	conv := convert.NewConverter(store, variant.Sheep, variant.DefaultAssemblies(variant.Sheep))

	var buf bytes.Buffer
	require.NoError(t, runLocation(&buf, conv, store, variant.Sheep, "OAR3", []string{"snp1"}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "snp1\tOar_v3.1\tSNPchiMp v.3\t15\t5870057\tBOT\tT/C\tA/G", lines[1])

	buf.Reset()
	require.NoError(t, runLocation(&buf, conv, store, variant.Sheep, "", []string{"snp1"}))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)

	err = runLocation(&buf, conv, store, variant.Sheep, "OAR3", []string{"snp2"})
	assert.ErrorIs(t, err, variant.ErrVariantNotFound)
}

func TestRunLoad_ReplaceFailureKeepsData(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "variantSheep.json")
	require.NoError(t, os.WriteFile(input, []byte(variantsJSON), 0644))
	dbPath := filepath.Join(dir, "smarter.duckdb")
	require.NoError(t, runLoad(variant.Sheep, input, dbPath, false))

	repeated := filepath.Join(dir, "repeated.json")
	require.NoError(t, os.WriteFile(repeated, []byte(
		`{"name": "x", "illumina_top": "A/G"}
{"name": "x", "illumina_top": "A/G"}`), 0644))
	assert.Error(t, runLoad(variant.Sheep, repeated, dbPath, true))

	store, err := duckdb.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	names, err := store.VariantNames(variant.Sheep)
	require.NoError(t, err)
	assert.Equal(t, []string{"snp1"}, names)
}

func TestOpenLookup_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.json")
	require.NoError(t, os.WriteFile(path, []byte(variantsJSON), 0644))

	lookup, closeLookup, err := openLookup(variant.Sheep, path)
	require.NoError(t, err)
	defer closeLookup()

	v, err := lookup.LookupVariant(variant.Sheep, "snp1")
	require.NoError(t, err)
	assert.Equal(t, 2, v.LocationCount())
}

// useConfigFile points viper at an empty config file under t.TempDir.
func useConfigFile(t *testing.T) string {
	t.Helper()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), ".smarter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	return path
}

func TestRunConfigSet_Plain(t *testing.T) {
	path := useConfigFile(t)
	var buf bytes.Buffer

	require.NoError(t, runConfigSet(&buf, "workers", "4"))
	assert.Equal(t, 4, viper.GetInt("workers"))
	require.NoError(t, runConfigSet(&buf, "Species", "GOAT"))
	assert.Equal(t, "goat", viper.GetString("species"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers: 4")
	assert.Contains(t, string(data), "species: goat")

	tests := []struct {
		key, value string
	}{
		{"workers", "many"},
		{"workers", "-1"},
		{"species", "cow"},
		{"db", ""},
		{"colour", "blue"},
	}
	for _, tt := range tests {
		assert.Error(t, runConfigSet(&buf, tt.key, tt.value), tt.key+"="+tt.value)
	}
}

func TestRunConfigSet_AssemblyPairs(t *testing.T) {
	useConfigFile(t)
	var buf bytes.Buffer

	// half of a new pair is rejected and nothing is stored
	err := runConfigSet(&buf, "assemblies.sheep.oar5.version", "Oar_rambouillet_v1.0")
	assert.ErrorContains(t, err, "no source")
	assert.False(t, viper.IsSet("assemblies.sheep.oar5.version"))
	_, err = assembliesFor(variant.Sheep)
	assert.NoError(t, err)

	assert.Error(t, runConfigSet(&buf, "assemblies.cow.x.version", "v"))
	assert.Error(t, runConfigSet(&buf, "assemblies.sheep.oar5.chrom", "v"))

	require.NoError(t, runConfigAssembly(&buf, "sheep", "OAR5", "Oar_rambouillet_v1.0", "manifest"))
	require.NoError(t, runConfigSet(&buf, "assemblies.sheep.oar5.source", "SNPchiMp v.3"))

	asm, err := assembliesFor(variant.Sheep)
	require.NoError(t, err)
	a, err := asm.Lookup("OAR5")
	require.NoError(t, err)
	assert.Equal(t, variant.Assembly{Version: "Oar_rambouillet_v1.0", Source: "SNPchiMp v.3"}, a)

	assert.Error(t, runConfigAssembly(&buf, "sheep", "OAR6", "", "manifest"))
}

func TestRunConfigShow(t *testing.T) {
	useConfigFile(t)
	viper.SetDefault("workers", 0)

	var buf bytes.Buffer
	require.NoError(t, runConfigAssembly(&buf, "goat", "ars2", "ARS2", "manifest"))

	buf.Reset()
	require.NoError(t, runConfigShow(&buf))
	out := buf.String()
	assert.Contains(t, out, "workers: 0")
	assert.Contains(t, out, "OAR3:")
	assert.Contains(t, out, "version: Oar_v3.1")
	assert.Contains(t, out, "ARS2:")
	assert.Contains(t, out, "CHI1:")

	buf.Reset()
	require.NoError(t, runConfigGet(&buf, "assemblies.goat.ars2.version"))
	assert.Equal(t, "ARS2\n", buf.String())
	assert.Error(t, runConfigGet(&buf, "nothing"))
}
