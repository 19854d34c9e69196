package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cnr-ibba/smarter-backend/internal/convert"
	"github.com/cnr-ibba/smarter-backend/internal/duckdb"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

func addSpeciesFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("species", "s", "", "Species: sheep or goat (default from config, else sheep)")
}

// speciesFrom returns the --species flag, falling back to the configured
// species.
func speciesFrom(cmd *cobra.Command) (variant.Species, error) {
	name, _ := cmd.Flags().GetString("species")
	if name == "" {
		name = viper.GetString("species")
	}
	return variant.ParseSpecies(name)
}

// assembliesFor returns the default assemblies of a species merged with
// the ones configured under assemblies.<species>.
func assembliesFor(species variant.Species) (variant.Assemblies, error) {
	asm := variant.DefaultAssemblies(species)

	key := "assemblies." + species.String()
	if !viper.IsSet(key) {
		return asm, nil
	}

	var custom variant.Assemblies
	if err := viper.UnmarshalKey(key, &custom); err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	for name, a := range custom.Normalize() {
		if a.Version == "" || a.Source == "" {
			return nil, fmt.Errorf("%s.%s: version and source are required", key, name)
		}
		asm[name] = a
	}
	return asm, nil
}

// openLookup returns the variant source for a command: a JSON export when
// variantsPath is set, the DuckDB database otherwise.
func openLookup(species variant.Species, variantsPath string) (convert.VariantLookup, func(), error) {
	if variantsPath != "" {
		f, err := os.Open(variantsPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()

		variants, err := variant.DecodeVariants(f, species)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", variantsPath, err)
		}
		ix, err := variant.NewIndex(variants...)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", variantsPath, err)
		}
		logger.Debug("loaded variants", zap.String("path", variantsPath), zap.Int("count", ix.Len()))
		return ix, func() {}, nil
	}

	dbPath := viper.GetString("db")
	if _, err := os.Stat(dbPath); err != nil {
		return nil, nil, fmt.Errorf("no variant database at %s (run 'smarter load' or use --variants): %w", dbPath, err)
	}
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("opened variant database", zap.String("path", dbPath))
	return store, func() { store.Close() }, nil
}
