package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cnr-ibba/smarter-backend/internal/duckdb"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

func newLoadCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "load <variants.json>",
		Short: "Load exported variant documents into the variant database",
		Long: `Load variant documents exported from the SMARTER database (a JSON array
or one document per line) into the local DuckDB variant database.`,
		Example: `  smarter load --species sheep variantSheep.json
  smarter load --species goat --replace --db goat.duckdb variantGoat.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			species, err := speciesFrom(cmd)
			if err != nil {
				return err
			}
			return runLoad(species, args[0], viper.GetString("db"), replace)
		},
	}

	addSpeciesFlag(cmd)
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove the species' stored variants before loading")

	return cmd
}

func runLoad(species variant.Species, inputPath, dbPath string, replace bool) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	variants, err := variant.DecodeVariants(f, species)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	write := store.WriteVariants
	if replace {
		write = store.ReplaceVariants
	}
	if err := write(species, variants); err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	total, err := store.CountVariants(species)
	if err != nil {
		return err
	}
	logger.Info("loaded variants",
		zap.Stringer("species", species),
		zap.Int("loaded", len(variants)),
		zap.Int("total", total),
		zap.String("db", dbPath))
	return nil
}
