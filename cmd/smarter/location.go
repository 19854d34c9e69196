package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cnr-ibba/smarter-backend/internal/convert"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

func newLocationCmd() *cobra.Command {
	var (
		assembly     string
		variantsPath string
	)

	cmd := &cobra.Command{
		Use:   "location <variant>...",
		Short: "Show the position of variants on an assembly",
		Long: `Show where variants map on a supported assembly, with their strand and
alleles in Illumina and TOP coding. Without --assembly every stored
location is listed.`,
		Example: `  smarter location --assembly OAR3 250506CS3900065000002_1238.1
  smarter location --species goat --variants variantGoat.json snp1 snp2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			species, err := speciesFrom(cmd)
			if err != nil {
				return err
			}
			assemblies, err := assembliesFor(species)
			if err != nil {
				return err
			}
			lookup, closeLookup, err := openLookup(species, variantsPath)
			if err != nil {
				return err
			}
			defer closeLookup()

			conv := convert.NewConverter(lookup, species, assemblies)
			conv.SetLogger(logger)
			return runLocation(os.Stdout, conv, lookup, species, assembly, args)
		},
	}

	addSpeciesFlag(cmd)
	cmd.Flags().StringVarP(&assembly, "assembly", "a", "", "Assembly name, e.g. OAR3 (default: all locations)")
	cmd.Flags().StringVar(&variantsPath, "variants", "", "Read variants from a JSON export instead of the database")

	return cmd
}

func runLocation(w io.Writer, conv *convert.Converter, lookup convert.VariantLookup, species variant.Species, assembly string, names []string) error {
	fmt.Fprintln(w, strings.Join([]string{"#variant", "version", "source", "chrom", "position", "strand", "illumina", "top"}, "\t"))

	for _, name := range names {
		var locs []variant.Location
		if assembly != "" {
			_, loc, err := conv.Locate(name, assembly)
			if err != nil {
				return err
			}
			locs = []variant.Location{loc}
		} else {
			v, err := lookup.LookupVariant(species, name)
			if err != nil {
				return err
			}
			locs = v.Locations()
		}

		for _, loc := range locs {
			top, err := variant.TopAllele(loc)
			if err != nil {
				return fmt.Errorf("%s on %s: %w", name, loc.Version, err)
			}
			strand := string(loc.Strand)
			if strand == "" {
				strand = "-"
			}
			fmt.Fprintln(w, strings.Join([]string{
				name, loc.Version, loc.ImportedFrom, loc.Chrom,
				strconv.FormatInt(loc.Position, 10), strand, loc.Illumina, top,
			}, "\t"))
		}
	}
	return nil
}
