package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cnr-ibba/smarter-backend/internal/calls"
	"github.com/cnr-ibba/smarter-backend/internal/convert"
	"github.com/cnr-ibba/smarter-backend/internal/genotype"
	"github.com/cnr-ibba/smarter-backend/internal/output"
)

func newConvertCmd() *cobra.Command {
	var (
		assembly     string
		coding       string
		missing      string
		outputFile   string
		variantsPath string
	)

	cmd := &cobra.Command{
		Use:   "convert <calls.tsv>",
		Short: "Convert genotype calls to Illumina TOP coding",
		Long: `Convert genotype calls to Illumina TOP coding.

The input is tab-delimited with the columns sample, variant, allele_1 and
allele_2 (gzip compressed input is detected). Use '-' to read stdin.
Calls that cannot be converted are reported on stderr and skipped.`,
		Example: `  smarter convert --assembly OAR3 --coding ab calls.tsv
  smarter convert -s goat -a ARS1 --coding forward -o top.tsv calls.tsv.gz
  cat calls.tsv | smarter convert -a OAR4 --variants variantSheep.json -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			species, err := speciesFrom(cmd)
			if err != nil {
				return err
			}
			c, err := genotype.ParseCoding(coding)
			if err != nil {
				return err
			}
			assemblies, err := assembliesFor(species)
			if err != nil {
				return err
			}
			if _, err := assemblies.Lookup(assembly); err != nil {
				return err
			}

			lookup, closeLookup, err := openLookup(species, variantsPath)
			if err != nil {
				return err
			}
			defer closeLookup()

			parser, err := calls.NewParser(args[0])
			if err != nil {
				return err
			}
			defer parser.Close()

			out := os.Stdout
			if outputFile != "" {
				out, err = os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer out.Close()
			}

			conv := convert.NewConverter(lookup, species, assemblies)
			conv.SetLogger(logger)

			stats, err := conv.ConvertAll(parser, output.NewTabWriter(out), convert.Job{
				Assembly: assembly,
				Coding:   c,
				Missing:  missing,
				Workers:  viper.GetInt("workers"),
			})
			if err != nil {
				return err
			}

			logger.Info("conversion complete",
				zap.Stringer("species", species),
				zap.String("assembly", assembly),
				zap.String("coding", string(c)),
				zap.Int("converted", stats.Converted),
				zap.Int("failed", stats.Failed))
			return nil
		},
	}

	addSpeciesFlag(cmd)
	cmd.Flags().StringVarP(&assembly, "assembly", "a", "", "Assembly name, e.g. OAR3 (required)")
	cmd.Flags().StringVarP(&coding, "coding", "c", "ab", "Input coding: ab, forward, top or illumina")
	cmd.Flags().StringVar(&missing, "missing", "", "Missing allele marker (default: '-' for ab, '0' otherwise)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&variantsPath, "variants", "", "Read variants from a JSON export instead of the database")
	cmd.Flags().Int("workers", 0, "Number of conversion workers (default: number of CPUs)")
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = cmd.MarkFlagRequired("assembly")

	return cmd
}
