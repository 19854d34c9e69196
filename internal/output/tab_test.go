package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnr-ibba/smarter-backend/internal/convert"
	"github.com/cnr-ibba/smarter-backend/internal/genotype"
	"github.com/cnr-ibba/smarter-backend/internal/variant"
)

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()
	for _, col := range []string{"#sample", "variant", "assembly", "chrom", "position", "top"} {
		assert.Contains(t, header, col)
	}
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	r := convert.Result{
		Request: convert.Request{
			Variant:  "250506CS3900065000002_1238.1",
			Assembly: "oar3",
			Coding:   genotype.CodingAB,
			Genotype: genotype.Genotype{"A", "-"},
		},
		Location: variant.Location{Chrom: "15", Position: 5870057, Strand: genotype.StrandBot},
		Top:      genotype.Genotype{"A", "0"},
	}

	require.NoError(t, w.Write("ITMA-TEX-000000001", r))
	require.NoError(t, w.Flush())

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Equal(t, []string{
		"ITMA-TEX-000000001", "250506CS3900065000002_1238.1", "OAR3",
		"15", "5870057", "BOT", "ab", "A/-", "A/0",
	}, strings.Split(line, "\t"))
}

func TestTabWriter_UnspecifiedStrand(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.Write("", convert.Result{Top: genotype.Genotype{"0", "0"}}))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 9)
	assert.Equal(t, "-", fields[0])
	assert.Equal(t, "-", fields[5])
}
