// Package output provides writers for converted genotype calls.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cnr-ibba/smarter-backend/internal/convert"
)

// TabWriter writes converted calls in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#sample",
			"variant",
			"assembly",
			"chrom",
			"position",
			"strand",
			"coding",
			"input",
			"top",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single converted call.
func (tw *TabWriter) Write(sample string, r convert.Result) error {
	strand := string(r.Location.Strand)
	if strand == "" {
		strand = "-"
	}
	if sample == "" {
		sample = "-"
	}

	values := []string{
		sample,
		r.Variant,
		strings.ToUpper(r.Assembly),
		r.Location.Chrom,
		strconv.FormatInt(r.Location.Position, 10),
		strand,
		string(r.Coding),
		r.Genotype.String(),
		r.Top.String(),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
