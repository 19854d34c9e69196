// Package calls reads genotype calls from tab-delimited files.
package calls

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/klauspost/compress/gzip"

	"github.com/cnr-ibba/smarter-backend/internal/genotype"
)

// Call is one genotype call of one sample at one variant.
type Call struct {
	Sample  string `csv:"sample"`
	Variant string `csv:"variant"`
	Allele1 string `csv:"allele_1"`
	Allele2 string `csv:"allele_2"`
}

// Genotype returns the call's alleles.
func (c *Call) Genotype() genotype.Genotype {
	return genotype.Genotype{c.Allele1, c.Allele2}
}

// Parser reads calls from a tab-delimited file with a header line.
// Lines starting with '#' are ignored.
type Parser struct {
	file       *os.File
	gzipReader *gzip.Reader
	um         *gocsv.Unmarshaller
	lineNumber int
}

// NewParser creates a parser for the given file. Gzipped input is
// detected from its magic bytes. Use "-" for stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calls file: %w", err)
	}

	p := &Parser{file: file}
	br := bufio.NewReader(file)

	var r io.Reader = br
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r = p.gzipReader
	}

	if err := p.init(r); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{}
	if err := p.init(r); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) init(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	um, err := gocsv.NewUnmarshaller(cr, Call{})
	if err != nil {
		return fmt.Errorf("read calls header: %w", err)
	}
	p.um = um
	p.lineNumber = 1
	return nil
}

// Next reads the next call.
// Returns nil, nil when there are no more calls.
func (p *Parser) Next() (*Call, error) {
	rec, err := p.um.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	p.lineNumber++
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", p.lineNumber, err)
	}

	c, ok := rec.(Call)
	if !ok {
		return nil, fmt.Errorf("line %d: unexpected record %T", p.lineNumber, rec)
	}
	if c.Variant == "" {
		return nil, fmt.Errorf("line %d: missing variant name", p.lineNumber)
	}
	return &c, nil
}

// LineNumber returns the number of records read so far, counting the header.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and releases resources.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
