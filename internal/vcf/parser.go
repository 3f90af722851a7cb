// Package vcf parses variant-call-format text (VCF 4.x family) into variant
// records restricted to the supported pharmacogene panel.
//
// Malformed data lines are never fatal: each one is recorded as a diagnostic
// string and skipped, and parsing continues. Only stream-level I/O failure
// aborts a parse.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pharmaguard-server/internal/domain"
)

const (
	metaPrefix   = "##"
	headerPrefix = "#CHROM"

	// Minimum column count of a VCF data line:
	// CHROM POS ID REF ALT QUAL FILTER INFO.
	minColumns = 8

	// maxLineBytes bounds a single scanned line. Kept above the upload
	// size limit so no accepted file can trip it.
	maxLineBytes = 8 * 1024 * 1024
)

// columnIndex maps VCF fields to their positions. The #CHROM header line
// defines the order; until one is seen, the standard 4.x layout applies.
// sample is the first genotype column, immediately after FORMAT.
type columnIndex struct {
	chrom, pos, id, ref, alt, filter, info, format, sample int
}

func standardColumns() columnIndex {
	return columnIndex{chrom: 0, pos: 1, id: 2, ref: 3, alt: 4, filter: 6, info: 7, format: 8, sample: 9}
}

// covers reports whether every core field index fits inside a line with n
// columns. A reordered header can push a core field past the minimum column
// count, so the index check must use the active layout, not minColumns.
func (idx columnIndex) covers(n int) bool {
	for _, i := range []int{idx.chrom, idx.pos, idx.id, idx.ref, idx.alt, idx.filter, idx.info} {
		if i >= n {
			return false
		}
	}
	return true
}

func parseHeaderLine(line string) columnIndex {
	idx := standardColumns()
	for i, name := range strings.Split(strings.TrimPrefix(line, "#"), "\t") {
		switch name {
		case "CHROM":
			idx.chrom = i
		case "POS":
			idx.pos = i
		case "ID":
			idx.id = i
		case "REF":
			idx.ref = i
		case "ALT":
			idx.alt = i
		case "FILTER":
			idx.filter = i
		case "INFO":
			idx.info = i
		case "FORMAT":
			idx.format = i
			idx.sample = i + 1
		}
	}
	return idx
}

// Header metadata keys captured from ##key=value lines. Everything else in
// the meta section is ignored.
var capturedMetaKeys = []string{"fileformat", "reference"}

// ParseResult is the parser output: panel-gene variants, header metadata and
// non-fatal parse diagnostics. The caller decides whether a non-empty error
// list is fatal.
type ParseResult struct {
	Variants []domain.VariantRecord
	Metadata map[string]string
	Errors   []string
}

// Success reports whether parsing produced no diagnostics.
func (r *ParseResult) Success() bool {
	return len(r.Errors) == 0
}

// VariantsByGene returns the parsed variants annotated with the given gene.
func (r *ParseResult) VariantsByGene(gene string) []domain.VariantRecord {
	var out []domain.VariantRecord
	for _, v := range r.Variants {
		if strings.EqualFold(v.Gene, gene) {
			out = append(out, v)
		}
	}
	return out
}

// Parser reads VCF text into VariantRecords.
type Parser struct {
	log *logrus.Logger
}

// NewParser creates a Parser that reports line-level diagnostics to log.
func NewParser(log *logrus.Logger) *Parser {
	return &Parser{log: log}
}

// Parse consumes the stream to EOF. Records are retained only when their
// GENE annotation exactly matches a panel gene; other records parse fine but
// are dropped without counting as errors.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	result := &ParseResult{
		Metadata: make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	// Cap must stay above the upload size limit so one long legal line
	// can never abort the parse with bufio.ErrTooLong.
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	idx := standardColumns()
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, metaPrefix):
			p.parseMetaLine(line, result.Metadata)
		case strings.HasPrefix(line, headerPrefix):
			idx = parseHeaderLine(line)
		case strings.TrimSpace(line) != "":
			record, ok := p.parseDataLine(line, idx, result)
			if ok && domain.IsPanelGene(record.Gene) {
				result.Variants = append(result.Variants, record)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading vcf stream: %w", err)
	}

	if len(result.Errors) > 0 {
		p.log.WithFields(logrus.Fields{
			"variants": len(result.Variants),
			"errors":   len(result.Errors),
		}).Warn("VCF parsed with line-level errors")
	}
	return result, nil
}

// parseMetaLine captures ##fileformat= and ##reference=; other meta lines
// (##INFO=<...>, ##contig=<...> and friends) are ignored.
func (p *Parser) parseMetaLine(line string, metadata map[string]string) {
	body := strings.TrimPrefix(line, metaPrefix)
	for _, key := range capturedMetaKeys {
		if strings.HasPrefix(body, key) {
			if _, value, found := strings.Cut(body, "="); found {
				metadata[key] = value
			}
			return
		}
	}
}

// parseDataLine tokenizes one tab-delimited data line. Structural problems
// append a diagnostic to result.Errors and return ok=false; they never abort
// the parse.
func (p *Parser) parseDataLine(line string, idx columnIndex, result *ParseResult) (domain.VariantRecord, bool) {
	cols := strings.Split(line, "\t")
	if len(cols) < minColumns || !idx.covers(len(cols)) {
		result.Errors = append(result.Errors,
			"Malformed line (too few columns): "+truncate(line, 50))
		return domain.VariantRecord{}, false
	}

	pos, err := strconv.Atoi(cols[idx.pos])
	if err != nil {
		result.Errors = append(result.Errors,
			"Could not parse position in line: "+truncate(line, 50))
		return domain.VariantRecord{}, false
	}

	info := parseInfo(cols[idx.info])

	id := cols[idx.id]
	rsid := id
	if !strings.HasPrefix(id, "rs") {
		if rs, ok := info["RS"]; ok {
			rsid = rs
		}
	}

	var genotype string
	if len(cols) > idx.sample {
		genotype = extractGenotype(cols[idx.format], cols[idx.sample])
	}

	return domain.VariantRecord{
		Chrom:      cols[idx.chrom],
		Position:   pos,
		RSID:       rsid,
		Ref:        cols[idx.ref],
		Alt:        cols[idx.alt],
		Filter:     cols[idx.filter],
		Gene:       info["GENE"],
		StarAllele: info["STAR"],
		Genotype:   genotype,
		Info:       info,
	}, true
}

// parseInfo splits the semicolon-separated INFO block into key/value pairs.
// Bare flags map to "true". A "." INFO column yields an empty map.
func parseInfo(info string) map[string]string {
	m := make(map[string]string)
	if info == "" || info == "." {
		return m
	}
	for _, token := range strings.Split(info, ";") {
		if key, value, found := strings.Cut(token, "="); found {
			m[key] = value
		} else {
			m[token] = "true"
		}
	}
	return m
}

// extractGenotype locates the GT key's positional offset in the FORMAT
// column and reads the same offset in the sample column.
func extractGenotype(format, sample string) string {
	fmtKeys := strings.Split(format, ":")
	smpVals := strings.Split(sample, ":")
	for i, key := range fmtKeys {
		if key == "GT" && i < len(smpVals) {
			return smpVals[i]
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
