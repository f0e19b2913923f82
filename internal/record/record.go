// Package record implements the TSV codec for ingest records: six
// tab-separated, quoted fields — inputname, md5, sha1, sha256, ssdeep,
// context — one per line, "#"-prefixed lines treated as comments.
package record

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// fieldCount is the fixed number of fields a record must have. A
// mismatched-length record aborts the input stream per spec.md §6.
const fieldCount = 6

// ErrWrongFieldCount is returned when a TSV row does not have exactly
// fieldCount fields.
var ErrWrongFieldCount = errors.New("record: wrong field count")

// Record is one ingest record: the fields the Ingest Driver hands to the
// Indexer, plus the raw (not-yet-split) context field.
type Record struct {
	InputName string
	MD5       string
	SHA1      string
	SHA256    string
	SSDeep    string
	Context   string // comma-joined token list, not yet sanitized/split
}

// Scanner reads Records from a TSV stream in input order.
type Scanner struct {
	r *csv.Reader
}

// NewScanner wraps r as a tab-separated, "#"-comment reader with a fixed
// field count, mirroring the reference tool's csv::ReaderBuilder
// configuration (comma '\t', comment '#', flexible(false)).
func NewScanner(r io.Reader) *Scanner {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = fieldCount
	return &Scanner{r: cr}
}

// Next returns the next record. It returns io.EOF when the stream is
// exhausted. Any other error (including ErrWrongFieldCount, surfaced by
// encoding/csv as a *csv.ParseError) is an input-parse failure for the
// record the caller just tried to read; the caller decides whether to
// skip it and keep reading or to abort the stream, per spec.md §6's
// "Record length is fixed; a mismatched-length record aborts the input
// stream."
func (s *Scanner) Next() (Record, error) {
	fields, err := s.r.Read()
	if errors.Is(err, csv.ErrFieldCount) {
		return Record{}, fmt.Errorf("%w: %w", ErrWrongFieldCount, err)
	}
	if err != nil {
		return Record{}, err
	}
	if len(fields) != fieldCount {
		return Record{}, fmt.Errorf("%w: got %d fields", ErrWrongFieldCount, len(fields))
	}
	return Record{
		InputName: fields[0],
		MD5:       fields[1],
		SHA1:      fields[2],
		SHA256:    fields[3],
		SSDeep:    fields[4],
		Context:   fields[5],
	}, nil
}

// Writer writes Records as quoted, tab-separated lines, matching the
// reference tool's create_tsv (csv::WriterBuilder with
// QuoteStyle::Always). encoding/csv's own Writer only quotes fields that
// need it, so fields are quoted by hand here instead.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w as a tab-separated, always-quoted writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits one record and flushes immediately, since the hash-and-emit
// mode writes exactly one record per invocation.
func (w *Writer) Write(rec Record) error {
	fields := []string{rec.InputName, rec.MD5, rec.SHA1, rec.SHA256, rec.SSDeep, rec.Context}
	for i, f := range fields {
		if i > 0 {
			if _, err := w.w.WriteRune('\t'); err != nil {
				return err
			}
		}
		if _, err := w.w.WriteString(quote(f)); err != nil {
			return err
		}
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// quote wraps s in double quotes, doubling any quote characters it
// contains.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
