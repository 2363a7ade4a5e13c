// =============================================================================
// SUNAT Document Parser - Delimited Ledger Extraction
// =============================================================================
//
// SIRE proposals are pipe-separated text with a header row, shipped either as
// a bare .txt or zipped. An archive may hold several .txt entries; every one
// of them contributes rows to the same logical record stream, so two files
// inside one archive mean additive row counts in the resulting table.
//
// Entries with fewer than two lines (header only, or empty) carry no
// vouchers and are skipped without failing the file.
//
// =============================================================================

package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RawRecord maps a source column label to its raw string value. Values are
// never typed at this stage; coercion belongs to the transformer.
type RawRecord map[string]string

// RecordSet is the result of extracting one delimited artifact: the header
// labels in file order plus every data row.
type RecordSet struct {
	Headers []string
	Records []RawRecord
}

// Empty reports whether the extraction yielded no data rows.
func (rs *RecordSet) Empty() bool {
	return len(rs.Records) == 0
}

// HasHeader reports whether a source column label is present in the export.
func (rs *RecordSet) HasHeader(label string) bool {
	for _, h := range rs.Headers {
		if h == label {
			return true
		}
	}
	return false
}

// ExtractDelimited reads a pipe-delimited ledger export from a .zip or .txt
// artifact. Structural failures (corrupt archive, unreadable file, no .txt
// payload in an archive) return an error; an artifact whose entries hold no
// data rows returns an empty RecordSet.
func ExtractDelimited(path string) (*RecordSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return extractDelimitedArchive(path)
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read ledger file: %w", err)
		}
		rs := &RecordSet{}
		if err := appendDelimited(rs, DecodeText(raw)); err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("%w: unsupported ledger container %q", ErrNoPayload, filepath.Ext(path))
	}
}

func extractDelimitedArchive(path string) (*RecordSet, error) {
	entries, err := readZipEntries(path, func(name string) bool {
		return strings.EqualFold(filepath.Ext(name), ".txt")
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no .txt entry in %s", ErrNoPayload, filepath.Base(path))
	}

	rs := &RecordSet{}
	for _, entry := range entries {
		if err := appendDelimited(rs, DecodeText(entry.raw)); err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.name, err)
		}
	}
	return rs, nil
}

// appendDelimited parses one decoded text payload and appends its rows to
// the record set. The first payload fixes the header labels; later payloads
// are matched to their own header row, so heterogeneous entries still land
// values under the right label.
func appendDelimited(rs *RecordSet, content string) error {
	if len(strings.Split(strings.TrimRight(content, "\r\n"), "\n")) < 2 {
		return nil
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = '|'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: parse delimited payload: %v", ErrMalformed, err)
	}
	if len(rows) < 2 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if rs.Headers == nil {
		rs.Headers = headers
	}

	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		record := make(RawRecord, len(headers))
		for i, label := range headers {
			if i < len(row) {
				record[label] = strings.TrimSpace(row[i])
			} else {
				record[label] = ""
			}
		}
		rs.Records = append(rs.Records, record)
	}
	return nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
