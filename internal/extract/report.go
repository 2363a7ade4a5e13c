// =============================================================================
// SUNAT Document Parser - Multi-Section Report Extraction (T-Registro)
// =============================================================================
//
// A planilla archive holds one text entry per report section. The section
// type lives in a fixed character window of the internal filename
// (characters 12-14), and each entry carries its metadata at fixed line
// positions:
//
//   line index 2  -> company RUC ("... : 20123456789")
//   line index 4  -> generation timestamp ("... : 25/08/2026 14:03:12")
//   line index 9  -> pipe-delimited column header
//   line index 11+ -> pipe-delimited data rows
//
// The RUC and timestamp are appended as two extra columns to every data row
// of the section, so the provenance of each row survives aggregation.
//
// =============================================================================

package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Fixed layout offsets of a T-Registro report entry.
const (
	reportRUCLine       = 2
	reportTimestampLine = 4
	reportHeaderLine    = 9
	reportDataLine      = 11

	reportTimestampLayout = "02/01/2006 15:04:05"
)

// reportSectionWindow is the [start,end) slice of the internal filename that
// encodes the section type.
const (
	sectionWindowStart = 12
	sectionWindowEnd   = 15
)

// ReportSectionTypes is the closed set of recognized section types.
var ReportSectionTypes = []string{"TRA", "IDE", "SSA"}

// ReportSection is one extracted report section: the column header from the
// file plus the two appended provenance columns, and all data rows.
type ReportSection struct {
	Type      string
	Columns   []string // includes the appended "ruc" and "timestamp" columns
	Rows      [][]any
	RUC       string
	Timestamp *time.Time
}

// Report is the extraction result for a planilla archive.
type Report struct {
	Sections map[string]*ReportSection

	// SectionErrors lists sections that had data rows but no header line;
	// they are dropped rather than failing the file.
	SectionErrors []string
}

// ExtractReport reads every recognized section of a planilla archive. A
// corrupt archive is a hard failure; an archive with no recognized entry
// returns ErrNoPayload.
func ExtractReport(path string) (*Report, error) {
	entries, err := readZipEntries(path, func(name string) bool {
		return sectionType(name) != ""
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no recognized report entry in %s", ErrNoPayload, filepath.Base(path))
	}

	report := &Report{Sections: make(map[string]*ReportSection)}
	for _, entry := range entries {
		parseReportEntry(report, sectionType(entry.name), DecodeText(entry.raw))
	}

	for name, section := range report.Sections {
		if len(section.Rows) > 0 && len(section.Columns) == 0 {
			report.SectionErrors = append(report.SectionErrors, name)
			delete(report.Sections, name)
		}
	}
	return report, nil
}

// sectionType derives the section type from the fixed character window of an
// internal filename, or "" when the name is too short or the window holds an
// unknown code.
func sectionType(name string) string {
	base := filepath.Base(name)
	if len(base) < sectionWindowEnd {
		return ""
	}
	code := strings.ToUpper(base[sectionWindowStart:sectionWindowEnd])
	for _, known := range ReportSectionTypes {
		if code == known {
			return code
		}
	}
	return ""
}

func parseReportEntry(report *Report, sectionName, content string) {
	section, ok := report.Sections[sectionName]
	if !ok {
		section = &ReportSection{Type: sectionName}
		report.Sections[sectionName] = section
	}

	var ruc string
	var timestamp *time.Time
	var header []string
	var dataRows [][]string

	for index, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case index == reportRUCLine:
			ruc = afterColon(line)
		case index == reportTimestampLine:
			if ts, err := time.Parse(reportTimestampLayout, afterColon(line)); err == nil {
				timestamp = &ts
			}
		case index == reportHeaderLine:
			if strings.TrimSpace(line) != "" {
				header = splitPipe(line)
			}
		case index >= reportDataLine && strings.TrimSpace(line) != "":
			dataRows = append(dataRows, splitPipe(line))
		}
	}

	// The first entry that carries a header fixes the section layout.
	if len(section.Columns) == 0 && len(header) > 0 {
		section.Columns = append(header, "ruc", "timestamp")
	}
	if section.RUC == "" {
		section.RUC = ruc
	}
	if section.Timestamp == nil {
		section.Timestamp = timestamp
	}

	for _, row := range dataRows {
		cells := make([]any, 0, len(row)+2)
		for _, cell := range row {
			cells = append(cells, cell)
		}
		cells = append(cells, ruc)
		if timestamp != nil {
			cells = append(cells, *timestamp)
		} else {
			cells = append(cells, nil)
		}
		section.Rows = append(section.Rows, cells)
	}
}

func afterColon(line string) string {
	if i := strings.Index(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

func splitPipe(line string) []string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
