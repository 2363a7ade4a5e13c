package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reportEntry builds one T-Registro text entry with the fixed line layout.
func reportEntry(ruc, timestamp, header string, dataRows []string) string {
	lines := []string{
		"REPORTE T-REGISTRO",
		"",
		"RUC : " + ruc,
		"",
		"FECHA : " + timestamp,
		"",
		"",
		"",
		"",
		header,
		"------------------------------------",
	}
	lines = append(lines, dataRows...)
	return strings.Join(lines, "\n")
}

func TestExtractReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planilla.zip")
	writeZipOrdered(t, path, []zipTestEntry{
		{"REP_20260815TRA.txt", reportEntry("20123456789", "15/08/2026 10:30:00",
			"Tipo Doc|Nro Doc|ApePat",
			[]string{"01|44556677|QUISPE", "01|44556678|MAMANI"})},
		{"REP_20260815IDE.txt", reportEntry("20123456789", "15/08/2026 10:30:00",
			"Tipo Doc|Nro Doc|Fec Ini Lab",
			[]string{"01|44556677|01/02/2020"})},
	})

	report, err := ExtractReport(path)
	require.NoError(t, err)
	assert.Empty(t, report.SectionErrors)
	require.Contains(t, report.Sections, "TRA")
	require.Contains(t, report.Sections, "IDE")
	assert.NotContains(t, report.Sections, "SSA")

	tra := report.Sections["TRA"]
	assert.Equal(t, []string{"Tipo Doc", "Nro Doc", "ApePat", "ruc", "timestamp"}, tra.Columns)
	require.Len(t, tra.Rows, 2)
	assert.Equal(t, "QUISPE", tra.Rows[0][2])

	// Provenance columns appended to every row.
	assert.Equal(t, "20123456789", tra.Rows[0][3])
	wantTS := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, wantTS, tra.Rows[0][4])

	ide := report.Sections["IDE"]
	require.Len(t, ide.Rows, 1)
	assert.Equal(t, "01/02/2020", ide.Rows[0][2])
}

// Two archive entries of the same section type accumulate rows; the first
// entry with a header fixes the section layout.
func TestExtractReportAdditiveSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planilla.zip")
	writeZipOrdered(t, path, []zipTestEntry{
		{"REP_20260815TRA.txt", reportEntry("20123456789", "15/08/2026 10:30:00",
			"Tipo Doc|Nro Doc", []string{"01|44556677"})},
		{"REP_20260816TRA.txt", reportEntry("20123456789", "16/08/2026 09:00:00",
			"Tipo Doc|Nro Doc", []string{"01|44556678"})},
	})

	report, err := ExtractReport(path)
	require.NoError(t, err)
	tra := report.Sections["TRA"]
	require.Len(t, tra.Rows, 2)
	// Each row keeps the timestamp of the entry it came from.
	assert.NotEqual(t, tra.Rows[0][3], tra.Rows[1][3])
}

func TestExtractReportHeaderlessSectionDropped(t *testing.T) {
	// Data rows without a header line at index 9.
	broken := strings.Join([]string{
		"REPORTE", "", "RUC : 20123456789", "", "FECHA : 15/08/2026 10:30:00",
		"", "", "", "", "", "",
		"01|44556677",
	}, "\n")

	path := filepath.Join(t.TempDir(), "planilla.zip")
	writeZipOrdered(t, path, []zipTestEntry{
		{"REP_20260815SSA.txt", broken},
		{"REP_20260815TRA.txt", reportEntry("20123456789", "15/08/2026 10:30:00",
			"Tipo Doc|Nro Doc", []string{"01|44556677"})},
	})

	report, err := ExtractReport(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SSA"}, report.SectionErrors)
	assert.NotContains(t, report.Sections, "SSA")
	assert.Contains(t, report.Sections, "TRA")
}

func TestExtractReportNoRecognizedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planilla.zip")
	writeZipOrdered(t, path, []zipTestEntry{{"leeme.txt", "sin reportes"}})

	_, err := ExtractReport(path)
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestExtractReportCorruptArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roto.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := ExtractReport(path)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSectionType(t *testing.T) {
	assert.Equal(t, "TRA", sectionType("REP_20260815TRA.txt"))
	assert.Equal(t, "IDE", sectionType("dir/REP_20260815IDE.txt"))
	assert.Equal(t, "", sectionType("REP_20260815XXX.txt"))
	assert.Equal(t, "", sectionType("corto.txt"))
}
