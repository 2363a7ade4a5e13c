package process

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
)

// payrollSection builds one T-Registro text entry with the fixed line layout.
func payrollSection(header string, dataRows ...string) string {
	lines := []string{
		"REPORTE T-REGISTRO",
		"",
		"RUC : 20123456789",
		"",
		"FECHA : 15/08/2026 10:30:00",
		"", "", "", "",
		header,
		"------------------------------------",
	}
	lines = append(lines, dataRows...)
	return strings.Join(lines, "\n")
}

func writePayrollZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "PLANILLA_20123456789_20260815.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestPayrollProcess(t *testing.T) {
	path := writePayrollZip(t, map[string]string{
		"REP_20260815TRA.txt": payrollSection("Tipo Doc|Nro Doc|ApePat",
			"01|44556677|QUISPE", "01|44556678|MAMANI"),
		"REP_20260815IDE.txt": payrollSection("Tipo Doc|Nro Doc|Fec Ini Lab",
			"01|44556677|01/02/2020"),
	})

	p := NewPayrollProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	tra, ok := ds.Table(entity.EntityPayrollTRA)
	require.True(t, ok)
	assert.Equal(t, []string{"Tipo Doc", "Nro Doc", "ApePat", "ruc", "timestamp"}, tra.Columns)
	require.Equal(t, 2, tra.Len())
	assert.Equal(t, "QUISPE", tra.Cell(0, "ApePat"))
	assert.Equal(t, "20123456789", tra.Cell(0, "ruc"))
	assert.Equal(t, time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC), tra.Cell(0, "timestamp"))

	ide, ok := ds.Table(entity.EntityPayrollIDE)
	require.True(t, ok)
	assert.Equal(t, 1, ide.Len())

	_, ok = ds.Table(entity.EntityPayrollSSA)
	assert.False(t, ok)
}

// A headerless section is dropped but the other sections still land.
func TestPayrollProcessPartialArchive(t *testing.T) {
	broken := strings.Join([]string{
		"REPORTE", "", "RUC : 20123456789", "", "FECHA : 15/08/2026 10:30:00",
		"", "", "", "", "", "",
		"01|44556677",
	}, "\n")
	path := writePayrollZip(t, map[string]string{
		"REP_20260815SSA.txt": broken,
		"REP_20260815TRA.txt": payrollSection("Tipo Doc|Nro Doc", "01|44556677"),
	})

	p := NewPayrollProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	_, ok := ds.Table(entity.EntityPayrollSSA)
	assert.False(t, ok)
	tra, ok := ds.Table(entity.EntityPayrollTRA)
	require.True(t, ok)
	assert.Equal(t, 1, tra.Len())
}

func TestPayrollProcessNoRecognizedEntry(t *testing.T) {
	path := writePayrollZip(t, map[string]string{"leeme.txt": "sin reportes"})

	p := NewPayrollProcessor(testLogger())
	_, err := p.Process(path, classify.Classify(filepath.Base(path)))
	assert.Error(t, err)
}

func TestPayrollDBMappings(t *testing.T) {
	m := NewPayrollProcessor(testLogger()).DBMappings()

	tra := m[entity.EntityPayrollTRA]
	assert.Equal(t, "payroll", tra.Schema)
	assert.Equal(t, "tra", tra.Table)
	assert.Equal(t, "tipo_documento_id", tra.Columns["Tipo Doc"])
	assert.Equal(t, "ruc_empresa", tra.Columns["ruc"])
	assert.Equal(t, "fecha_reporte", tra.Columns["timestamp"])

	ide := m[entity.EntityPayrollIDE]
	assert.Equal(t, "fecha_inicio_laboral", ide.Columns["Fec Ini Lab"])
}
