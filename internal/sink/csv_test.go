package sink

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raknaros/sunat-parser/internal/batch"
	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset() *entity.Dataset {
	ds := entity.NewDataset()
	t := entity.NewTable(entity.EntityHeaders, []string{"cui", "numero", "importe_total", "fecha_emision"})
	t.Append([]any{"4af73951501F00145", "F001-45", 118.0, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)})
	t.Append([]any{"4af73951501F00146", "F001-46", nil, nil})
	ds.Add(t)
	return ds
}

func testStats() *batch.Stats {
	return &batch.Stats{
		BatchID:   "lote-1",
		Total:     3,
		Processed: 2,
		Errors:    1,
		ByType: map[classify.TypeTag]int{
			classify.Factura:    2,
			classify.SireVentas: 1,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func globOne(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(pattern)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestCSVSinkWrite(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(testLogger(), dir)
	require.NoError(t, s.Write(context.Background(), testDataset(), testStats()))

	report := readCSV(t, globOne(t, filepath.Join(dir, "resultados_cabeceras_*.csv")))
	require.Len(t, report, 3)
	assert.Equal(t, []string{"cui", "numero", "importe_total", "fecha_emision"}, report[0])
	assert.Equal(t, []string{"4af73951501F00145", "F001-45", "118", "2026-01-10"}, report[1])
	// Absent cells render as empty strings.
	assert.Equal(t, []string{"4af73951501F00146", "F001-46", "", ""}, report[2])

	stats := readCSV(t, globOne(t, filepath.Join(dir, "estadisticas_*.csv")))
	require.Len(t, stats, 2)
	assert.Equal(t, []string{
		"Lote", "Total_Archivos", "Archivos_Procesados", "Errores",
		"Desconocidos", "No_Soportados", "Total_Factura", "Total_SireVentas",
	}, stats[0])
	assert.Equal(t, []string{"lote-1", "3", "2", "1", "0", "0", "2", "1"}, stats[1])
}

// An empty dataset still produces the statistics report.
func TestCSVSinkEmptyDataset(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(testLogger(), dir)
	require.NoError(t, s.Write(context.Background(), entity.NewDataset(), testStats()))

	results, err := filepath.Glob(filepath.Join(dir, "resultados_*.csv"))
	require.NoError(t, err)
	assert.Empty(t, results)
	globOne(t, filepath.Join(dir, "estadisticas_*.csv"))
}

func TestCSVSinkMissingDirectory(t *testing.T) {
	s := NewCSVSink(testLogger(), filepath.Join(t.TempDir(), "no_existe"))
	err := s.Write(context.Background(), testDataset(), testStats())
	assert.Error(t, err)
}

func TestStatsColumnsStableOrder(t *testing.T) {
	header1, _ := statsColumns(testStats())
	header2, _ := statsColumns(testStats())
	assert.Equal(t, header1, header2)
}
