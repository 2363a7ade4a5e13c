package batch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/process"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const boletaXML = `<boleta>
  <numeroDocumento>B001-12</numeroDocumento>
  <fechaEmision>2026-02-05</fechaEmision>
  <rucEmisor>20123456789</rucEmisor>
  <dniCliente>44556677</dniCliente>
  <importeTotal>35.50</importeTotal>
</boleta>`

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "20123456789-03-B001-12.xml", boletaXML)
	writeInput(t, dir, "FACTURA_rota.xml", "<Invoice><sin cerrar>")
	writeInput(t, dir, "notas.txt", "apuntes sueltos")

	runner := NewRunner(testLogger(), process.NewRegistry(testLogger()))
	ds, stats, err := runner.Run(dir)
	require.NoError(t, err)

	assert.NotEmpty(t, stats.BatchID)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Unknown)
	assert.Equal(t, 0, stats.Unsupported)

	// Classified files count per type even when they later fail.
	assert.Equal(t, 1, stats.ByType[classify.BoletaVenta])
	assert.Equal(t, 1, stats.ByType[classify.Factura])
	assert.Equal(t, 1, stats.ByType[classify.Unknown])

	headers, ok := ds.Table(entity.EntityHeaders)
	require.True(t, ok)
	require.Equal(t, 1, headers.Len())
	assert.Equal(t, "4af73951503B00112", headers.Cell(0, "cui"))
}

func TestRunSkipsHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, ".DS_Store", "basura")
	writeInput(t, dir, "20123456789-03-B001-12.xml", boletaXML)

	runner := NewRunner(testLogger(), process.NewRegistry(testLogger()))
	_, stats, err := runner.Run(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Processed)
}

func TestRunWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "febrero")
	require.NoError(t, os.MkdirAll(sub, 0755))
	writeInput(t, dir, "20123456789-03-B001-12.xml", boletaXML)
	writeInput(t, sub, "20123456789-03-B001-13.xml", boletaXML)

	runner := NewRunner(testLogger(), process.NewRegistry(testLogger()))
	ds, stats, err := runner.Run(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)

	headers, _ := ds.Table(entity.EntityHeaders)
	assert.Equal(t, 2, headers.Len())
}

func TestRunEmptyDirectory(t *testing.T) {
	runner := NewRunner(testLogger(), process.NewRegistry(testLogger()))
	ds, stats, err := runner.Run(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.True(t, ds.Empty())
}

func TestRunMissingDirectory(t *testing.T) {
	runner := NewRunner(testLogger(), process.NewRegistry(testLogger()))
	_, _, err := runner.Run(filepath.Join(t.TempDir(), "no_existe"))
	assert.Error(t, err)
}

type panicProcessor struct{}

func (panicProcessor) Process(string, classify.Classification) (*entity.Dataset, error) {
	panic("poisoned file")
}
func (panicProcessor) DBMappings() map[string]process.DBMapping { return nil }

func TestSafeProcessRecovers(t *testing.T) {
	ds, err := safeProcess(panicProcessor{}, "archivo", classify.Classification{})
	assert.Nil(t, ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poisoned file")
}
