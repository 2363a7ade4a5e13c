package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
)

func writeSimplified(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReceiptProcess(t *testing.T) {
	content := `<?xml version="1.0"?>
<boleta>
  <numeroDocumento>B001-12</numeroDocumento>
  <fechaEmision>2026-02-05</fechaEmision>
  <rucEmisor>20123456789</rucEmisor>
  <dniCliente>44556677</dniCliente>
  <nombreCliente>JUAN PEREZ</nombreCliente>
  <importeTotal>35.50</importeTotal>
</boleta>`
	path := writeSimplified(t, "20123456789-03-B001-12.xml", content)

	p := NewReceiptProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	headers, ok := ds.Table(entity.EntityHeaders)
	require.True(t, ok)
	require.Equal(t, 1, headers.Len())
	assert.Equal(t, "4af73951503B00112", headers.Cell(0, "cui"))
	assert.Equal(t, "BoletaVenta", headers.Cell(0, "tipo_documento"))
	assert.Equal(t, "44556677", headers.Cell(0, "dni_cliente"))
	assert.Equal(t, "JUAN PEREZ", headers.Cell(0, "nombre_cliente"))
	assert.Equal(t, 35.50, headers.Cell(0, "importe_total"))

	// Boletas never emit child entities.
	_, ok = ds.Table(entity.EntityLines)
	assert.False(t, ok)
}

// A legacy prefix filename carries no tokens, so the identifier is rebuilt
// from the document content.
func TestReceiptCUIFallback(t *testing.T) {
	content := `<boleta>
  <numeroDocumento>B001-12</numeroDocumento>
  <rucEmisor>20123456789</rucEmisor>
</boleta>`
	path := writeSimplified(t, "BOLETAVENTA_enero.xml", content)

	p := NewReceiptProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	headers, _ := ds.Table(entity.EntityHeaders)
	assert.Equal(t, "4af73951503B00112", headers.Cell(0, "cui"))
}

func TestCreditNoteProcess(t *testing.T) {
	content := `<notaCredito>
  <numeroDocumento>FC01-8</numeroDocumento>
  <fechaEmision>2026-02-20</fechaEmision>
  <rucEmisor>20123456789</rucEmisor>
  <rucReceptor>20987654321</rucReceptor>
  <importeTotal>-50.00</importeTotal>
  <documentoReferencia>F001-45</documentoReferencia>
  <documentoReferencia>F001-46</documentoReferencia>
</notaCredito>`
	path := writeSimplified(t, "NOTACREDITO_feb.xml", content)

	p := NewCreditNoteProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	headers, _ := ds.Table(entity.EntityHeaders)
	require.Equal(t, 1, headers.Len())
	assert.Equal(t, "NotaCredito", headers.Cell(0, "tipo_documento"))
	cui := headers.Cell(0, "cui")
	assert.Equal(t, "4af73951507FC018", cui)

	refs, ok := ds.Table(entity.EntityReferences)
	require.True(t, ok)
	require.Equal(t, 2, refs.Len())
	assert.Equal(t, cui, refs.Cell(0, "cui"))
	assert.Equal(t, "F001-45", refs.Cell(0, "documento_referencia"))
	assert.Equal(t, "F001-46", refs.Cell(1, "documento_referencia"))
	assert.Equal(t, "NotaCredito", refs.Cell(0, "tipo_referencia"))
}

func TestCreditNoteWithoutReferences(t *testing.T) {
	content := `<notaCredito>
  <numeroDocumento>FC01-9</numeroDocumento>
  <rucEmisor>20123456789</rucEmisor>
</notaCredito>`
	path := writeSimplified(t, "NOTACREDITO_sinref.xml", content)

	p := NewCreditNoteProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	_, ok := ds.Table(entity.EntityReferences)
	assert.False(t, ok)
}

func TestDebitNoteProcess(t *testing.T) {
	content := `<notaDebito>
  <numeroDocumento>FD01-3</numeroDocumento>
  <rucEmisor>20123456789</rucEmisor>
  <motivo>Interes por mora</motivo>
  <documentoReferencia>F001-45</documentoReferencia>
</notaDebito>`
	path := writeSimplified(t, "NOTADEBITO_mar.xml", content)

	p := NewDebitNoteProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	headers, _ := ds.Table(entity.EntityHeaders)
	assert.Equal(t, "NotaDebito", headers.Cell(0, "tipo_documento"))
	assert.Equal(t, "Interes por mora", headers.Cell(0, "motivo"))
	assert.Equal(t, "4af73951508FD013", headers.Cell(0, "cui"))

	refs, ok := ds.Table(entity.EntityReferences)
	require.True(t, ok)
	require.Equal(t, 1, refs.Len())
	assert.Equal(t, "NotaDebito", refs.Cell(0, "tipo_referencia"))
}

func TestDispatchGuideProcess(t *testing.T) {
	content := `<guia>
  <numeroDocumento>T001-7</numeroDocumento>
  <fechaEmision>2026-03-01</fechaEmision>
  <rucEmisor>20123456789</rucEmisor>
  <fechaTraslado>2026-03-02</fechaTraslado>
  <rucDestinatario>20987654321</rucDestinatario>
  <direccionPartida>AV. LIMA 123</direccionPartida>
  <direccionLlegada>JR. CUSCO 456</direccionLlegada>
</guia>`
	path := writeSimplified(t, "20123456789-09-T001-7.xml", content)

	p := NewDispatchGuideProcessor(testLogger())
	ds, err := p.Process(path, classify.Classify(filepath.Base(path)))
	require.NoError(t, err)

	headers, _ := ds.Table(entity.EntityHeaders)
	assert.Equal(t, "GuiaRemision", headers.Cell(0, "tipo_documento"))
	assert.Equal(t, "4af73951509T0017", headers.Cell(0, "cui"))
	assert.Equal(t, "2026-03-02", headers.Cell(0, "fecha_traslado"))
	assert.Equal(t, "20987654321", headers.Cell(0, "ruc_destinatario"))
	assert.Equal(t, "AV. LIMA 123", headers.Cell(0, "direccion_partida"))
	assert.Equal(t, "JR. CUSCO 456", headers.Cell(0, "direccion_llegada"))
}
