package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerHeader = "Ruc|Periodo|CAR SUNAT|BI Gravada|IGV / IPM"

func TestExtractDelimitedTxt(t *testing.T) {
	content := ledgerHeader + "\n" +
		"20123456789|202601|012345678901234567890123456|100.00|18.00\n" +
		"20123456789|202601|012345678901234567890123457|50.00|9.00\n"
	path := filepath.Join(t.TempDir(), "ventas.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rs, err := ExtractDelimited(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ruc", "Periodo", "CAR SUNAT", "BI Gravada", "IGV / IPM"}, rs.Headers)
	require.Len(t, rs.Records, 2)
	assert.Equal(t, "100.00", rs.Records[0]["BI Gravada"])
	assert.Equal(t, "20123456789", rs.Records[1]["Ruc"])
	assert.True(t, rs.HasHeader("CAR SUNAT"))
	assert.False(t, rs.HasHeader("Moneda"))
}

// Two .txt entries inside one archive contribute rows to the same stream.
func TestExtractDelimitedArchiveAdditive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ventas.zip")
	writeZipOrdered(t, path, []zipTestEntry{
		{"parte1.txt", ledgerHeader + "\n20123456789|202601|012345678901234567890123456|100.00|18.00\n"},
		{"parte2.txt", ledgerHeader + "\n20123456789|202601|012345678901234567890123457|50.00|9.00\n"},
		{"firma.sig", "ignored"},
	})

	rs, err := ExtractDelimited(path)
	require.NoError(t, err)
	assert.Len(t, rs.Records, 2)
	assert.Equal(t, "012345678901234567890123456", rs.Records[0]["CAR SUNAT"])
	assert.Equal(t, "012345678901234567890123457", rs.Records[1]["CAR SUNAT"])
}

func TestExtractDelimitedHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vacio.txt")
	require.NoError(t, os.WriteFile(path, []byte(ledgerHeader+"\n"), 0644))

	rs, err := ExtractDelimited(path)
	require.NoError(t, err)
	assert.True(t, rs.Empty())
}

func TestExtractDelimitedArchiveWithoutPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sin_txt.zip")
	writeZipOrdered(t, path, []zipTestEntry{{"datos.csv", "a,b\n1,2\n"}})

	_, err := ExtractDelimited(path)
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestExtractDelimitedUnsupportedContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ventas.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := ExtractDelimited(path)
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestExtractDelimitedLatin1Payload(t *testing.T) {
	// The whole payload is Latin-1: ó is the single byte 0xF3 in the header
	// label and in the data cell.
	raw := []byte("Nro Doc Identidad|Apellidos Nombres/ Raz")
	raw = append(raw, 0xF3)
	raw = append(raw, []byte("n Social\n-|Raz")...)
	raw = append(raw, 0xF3, 'n', '\n')
	path := filepath.Join(t.TempDir(), "ventas.txt")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	rs, err := ExtractDelimited(path)
	require.NoError(t, err)
	require.Len(t, rs.Records, 1)
	// Header decoded the same way, so the label lookup still works.
	found := false
	for _, h := range rs.Headers {
		if h == "Apellidos Nombres/ Razón Social" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, "Razón", rs.Records[0]["Apellidos Nombres/ Razón Social"])
}

type zipTestEntry struct {
	name    string
	content string
}

// writeZipOrdered builds an archive with entries in the given order.
func writeZipOrdered(t *testing.T, path string, entries []zipTestEntry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		entry, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}
