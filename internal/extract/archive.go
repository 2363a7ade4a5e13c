package extract

import (
	"archive/zip"
	"fmt"
	"io"
)

// zipEntry is one archive member surfaced to the per-format extractors.
type zipEntry struct {
	name string
	raw  []byte
}

// readZipEntries opens an archive and returns every entry accepted by the
// filter, in archive order. A corrupt archive wraps ErrMalformed.
func readZipEntries(path string, accept func(name string) bool) ([]zipEntry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive: %v", ErrMalformed, err)
	}
	defer zr.Close()

	var entries []zipEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !accept(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open archive entry %s: %v", ErrMalformed, f.Name, err)
		}
		raw, err := readAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read archive entry %s: %v", ErrMalformed, f.Name, err)
		}
		entries = append(entries, zipEntry{name: f.Name, raw: raw})
	}
	return entries, nil
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
