// =============================================================================
// SUNAT Document Parser - Namespaced XML Extraction
// =============================================================================
//
// UBL documents are walked as a tree with ElementTree-style paths
// (".//cac:TaxTotal/cbc:TaxAmount"). Lookups are safe: an absent path yields
// ok=false, never an error. The only hard failure is a malformed document,
// which fails the whole file.
//
// A .zip container holding a single signed XML payload is supported: the
// first entry with an .xml extension is used. Raw files honour the encoding
// declared in their XML declaration; archived payloads are decoded as UTF-8
// with a Latin-1 fallback.
//
// =============================================================================

package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// ErrMalformed reports an XML payload that could not be parsed at all.
var ErrMalformed = errors.New("malformed xml payload")

// ErrNoPayload reports an archive that holds no recognizable payload entry.
var ErrNoPayload = errors.New("no payload found in archive")

// XMLDoc wraps a parsed XML tree with safe path lookups.
type XMLDoc struct {
	root *etree.Element
}

// LoadXML reads an XML document from a raw .xml file or from a .zip archive
// containing one. Malformed content returns an error wrapping ErrMalformed.
func LoadXML(path string) (*XMLDoc, error) {
	var content string

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		raw, err := readZipXMLEntry(path)
		if err != nil {
			return nil, err
		}
		content = DecodeText(raw)
	} else {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read xml file: %w", err)
		}
		content = DecodeDeclared(raw)
	}

	return ParseXML(content)
}

// ParseXML parses already-decoded XML content.
func ParseXML(content string) (*XMLDoc, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = passthroughCharset
	doc.ReadSettings.Permissive = false

	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrMalformed)
	}
	return &XMLDoc{root: root}, nil
}

// readZipXMLEntry returns the bytes of the first .xml entry of an archive.
func readZipXMLEntry(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive: %v", ErrMalformed, err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if !strings.EqualFold(filepath.Ext(entry.Name), ".xml") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open archive entry %s: %v", ErrMalformed, entry.Name, err)
		}
		raw, err := readAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read archive entry %s: %v", ErrMalformed, entry.Name, err)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("%w: no .xml entry in %s", ErrNoPayload, filepath.Base(path))
}

// FindText returns the text of the first element matching the path, relative
// to the document root. Absent paths report ok=false.
func (d *XMLDoc) FindText(path string) (string, bool) {
	return findText(d.root, path)
}

// FindAttr returns an attribute of the first element matching the path.
func (d *XMLDoc) FindAttr(path, attr string) (string, bool) {
	return findAttr(d.root, path, attr)
}

// Find returns the first element matching the path, or nil.
func (d *XMLDoc) Find(path string) *etree.Element {
	return d.root.FindElement(path)
}

// FindAll returns every element matching the path.
func (d *XMLDoc) FindAll(path string) []*etree.Element {
	return d.root.FindElements(path)
}

// ElemText is the element-scoped variant of FindText, used when iterating
// repeated groups such as invoice lines.
func ElemText(el *etree.Element, path string) (string, bool) {
	return findText(el, path)
}

// ElemAttr is the element-scoped variant of FindAttr.
func ElemAttr(el *etree.Element, path, attr string) (string, bool) {
	return findAttr(el, path, attr)
}

func findText(scope *etree.Element, path string) (string, bool) {
	if scope == nil {
		return "", false
	}
	el := scope.FindElement(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

func findAttr(scope *etree.Element, path, attr string) (string, bool) {
	if scope == nil {
		return "", false
	}
	el := scope.FindElement(path)
	if el == nil {
		return "", false
	}
	a := el.SelectAttr(attr)
	if a == nil {
		return "", false
	}
	return strings.TrimSpace(a.Value), true
}
