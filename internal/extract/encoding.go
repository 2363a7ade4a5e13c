// =============================================================================
// SUNAT Document Parser - Payload Decoding
// =============================================================================
//
// SUNAT artifacts arrive in two encodings in the wild: UTF-8 and the Latin-1
// family (ISO-8859-1 or its Windows-1252 superset). Ledger and report text is
// decoded as UTF-8 first with a Latin-1 fallback; raw XML files instead trust
// the encoding attribute of their XML declaration, sniffed from the first
// kilobyte of the file.
//
// =============================================================================

package extract

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// xmlDeclEncoding matches the encoding attribute of an XML declaration.
var xmlDeclEncoding = regexp.MustCompile(`(?i)<\?xml.*?encoding\s*=\s*['"]([^'"]+)['"]`)

// DecodeText decodes payload bytes as UTF-8, falling back to Windows-1252
// when the bytes are not valid UTF-8. Windows-1252 covers ISO-8859-1 and
// never fails, so the fallback always yields a string.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		// Windows-1252 maps every byte; keep the raw bytes if the
		// transformer still balks.
		return string(raw)
	}
	return string(decoded)
}

// SniffXMLEncoding inspects the first kilobyte of an XML payload and returns
// the declared encoding in lowercase, or "utf-8" when no declaration names
// one.
func SniffXMLEncoding(raw []byte) string {
	head := raw
	if len(head) > 1024 {
		head = head[:1024]
	}
	// A Latin-1 view of the head is enough: the declaration is pure ASCII.
	m := xmlDeclEncoding.FindStringSubmatch(latin1String(head))
	if m == nil {
		return "utf-8"
	}
	enc := strings.ToLower(strings.TrimSpace(m[1]))
	if enc == "" {
		return "utf-8"
	}
	return enc
}

// DecodeDeclared decodes an XML payload according to its declared encoding.
// Unrecognized encoding names fall back to UTF-8, mirroring the behaviour of
// the intake system this replaces.
func DecodeDeclared(raw []byte) string {
	switch SniffXMLEncoding(raw) {
	case "iso-8859-1", "iso8859-1", "latin-1", "latin1":
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return string(raw)
		}
		return string(decoded)
	case "windows-1252", "cp1252":
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return string(raw)
		}
		return string(decoded)
	default:
		return string(raw)
	}
}

// passthroughCharset satisfies encoding/xml's CharsetReader hook. Payloads
// are decoded to UTF-8 before parsing, so any encoding still named by a
// stale XML declaration is read as-is.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}

func latin1String(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}
