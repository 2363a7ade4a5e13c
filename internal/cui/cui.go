// =============================================================================
// SUNAT Document Parser - Cross-Document Identifier (CUI)
// =============================================================================
//
// The CUI joins every canonical entity produced for one source document:
// lowercase hex of the emitter RUC (no radix prefix), the two-digit
// zero-padded document type code, and series+correlative with internal
// hyphens stripped.
//
// The scheme is deterministic but best-effort: distinct valid inputs are not
// formally guaranteed collision-free, and that behaviour is inherited from
// the upstream accounting system on purpose. An undefined CUI is represented
// as nil and never compares equal to another undefined CUI.
//
// =============================================================================

package cui

import (
	"fmt"
	"strconv"
	"strings"
)

// Generate derives the identifier from the emitter tax ID, the numeric
// document type code and the document series/correlative pair. It returns
// nil when any component is missing or fails numeric parsing.
//
// The type code tolerates decimal formatting ("6.0") because ledger exports
// deliver it through float-typed columns; it is truncated to an integer.
func Generate(ruc, docType, series, correlative string) *string {
	ruc = strings.TrimSpace(ruc)
	docType = strings.TrimSpace(docType)
	series = strings.TrimSpace(series)
	correlative = strings.TrimSpace(correlative)

	if ruc == "" || docType == "" || series == "" || correlative == "" {
		return nil
	}

	rucNum, err := strconv.ParseInt(ruc, 10, 64)
	if err != nil || rucNum < 0 {
		return nil
	}

	typeNum, err := strconv.ParseFloat(docType, 64)
	if err != nil || typeNum < 0 {
		return nil
	}

	number := series + "-" + correlative
	id := fmt.Sprintf("%x%02d%s", rucNum, int(typeNum), strings.ReplaceAll(number, "-", ""))
	return &id
}

// FromNumber derives the identifier when series and correlative arrive as a
// single document number (e.g. "F001-45" from an XML invoice).
func FromNumber(ruc, docType, number string) *string {
	ruc = strings.TrimSpace(ruc)
	docType = strings.TrimSpace(docType)
	number = strings.TrimSpace(number)

	if ruc == "" || docType == "" || number == "" {
		return nil
	}

	rucNum, err := strconv.ParseInt(ruc, 10, 64)
	if err != nil || rucNum < 0 {
		return nil
	}

	typeNum, err := strconv.ParseFloat(docType, 64)
	if err != nil || typeNum < 0 {
		return nil
	}

	id := fmt.Sprintf("%x%02d%s", rucNum, int(typeNum), strings.ReplaceAll(number, "-", ""))
	return &id
}
