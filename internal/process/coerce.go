// =============================================================================
// SUNAT Document Parser - Type Coercion Helpers
// =============================================================================
//
// The transform stage applies two distinct numeric policies:
//
//   - parse-or-zero for ledger amount columns: they feed arithmetic in the
//     fiscal cascade, so a non-numeric cell becomes 0, never null.
//   - parse-or-nil for document monetary fields: an absent or non-numeric
//     value stays absent all the way to the sink.
//
// Monetary values round to two decimals; ledger dates use the fixed
// day/month/year layout; tax periods normalize to a YYYYMM integer.
//
// =============================================================================

package process

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const ledgerDateLayout = "02/01/2006"

// numOrZero parses a ledger amount with parse-or-zero semantics.
func numOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// round2 rounds a monetary value to two decimals.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// floatOrNil parses an optional monetary field, rounding to two decimals.
func floatOrNil(s string, ok bool) *float64 {
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	f = round2(f)
	return &f
}

// intOrNil parses an optional integer field, accepting decimal formatting
// ("6.0") the way float-typed ledger columns deliver it.
func intOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// int64OrNil parses an optional int64 field (tax IDs).
func int64OrNil(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// dateOrNil parses an optional ledger date (dd/mm/yyyy).
func dateOrNil(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(ledgerDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// isoDateOrNil parses an optional ISO date (yyyy-mm-dd, UBL issue dates).
func isoDateOrNil(s string, ok bool) *time.Time {
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// periodOrNil normalizes a tax period to a YYYYMM integer.
func periodOrNil(s string) *int {
	s = strings.TrimSpace(s)
	if len(s) != 6 {
		return nil
	}
	if _, err := time.Parse("200601", s); err != nil {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// strOrNil turns an empty or blank string into an absent value.
func strOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optStr lifts a safe-lookup result into an optional string.
func optStr(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return strOrNil(s)
}
