// =============================================================================
// SUNAT Document Parser - Filename Classifier
// =============================================================================
//
// Classification is a pure function of the filename: an ordered rule table is
// evaluated top to bottom and the first match wins. The order is part of the
// contract, not an accident of iteration: the SIRE ledger patterns, the
// planilla pattern and the signed-CPE pattern all share an eleven-digit
// numeric RUC prefix, so the more specific rules must be listed first. The
// legacy uppercase-prefix rules from the original intake convention close the
// table, and anything left over is Unknown.
//
// =============================================================================

package classify

import (
	"regexp"
	"strings"
)

// TypeTag identifies a supported document type.
type TypeTag string

// The closed set of document types. Unknown is the fallback for filenames no
// rule matches.
const (
	Factura      TypeTag = "Factura"
	BoletaVenta  TypeTag = "BoletaVenta"
	NotaCredito  TypeTag = "NotaCredito"
	NotaDebito   TypeTag = "NotaDebito"
	GuiaRemision TypeTag = "GuiaRemision"
	SireVentas   TypeTag = "SireVentas"
	SireCompras  TypeTag = "SireCompras"
	Planilla     TypeTag = "Planilla"
	Unknown      TypeTag = "Desconocido"
)

// Tokens carries the positional values a rule captured from the filename.
// Fields a pattern does not capture stay empty.
type Tokens struct {
	RUC         string // 11-digit emitter tax ID
	DocCode     string // 2-digit SUNAT document type code
	Series      string // document series, e.g. F001
	Correlative string // document correlative number
	Period      string // tax period YYYYMM (ledger exports)
	Date        string // report date YYYYMMDD (planilla)
	Ext         string // lowercase extension without the dot
}

// Classification is the result of matching a filename against the rule table.
type Classification struct {
	Type   TypeTag
	Rule   string // name of the rule that matched, empty for Unknown
	Tokens Tokens
}

// rule binds a named pattern to a document type and a token extractor.
type rule struct {
	name    string
	pattern *regexp.Regexp
	resolve func(m []string) (TypeTag, Tokens)
}

// cpeCodes maps the two-digit code of a signed CPE filename to its type.
var cpeCodes = map[string]TypeTag{
	"01": Factura,
	"03": BoletaVenta,
	"07": NotaCredito,
	"08": NotaDebito,
	"09": GuiaRemision,
}

// rules is the ordered classification table. First match wins.
var rules = []rule{
	{
		name:    "sire-ventas",
		pattern: regexp.MustCompile(`(?i)^(\d{11})-SIRE-VENTAS-(\d{6})(?:-\d+)?\.(ZIP|TXT)$`),
		resolve: func(m []string) (TypeTag, Tokens) {
			return SireVentas, Tokens{RUC: m[1], Period: m[2], Ext: strings.ToLower(m[3])}
		},
	},
	{
		name:    "sire-compras",
		pattern: regexp.MustCompile(`(?i)^(\d{11})-SIRE-COMPRAS-(\d{6})(?:-\d+)?\.(ZIP|TXT)$`),
		resolve: func(m []string) (TypeTag, Tokens) {
			return SireCompras, Tokens{RUC: m[1], Period: m[2], Ext: strings.ToLower(m[3])}
		},
	},
	{
		name:    "planilla",
		pattern: regexp.MustCompile(`(?i)^(?:PLANILLA|TREGISTRO)[-_](\d{11})(?:[-_](\d{8}))?\.(ZIP)$`),
		resolve: func(m []string) (TypeTag, Tokens) {
			return Planilla, Tokens{RUC: m[1], Date: m[2], Ext: strings.ToLower(m[3])}
		},
	},
	{
		name:    "cpe",
		pattern: regexp.MustCompile(`(?i)^(\d{11})-(\d{2})-([A-Z][A-Z0-9]{3})-(\d{1,8})\.(XML|ZIP)$`),
		resolve: func(m []string) (TypeTag, Tokens) {
			tag, ok := cpeCodes[m[2]]
			if !ok {
				return Unknown, Tokens{}
			}
			return tag, Tokens{
				RUC:         m[1],
				DocCode:     m[2],
				Series:      strings.ToUpper(m[3]),
				Correlative: m[4],
				Ext:         strings.ToLower(m[5]),
			}
		},
	},
	{
		name:    "prefijo-factura",
		pattern: regexp.MustCompile(`(?i)^FACTURA.*\.(XML|ZIP)$`),
		resolve: prefixResolver(Factura),
	},
	{
		name:    "prefijo-notacredito",
		pattern: regexp.MustCompile(`(?i)^NOTACREDITO.*\.(XML|ZIP)$`),
		resolve: prefixResolver(NotaCredito),
	},
	{
		name:    "prefijo-notadebito",
		pattern: regexp.MustCompile(`(?i)^NOTADEBITO.*\.(XML|ZIP)$`),
		resolve: prefixResolver(NotaDebito),
	},
	{
		name:    "prefijo-guiaremision",
		pattern: regexp.MustCompile(`(?i)^GUIAREMISION.*\.(XML|ZIP)$`),
		resolve: prefixResolver(GuiaRemision),
	},
	{
		name:    "prefijo-boletaventa",
		pattern: regexp.MustCompile(`(?i)^BOLETAVENTA.*\.(XML|ZIP)$`),
		resolve: prefixResolver(BoletaVenta),
	},
}

func prefixResolver(tag TypeTag) func(m []string) (TypeTag, Tokens) {
	return func(m []string) (TypeTag, Tokens) {
		return tag, Tokens{Ext: strings.ToLower(m[1])}
	}
}

// Classify matches a bare filename (no directory part) against the rule
// table and returns the first match, or an Unknown classification.
func Classify(filename string) Classification {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		tag, tokens := r.resolve(m)
		if tag == Unknown {
			continue
		}
		return Classification{Type: tag, Rule: r.name, Tokens: tokens}
	}
	return Classification{Type: Unknown}
}

// RuleNames returns the rule names in evaluation order. Exposed so the
// validate command can print the precedence table.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
