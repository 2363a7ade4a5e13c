// =============================================================================
// SUNAT Document Parser - Fiscal Classification Cascade
// =============================================================================
//
// Every sales-register row is pushed through an ordered table of mutually
// exclusive predicates over its base amounts. The first predicate that holds
// fixes the five derived fields (tipo_operacion, destino, valor, igv,
// otros_cargos); the derivations read the very same columns the predicate
// tested.
//
// The evaluation order is load-bearing: the partitions were designed against
// historical data and overlapping edge rows must resolve to the earlier
// entry. Do not reorder, merge or "simplify" the predicates - the output
// feeds accounting treatment downstream.
//
// A row no predicate matches is not an error: it receives the review codes
// (99) and its observation is annotated for manual follow-up. That default is
// inherited business behaviour and is kept as-is.
//
// =============================================================================

package fiscal

// Destination codes assigned by the cascade.
const (
	DestinoGravado   = 1 // domestic taxed
	DestinoExonerado = 2 // exempt / untaxed / pure export value
	DestinoMixto     = 3 // taxed base with exempt or untaxed amounts alongside
	DestinoIVAP      = 4 // rice special regime (IVAP)
	DestinoRevision  = 99
)

// Operation type codes assigned by the cascade.
const (
	OperacionVentaInterna = 1
	OperacionExportacion  = 17
	OperacionRevision     = 99
)

// ExportDocType is the Tipo CP/Doc. code of an export voucher.
const ExportDocType = 7

// ReviewRemark is appended to the observation column of rows the cascade
// could not classify.
const ReviewRemark = " | Revisar dinamica de destino"

// Amounts carries the base columns the cascade partitions on, already
// coerced with parse-or-zero semantics.
type Amounts struct {
	TipoComprobante float64 // Tipo CP/Doc.
	Exportacion     float64 // Valor Facturado Exportación
	BIGravada       float64 // BI Gravada
	DsctoBI         float64 // Dscto BI
	IGV             float64 // IGV / IPM
	DsctoIGV        float64 // Dscto IGV / IPM
	Exonerado       float64 // Mto Exonerado
	Inafecto        float64 // Mto Inafecto
	BIGravIVAP      float64 // BI Grav IVAP
	IVAP            float64 // IVAP
	OtrosTributos   float64 // Otros Tributos
}

func (a Amounts) exoInaf() float64 { return a.Exonerado + a.Inafecto }

// Outcome holds the five derived fields plus the review flag.
type Outcome struct {
	TipoOperacion int
	Destino       int
	Valor         float64
	IGV           float64
	OtrosCargos   float64
	NeedsReview   bool
}

type rule struct {
	name   string
	match  func(a Amounts) bool
	derive func(a Amounts) Outcome
}

// cascade is the ordered predicate table. First match wins.
var cascade = []rule{
	{
		name:  "exportacion-negativa",
		match: func(a Amounts) bool { return a.TipoComprobante == ExportDocType && a.Exportacion < 0 },
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionVentaInterna,
				Destino:       DestinoGravado,
				Valor:         a.BIGravada + a.DsctoBI + a.BIGravIVAP,
				IGV:           a.IGV + a.DsctoIGV + a.IVAP,
				OtrosCargos:   a.OtrosTributos,
			}
		},
	},
	{
		name:  "exportacion-sin-valor",
		match: func(a Amounts) bool { return a.TipoComprobante == ExportDocType && a.Exportacion == 0 },
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionVentaInterna,
				Destino:       DestinoGravado,
				Valor:         a.Exportacion,
				IGV:           0,
				OtrosCargos:   a.OtrosTributos,
			}
		},
	},
	{
		name: "exportacion-pura",
		match: func(a Amounts) bool {
			return a.TipoComprobante != ExportDocType && a.Exportacion > 0 &&
				a.BIGravada == 0 && a.DsctoBI == 0 && a.IGV == 0 && a.DsctoIGV == 0 &&
				a.Exonerado == 0 && a.Inafecto == 0 && a.BIGravIVAP == 0 && a.IVAP == 0
		},
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionExportacion,
				Destino:       DestinoExonerado,
				Valor:         a.Exportacion,
				IGV:           0,
				OtrosCargos:   a.OtrosTributos,
			}
		},
	},
	{
		name: "gravada-con-exonerada",
		match: func(a Amounts) bool {
			return a.TipoComprobante != ExportDocType && a.Exportacion == 0 &&
				a.BIGravada > 0 && a.IGV > 0 && a.exoInaf() > 0 &&
				a.BIGravIVAP == 0 && a.IVAP == 0
		},
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionVentaInterna,
				Destino:       DestinoMixto,
				Valor:         a.BIGravada,
				IGV:           a.IGV,
				OtrosCargos:   a.OtrosTributos + a.exoInaf(),
			}
		},
	},
	{
		name: "gravada",
		match: func(a Amounts) bool {
			return a.TipoComprobante != ExportDocType && a.Exportacion == 0 &&
				a.BIGravada > 0 && a.IGV > 0 && a.exoInaf() == 0 &&
				a.BIGravIVAP == 0 && a.IVAP == 0
		},
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionVentaInterna,
				Destino:       DestinoGravado,
				Valor:         a.BIGravada,
				IGV:           a.IGV,
				OtrosCargos:   a.OtrosTributos,
			}
		},
	},
	{
		name: "exonerada-inafecta",
		match: func(a Amounts) bool {
			return a.TipoComprobante != ExportDocType && a.Exportacion == 0 &&
				a.BIGravada == 0 && a.DsctoBI == 0 && a.IGV == 0 && a.DsctoIGV == 0 &&
				a.exoInaf() > 0 && a.BIGravIVAP == 0 && a.IVAP == 0
		},
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionVentaInterna,
				Destino:       DestinoExonerado,
				Valor:         a.exoInaf(),
				IGV:           0,
				OtrosCargos:   a.OtrosTributos,
			}
		},
	},
	{
		name: "ivap",
		match: func(a Amounts) bool {
			return a.TipoComprobante != ExportDocType && a.Exportacion == 0 &&
				a.BIGravada == 0 && a.DsctoBI == 0 && a.IGV == 0 && a.DsctoIGV == 0 &&
				a.exoInaf() == 0 && a.BIGravIVAP > 0 && a.IVAP > 0
		},
		derive: func(a Amounts) Outcome {
			return Outcome{
				TipoOperacion: OperacionVentaInterna,
				Destino:       DestinoIVAP,
				Valor:         a.BIGravIVAP,
				IGV:           a.IVAP,
				OtrosCargos:   a.OtrosTributos + a.exoInaf(),
			}
		},
	},
}

// Classify runs the cascade over one row's amounts.
func Classify(a Amounts) Outcome {
	for _, r := range cascade {
		if r.match(a) {
			return r.derive(a)
		}
	}
	return Outcome{
		TipoOperacion: OperacionRevision,
		Destino:       DestinoRevision,
		Valor:         0,
		IGV:           0,
		OtrosCargos:   a.OtrosTributos,
		NeedsReview:   true,
	}
}

// MatchingRules returns the names of every predicate that holds for the
// amounts, in table order. Used to verify the partitions stay mutually
// exclusive.
func MatchingRules(a Amounts) []string {
	var names []string
	for _, r := range cascade {
		if r.match(a) {
			names = append(names, r.name)
		}
	}
	return names
}
