// =============================================================================
// SUNAT Document Parser - Shared XML Document Helpers
// =============================================================================
//
// The five XML processors (factura, boleta, notas, guia) emit the same four
// entities. This file holds the pieces they share: repeated-group extraction,
// dataset assembly and the relational mapping of the document entities.
//
// =============================================================================

package process

import (
	"strconv"

	"github.com/beevik/etree"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/extract"
)

// extractLine reads one cac:InvoiceLine group.
func extractLine(el *etree.Element, id *string) entity.Line {
	line := entity.Line{CUI: id}
	line.LineaID = optStr(extract.ElemText(el, "cbc:ID"))
	line.Cantidad = floatOrNil(extract.ElemText(el, "cbc:InvoicedQuantity"))
	line.Unidad = optAttr(extract.ElemAttr(el, "cbc:InvoicedQuantity", "unitCode"))
	line.Descripcion = optStr(extract.ElemText(el, "cac:Item/cbc:Description"))
	line.PrecioUnitario = floatOrNil(extract.ElemText(el, "cac:Price/cbc:PriceAmount"))
	line.Subtotal = floatOrNil(extract.ElemText(el, "cbc:LineExtensionAmount"))
	// The first subtotal, not the aggregated TaxAmount: a line's TaxTotal can
	// fold several schemes together (IGV plus ICBPER).
	line.LineaIGV = floatOrNil(extract.ElemText(el, "cac:TaxTotal/cac:TaxSubtotal/cbc:TaxAmount"))
	return line
}

// extractPaymentTerm reads one cac:PaymentTerms group. The payment form
// identifier is the term's own cbc:ID ("FormaPago", "Cuota001"), not the
// PaymentMeansID next to it.
func extractPaymentTerm(el *etree.Element, id *string) entity.PaymentTerm {
	term := entity.PaymentTerm{CUI: id}
	term.FormaPagoID = optStr(extract.ElemText(el, "cbc:ID"))
	term.MontoPago = floatOrNil(extract.ElemText(el, "cbc:Amount"))
	term.MonedaPago = optAttr(extract.ElemAttr(el, "cbc:Amount", "currencyID"))
	term.FechaVencimiento = optStr(extract.ElemText(el, "cbc:PaymentDueDate"))
	return term
}

// optAttr lifts a safe attribute lookup into an optional string.
func optAttr(s string, ok bool) *string {
	return optStr(s, ok)
}

// deref unwraps an optional string for identifier derivation.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// numberedLines assigns 1-based line identifiers to lines that carry none.
func numberedLines(lines []entity.Line) []entity.Line {
	for i := range lines {
		if lines[i].LineaID == nil {
			n := strconv.Itoa(i + 1)
			lines[i].LineaID = &n
		}
	}
	return lines
}

// documentDataset assembles the canonical tables of one XML document. The
// cabeceras table is always present; the child entities only when they have
// rows, so a boleta without lines does not emit empty tables.
func documentDataset(headers []entity.Header, lines []entity.Line, payments []entity.PaymentTerm, refs []entity.Reference) *entity.Dataset {
	ds := entity.NewDataset()

	cab := entity.NewTable(entity.EntityHeaders, entity.HeaderColumns)
	for _, h := range headers {
		cab.Append(h.Row())
	}
	ds.Add(cab)

	if len(lines) > 0 {
		t := entity.NewTable(entity.EntityLines, entity.LineColumns)
		for _, l := range numberedLines(lines) {
			t.Append(l.Row())
		}
		ds.Add(t)
	}
	if len(payments) > 0 {
		t := entity.NewTable(entity.EntityPayments, entity.PaymentColumns)
		for _, p := range payments {
			t.Append(p.Row())
		}
		ds.Add(t)
	}
	if len(refs) > 0 {
		t := entity.NewTable(entity.EntityReferences, entity.ReferenceColumns)
		for _, r := range refs {
			t.Append(r.Row())
		}
		ds.Add(t)
	}
	return ds
}

// documentDBMappings is the shared relational mapping of the XML document
// entities. All five XML processors target the same tables.
func documentDBMappings() map[string]DBMapping {
	return map[string]DBMapping{
		entity.EntityHeaders: {
			Schema:    "public",
			Table:     "cabeceras",
			KeyColumn: "cui",
			Columns: map[string]string{
				"cui":                  "cui",
				"tipo_documento":       "tipo_documento_id",
				"numero":               "numero_documento",
				"fecha_emision":        "fecha_emision",
				"moneda":               "moneda_id",
				"ruc_emisor":           "ruc_emisor",
				"nombre_emisor":        "nombre_emisor",
				"ruc_receptor":         "ruc_receptor",
				"nombre_receptor":      "nombre_receptor",
				"dni_cliente":          "dni_cliente",
				"nombre_cliente":       "nombre_cliente",
				"importe_total":        "importe_total",
				"total_igv":            "total_igv",
				"total_isc":            "total_isc",
				"total_otros_tributos": "total_otros_tributos",
			},
		},
		entity.EntityLines: {
			Schema:    "public",
			Table:     "lineas",
			KeyColumn: "",
			Columns: map[string]string{
				"cui":             "cui_relacionado",
				"linea_id":        "linea_id",
				"cantidad":        "cantidad",
				"unidad":          "unidad_medida",
				"descripcion":     "descripcion",
				"precio_unitario": "precio_unitario",
				"subtotal":        "subtotal",
				"linea_igv":       "igv",
			},
		},
		entity.EntityPayments: {
			Schema:    "public",
			Table:     "pagos",
			KeyColumn: "",
			Columns: map[string]string{
				"cui":               "cui_relacionado",
				"forma_pago_id":     "forma_pago_id",
				"monto_pago":        "monto",
				"moneda_pago":       "moneda_id",
				"fecha_vencimiento": "fecha_vencimiento",
			},
		},
		entity.EntityReferences: {
			Schema:    "public",
			Table:     "referencias",
			KeyColumn: "",
			Columns: map[string]string{
				"cui":                  "cui_relacionado",
				"documento_referencia": "documento_referencia",
				"tipo_referencia":      "tipo_referencia",
			},
		},
	}
}
