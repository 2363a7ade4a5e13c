// =============================================================================
// SUNAT Document Parser - Canonical Document Entities
// =============================================================================
//
// One Header row is produced per successfully parsed document; Lines, Payment
// terms and References are zero-or-more rows each, joined to their Header
// exclusively through the CUI (never through row position). Optional fields
// stay nil all the way to the sink.
//
// The column sets are the union of what every XML document type can supply:
// the fully namespaced factura carries the monetary breakdown, while the
// simplified boleta/nota/guia parsers fill only their own subset.
//
// =============================================================================

package entity

import "time"

// Header is the canonical one-row-per-document entity.
type Header struct {
	CUI          *string
	TipoDoc      string
	Numero       *string
	FechaEmision *time.Time
	Moneda       *string

	RucEmisor      *string
	NombreEmisor   *string
	RucReceptor    *string
	NombreReceptor *string
	DniCliente     *string
	NombreCliente  *string

	ImporteTotal       *float64
	TotalIGV           *float64
	TotalISC           *float64
	TotalOtrosTributos *float64

	// Guia de remision only.
	FechaTraslado    *string
	RucDestinatario  *string
	DireccionPartida *string
	DireccionLlegada *string

	// Nota de debito only.
	Motivo *string
}

// Line is one invoice line, keyed to its Header by CUI.
type Line struct {
	CUI            *string
	LineaID        *string
	Cantidad       *float64
	Unidad         *string
	Descripcion    *string
	PrecioUnitario *float64
	Subtotal       *float64
	LineaIGV       *float64
}

// PaymentTerm is one payment term row, keyed to its Header by CUI.
type PaymentTerm struct {
	CUI              *string
	FormaPagoID      *string
	MontoPago        *float64
	MonedaPago       *string
	FechaVencimiento *string
}

// Reference links a modifying document (nota de credito/debito) to the
// document it modifies.
type Reference struct {
	CUI            *string
	DocReferencia  *string
	TipoReferencia string
}

// HeaderColumns is the canonical column order of the cabeceras entity.
var HeaderColumns = []string{
	"cui", "tipo_documento", "numero", "fecha_emision", "moneda",
	"ruc_emisor", "nombre_emisor", "ruc_receptor", "nombre_receptor",
	"dni_cliente", "nombre_cliente",
	"importe_total", "total_igv", "total_isc", "total_otros_tributos",
	"fecha_traslado", "ruc_destinatario", "direccion_partida", "direccion_llegada",
	"motivo",
}

// LineColumns is the canonical column order of the lineas entity.
var LineColumns = []string{
	"cui", "linea_id", "cantidad", "unidad", "descripcion",
	"precio_unitario", "subtotal", "linea_igv",
}

// PaymentColumns is the canonical column order of the pagos entity.
var PaymentColumns = []string{
	"cui", "forma_pago_id", "monto_pago", "moneda_pago", "fecha_vencimiento",
}

// ReferenceColumns is the canonical column order of the referencias entity.
var ReferenceColumns = []string{"cui", "documento_referencia", "tipo_referencia"}

// Row converts the header to a table row in HeaderColumns order.
func (h Header) Row() []any {
	return []any{
		StrCell(h.CUI), h.TipoDoc, StrCell(h.Numero), TimeCell(h.FechaEmision), StrCell(h.Moneda),
		StrCell(h.RucEmisor), StrCell(h.NombreEmisor), StrCell(h.RucReceptor), StrCell(h.NombreReceptor),
		StrCell(h.DniCliente), StrCell(h.NombreCliente),
		FloatCell(h.ImporteTotal), FloatCell(h.TotalIGV), FloatCell(h.TotalISC), FloatCell(h.TotalOtrosTributos),
		StrCell(h.FechaTraslado), StrCell(h.RucDestinatario), StrCell(h.DireccionPartida), StrCell(h.DireccionLlegada),
		StrCell(h.Motivo),
	}
}

// Row converts the line to a table row in LineColumns order.
func (l Line) Row() []any {
	return []any{
		StrCell(l.CUI), StrCell(l.LineaID), FloatCell(l.Cantidad), StrCell(l.Unidad),
		StrCell(l.Descripcion), FloatCell(l.PrecioUnitario), FloatCell(l.Subtotal), FloatCell(l.LineaIGV),
	}
}

// Row converts the payment term to a table row in PaymentColumns order.
func (p PaymentTerm) Row() []any {
	return []any{
		StrCell(p.CUI), StrCell(p.FormaPagoID), FloatCell(p.MontoPago),
		StrCell(p.MonedaPago), StrCell(p.FechaVencimiento),
	}
}

// Row converts the reference to a table row in ReferenceColumns order.
func (r Reference) Row() []any {
	return []any{StrCell(r.CUI), StrCell(r.DocReferencia), r.TipoReferencia}
}

// StrCell lifts an optional string into a table cell.
func StrCell(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// FloatCell lifts an optional float into a table cell.
func FloatCell(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// IntCell lifts an optional int into a table cell.
func IntCell(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

// Int64Cell lifts an optional int64 into a table cell.
func Int64Cell(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

// TimeCell lifts an optional time into a table cell.
func TimeCell(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
