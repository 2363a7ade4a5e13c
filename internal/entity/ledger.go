// =============================================================================
// SUNAT Document Parser - Ledger Entities (SIRE)
// =============================================================================
//
// SalesRow and PurchaseRow model one record of a SIRE bulk export after the
// canonical transform. Sales rows additionally carry the five fields derived
// by the fiscal rule cascade (destino, tipo_operacion, valor, igv,
// otros_cargos). Purchase rows keep their values as raw strings: the original
// purchase register pipeline performs the rename/projection only.
//
// =============================================================================

package entity

import "time"

// SalesRow is one canonical record of the SIRE ventas (sales register) export.
type SalesRow struct {
	Ruc                *int64
	PeriodoTributario  *int
	Observaciones      *string
	FechaEmision       *time.Time
	FechaVencimiento   *time.Time
	TipoComprobante    *int
	NumeroSerie        *string
	NumeroCorrelativo  *string
	NumeroFinal        *int
	TipoDocumento      *string
	NumeroDocumento    *string
	ISC                float64
	ICBP               float64
	TipoMoneda         *string
	TipoCompModificado *int
	SerieModificada    *string
	NumeroModificado   *string
	CUI                *string

	// Derived by the fiscal rule cascade.
	Destino       int
	Valor         float64
	IGV           float64
	OtrosCargos   float64
	TipoOperacion int
}

// SalesColumns is the canonical column order of the sire_ventas entity.
var SalesColumns = []string{
	"ruc", "periodo_tributario", "observaciones",
	"fecha_emision", "fecha_vencimiento",
	"tipo_comprobante", "numero_serie", "numero_correlativo", "numero_final",
	"tipo_documento", "numero_documento",
	"isc", "icbp", "tipo_moneda",
	"tipo_comprobante_modificado", "numero_serie_modificado", "numero_correlativo_modificado",
	"cui", "destino", "valor", "igv", "otros_cargos", "tipo_operacion",
}

// Row converts the sales row to a table row in SalesColumns order.
func (s SalesRow) Row() []any {
	return []any{
		Int64Cell(s.Ruc), IntCell(s.PeriodoTributario), StrCell(s.Observaciones),
		TimeCell(s.FechaEmision), TimeCell(s.FechaVencimiento),
		IntCell(s.TipoComprobante), StrCell(s.NumeroSerie), StrCell(s.NumeroCorrelativo), IntCell(s.NumeroFinal),
		StrCell(s.TipoDocumento), StrCell(s.NumeroDocumento),
		s.ISC, s.ICBP, StrCell(s.TipoMoneda),
		IntCell(s.TipoCompModificado), StrCell(s.SerieModificada), StrCell(s.NumeroModificado),
		StrCell(s.CUI), s.Destino, s.Valor, s.IGV, s.OtrosCargos, s.TipoOperacion,
	}
}

// PurchaseRow is one canonical record of the SIRE compras (purchase register)
// export. Values pass through as extracted, absent fields stay nil.
type PurchaseRow struct {
	RucEmisor         *string
	PeriodoTributario *string
	Observaciones     *string
	FechaEmision      *string
	FechaVencimiento  *string
	TipoDocumentoID   *string
	SerieDocumento    *string
	NumeroDocumento   *string
	TipoDocReceptor   *string
	RucReceptor       *string
	NombreReceptor    *string
	BIGravadoDG       *string
	IGVDG             *string
	BIGravadoDGNG     *string
	IGVDGNG           *string
	BIGravadoDNG      *string
	IGVDNG            *string
	ValorAdqNG        *string
	ISC               *string
	ICBPER            *string
	OtrosCargos       *string
	ImporteTotal      *string
	MonedaID          *string
	TipoCambio        *string
	TipoDocModificado *string
	SerieModificada   *string
	NumeroModificado  *string
	TasaDetraccion    *string
	CUI               *string
}

// PurchaseColumns is the canonical column order of the sire_compras entity.
var PurchaseColumns = []string{
	"ruc_emisor", "periodo_tributario", "observaciones",
	"fecha_emision", "fecha_vencimiento",
	"tipo_documento_id", "serie_documento", "numero_documento",
	"tipo_doc_receptor", "ruc_receptor", "nombre_receptor",
	"total_bi_gravado_dg", "total_igv_dg",
	"total_bi_gravado_dgng", "total_igv_dgng",
	"total_bi_gravado_dng", "total_igv_dng",
	"total_valor_adq_ng", "total_isc", "total_icbper", "total_otros_cargos",
	"importe_total", "moneda_id", "tipo_cambio",
	"tipo_doc_modificado", "serie_modificada", "numero_modificado",
	"tasa_detraccion", "cui",
}

// Row converts the purchase row to a table row in PurchaseColumns order.
func (p PurchaseRow) Row() []any {
	return []any{
		StrCell(p.RucEmisor), StrCell(p.PeriodoTributario), StrCell(p.Observaciones),
		StrCell(p.FechaEmision), StrCell(p.FechaVencimiento),
		StrCell(p.TipoDocumentoID), StrCell(p.SerieDocumento), StrCell(p.NumeroDocumento),
		StrCell(p.TipoDocReceptor), StrCell(p.RucReceptor), StrCell(p.NombreReceptor),
		StrCell(p.BIGravadoDG), StrCell(p.IGVDG),
		StrCell(p.BIGravadoDGNG), StrCell(p.IGVDGNG),
		StrCell(p.BIGravadoDNG), StrCell(p.IGVDNG),
		StrCell(p.ValorAdqNG), StrCell(p.ISC), StrCell(p.ICBPER), StrCell(p.OtrosCargos),
		StrCell(p.ImporteTotal), StrCell(p.MonedaID), StrCell(p.TipoCambio),
		StrCell(p.TipoDocModificado), StrCell(p.SerieModificada), StrCell(p.NumeroModificado),
		StrCell(p.TasaDetraccion), StrCell(p.CUI),
	}
}
