// =============================================================================
// SUNAT Document Parser - Purchase Register Processor (SIRE Compras)
// =============================================================================
//
// The purchase register is the lighter sibling of the sales register: no
// fiscal cascade, no sentinel normalization. The transform derives the CUI
// and projects the export onto the canonical columns; every value passes
// through as the raw string the export carried.
//
// =============================================================================

package process

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/cui"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/extract"
)

// Source labels of the purchase export that differ from the sales export.
const (
	purchaseSrcRuc    = "RUC"
	purchaseSrcRazon  = "Apellidos y Nombres, Denominación o Razón Social"
	purchaseSrcOtros  = "Otros Trib/ Cargos"
	purchaseSrcTotal  = "Importe Total"
	purchaseSrcCambio = "Tipo de Cambio"
	purchaseSrcDetrac = "Detracción"
)

// purchaseRename is the source-to-canonical rename table of the purchase
// register. The cui column is derived by the transform.
var purchaseRename = []FieldMap{
	{Source: purchaseSrcRuc, Canonical: "ruc_emisor"},
	{Source: salesSrcPeriodo, Canonical: "periodo_tributario"},
	{Source: salesSrcCAR, Canonical: "observaciones"},
	{Source: salesSrcFechaEmi, Canonical: "fecha_emision"},
	{Source: salesSrcFechaVcto, Canonical: "fecha_vencimiento"},
	{Source: salesSrcTipoCP, Canonical: "tipo_documento_id"},
	{Source: salesSrcSerie, Canonical: "serie_documento"},
	{Source: salesSrcNroInicial, Canonical: "numero_documento"},
	{Source: salesSrcTipoDoc, Canonical: "tipo_doc_receptor"},
	{Source: salesSrcNroDoc, Canonical: "ruc_receptor"},
	{Source: purchaseSrcRazon, Canonical: "nombre_receptor"},
	{Source: "BI Gravado DG", Canonical: "total_bi_gravado_dg"},
	{Source: "IGV / IPM DG", Canonical: "total_igv_dg"},
	{Source: "BI Gravado DGNG", Canonical: "total_bi_gravado_dgng"},
	{Source: "IGV / IPM DGNG", Canonical: "total_igv_dgng"},
	{Source: "BI Gravado DNG", Canonical: "total_bi_gravado_dng"},
	{Source: "IGV / IPM DNG", Canonical: "total_igv_dng"},
	{Source: "Valor Adq. NG", Canonical: "total_valor_adq_ng"},
	{Source: salesSrcISC, Canonical: "total_isc"},
	{Source: salesSrcICBPER, Canonical: "total_icbper"},
	{Source: purchaseSrcOtros, Canonical: "total_otros_cargos"},
	{Source: purchaseSrcTotal, Canonical: "importe_total"},
	{Source: salesSrcMoneda, Canonical: "moneda_id"},
	{Source: purchaseSrcCambio, Canonical: "tipo_cambio"},
	{Source: salesSrcTipoCPMod, Canonical: "tipo_doc_modificado"},
	{Source: salesSrcSerieMod, Canonical: "serie_modificada"},
	{Source: salesSrcNroMod, Canonical: "numero_modificado"},
	{Source: purchaseSrcDetrac, Canonical: "tasa_detraccion"},
}

// PurchaseLedgerProcessor handles SIRE compras bulk exports.
type PurchaseLedgerProcessor struct {
	logger *slog.Logger
}

// NewPurchaseLedgerProcessor creates the SIRE compras processor.
func NewPurchaseLedgerProcessor(logger *slog.Logger) *PurchaseLedgerProcessor {
	return &PurchaseLedgerProcessor{logger: logger.With("processor", "sire_compras")}
}

// Process extracts and projects one purchase register export.
func (p *PurchaseLedgerProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	rs, err := extract.ExtractDelimited(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("sire compras %s: %w", name, err)
	}

	table := entity.NewTable(entity.EntityPurchases, entity.PurchaseColumns)
	for _, rec := range rs.Records {
		table.Append(p.transformRecord(rec).Row())
	}

	if table.Empty() {
		p.logger.Warn("archivo sin comprobantes", "archivo", name)
	}
	p.logger.Info("procesamiento exitoso", "archivo", name, "filas", table.Len())

	ds := entity.NewDataset()
	ds.Add(table)
	return ds, nil
}

func (p *PurchaseLedgerProcessor) transformRecord(rec extract.RawRecord) entity.PurchaseRow {
	return entity.PurchaseRow{
		RucEmisor:         strOrNil(rec[purchaseSrcRuc]),
		PeriodoTributario: strOrNil(rec[salesSrcPeriodo]),
		Observaciones:     strOrNil(rec[salesSrcCAR]),
		FechaEmision:      strOrNil(rec[salesSrcFechaEmi]),
		FechaVencimiento:  strOrNil(rec[salesSrcFechaVcto]),
		TipoDocumentoID:   strOrNil(rec[salesSrcTipoCP]),
		SerieDocumento:    strOrNil(rec[salesSrcSerie]),
		NumeroDocumento:   strOrNil(rec[salesSrcNroInicial]),
		TipoDocReceptor:   strOrNil(rec[salesSrcTipoDoc]),
		RucReceptor:       strOrNil(rec[salesSrcNroDoc]),
		NombreReceptor:    strOrNil(rec[purchaseSrcRazon]),
		BIGravadoDG:       strOrNil(rec["BI Gravado DG"]),
		IGVDG:             strOrNil(rec["IGV / IPM DG"]),
		BIGravadoDGNG:     strOrNil(rec["BI Gravado DGNG"]),
		IGVDGNG:           strOrNil(rec["IGV / IPM DGNG"]),
		BIGravadoDNG:      strOrNil(rec["BI Gravado DNG"]),
		IGVDNG:            strOrNil(rec["IGV / IPM DNG"]),
		ValorAdqNG:        strOrNil(rec["Valor Adq. NG"]),
		ISC:               strOrNil(rec[salesSrcISC]),
		ICBPER:            strOrNil(rec[salesSrcICBPER]),
		OtrosCargos:       strOrNil(rec[purchaseSrcOtros]),
		ImporteTotal:      strOrNil(rec[purchaseSrcTotal]),
		MonedaID:          strOrNil(rec[salesSrcMoneda]),
		TipoCambio:        strOrNil(rec[purchaseSrcCambio]),
		TipoDocModificado: strOrNil(rec[salesSrcTipoCPMod]),
		SerieModificada:   strOrNil(rec[salesSrcSerieMod]),
		NumeroModificado:  strOrNil(rec[salesSrcNroMod]),
		TasaDetraccion:    strOrNil(rec[purchaseSrcDetrac]),
		CUI: cui.Generate(
			rec[purchaseSrcRuc], rec[salesSrcTipoCP],
			rec[salesSrcSerie], rec[salesSrcNroInicial],
		),
	}
}

// DBMappings returns the relational target of the purchase register entity.
// Purchase rows land in the shared document header table.
func (p *PurchaseLedgerProcessor) DBMappings() map[string]DBMapping {
	columns := make(map[string]string, len(entity.PurchaseColumns))
	for _, col := range entity.PurchaseColumns {
		columns[col] = col
	}
	return map[string]DBMapping{
		entity.EntityPurchases: {
			Schema:    "public",
			Table:     "cabeceras",
			KeyColumn: "cui",
			Columns:   columns,
		},
	}
}
