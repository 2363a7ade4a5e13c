// =============================================================================
// SUNAT Document Parser - Sales Register Processor (SIRE Ventas)
// =============================================================================
//
// The sales register is a pipe-delimited bulk export. The transform runs in a
// fixed order:
//
//   1. keep only voucher rows (CAR SUNAT value of exactly 27 characters)
//   2. normalize identity sentinels ('-' placeholders)
//   3. derive the CUI from RUC, voucher type, series and correlative
//   4. run the fiscal rule cascade over the amount columns
//   5. rename to canonical columns, coerce types, prefix observations
//
// Steps 2-4 read the source labels as exported; the rename happens last so the
// cascade sees the untouched amount columns.
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
	"github.com/raknaros/sunat-parser/internal/fiscal"
)

// carLength is the length of a well-formed CAR SUNAT voucher identifier. Rows
// with any other length are summary or filler lines and are dropped.
const carLength = 27

// observationPrefix marks rows that originated in a SIRE export.
const observationPrefix = "SIRE:"

// Source labels of the sales export, as SUNAT writes them.
const (
	salesSrcRuc         = "Ruc"
	salesSrcPeriodo     = "Periodo"
	salesSrcCAR         = "CAR SUNAT"
	salesSrcFechaEmi    = "Fecha de emisión"
	salesSrcFechaVcto   = "Fecha Vcto/Pago"
	salesSrcTipoCP      = "Tipo CP/Doc."
	salesSrcSerie       = "Serie del CDP"
	salesSrcNroInicial  = "Nro CP o Doc. Nro Inicial (Rango)"
	salesSrcNroFinal    = "Nro Final (Rango)"
	salesSrcTipoDoc     = "Tipo Doc Identidad"
	salesSrcNroDoc      = "Nro Doc Identidad"
	salesSrcRazon       = "Apellidos Nombres/ Razón Social"
	salesSrcExportacion = "Valor Facturado Exportación"
	salesSrcBIGravada   = "BI Gravada"
	salesSrcDsctoBI     = "Dscto BI"
	salesSrcIGV         = "IGV / IPM"
	salesSrcDsctoIGV    = "Dscto IGV / IPM"
	salesSrcExonerado   = "Mto Exonerado"
	salesSrcInafecto    = "Mto Inafecto"
	salesSrcISC         = "ISC"
	salesSrcBIGravIVAP  = "BI Grav IVAP"
	salesSrcIVAP        = "IVAP"
	salesSrcICBPER      = "ICBPER"
	salesSrcOtros       = "Otros Tributos"
	salesSrcMoneda      = "Moneda"
	salesSrcTipoCPMod   = "Tipo CP Modificado"
	salesSrcSerieMod    = "Serie CP Modificado"
	salesSrcNroMod      = "Nro CP Modificado"
)

// salesRename is the source-to-canonical rename table of the sales register.
// Derived columns (cui, destino, valor, igv, otros_cargos, tipo_operacion)
// are appended by the transform itself.
var salesRename = []FieldMap{
	{Source: salesSrcRuc, Canonical: "ruc"},
	{Source: salesSrcPeriodo, Canonical: "periodo_tributario"},
	{Source: salesSrcCAR, Canonical: "observaciones"},
	{Source: salesSrcFechaEmi, Canonical: "fecha_emision"},
	{Source: salesSrcFechaVcto, Canonical: "fecha_vencimiento"},
	{Source: salesSrcTipoCP, Canonical: "tipo_comprobante"},
	{Source: salesSrcSerie, Canonical: "numero_serie"},
	{Source: salesSrcNroInicial, Canonical: "numero_correlativo"},
	{Source: salesSrcNroFinal, Canonical: "numero_final"},
	{Source: salesSrcTipoDoc, Canonical: "tipo_documento"},
	{Source: salesSrcNroDoc, Canonical: "numero_documento"},
	{Source: salesSrcISC, Canonical: "isc"},
	{Source: salesSrcICBPER, Canonical: "icbp"},
	{Source: salesSrcMoneda, Canonical: "tipo_moneda"},
	{Source: salesSrcTipoCPMod, Canonical: "tipo_comprobante_modificado"},
	{Source: salesSrcSerieMod, Canonical: "numero_serie_modificado"},
	{Source: salesSrcNroMod, Canonical: "numero_correlativo_modificado"},
}

// SalesLedgerProcessor handles SIRE ventas bulk exports.
type SalesLedgerProcessor struct {
	logger *slog.Logger
}

// NewSalesLedgerProcessor creates the SIRE ventas processor.
func NewSalesLedgerProcessor(logger *slog.Logger) *SalesLedgerProcessor {
	return &SalesLedgerProcessor{logger: logger.With("processor", "sire_ventas")}
}

// Process extracts and transforms one sales register export. An export with a
// header but no voucher rows is a successful empty result, not an error.
func (p *SalesLedgerProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	rs, err := extract.ExtractDelimited(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("sire ventas %s: %w", name, err)
	}

	table := entity.NewTable(entity.EntitySales, entity.SalesColumns)
	reviewed := 0
	for _, rec := range rs.Records {
		row, keep := p.transformRecord(rec, rs.HasHeader(salesSrcCAR))
		if !keep {
			continue
		}
		if row.Destino == fiscal.DestinoRevision {
			reviewed++
		}
		table.Append(row.Row())
	}

	if table.Empty() {
		p.logger.Warn("archivo sin comprobantes", "archivo", name)
	}
	p.logger.Info("procesamiento exitoso", "archivo", name, "filas", table.Len(), "revision", reviewed)

	ds := entity.NewDataset()
	ds.Add(table)
	return ds, nil
}

// transformRecord converts one raw export record. keep=false drops the row
// (summary and filler lines fail the CAR length check).
func (p *SalesLedgerProcessor) transformRecord(rec extract.RawRecord, hasCAR bool) (entity.SalesRow, bool) {
	car := rec[salesSrcCAR]
	if hasCAR && len([]rune(car)) != carLength {
		return entity.SalesRow{}, false
	}

	tipoDoc := rec[salesSrcTipoDoc]
	nroDoc := rec[salesSrcNroDoc]
	if tipoDoc == "-" {
		tipoDoc = "0"
	}
	if tipoDoc == "0" && nroDoc == "-" {
		nroDoc = rec[salesSrcRazon]
	}

	amounts := fiscal.Amounts{
		TipoComprobante: numOrZero(rec[salesSrcTipoCP]),
		Exportacion:     numOrZero(rec[salesSrcExportacion]),
		BIGravada:       numOrZero(rec[salesSrcBIGravada]),
		DsctoBI:         numOrZero(rec[salesSrcDsctoBI]),
		IGV:             numOrZero(rec[salesSrcIGV]),
		DsctoIGV:        numOrZero(rec[salesSrcDsctoIGV]),
		Exonerado:       numOrZero(rec[salesSrcExonerado]),
		Inafecto:        numOrZero(rec[salesSrcInafecto]),
		BIGravIVAP:      numOrZero(rec[salesSrcBIGravIVAP]),
		IVAP:            numOrZero(rec[salesSrcIVAP]),
		OtrosTributos:   numOrZero(rec[salesSrcOtros]),
	}
	outcome := fiscal.Classify(amounts)
	if outcome.NeedsReview {
		car += fiscal.ReviewRemark
	}

	row := entity.SalesRow{
		Ruc:                int64OrNil(rec[salesSrcRuc]),
		PeriodoTributario:  periodOrNil(rec[salesSrcPeriodo]),
		FechaEmision:       dateOrNil(rec[salesSrcFechaEmi]),
		FechaVencimiento:   dateOrNil(rec[salesSrcFechaVcto]),
		TipoComprobante:    intOrNil(rec[salesSrcTipoCP]),
		NumeroSerie:        strOrNil(rec[salesSrcSerie]),
		NumeroCorrelativo:  strOrNil(rec[salesSrcNroInicial]),
		NumeroFinal:        intOrNil(rec[salesSrcNroFinal]),
		TipoDocumento:      strOrNil(tipoDoc),
		NumeroDocumento:    strOrNil(nroDoc),
		ISC:                round2(numOrZero(rec[salesSrcISC])),
		ICBP:               round2(numOrZero(rec[salesSrcICBPER])),
		TipoMoneda:         strOrNil(rec[salesSrcMoneda]),
		TipoCompModificado: intOrNil(rec[salesSrcTipoCPMod]),
		SerieModificada:    strOrNil(rec[salesSrcSerieMod]),
		NumeroModificado:   strOrNil(rec[salesSrcNroMod]),
		CUI: cui.Generate(
			rec[salesSrcRuc], rec[salesSrcTipoCP],
			rec[salesSrcSerie], rec[salesSrcNroInicial],
		),
		Destino:       outcome.Destino,
		Valor:         round2(outcome.Valor),
		IGV:           round2(outcome.IGV),
		OtrosCargos:   round2(outcome.OtrosCargos),
		TipoOperacion: outcome.TipoOperacion,
	}
	if hasCAR {
		obs := observationPrefix + car
		row.Observaciones = &obs
	}
	return row, true
}

// DBMappings returns the relational target of the sales register entity.
func (p *SalesLedgerProcessor) DBMappings() map[string]DBMapping {
	columns := make(map[string]string, len(entity.SalesColumns))
	for _, col := range entity.SalesColumns {
		columns[col] = col
	}
	return map[string]DBMapping{
		entity.EntitySales: {
			Schema:    "acc",
			Table:     "_5",
			KeyColumn: "cui",
			Columns:   columns,
		},
	}
}
