// =============================================================================
// SUNAT Document Parser - Dispatch Guide Processor (Guia de Remision)
// =============================================================================
//
// Guias carry logistics fields instead of a monetary breakdown: transfer date,
// consignee RUC and the origin/destination addresses. They never have lines or
// payment terms.
//
// =============================================================================

package process

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/extract"
)

// DispatchGuideProcessor handles guias de remision in the simplified layout.
type DispatchGuideProcessor struct {
	logger *slog.Logger
}

// NewDispatchGuideProcessor creates the guia de remision processor.
func NewDispatchGuideProcessor(logger *slog.Logger) *DispatchGuideProcessor {
	return &DispatchGuideProcessor{logger: logger.With("processor", "guia_remision")}
}

// Process extracts one dispatch guide into a single header row.
func (p *DispatchGuideProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	doc, err := extract.LoadXML(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("guia de remision %s: %w", name, err)
	}

	h := entity.Header{TipoDoc: string(classify.GuiaRemision)}
	h.Numero = optStr(doc.FindText(".//numeroDocumento"))
	h.FechaEmision = isoDateOrNil(doc.FindText(".//fechaEmision"))
	h.RucEmisor = optStr(doc.FindText(".//rucEmisor"))
	h.FechaTraslado = optStr(doc.FindText(".//fechaTraslado"))
	h.RucDestinatario = optStr(doc.FindText(".//rucDestinatario"))
	h.DireccionPartida = optStr(doc.FindText(".//direccionPartida"))
	h.DireccionLlegada = optStr(doc.FindText(".//direccionLlegada"))
	h.CUI = simplifiedCUI(c, classify.GuiaRemision, h.RucEmisor, h.Numero)

	p.logger.Info("procesamiento exitoso", "archivo", name, "cui", entity.StrCell(h.CUI))
	return documentDataset([]entity.Header{h}, nil, nil, nil), nil
}

// DBMappings returns the relational targets of the guia entities.
func (p *DispatchGuideProcessor) DBMappings() map[string]DBMapping {
	return documentDBMappings()
}
