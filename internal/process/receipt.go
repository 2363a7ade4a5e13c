// =============================================================================
// SUNAT Document Parser - Receipt Processor (Boleta de Venta)
// =============================================================================
//
// Boletas arrive in the simplified internal layout: flat tags without UBL
// namespaces. The customer is a natural person identified by DNI, not RUC.
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

// ReceiptProcessor handles boletas de venta in the simplified layout.
type ReceiptProcessor struct {
	logger *slog.Logger
}

// NewReceiptProcessor creates the boleta processor.
func NewReceiptProcessor(logger *slog.Logger) *ReceiptProcessor {
	return &ReceiptProcessor{logger: logger.With("processor", "boleta")}
}

// Process extracts one boleta file into a single header row.
func (p *ReceiptProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	doc, err := extract.LoadXML(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("boleta %s: %w", name, err)
	}

	h := entity.Header{TipoDoc: string(classify.BoletaVenta)}
	h.Numero = optStr(doc.FindText(".//numeroDocumento"))
	h.FechaEmision = isoDateOrNil(doc.FindText(".//fechaEmision"))
	h.RucEmisor = optStr(doc.FindText(".//rucEmisor"))
	h.DniCliente = optStr(doc.FindText(".//dniCliente"))
	h.NombreCliente = optStr(doc.FindText(".//nombreCliente"))
	h.ImporteTotal = floatOrNil(doc.FindText(".//importeTotal"))
	h.CUI = simplifiedCUI(c, classify.BoletaVenta, h.RucEmisor, h.Numero)

	p.logger.Info("procesamiento exitoso", "archivo", name, "cui", entity.StrCell(h.CUI))
	return documentDataset([]entity.Header{h}, nil, nil, nil), nil
}

// DBMappings returns the relational targets of the boleta entities.
func (p *ReceiptProcessor) DBMappings() map[string]DBMapping {
	return documentDBMappings()
}

// simplifiedCUI derives the document identifier for the simplified layouts.
// The classified filename tokens are authoritative when present; otherwise the
// identifier is rebuilt from the document's own emitter RUC and number.
func simplifiedCUI(c classify.Classification, tag classify.TypeTag, ruc, numero *string) *string {
	if c.Tokens.RUC != "" && c.Tokens.Series != "" && c.Tokens.Correlative != "" {
		code := c.Tokens.DocCode
		if code == "" {
			code = docTypeCodes[tag]
		}
		if id := cui.Generate(c.Tokens.RUC, code, c.Tokens.Series, c.Tokens.Correlative); id != nil {
			return id
		}
	}
	return cui.FromNumber(deref(ruc), docTypeCodes[tag], deref(numero))
}
