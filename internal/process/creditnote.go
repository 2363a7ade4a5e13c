// =============================================================================
// SUNAT Document Parser - Credit Note Processor (Nota de Credito)
// =============================================================================
//
// Credit notes use the simplified layout plus a documentoReferencia tag naming
// the voucher they modify. Each reference becomes one row of the referencias
// entity, keyed to the note's header by CUI.
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

// CreditNoteProcessor handles notas de credito in the simplified layout.
type CreditNoteProcessor struct {
	logger *slog.Logger
}

// NewCreditNoteProcessor creates the nota de credito processor.
func NewCreditNoteProcessor(logger *slog.Logger) *CreditNoteProcessor {
	return &CreditNoteProcessor{logger: logger.With("processor", "nota_credito")}
}

// Process extracts one credit note into a header row plus its references.
func (p *CreditNoteProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	doc, err := extract.LoadXML(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("nota de credito %s: %w", name, err)
	}

	h := simplifiedNoteHeader(doc, c, classify.NotaCredito)
	refs := noteReferences(doc, h.CUI, string(classify.NotaCredito))

	p.logger.Info("procesamiento exitoso", "archivo", name, "cui", entity.StrCell(h.CUI), "referencias", len(refs))
	return documentDataset([]entity.Header{h}, nil, nil, refs), nil
}

// DBMappings returns the relational targets of the credit note entities.
func (p *CreditNoteProcessor) DBMappings() map[string]DBMapping {
	return documentDBMappings()
}

// simplifiedNoteHeader extracts the common header fields of the simplified
// nota layout.
func simplifiedNoteHeader(doc *extract.XMLDoc, c classify.Classification, tag classify.TypeTag) entity.Header {
	h := entity.Header{TipoDoc: string(tag)}
	h.Numero = optStr(doc.FindText(".//numeroDocumento"))
	h.FechaEmision = isoDateOrNil(doc.FindText(".//fechaEmision"))
	h.RucEmisor = optStr(doc.FindText(".//rucEmisor"))
	h.RucReceptor = optStr(doc.FindText(".//rucReceptor"))
	h.ImporteTotal = floatOrNil(doc.FindText(".//importeTotal"))
	h.CUI = simplifiedCUI(c, tag, h.RucEmisor, h.Numero)
	return h
}

// noteReferences collects every referenced voucher of a nota.
func noteReferences(doc *extract.XMLDoc, id *string, tipo string) []entity.Reference {
	var refs []entity.Reference
	for _, el := range doc.FindAll(".//documentoReferencia") {
		if ref, ok := extract.ElemText(el, "."); ok && ref != "" {
			refs = append(refs, entity.Reference{CUI: id, DocReferencia: &ref, TipoReferencia: tipo})
		}
	}
	return refs
}
