// =============================================================================
// SUNAT Document Parser - Debit Note Processor (Nota de Debito)
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

// DebitNoteProcessor handles notas de debito in the simplified layout. Same
// shape as the credit note, plus the motivo tag carrying the charge reason.
type DebitNoteProcessor struct {
	logger *slog.Logger
}

// NewDebitNoteProcessor creates the nota de debito processor.
func NewDebitNoteProcessor(logger *slog.Logger) *DebitNoteProcessor {
	return &DebitNoteProcessor{logger: logger.With("processor", "nota_debito")}
}

// Process extracts one debit note into a header row plus its references.
func (p *DebitNoteProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	doc, err := extract.LoadXML(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("nota de debito %s: %w", name, err)
	}

	h := simplifiedNoteHeader(doc, c, classify.NotaDebito)
	h.Motivo = optStr(doc.FindText(".//motivo"))
	refs := noteReferences(doc, h.CUI, string(classify.NotaDebito))

	p.logger.Info("procesamiento exitoso", "archivo", name, "cui", entity.StrCell(h.CUI), "referencias", len(refs))
	return documentDataset([]entity.Header{h}, nil, nil, refs), nil
}

// DBMappings returns the relational targets of the debit note entities.
func (p *DebitNoteProcessor) DBMappings() map[string]DBMapping {
	return documentDBMappings()
}
