// =============================================================================
// SUNAT Document Parser - Invoice Processor (Factura)
// =============================================================================
//
// Extracts a UBL invoice into Header, Line and PaymentTerm entities. Lookups
// use the safe path variants: a missing element leaves the canonical field
// absent instead of failing the document. Only a malformed payload fails the
// file.
//
// Tax subtotals are keyed by the SUNAT tax scheme code:
//   1000 -> IGV, 2000 -> ISC, 9999 -> other taxes.
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

// SUNAT tax scheme codes of a UBL TaxSubtotal.
const (
	taxSchemeIGV   = "1000"
	taxSchemeISC   = "2000"
	taxSchemeOther = "9999"
)

// InvoiceProcessor handles signed UBL facturas.
type InvoiceProcessor struct {
	logger *slog.Logger
}

// NewInvoiceProcessor creates the factura processor.
func NewInvoiceProcessor(logger *slog.Logger) *InvoiceProcessor {
	return &InvoiceProcessor{logger: logger.With("processor", "factura")}
}

// Process extracts one invoice file into canonical tables.
func (p *InvoiceProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	doc, err := extract.LoadXML(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("factura %s: %w", name, err)
	}

	header := p.extractHeader(doc)
	id := header.CUI

	var lines []entity.Line
	for _, el := range doc.FindAll(".//cac:InvoiceLine") {
		lines = append(lines, extractLine(el, id))
	}

	var payments []entity.PaymentTerm
	for _, el := range doc.FindAll(".//cac:PaymentTerms") {
		payments = append(payments, extractPaymentTerm(el, id))
	}

	p.logger.Info("procesamiento exitoso", "archivo", name, "cui", entity.StrCell(id), "lineas", len(lines))
	return documentDataset([]entity.Header{header}, lines, payments, nil), nil
}

func (p *InvoiceProcessor) extractHeader(doc *extract.XMLDoc) entity.Header {
	h := entity.Header{TipoDoc: string(classify.Factura)}

	h.Numero = optStr(doc.FindText(".//cbc:ID"))
	h.FechaEmision = isoDateOrNil(doc.FindText(".//cbc:IssueDate"))

	if v, ok := doc.FindAttr(".//cbc:DocumentCurrencyCode", "currencyID"); ok {
		h.Moneda = strOrNil(v)
	} else {
		h.Moneda = optStr(doc.FindText(".//cbc:DocumentCurrencyCode"))
	}

	if supplier := doc.Find(".//cac:AccountingSupplierParty"); supplier != nil {
		h.RucEmisor = optStr(extract.ElemText(supplier, ".//cbc:ID"))
		h.NombreEmisor = optStr(extract.ElemText(supplier, ".//cac:Party/cac:PartyLegalEntity/cbc:RegistrationName"))
	}
	if customer := doc.Find(".//cac:AccountingCustomerParty"); customer != nil {
		h.RucReceptor = optStr(extract.ElemText(customer, ".//cbc:ID"))
		h.NombreReceptor = optStr(extract.ElemText(customer, ".//cac:Party/cac:PartyLegalEntity/cbc:RegistrationName"))
	}
	if monetary := doc.Find(".//cac:LegalMonetaryTotal"); monetary != nil {
		h.ImporteTotal = floatOrNil(extract.ElemText(monetary, ".//cbc:PayableAmount"))
	}

	if taxTotal := doc.Find(".//cac:TaxTotal"); taxTotal != nil {
		for _, sub := range taxTotal.FindElements(".//cac:TaxSubtotal") {
			code, ok := extract.ElemText(sub, ".//cac:TaxCategory/cac:TaxScheme/cbc:ID")
			if !ok {
				continue
			}
			amount := floatOrNil(extract.ElemText(sub, ".//cbc:TaxAmount"))
			switch code {
			case taxSchemeIGV:
				h.TotalIGV = amount
			case taxSchemeISC:
				h.TotalISC = amount
			case taxSchemeOther:
				h.TotalOtrosTributos = amount
			}
		}
	}

	typeCode, _ := doc.FindText(".//cbc:InvoiceTypeCode")
	h.CUI = cui.FromNumber(deref(h.RucEmisor), typeCode, deref(h.Numero))
	if h.CUI == nil {
		p.logger.Warn("no se pudo generar CUI", "numero", entity.StrCell(h.Numero))
	}
	return h
}

// DBMappings returns the relational targets of the invoice entities.
func (p *InvoiceProcessor) DBMappings() map[string]DBMapping {
	return documentDBMappings()
}
