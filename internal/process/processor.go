// =============================================================================
// SUNAT Document Parser - Processor Registry
// =============================================================================
//
// Document types form a closed set: each supported TypeTag is bound to one
// Processor implementation through the registry built here. Dispatch is a map
// lookup, the total set of supported types is enumerable, and a classified
// type without a registered processor is counted as unsupported rather than
// as an error.
//
// Every processor also owns the database mapping of the entities it emits
// (target schema, table and column renames). The pipeline never hard-codes
// storage layout.
//
// =============================================================================

package process

import (
	"log/slog"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
)

// Processor turns one classified source file into canonical entity tables.
type Processor interface {
	// Process extracts and transforms a single file. A structural failure
	// returns a nil dataset and an error; a well-formed file with no data
	// rows returns an empty dataset and no error.
	Process(path string, c classify.Classification) (*entity.Dataset, error)

	// DBMappings returns the relational mapping for every entity this
	// processor can emit, keyed by entity name.
	DBMappings() map[string]DBMapping
}

// DBMapping resolves one entity to its target schema, table and columns.
type DBMapping struct {
	Schema string
	Table  string

	// Columns maps canonical column names to database column names. Only
	// mapped columns are inserted.
	Columns map[string]string

	// KeyColumn, when set, names the database column used for idempotent
	// inserts: rows whose key already exists in the target are skipped.
	KeyColumn string
}

// FieldMap is one entry of a per-type rename table: a source label as it
// appears in the artifact, bound to its canonical column name.
type FieldMap struct {
	Source    string
	Canonical string
}

// Registry binds each supported document type to its processor.
type Registry struct {
	procs map[classify.TypeTag]Processor
}

// NewRegistry builds the full processor set.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{procs: map[classify.TypeTag]Processor{
		classify.Factura:      NewInvoiceProcessor(logger),
		classify.BoletaVenta:  NewReceiptProcessor(logger),
		classify.NotaCredito:  NewCreditNoteProcessor(logger),
		classify.NotaDebito:   NewDebitNoteProcessor(logger),
		classify.GuiaRemision: NewDispatchGuideProcessor(logger),
		classify.SireVentas:   NewSalesLedgerProcessor(logger),
		classify.SireCompras:  NewPurchaseLedgerProcessor(logger),
		classify.Planilla:     NewPayrollProcessor(logger),
	}}
}

// Lookup returns the processor registered for a type tag.
func (r *Registry) Lookup(tag classify.TypeTag) (Processor, bool) {
	p, ok := r.procs[tag]
	return p, ok
}

// Supported returns every registered type tag.
func (r *Registry) Supported() []classify.TypeTag {
	tags := make([]classify.TypeTag, 0, len(r.procs))
	for tag := range r.procs {
		tags = append(tags, tag)
	}
	return tags
}

// DBMappings merges the mapping tables of every registered processor. Later
// registrations never overwrite earlier ones because entity names are owned
// by exactly one processor family.
func (r *Registry) DBMappings() map[string]DBMapping {
	merged := make(map[string]DBMapping)
	for _, p := range r.procs {
		for name, m := range p.DBMappings() {
			if _, exists := merged[name]; !exists {
				merged[name] = m
			}
		}
	}
	return merged
}

// docTypeCodes maps each XML document type to its SUNAT numeric code, used
// when the identifier has to be derived without a classified filename token.
var docTypeCodes = map[classify.TypeTag]string{
	classify.Factura:      "01",
	classify.BoletaVenta:  "03",
	classify.NotaCredito:  "07",
	classify.NotaDebito:   "08",
	classify.GuiaRemision: "09",
}
