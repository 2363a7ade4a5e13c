// =============================================================================
// SUNAT Document Parser - Mapping Validation
// =============================================================================
//
// The rename tables and relational mappings are plain data, so drift between
// them and the canonical column lists only surfaces at sink time. Validate
// cross-checks them ahead of a run: every canonical name a rename table
// produces and every canonical column a document mapping reads must exist in
// the corresponding entity layout.
//
// Payroll mappings are exempt from the column check: their source labels are
// report header labels that vary by export, not canonical columns.
//
// =============================================================================

package process

import (
	"fmt"

	"github.com/raknaros/sunat-parser/internal/entity"
)

// Validate cross-checks the static mapping tables. It returns one error per
// inconsistency found, or nil when everything lines up.
func Validate() []error {
	var problems []error

	problems = append(problems, checkRename("sire_ventas", salesRename, entity.SalesColumns)...)
	problems = append(problems, checkRename("sire_compras", purchaseRename, entity.PurchaseColumns)...)

	layouts := map[string][]string{
		entity.EntityHeaders:    entity.HeaderColumns,
		entity.EntityLines:      entity.LineColumns,
		entity.EntityPayments:   entity.PaymentColumns,
		entity.EntityReferences: entity.ReferenceColumns,
		entity.EntitySales:      entity.SalesColumns,
		entity.EntityPurchases:  entity.PurchaseColumns,
	}
	for name, mapping := range documentDBMappings() {
		problems = append(problems, checkMapping(name, mapping, layouts[name])...)
	}
	for _, name := range []string{entity.EntitySales, entity.EntityPurchases} {
		var mapping DBMapping
		switch name {
		case entity.EntitySales:
			mapping = (&SalesLedgerProcessor{}).DBMappings()[name]
		case entity.EntityPurchases:
			mapping = (&PurchaseLedgerProcessor{}).DBMappings()[name]
		}
		problems = append(problems, checkMapping(name, mapping, layouts[name])...)
	}

	return problems
}

// checkRename verifies that every canonical name of a rename table exists in
// the entity layout and that no source label is bound twice.
func checkRename(name string, renames []FieldMap, columns []string) []error {
	var problems []error
	seen := make(map[string]bool, len(renames))
	for _, fm := range renames {
		if seen[fm.Source] {
			problems = append(problems, fmt.Errorf("%s: source label %q mapped twice", name, fm.Source))
		}
		seen[fm.Source] = true
		if !contains(columns, fm.Canonical) {
			problems = append(problems, fmt.Errorf("%s: rename target %q is not a canonical column", name, fm.Canonical))
		}
	}
	return problems
}

// checkMapping verifies that a relational mapping only reads canonical
// columns and that its key column is one of them.
func checkMapping(name string, mapping DBMapping, columns []string) []error {
	var problems []error
	if mapping.Schema == "" || mapping.Table == "" {
		problems = append(problems, fmt.Errorf("%s: mapping is missing its schema or table", name))
	}
	for canonical := range mapping.Columns {
		if !contains(columns, canonical) {
			problems = append(problems, fmt.Errorf("%s: mapping reads %q which is not a canonical column", name, canonical))
		}
	}
	if mapping.KeyColumn != "" {
		if _, ok := mapping.Columns[mapping.KeyColumn]; !ok {
			problems = append(problems, fmt.Errorf("%s: key column %q is not part of the mapping", name, mapping.KeyColumn))
		}
	}
	return problems
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
