// =============================================================================
// SUNAT Document Parser - Tabular Result Model
// =============================================================================
//
// A Table is the currency every pipeline stage trades in once a document has
// been transformed: an entity name, an ordered column list and typed rows.
// Cells are restricted to nil (absent value), string, int, int64, float64 and
// time.Time so that every sink can format them without reflection surprises.
//
// =============================================================================

package entity

import (
	"fmt"
	"strconv"
	"time"
)

// Entity names produced by the pipeline. A batch only emits the entities that
// actually occurred in at least one file.
const (
	EntityHeaders    = "cabeceras"
	EntityLines      = "lineas"
	EntityPayments   = "pagos"
	EntityReferences = "referencias"
	EntitySales      = "sire_ventas"
	EntityPurchases  = "sire_compras"
	EntityPayrollTRA = "planilla_tra"
	EntityPayrollIDE = "planilla_ide"
	EntityPayrollSSA = "planilla_ssa"
)

// Table holds the rows produced for a single entity name.
type Table struct {
	// Name is the entity name (one of the Entity* constants).
	Name string

	// Columns is the ordered list of canonical column names.
	Columns []string

	// Rows contains one typed cell per column. A nil cell is an absent value
	// and is rendered as empty (CSV/XLSX) or NULL (database).
	Rows [][]any
}

// NewTable creates an empty table for an entity.
func NewTable(name string, columns []string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Append adds a single row. Rows shorter than the column list are padded with
// nil cells so downstream indexing stays safe.
func (t *Table) Append(row []any) {
	for len(row) < len(t.Columns) {
		row = append(row, nil)
	}
	t.Rows = append(t.Rows, row)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column, or -1 if it does not exist.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name). Missing columns read as nil.
func (t *Table) Cell(row int, column string) any {
	i := t.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][i]
}

// FormatCell renders a cell value for text output. Dates render as
// YYYY-MM-DD; timestamps that carry a time of day keep it.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		if c.Hour() == 0 && c.Minute() == 0 && c.Second() == 0 {
			return c.Format("2006-01-02")
		}
		return c.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(c)
	}
}
