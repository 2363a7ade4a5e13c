package entity

// Dataset accumulates the tables produced for a batch, keyed by entity name.
// Insertion order is preserved: the order in which entities first appear is
// the order sinks emit them, and rows merged into an existing entity keep
// file-discovery order.
type Dataset struct {
	order  []string
	tables map[string]*Table
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{tables: make(map[string]*Table)}
}

// Add merges a table into the dataset. The first table seen for an entity
// fixes the column layout; later rows are aligned by column name so that a
// producer with a divergent layout still lands its values in the right
// columns (absent columns fill with nil).
func (d *Dataset) Add(t *Table) {
	if t == nil || t.Empty() {
		return
	}

	existing, ok := d.tables[t.Name]
	if !ok {
		copied := NewTable(t.Name, t.Columns)
		copied.Rows = append(copied.Rows, t.Rows...)
		d.tables[t.Name] = copied
		d.order = append(d.order, t.Name)
		return
	}

	if sameColumns(existing.Columns, t.Columns) {
		existing.Rows = append(existing.Rows, t.Rows...)
		return
	}

	// Layout mismatch: align incoming cells by column name.
	indexes := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		indexes[i] = existing.ColumnIndex(c)
	}
	for _, row := range t.Rows {
		aligned := make([]any, len(existing.Columns))
		for i, cell := range row {
			if i < len(indexes) && indexes[i] >= 0 {
				aligned[indexes[i]] = cell
			}
		}
		existing.Rows = append(existing.Rows, aligned)
	}
}

// Merge folds every table of another dataset into this one.
func (d *Dataset) Merge(other *Dataset) {
	if other == nil {
		return
	}
	for _, t := range other.Tables() {
		d.Add(t)
	}
}

// Table returns the table for an entity name.
func (d *Dataset) Table(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Tables returns all tables in insertion order.
func (d *Dataset) Tables() []*Table {
	out := make([]*Table, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tables[name])
	}
	return out
}

// Empty reports whether no entity holds any rows.
func (d *Dataset) Empty() bool {
	for _, t := range d.tables {
		if !t.Empty() {
			return false
		}
	}
	return true
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
