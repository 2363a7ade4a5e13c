package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAppendPadsShortRows(t *testing.T) {
	table := NewTable(EntityLines, []string{"cui", "linea_id", "cantidad"})
	table.Append([]any{"abc"})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, "abc", table.Cell(0, "cui"))
	assert.Nil(t, table.Cell(0, "cantidad"))
}

func TestTableCellOutOfRange(t *testing.T) {
	table := NewTable(EntityLines, []string{"cui"})
	table.Append([]any{"abc"})

	assert.Nil(t, table.Cell(0, "no_existe"))
	assert.Nil(t, table.Cell(5, "cui"))
	assert.Equal(t, -1, table.ColumnIndex("no_existe"))
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"texto", "texto"},
		{42, "42"},
		{int64(20123456789), "20123456789"},
		{118.0, "118"},
		{18.5, "18.5"},
		{time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "2026-01-10"},
		{time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC), "2026-08-15 10:30:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatCell(c.in))
	}
}

func TestDatasetMergePreservesOrder(t *testing.T) {
	ds := NewDataset()

	first := NewTable(EntityHeaders, []string{"cui"})
	first.Append([]any{"a"})
	second := NewTable(EntityLines, []string{"cui"})
	second.Append([]any{"a"})
	ds.Add(first)
	ds.Add(second)

	more := NewTable(EntityHeaders, []string{"cui"})
	more.Append([]any{"b"})
	other := NewDataset()
	other.Add(more)
	ds.Merge(other)

	tables := ds.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, EntityHeaders, tables[0].Name)
	assert.Equal(t, EntityLines, tables[1].Name)
	assert.Equal(t, 2, tables[0].Len())
	assert.Equal(t, "b", tables[0].Cell(1, "cui"))
}

// A producer with a divergent column layout still lands its values in the
// right columns of the accumulated table.
func TestDatasetAddAlignsByColumnName(t *testing.T) {
	ds := NewDataset()

	fixed := NewTable(EntityPayrollTRA, []string{"Tipo Doc", "Nro Doc", "ruc"})
	fixed.Append([]any{"01", "44556677", "20123456789"})
	ds.Add(fixed)

	divergent := NewTable(EntityPayrollTRA, []string{"Nro Doc", "ruc", "extra"})
	divergent.Append([]any{"44556678", "20123456789", "x"})
	ds.Add(divergent)

	table, ok := ds.Table(EntityPayrollTRA)
	require.True(t, ok)
	require.Equal(t, 2, table.Len())
	assert.Nil(t, table.Cell(1, "Tipo Doc"))
	assert.Equal(t, "44556678", table.Cell(1, "Nro Doc"))
	assert.Equal(t, "20123456789", table.Cell(1, "ruc"))
}

func TestDatasetIgnoresEmptyTables(t *testing.T) {
	ds := NewDataset()
	ds.Add(NewTable(EntityHeaders, []string{"cui"}))
	ds.Add(nil)
	ds.Merge(nil)

	assert.True(t, ds.Empty())
	assert.Empty(t, ds.Tables())
}
