package types

import "github.com/yachtsql/yachtsql/yerrors"

// Table is an ordered sequence of columns of equal length sharing one
// schema (spec.md section 3). Row reordering produces a new Table;
// existing Tables are never mutated by a query once handed downstream,
// matching the plan immutability contract of spec.md section 3.
type Table struct {
	Schema  Schema
	Columns []*Column
}

// NewTable builds an empty table for schema, one empty column per
// field.
func NewTable(schema Schema) *Table {
	cols := make([]*Column, len(schema))
	for i, f := range schema {
		cols[i] = NewColumn(f.Type)
	}
	return &Table{Schema: schema, Columns: cols}
}

// NumRows returns the table's row count, taken from the first column;
// a zero-column table has zero rows.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Row materializes row i as a slice of Values, one per column.
func (t *Table) Row(i int) ([]Value, error) {
	row := make([]Value, len(t.Columns))
	for c, col := range t.Columns {
		v, err := col.Get(i)
		if err != nil {
			return nil, err
		}
		row[c] = v
	}
	return row, nil
}

// AppendRow pushes one value onto every column; len(row) must equal
// len(t.Columns).
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.Columns) {
		return yerrors.Internal.New("row arity does not match table schema")
	}
	for c, v := range row {
		if err := t.Columns[c].Push(v); err != nil {
			return err
		}
	}
	return nil
}

// Gather builds a new Table containing the rows at indices, in order
// (used by Sort, TopN, Join, and gap-fill materialization).
func (t *Table) Gather(indices []int) (*Table, error) {
	out := NewTable(t.Schema)
	for i, col := range t.Columns {
		g, err := col.GatherByIndices(indices)
		if err != nil {
			return nil, err
		}
		out.Columns[i] = g
	}
	return out, nil
}
