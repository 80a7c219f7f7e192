// Package reference implements the indexed, immutable reference-table
// store the row generator joins against: per-table forward rows plus
// label and value inverse indices, built once and read-only thereafter.
package reference

import (
	"fmt"
	"math/rand/v2"

	"github.com/mitumame/mamegen/internal/ir"
)

// Row is one (label, value) entry of a reference table.
type Row struct {
	Label string
	Value any
}

// Table is one named reference table with its inverse indices.
type Table struct {
	Name string
	Rows []Row

	byLabel map[string][]int
	byValue map[string][]int
}

// Store holds every reference table declared in a Program, keyed by
// name. It is built once after analysis and never mutated afterward.
type Store struct {
	tables map[string]*Table
}

// NewStore builds a Store from the analysed reference tables, indexing
// each table's rows by label and by value.
func NewStore(tables map[string]*ir.ReferenceTable) *Store {
	s := &Store{tables: make(map[string]*Table, len(tables))}
	for name, t := range tables {
		tbl := &Table{
			Name:    name,
			byLabel: map[string][]int{},
			byValue: map[string][]int{},
		}
		for i, row := range t.Rows {
			tbl.Rows = append(tbl.Rows, Row{Label: row.Label, Value: row.Value})
			tbl.byLabel[row.Label] = append(tbl.byLabel[row.Label], i)
			tbl.byValue[valueKey(row.Value)] = append(tbl.byValue[valueKey(row.Value)], i)
		}
		s.tables[name] = tbl
	}
	return s
}

func valueKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Table returns the named reference table, or nil if it isn't known.
func (s *Store) Table(name string) *Table {
	return s.tables[name]
}

// PickRow draws a uniformly random row index from the table using rng.
// The caller must have already checked the table exists and is
// non-empty (guaranteed by the analyser).
func (t *Table) PickRow(rng *rand.Rand) int {
	return rng.IntN(len(t.Rows))
}

// RowByLabel returns the index of the first row whose label equals
// label, or -1 if none matches.
func (t *Table) RowByLabel(label string) int {
	idx, ok := t.byLabel[label]
	if !ok || len(idx) == 0 {
		return -1
	}
	return idx[0]
}

// RowByValue returns the index of the first row whose value equals the
// string form of value, or -1 if none matches.
func (t *Table) RowByValue(value string) int {
	idx, ok := t.byValue[value]
	if !ok || len(idx) == 0 {
		return -1
	}
	return idx[0]
}
