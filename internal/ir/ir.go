// Package ir defines the analysed, type-checked Program representation
// that internal/analyser produces and internal/generate consumes: the
// output config, header, reference tables, and the flattened per-column
// rule set after selector resolution and last-writer-wins arbitration.
package ir

import (
	"strconv"

	"github.com/mitumame/mamegen/internal/ast"
)

// OutputType is the serialisation format the DSL's CONFIG.type selects.
type OutputType string

const (
	OutputCSV  OutputType = "CSV"
	OutputJSON OutputType = "JSON"
)

// Config is the analysed CONFIG section, with defaults applied.
type Config struct {
	Type           OutputType
	Count          int
	Reproducible   bool
	OutputEncoding string
	WithHeader     bool
	QuoteStrings   bool
	QuoteHeader    bool

	// OutputPath is set by the CLI collaborator, never by the DSL
	// source; internal/generate never reads it.
	OutputPath string
}

// ReferenceRow is one (label, value) entry of a reference table.
// Value is a string, int64, or float64.
type ReferenceRow struct {
	Label string
	Value any
}

// ReferenceTable is a named, ordered, immutable list of rows.
type ReferenceTable struct {
	Name string
	Rows []ReferenceRow
}

// ResolvedColumnRule is the single, flattened rule set for one header
// position, after selector resolution, class expansion, and
// last-writer-wins arbitration across every directive that touched
// this column.
type ResolvedColumnRule struct {
	Position int // 0-based
	Name     string
	Rules    map[string]ast.RuleEntry

	// ReverseSourcePosition caches, for a value_source rule with no
	// explicit column, the header position of the nearest column to
	// the left declaring reference(k) with output label, and for an
	// explicit value_source column, that column's position — precomputed
	// once at analysis time so the generator never re-scans the row.
	ReverseSourcePosition int
	HasReverseSource      bool
}

// Program is the fully analysed intermediate representation: the input
// to internal/generate.
type Program struct {
	Config     Config
	Header     []string
	References map[string]*ReferenceTable
	Columns    []ResolvedColumnRule // one per header position, in order
}

// Cell is one emitted value: a string, an int64, a float64, or NULL
// (IsNull set).
type Cell struct {
	IsNull bool
	String string
	Int    int64
	Float  float64
	Kind   CellKind
}

// CellKind discriminates which field of a Cell is meaningful.
type CellKind int

const (
	CellString CellKind = iota
	CellInt
	CellFloat
)

// Text renders the cell the way a reference lookup or join compares
// it: the empty string for NULL, otherwise its plain decimal/text form.
func (c Cell) Text() string {
	if c.IsNull {
		return ""
	}
	switch c.Kind {
	case CellInt:
		return strconv.FormatInt(c.Int, 10)
	case CellFloat:
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	default:
		return c.String
	}
}

// NullCell is the empty cell.
func NullCell() Cell { return Cell{IsNull: true} }

// StringCell wraps a string value.
func StringCell(s string) Cell { return Cell{Kind: CellString, String: s} }

// IntCell wraps an integer value.
func IntCell(n int64) Cell { return Cell{Kind: CellInt, Int: n} }

// FloatCell wraps a float value.
func FloatCell(f float64) Cell { return Cell{Kind: CellFloat, Float: f} }
