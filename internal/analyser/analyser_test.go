package analyser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/ir"
	"github.com/mitumame/mamegen/internal/lexer"
	"github.com/mitumame/mamegen/internal/parser"
)

func analyse(t *testing.T, src string) (*ir.Program, error) {
	t.Helper()
	sections, err := parser.Parse(lexer.New(src).Tokenize())
	require.NoError(t, err)
	return Analyse(sections)
}

func mustAnalyse(t *testing.T, src string) *ir.Program {
	t.Helper()
	prog, err := analyse(t, src)
	require.NoError(t, err)
	return prog
}

func TestAnalyseMinimalProgram(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG {
  count 5
}
HEADER {
  ["id"]
}
COLUMN_RULES {
  INDEX 1 {
    seq 1..100
    digits 4
  }
}
`)
	assert.Equal(t, 5, prog.Config.Count)
	assert.Equal(t, ir.OutputCSV, prog.Config.Type)
	assert.Equal(t, "utf-8", prog.Config.OutputEncoding)
	assert.Equal(t, []string{"id"}, prog.Header)
	require.Len(t, prog.Columns, 1)
	assert.Equal(t, ast.SeqRule{Start: 1, End: 100}, prog.Columns[0].Rules["seq"])
}

func TestAnalyseConfigLastWriterWins(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG { count 1 }
CONFIG { count 9 }
HEADER { ["id"] }
COLUMN_RULES { INDEX 1 { fixed "x" } }
`)
	assert.Equal(t, 9, prog.Config.Count)
}

func TestAnalyseColumnRuleLastWriterWins(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG { count 1 }
HEADER { ["id"] }
COLUMN_RULES {
  INDEX 1 { seq 1..10 }
  INDEX 1 { fixed "overridden" }
}
`)
	require.Len(t, prog.Columns, 1)
	_, hasSeq := prog.Columns[0].Rules["seq"]
	assert.False(t, hasSeq)
	assert.Equal(t, ast.FixedRule{Value: "overridden"}, prog.Columns[0].Rules["fixed"])
}

func TestAnalyseDuplicateHeaderNameFirstOccurrenceWins(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG { count 1 }
HEADER { ["id", "id"] }
COLUMN_RULES {
  INDEX 1 { fixed "a" }
  INDEX 2 { fixed "b" }
}
`)
	require.Len(t, prog.Header, 2)
	require.Len(t, prog.Columns, 2)
	// LABEL "id" should resolve to the first occurrence only.
	prog2 := mustAnalyse(t, `
CONFIG { count 1 }
HEADER { ["id", "id"] }
COLUMN_RULES {
  LABEL "id" { fixed "first" }
}
`)
	assert.Equal(t, ast.FixedRule{Value: "first"}, prog2.Columns[0].Rules["fixed"])
	_, hasFixed := prog2.Columns[1].Rules["fixed"]
	assert.False(t, hasFixed)
}

func TestAnalyseClassExpansion(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG { count 1 }
HEADER { ["id"] }
CLASS "std" {
  seq 1..10
  digits 3
}
COLUMN_RULES {
  INDEX 1 { class "std" }
}
`)
	require.Len(t, prog.Columns, 1)
	assert.Equal(t, ast.SeqRule{Start: 1, End: 10}, prog.Columns[0].Rules["seq"])
	assert.Equal(t, ast.DigitsRule{Width: 3}, prog.Columns[0].Rules["digits"])
}

func TestAnalyseReferenceColumnRequiresOutput(t *testing.T) {
	_, err := analyse(t, `
CONFIG { count 1 }
HEADER { ["country"] }
REFERENCE "countries" { "JP" 1 }
COLUMN_RULES {
  INDEX 1 { reference "countries" }
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
}

func TestAnalyseUnknownReferenceTable(t *testing.T) {
	_, err := analyse(t, `
CONFIG { count 1 }
HEADER { ["country"] }
COLUMN_RULES {
  INDEX 1 {
    reference "missing"
    output label
  }
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown table")
}

func TestAnalyseEmptyReferenceTableIsError(t *testing.T) {
	_, err := analyse(t, `
CONFIG { count 1 }
HEADER { ["id"] }
REFERENCE "empty_table" {
}
COLUMN_RULES {
  INDEX 1 { fixed "x" }
}
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestAnalyseLabelRangeSelector(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG { count 1 }
HEADER { ["a", "b", "c", "d"] }
COLUMN_RULES {
  LABELS "b".."c" { fixed "mid" }
}
`)
	assert.Equal(t, ast.FixedRule{Value: "mid"}, prog.Columns[1].Rules["fixed"])
	assert.Equal(t, ast.FixedRule{Value: "mid"}, prog.Columns[2].Rules["fixed"])
	_, has := prog.Columns[0].Rules["fixed"]
	assert.False(t, has)
}

func TestAnalyseInvertedLabelRangeIsError(t *testing.T) {
	_, err := analyse(t, `
CONFIG { count 1 }
HEADER { ["a", "b", "c"] }
COLUMN_RULES {
  LABELS "c".."a" { fixed "x" }
}
`)
	require.Error(t, err)
}

func TestAnalysePrecomputesImplicitReverseSource(t *testing.T) {
	prog := mustAnalyse(t, `
CONFIG { count 1 }
HEADER { ["country_label", "country_value"] }
REFERENCE "countries" { "JP" 1 }
COLUMN_RULES {
  INDEX 1 {
    reference "countries"
    output label
  }
  INDEX 2 {
    reference "countries"
    output value
    value_source
  }
}
`)
	require.True(t, prog.Columns[1].HasReverseSource)
	assert.Equal(t, 0, prog.Columns[1].ReverseSourcePosition)
}

func TestAnalyseMissingCountIsError(t *testing.T) {
	_, err := analyse(t, `
CONFIG { type CSV }
HEADER { ["id"] }
COLUMN_RULES { INDEX 1 { fixed "x" } }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")
}
