package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/lexer"
)

func parse(t *testing.T, src string) []ast.Section {
	t.Helper()
	sections, err := Parse(lexer.New(src).Tokenize())
	require.NoError(t, err)
	return sections
}

func TestParseConfigSection(t *testing.T) {
	sections := parse(t, `
CONFIG {
  type CSV
  count 10
  reproducible true
}
`)
	require.Len(t, sections, 1)
	cfg, ok := sections[0].(*ast.ConfigSection)
	require.True(t, ok)
	require.Len(t, cfg.Pairs, 3)
	assert.Equal(t, "type", cfg.Pairs[0].Key)
	assert.Equal(t, "CSV", cfg.Pairs[0].Value)
	assert.Equal(t, "count", cfg.Pairs[1].Key)
	assert.Equal(t, "10", cfg.Pairs[1].Value)
}

func TestParseHeaderSection(t *testing.T) {
	sections := parse(t, `
HEADER {
  ["id", "name", "email"]
}
`)
	require.Len(t, sections, 1)
	hdr, ok := sections[0].(*ast.HeaderSection)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name", "email"}, hdr.Names)
}

func TestParseReferenceSection(t *testing.T) {
	sections := parse(t, `
REFERENCE "countries" {
  "JP" 1
  "US" 2.5
  "FR" "eur"
}
`)
	require.Len(t, sections, 1)
	ref, ok := sections[0].(*ast.ReferenceSection)
	require.True(t, ok)
	assert.Equal(t, "countries", ref.Name)
	require.Len(t, ref.Rows, 3)
	assert.Equal(t, int64(1), ref.Rows[0].Value)
	assert.Equal(t, 2.5, ref.Rows[1].Value)
	assert.Equal(t, "eur", ref.Rows[2].Value)
}

func TestParseColumnRulesWithSelectorsAndRules(t *testing.T) {
	sections := parse(t, `
COLUMN_RULES {
  INDEX 1 {
    seq 1..100
    digits 4
  }
  LABELS ["name", "email"] {
    charset alphabet
    length 12
  }
  INDICES 2..3 {
    allow_null true
    null_probability 0.5
  }
}
`)
	require.Len(t, sections, 1)
	sec, ok := sections[0].(*ast.ColumnRulesSection)
	require.True(t, ok)
	require.Len(t, sec.Entries, 3)

	assert.Equal(t, ast.IndexSelector{Index: 1}, sec.Entries[0].Selector)
	require.Len(t, sec.Entries[0].Body, 2)
	assert.Equal(t, ast.SeqRule{Start: 1, End: 100}, sec.Entries[0].Body[0])
	assert.Equal(t, ast.DigitsRule{Width: 4}, sec.Entries[0].Body[1])

	assert.Equal(t, ast.LabelListSelector{Names: []string{"name", "email"}}, sec.Entries[1].Selector)

	assert.Equal(t, ast.IndexRangeSelector{From: 2, To: 3}, sec.Entries[2].Selector)
	assert.Equal(t, ast.NullProbabilityRule{P: 0.5}, sec.Entries[2].Body[1])
}

func TestParseClassSection(t *testing.T) {
	sections := parse(t, `
CLASS "std_id" {
  seq 1..1000
  digits 6
}
`)
	require.Len(t, sections, 1)
	cls, ok := sections[0].(*ast.ClassSection)
	require.True(t, ok)
	assert.Equal(t, "std_id", cls.Name)
	require.Len(t, cls.Body, 2)
}

func TestParseRejectsOpenSeqRange(t *testing.T) {
	_, err := Parse(lexer.New(`
COLUMN_RULES {
  INDEX 1 {
    seq 1..
  }
}
`).Tokenize())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open range is not allowed")
}

func TestParseRejectsMultipleRulesPerLine(t *testing.T) {
	_, err := Parse(lexer.New(`
COLUMN_RULES {
  INDEX 1 {
    seq 1..10 digits 4
  }
}
`).Tokenize())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one rule is allowed per line")
}

func TestParseRejectsBareSymbolInConfig(t *testing.T) {
	_, err := Parse(lexer.New(`
CONFIG {
  count: 10
}
`).Tokenize())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not allowed here")
}

func TestParseRejectsInvertedIndexRange(t *testing.T) {
	_, err := Parse(lexer.New(`
COLUMN_RULES {
  INDICES 5..2 {
    fixed "x"
  }
}
`).Tokenize())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverted")
}

func TestParseRejectsUnquotedReferenceName(t *testing.T) {
	_, err := Parse(lexer.New(`
REFERENCE countries {
  "JP" 1
}
`).Tokenize())
	require.Error(t, err)
}
