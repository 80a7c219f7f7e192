// Package analyser turns a parsed section tree (internal/ast) into the
// analysed Program IR (internal/ir): it merges repeated sections,
// resolves selectors against the header, expands class references,
// flattens per-column rules with last-writer-wins arbitration, and
// validates every cross-reference. It uses a chained
// one-method-per-concern style: Analyse runs each step in turn and
// returns the first error.
package analyser

import (
	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/ir"
)

// analyser carries the working state across the analysis steps.
type analyser struct {
	sections []ast.Section

	config     ir.Config
	header     []string
	headerPos  map[string]int // first occurrence wins
	references map[string]*ir.ReferenceTable
	classes    map[string]ast.RuleBlock

	columns []ir.ResolvedColumnRule
}

// Analyse builds the Program IR from a parsed section tree.
func Analyse(sections []ast.Section) (*ir.Program, error) {
	a := &analyser{sections: sections}

	if err := a.mergeConfig(); err != nil {
		return nil, err
	}
	if err := a.mergeHeader(); err != nil {
		return nil, err
	}
	if err := a.mergeReferences(); err != nil {
		return nil, err
	}
	if err := a.mergeClasses(); err != nil {
		return nil, err
	}
	if err := a.flattenColumnRules(); err != nil {
		return nil, err
	}
	if err := a.validateColumns(); err != nil {
		return nil, err
	}
	a.precomputeReverseSources()

	return &ir.Program{
		Config:     a.config,
		Header:     a.header,
		References: a.references,
		Columns:    a.columns,
	}, nil
}
