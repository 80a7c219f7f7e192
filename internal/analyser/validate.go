package analyser

import (
	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
)

// validateColumns checks every cross-reference a resolved column rule
// makes: reference table existence, output mandatoriness, and
// copy/join/value_source column existence.
func (a *analyser) validateColumns() error {
	for _, col := range a.columns {
		if refRule, ok := col.Rules["reference"].(ast.ReferenceRule); ok {
			if _, known := a.references[refRule.Name]; !known {
				return dslerr.NewUnknownReferenceError("column %q references unknown table %q", col.Name, refRule.Name)
			}
			if _, hasOutput := col.Rules["output"].(ast.OutputRule); !hasOutput {
				return dslerr.NewInvalidRuleError("column %q declares reference(%q) but no output label|value", col.Name, refRule.Name)
			}
		}

		if copyRule, ok := col.Rules["copy"].(ast.CopyRule); ok {
			if _, known := a.headerPos[copyRule.Column]; !known {
				return dslerr.NewUnknownColumnError("column %q copies unknown column %q", col.Name, copyRule.Column)
			}
		}

		if joinRule, ok := col.Rules["join"].(ast.JoinRule); ok {
			for _, c := range joinRule.Columns {
				if _, known := a.headerPos[c]; !known {
					return dslerr.NewUnknownColumnError("column %q joins unknown column %q", col.Name, c)
				}
			}
		}

		if vs, ok := col.Rules["value_source"].(ast.ValueSourceRule); ok && vs.Column != "" {
			if _, known := a.headerPos[vs.Column]; !known {
				return dslerr.NewUnknownColumnError("column %q has value_source %q which is not a header column", col.Name, vs.Column)
			}
		}

		if np, ok := col.Rules["null_probability"].(ast.NullProbabilityRule); ok {
			if np.P < 0 || np.P > 1 {
				return dslerr.NewInvalidRuleError("column %q null_probability %v is out of [0,1]", col.Name, np.P)
			}
		}
	}
	return nil
}

// precomputeReverseSources resolves, for every column with an
// argument-less value_source, the header position of the nearest
// column to its left declaring reference(k) with output label — so the
// generator never has to rescan the row at runtime.
func (a *analyser) precomputeReverseSources() {
	for i := range a.columns {
		col := &a.columns[i]
		vs, ok := col.Rules["value_source"].(ast.ValueSourceRule)
		if !ok {
			continue
		}
		if _, hasRef := col.Rules["reference"].(ast.ReferenceRule); !hasRef {
			continue
		}

		if vs.Column != "" {
			// Explicit form: the source column is already known and
			// validated by validateColumns; just cache its position.
			if pos, ok := a.headerPos[vs.Column]; ok {
				col.ReverseSourcePosition = pos
				col.HasReverseSource = true
			}
			continue
		}

		refRule := col.Rules["reference"].(ast.ReferenceRule)
		for j := col.Position - 1; j >= 0; j-- {
			cand := a.columns[j]
			candRef, ok := cand.Rules["reference"].(ast.ReferenceRule)
			if !ok || candRef.Name != refRule.Name {
				continue
			}
			out, ok := cand.Rules["output"].(ast.OutputRule)
			if !ok || out.Side != ast.OutputLabel {
				continue
			}
			col.ReverseSourcePosition = j
			col.HasReverseSource = true
			break
		}
	}
}
