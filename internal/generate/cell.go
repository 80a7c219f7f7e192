package generate

import (
	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
	"github.com/mitumame/mamegen/internal/ir"
	"github.com/mitumame/mamegen/internal/reference"
)

// evalColumn computes one cell, honouring NULL policy, reference locks,
// and reverse lookups, in that order.
func (g *Generator) evalColumn(col *ir.ResolvedColumnRule, buf []ir.Cell, lock map[string]int) (ir.Cell, error) {
	if g.drawsNull(col) {
		return ir.NullCell(), nil
	}

	if refRule, ok := col.Rules["reference"].(ast.ReferenceRule); ok {
		return g.evalReferenceColumn(col, refRule, buf, lock)
	}

	return g.evalValueRule(col, buf)
}

// drawsNull consults allow_null/null_probability and, if eligible,
// makes the null-or-not draw from the shared RNG.
func (g *Generator) drawsNull(col *ir.ResolvedColumnRule) bool {
	allow, ok := col.Rules["allow_null"].(ast.AllowNullRule)
	if !ok || !allow.Allow {
		return false
	}
	prob := 0.0
	if np, ok := col.Rules["null_probability"].(ast.NullProbabilityRule); ok {
		prob = np.P
	}
	if prob <= 0 {
		return false
	}
	return g.rng.Float64() < prob
}

func (g *Generator) allowsNull(col *ir.ResolvedColumnRule) bool {
	allow, ok := col.Rules["allow_null"].(ast.AllowNullRule)
	return ok && allow.Allow
}

// evalReferenceColumn implements synchronous locking and both reverse
// lookup modes.
func (g *Generator) evalReferenceColumn(col *ir.ResolvedColumnRule, refRule ast.ReferenceRule, buf []ir.Cell, lock map[string]int) (ir.Cell, error) {
	table := g.store.Table(refRule.Name)
	outRule, _ := col.Rules["output"].(ast.OutputRule)

	vsRule, isReverse := col.Rules["value_source"].(ast.ValueSourceRule)
	if !isReverse {
		idx, locked := lock[refRule.Name]
		if !locked {
			idx = table.PickRow(g.rng)
			lock[refRule.Name] = idx
		}
		return outputCell(table.Rows[idx], outRule.Side), nil
	}

	if !col.HasReverseSource {
		return g.emptyOrErr(col)
	}
	source := buf[col.ReverseSourcePosition]
	sourceText := source.Text()
	if source.IsNull || sourceText == "" {
		return g.emptyOrErr(col)
	}

	var idx int
	if vsRule.Column == "" {
		idx = table.RowByLabel(sourceText)
	} else {
		idx = table.RowByLabel(sourceText)
		if idx == -1 {
			idx = table.RowByValue(sourceText)
		}
	}
	if idx == -1 {
		return g.emptyOrErr(col)
	}
	return outputCell(table.Rows[idx], outRule.Side), nil
}

// emptyOrErr applies the NULL bound policy: strict raises
// dslerr.GenerationError when allow_null is false, lenient emits empty
// otherwise. mamegen adopts the strict policy (see DESIGN.md).
func (g *Generator) emptyOrErr(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	if !g.allowsNull(col) {
		return ir.Cell{}, dslerr.NewGenerationError("column %q produced an empty reverse lookup but allow_null is false", col.Name)
	}
	return ir.NullCell(), nil
}

func outputCell(row reference.Row, side ast.OutputSide) ir.Cell {
	if side == ast.OutputLabel {
		return ir.StringCell(row.Label)
	}
	return cellFromAny(row.Value)
}

func cellFromAny(v any) ir.Cell {
	switch x := v.(type) {
	case string:
		return ir.StringCell(x)
	case int64:
		return ir.IntCell(x)
	case int:
		return ir.IntCell(int64(x))
	case float64:
		return ir.FloatCell(x)
	default:
		return ir.NullCell()
	}
}
