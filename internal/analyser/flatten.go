package analyser

import (
	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
	"github.com/mitumame/mamegen/internal/ir"
)

// flattenColumnRules walks every COLUMN_RULES section in document
// order, resolves each selector, expands class references (depth 1),
// and accumulates rule entries per column position with
// last-writer-wins semantics keyed by RuleKey.
func (a *analyser) flattenColumnRules() error {
	perColumn := make([]map[string]ast.RuleEntry, len(a.header))
	for i := range perColumn {
		perColumn[i] = map[string]ast.RuleEntry{}
	}

	for _, sec := range a.sections {
		crs, ok := sec.(*ast.ColumnRulesSection)
		if !ok {
			continue
		}
		for _, entry := range crs.Entries {
			positions, err := a.resolveSelector(entry.Selector)
			if err != nil {
				return err
			}
			body, err := a.expandClasses(entry.Body, 0)
			if err != nil {
				return err
			}
			for _, pos := range positions {
				for _, rule := range body {
					perColumn[pos][rule.RuleKey()] = rule
				}
			}
		}
	}

	a.columns = make([]ir.ResolvedColumnRule, len(a.header))
	for i, name := range a.header {
		a.columns[i] = ir.ResolvedColumnRule{
			Position: i,
			Name:     name,
			Rules:    perColumn[i],
		}
	}
	return nil
}

// expandClasses replaces class(name) entries with the class's own rule
// block. Nesting is forbidden: a class body that itself references a
// class is a syntax-level misuse caught here rather than at parse time,
// since only the analyser knows which identifiers name classes.
func (a *analyser) expandClasses(body ast.RuleBlock, depth int) (ast.RuleBlock, error) {
	out := make(ast.RuleBlock, 0, len(body))
	for _, entry := range body {
		ref, ok := entry.(ast.ClassRefRule)
		if !ok {
			out = append(out, entry)
			continue
		}
		if depth > 0 {
			return nil, dslerr.NewInvalidRuleError("class %q cannot be referenced from within another class (nesting is forbidden)", ref.Name)
		}
		classBody, ok := a.classes[ref.Name]
		if !ok {
			return nil, dslerr.NewInvalidRuleError("class %q is not defined", ref.Name)
		}
		expanded, err := a.expandClasses(classBody, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}
