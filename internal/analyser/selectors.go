package analyser

import (
	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
)

// resolveSelector returns the 0-based header positions a selector
// designates, in header order.
func (a *analyser) resolveSelector(sel ast.Selector) ([]int, error) {
	switch s := sel.(type) {
	case ast.IndexSelector:
		pos := s.Index - 1
		if pos < 0 || pos >= len(a.header) {
			return nil, dslerr.NewUnknownColumnError("INDEX %d is out of range (header has %d columns)", s.Index, len(a.header))
		}
		return []int{pos}, nil

	case ast.IndexRangeSelector:
		if s.From < 1 || s.To > len(a.header) {
			return nil, dslerr.NewUnknownColumnError("INDICES %d..%d is out of range (header has %d columns)", s.From, s.To, len(a.header))
		}
		out := make([]int, 0, s.To-s.From+1)
		for i := s.From; i <= s.To; i++ {
			out = append(out, i-1)
		}
		return out, nil

	case ast.IndexListSelector:
		out := make([]int, 0, len(s.Indices))
		for _, idx := range s.Indices {
			pos := idx - 1
			if pos < 0 || pos >= len(a.header) {
				return nil, dslerr.NewUnknownColumnError("INDICES entry %d is out of range (header has %d columns)", idx, len(a.header))
			}
			out = append(out, pos)
		}
		return out, nil

	case ast.LabelSelector:
		pos, ok := a.headerPos[s.Name]
		if !ok {
			return nil, dslerr.NewUnknownColumnError("LABEL %q does not match any header column", s.Name)
		}
		return []int{pos}, nil

	case ast.LabelListSelector:
		out := make([]int, 0, len(s.Names))
		for _, name := range s.Names {
			pos, ok := a.headerPos[name]
			if !ok {
				return nil, dslerr.NewUnknownColumnError("LABELS entry %q does not match any header column", name)
			}
			out = append(out, pos)
		}
		return out, nil

	case ast.LabelRangeSelector:
		fromPos, ok := a.headerPos[s.From]
		if !ok {
			return nil, dslerr.NewUnknownColumnError("LABELS range start %q does not match any header column", s.From)
		}
		toPos, ok := a.headerPos[s.To]
		if !ok {
			return nil, dslerr.NewUnknownColumnError("LABELS range end %q does not match any header column", s.To)
		}
		if fromPos > toPos {
			return nil, dslerr.NewInvalidRuleError("LABELS range %q..%q is inverted in header order", s.From, s.To)
		}
		out := make([]int, 0, toPos-fromPos+1)
		for i := fromPos; i <= toPos; i++ {
			out = append(out, i)
		}
		return out, nil

	default:
		return nil, dslerr.NewInvalidRuleError("unrecognised selector")
	}
}
