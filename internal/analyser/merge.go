package analyser

import (
	"strconv"
	"strings"

	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
	"github.com/mitumame/mamegen/internal/ir"
)

// mergeConfig accumulates every CONFIG section's pairs in document
// order with last-writer-wins, then applies defaults.
func (a *analyser) mergeConfig() error {
	values := map[string]string{}
	for _, sec := range a.sections {
		cs, ok := sec.(*ast.ConfigSection)
		if !ok {
			continue
		}
		for _, pair := range cs.Pairs {
			values[pair.Key] = pair.Value
		}
	}

	cfg := ir.Config{
		Type:         ir.OutputCSV,
		Count:        0,
		Reproducible: false,
		WithHeader:   true,
	}

	if v, ok := values["type"]; ok {
		switch strings.ToUpper(v) {
		case "CSV":
			cfg.Type = ir.OutputCSV
		case "JSON":
			cfg.Type = ir.OutputJSON
		default:
			return dslerr.NewInvalidRuleError("CONFIG.type must be CSV or JSON, got %q", v)
		}
	}
	if v, ok := values["count"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return dslerr.NewInvalidRuleError("CONFIG.count must be a positive integer, got %q", v)
		}
		cfg.Count = n
	} else {
		return dslerr.NewInvalidRuleError("CONFIG.count is required")
	}
	if v, ok := values["reproducible"]; ok {
		cfg.Reproducible = strings.EqualFold(v, "true")
	}
	if v, ok := values["output_encoding"]; ok {
		cfg.OutputEncoding = v
	} else if v, ok := values["encoding"]; ok {
		cfg.OutputEncoding = v
	} else {
		cfg.OutputEncoding = "utf-8"
	}
	if v, ok := values["with_header"]; ok {
		cfg.WithHeader = strings.EqualFold(v, "true")
	}
	if v, ok := values["quote_strings"]; ok {
		cfg.QuoteStrings = strings.EqualFold(v, "true")
	}
	if v, ok := values["quote_header"]; ok {
		cfg.QuoteHeader = strings.EqualFold(v, "true")
	}

	a.config = cfg
	return nil
}

// mergeHeader requires HEADER to appear exactly once, non-empty.
func (a *analyser) mergeHeader() error {
	var found []*ast.HeaderSection
	for _, sec := range a.sections {
		hs, ok := sec.(*ast.HeaderSection)
		if !ok || len(hs.Names) == 0 {
			continue
		}
		found = append(found, hs)
	}
	switch len(found) {
	case 0:
		return dslerr.NewInvalidRuleError("HEADER is required and must be non-empty")
	case 1:
		// continue below
	default:
		return dslerr.NewInvalidRuleError("HEADER must appear exactly once, found %d non-empty declarations", len(found))
	}

	a.header = found[0].Names
	// First occurrence wins on duplicate names: later duplicates are
	// kept in the header slice (so row width still matches the header's
	// length) but never resolve as a LABEL target.
	a.headerPos = make(map[string]int, len(a.header))
	for i, name := range a.header {
		if _, exists := a.headerPos[name]; !exists {
			a.headerPos[name] = i
		}
	}
	return nil
}

// mergeReferences concatenates rows across repeated REFERENCE sections
// sharing a name; duplicate labels within a table are allowed.
func (a *analyser) mergeReferences() error {
	a.references = map[string]*ir.ReferenceTable{}
	for _, sec := range a.sections {
		rs, ok := sec.(*ast.ReferenceSection)
		if !ok {
			continue
		}
		tbl, ok := a.references[rs.Name]
		if !ok {
			tbl = &ir.ReferenceTable{Name: rs.Name}
			a.references[rs.Name] = tbl
		}
		for _, row := range rs.Rows {
			tbl.Rows = append(tbl.Rows, ir.ReferenceRow{Label: row.Label, Value: row.Value})
		}
	}
	for name, tbl := range a.references {
		if len(tbl.Rows) == 0 {
			return dslerr.NewInvalidRuleError("reference table %q is empty", name)
		}
	}
	return nil
}

// mergeClasses collects CLASS declarations; a class name may not be
// redefined.
func (a *analyser) mergeClasses() error {
	a.classes = map[string]ast.RuleBlock{}
	for _, sec := range a.sections {
		cs, ok := sec.(*ast.ClassSection)
		if !ok {
			continue
		}
		if _, exists := a.classes[cs.Name]; exists {
			return dslerr.NewInvalidRuleError("class %q is defined more than once", cs.Name)
		}
		a.classes[cs.Name] = cs.Body
	}
	return nil
}
