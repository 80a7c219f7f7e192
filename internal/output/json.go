package output

import (
	"encoding/json"
	"io"

	"github.com/mitumame/mamegen/internal/ir"
)

// encodeJSON writes rows as a JSON array: with_header emits one object
// per row keyed by header name (the default); without it, each row is a
// plain array of values in header order. quote_strings forces every
// cell, including numbers, to serialise as a JSON string.
func encodeJSON(w io.Writer, header []string, rows [][]ir.Cell, opts Options) error {
	var out any
	if opts.WithHeader {
		objs := make([]map[string]any, len(rows))
		for i, row := range rows {
			obj := make(map[string]any, len(header))
			for j, name := range header {
				obj[name] = jsonValue(row[j], opts.QuoteStrings)
			}
			objs[i] = obj
		}
		out = objs
	} else {
		arrs := make([][]any, len(rows))
		for i, row := range rows {
			arr := make([]any, len(row))
			for j, cell := range row {
				arr[j] = jsonValue(cell, opts.QuoteStrings)
			}
			arrs[i] = arr
		}
		out = arrs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func jsonValue(c ir.Cell, quoteStrings bool) any {
	if c.IsNull {
		return nil
	}
	if quoteStrings {
		return c.Text()
	}
	switch c.Kind {
	case ir.CellInt:
		return c.Int
	case ir.CellFloat:
		return c.Float
	default:
		return c.String
	}
}
