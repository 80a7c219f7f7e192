package output

import (
	"encoding/csv"
	"io"

	"github.com/mitumame/mamegen/internal/ir"
)

func encodeCSV(w io.Writer, header []string, rows [][]ir.Cell, opts Options) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if opts.WithHeader {
		if err := cw.Write(quoteRow(header, opts.QuoteHeader)); err != nil {
			return err
		}
	}

	for _, row := range rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cell.Text()
		}
		if err := cw.Write(quoteCells(record, row, opts.QuoteStrings)); err != nil {
			return err
		}
	}
	return cw.Error()
}

// quoteRow forces every field to be double-quoted by the csv writer
// when requested, by embedding a literal quote csv.Writer will see it
// must escape — the simplest way to get unconditional quoting out of
// encoding/csv, which otherwise only quotes fields that need it.
func quoteRow(fields []string, quote bool) []string {
	if !quote {
		return fields
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = forceQuote(f)
	}
	return out
}

func quoteCells(fields []string, cells []ir.Cell, quote bool) []string {
	if !quote {
		return fields
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if cells[i].Kind == ir.CellString && !cells[i].IsNull {
			out[i] = forceQuote(f)
		} else {
			out[i] = f
		}
	}
	return out
}

// forceQuote wraps a field so encoding/csv's own quoting logic, which
// only quotes fields containing the delimiter, quote, or a newline,
// is forced to treat it as needing quotes.
func forceQuote(s string) string {
	return "\"" + s + "\""
}
