// Package output is mamegen's external-collaborator serialiser: it
// turns a generator Result into CSV or JSON bytes. It sits outside the
// DSL/generator core proper, giving the CLI something to drive and a
// Formatter-style dispatch a home for both output formats.
package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/mitumame/mamegen/internal/ir"
)

// Format is the output serialisation chosen by CONFIG.type or, when
// recognised, by the output path's extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// FormatFromPath returns the format implied by a recognised output
// extension, and whether the extension was recognised at all.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// Resolve picks the output format: the path extension wins when
// recognised, otherwise CONFIG.type decides.
func Resolve(path string, cfgType ir.OutputType) Format {
	if f, ok := FormatFromPath(path); ok {
		return f
	}
	if cfgType == ir.OutputJSON {
		return FormatJSON
	}
	return FormatCSV
}

// Options controls the pass-through CONFIG knobs for collaborators:
// with_header, quote_strings, quote_header, and the resolved output
// character encoding.
type Options struct {
	WithHeader   bool
	QuoteStrings bool
	QuoteHeader  bool
	Encoding     string // output_encoding|encoding, defaults to utf-8
}

// Encode writes header+rows to w in the requested format, transcoding
// through the resolved character encoding when it isn't UTF-8.
func Encode(w io.Writer, header []string, rows [][]ir.Cell, format Format, opts Options) error {
	enc, err := resolveEncoding(opts.Encoding)
	if err != nil {
		return err
	}
	dst := w
	if enc != encoding.Nop {
		dst = transform.NewWriter(w, enc.NewEncoder())
	}

	switch format {
	case FormatCSV:
		return encodeCSV(dst, header, rows, opts)
	case FormatJSON:
		return encodeJSON(dst, header, rows, opts)
	default:
		return fmt.Errorf("output: unsupported format %q", format)
	}
}

// resolveEncoding looks up a config encoding label (e.g. "utf-8",
// "shift_jis", "windows-1252") through the WHATWG encoding index. An
// empty label or "utf-8" resolves to a no-op transform.
func resolveEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" || label == "utf-8" || label == "utf8" {
		return encoding.Nop, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("output: unknown output_encoding %q: %w", label, err)
	}
	return enc, nil
}
