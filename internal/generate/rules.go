package generate

import (
	"strconv"
	"strings"
	"time"

	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
	"github.com/mitumame/mamegen/internal/ir"
)

// defaultCharsetLength is used when a charset rule has no accompanying
// length() decoration.
const defaultCharsetLength = 8

// evalValueRule dispatches to the one pure producer a column's
// flattened rule set names. Branches that need randomness draw from the
// generator's shared RNG so draw order stays exactly evaluation order;
// copy, join, seq and fixed make no draw.
func (g *Generator) evalValueRule(col *ir.ResolvedColumnRule, buf []ir.Cell) (ir.Cell, error) {
	switch {
	case hasKey(col, "copy"):
		return g.evalCopy(col, buf)
	case hasKey(col, "join"):
		return g.evalJoin(col, buf)
	case hasKey(col, "seq"):
		return g.evalSeq(col)
	case hasKey(col, "charset"):
		return g.evalCharset(col)
	case hasKey(col, "enum"):
		return g.evalEnum(col)
	case hasKey(col, "fixed"):
		return g.evalFixed(col)
	case hasKey(col, "date_range"):
		return g.evalDateRange(col)
	case hasKey(col, "range"):
		return g.evalRange(col)
	case hasKey(col, "regex"):
		return g.evalRegex(col)
	default:
		return ir.Cell{}, dslerr.NewGenerationError("column %q has no generation rule", col.Name)
	}
}

func hasKey(col *ir.ResolvedColumnRule, key string) bool {
	_, ok := col.Rules[key]
	return ok
}

func (g *Generator) evalCopy(col *ir.ResolvedColumnRule, buf []ir.Cell) (ir.Cell, error) {
	rule := col.Rules["copy"].(ast.CopyRule)
	pos, ok := g.headerIndex[rule.Column]
	if !ok {
		return ir.Cell{}, dslerr.NewGenerationError("column %q copies unresolved column %q", col.Name, rule.Column)
	}
	return buf[pos], nil
}

func (g *Generator) evalJoin(col *ir.ResolvedColumnRule, buf []ir.Cell) (ir.Cell, error) {
	rule := col.Rules["join"].(ast.JoinRule)
	parts := make([]string, 0, len(rule.Columns))
	for _, name := range rule.Columns {
		pos, ok := g.headerIndex[name]
		if !ok {
			return ir.Cell{}, dslerr.NewGenerationError("column %q joins unresolved column %q", col.Name, name)
		}
		parts = append(parts, buf[pos].Text())
	}
	return ir.StringCell(strings.Join(parts, rule.Sep)), nil
}

// evalSeq implements seq(start..end) + step(k=1) + digits(d=0). The
// counter persists across rows (Generator.seqCounters), wrapping to
// start on overflow past end.
func (g *Generator) evalSeq(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["seq"].(ast.SeqRule)
	if rule.End < rule.Start {
		return ir.Cell{}, dslerr.NewGenerationError("column %q has an empty seq interval %d..%d", col.Name, rule.Start, rule.End)
	}

	step := int64(1)
	if s, ok := col.Rules["step"].(ast.StepRule); ok {
		step = s.Step
	}

	var n int64
	if !g.seqStarted[col.Position] {
		n = rule.Start
		g.seqStarted[col.Position] = true
	} else {
		span := rule.End - rule.Start + 1
		next := g.seqCounters[col.Position] + step
		if next > rule.End {
			next = rule.Start + ((next-rule.Start)%span+span)%span
		}
		n = next
	}
	g.seqCounters[col.Position] = n

	digits := 0
	if d, ok := col.Rules["digits"].(ast.DigitsRule); ok {
		digits = d.Width
	}
	if digits == 0 {
		return ir.IntCell(n), nil
	}
	s := strconv.FormatInt(n, 10)
	if len(s) < digits {
		pad := digits - len(s)
		neg := strings.HasPrefix(s, "-")
		if neg {
			s = "-" + strings.Repeat("0", pad) + s[1:]
		} else {
			s = strings.Repeat("0", pad) + s
		}
	}
	return ir.StringCell(s), nil
}

func (g *Generator) evalCharset(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["charset"].(ast.CharsetRule)
	alphabet, err := charsetRunes(rule)
	if err != nil {
		return ir.Cell{}, err
	}
	length := defaultCharsetLength
	if l, ok := col.Rules["length"].(ast.LengthRule); ok {
		length = l.N
	}
	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteRune(alphabet[g.rng.IntN(len(alphabet))])
	}
	return ir.StringCell(sb.String()), nil
}

func charsetRunes(rule ast.CharsetRule) ([]rune, error) {
	if rule.Literal {
		return []rune(rule.Kind), nil
	}
	switch rule.Kind {
	case "alphabet":
		return letterRunes(), nil
	case "alnum":
		return append(letterRunes(), digitRunes()...), nil
	case "digits":
		return digitRunes(), nil
	default:
		return nil, dslerr.NewInvalidRuleError("unknown charset kind %q", rule.Kind)
	}
}

func letterRunes() []rune {
	var out []rune
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, c)
	}
	for c := 'a'; c <= 'z'; c++ {
		out = append(out, c)
	}
	return out
}

func digitRunes() []rune {
	var out []rune
	for c := '0'; c <= '9'; c++ {
		out = append(out, c)
	}
	return out
}

func (g *Generator) evalEnum(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["enum"].(ast.EnumRule)
	if len(rule.Values) == 0 {
		return ir.Cell{}, dslerr.NewInvalidRuleError("column %q has an empty enum", col.Name)
	}
	return ir.StringCell(rule.Values[g.rng.IntN(len(rule.Values))]), nil
}

func (g *Generator) evalFixed(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["fixed"].(ast.FixedRule)
	return ir.StringCell(rule.Value), nil
}

func (g *Generator) evalRange(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["range"].(ast.RangeRule)
	if rule.Hi < rule.Lo {
		return ir.Cell{}, dslerr.NewInvalidRuleError("column %q has an inverted range %v..%v", col.Name, rule.Lo, rule.Hi)
	}
	if !rule.IsFloat {
		lo, hi := int64(rule.Lo), int64(rule.Hi)
		n := lo + g.rng.Int64N(hi-lo+1)
		return ir.IntCell(n), nil
	}
	f := rule.Lo + g.rng.Float64()*(rule.Hi-rule.Lo)
	return ir.FloatCell(f), nil
}

const dayLayout = "2006-01-02"
const datetimeLayout = "2006-01-02T15:04:05"

func (g *Generator) evalDateRange(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["date_range"].(ast.DateRangeRule)
	from, err := time.Parse(dayLayout, rule.From)
	if err != nil {
		return ir.Cell{}, dslerr.NewInvalidRuleError("column %q date_range start %q is not YYYY-MM-DD", col.Name, rule.From)
	}
	to, err := time.Parse(dayLayout, rule.To)
	if err != nil {
		return ir.Cell{}, dslerr.NewInvalidRuleError("column %q date_range end %q is not YYYY-MM-DD", col.Name, rule.To)
	}
	if to.Before(from) {
		return ir.Cell{}, dslerr.NewInvalidRuleError("column %q has an inverted date_range %s..%s", col.Name, rule.From, rule.To)
	}

	days := int(to.Sub(from).Hours() / 24)
	picked := from.AddDate(0, 0, g.rng.IntN(days+1))

	if _, wantsTime := col.Rules["datetime"].(ast.DatetimeRule); wantsTime {
		secs := g.rng.IntN(24 * 60 * 60)
		picked = picked.Add(time.Duration(secs) * time.Second)
		return ir.StringCell(picked.Format(datetimeLayout)), nil
	}

	layout := dayLayout
	if rule.Format != "" {
		layout = translateDateFormat(rule.Format)
	}
	return ir.StringCell(picked.Format(layout)), nil
}

// translateDateFormat converts the DSL's YYYY-MM-DD-style tokens into
// the equivalent Go reference-time layout.
func translateDateFormat(f string) string {
	replacer := strings.NewReplacer(
		"YYYY", "2006",
		"MM", "01",
		"DD", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
	)
	return replacer.Replace(f)
}

func (g *Generator) evalRegex(col *ir.ResolvedColumnRule) (ir.Cell, error) {
	rule := col.Rules["regex"].(ast.RegexRule)
	s, err := generateFromPattern(rule.Pattern, g.rng)
	if err != nil {
		return ir.Cell{}, dslerr.NewInvalidRuleError("column %q regex %q: %s", col.Name, rule.Pattern, err)
	}
	return ir.StringCell(s), nil
}
