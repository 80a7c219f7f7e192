package parser

import (
	"strconv"

	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
	"github.com/mitumame/mamegen/internal/token"
)

// parseRuleEntry parses exactly one rule-form occurrence. The caller
// enforces that nothing but NEWLINE/'}' follows it on the same line.
func (p *parser) parseRuleEntry() (ast.RuleEntry, error) {
	t := p.cur()
	if t.Kind != token.IDENT {
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "expected a rule keyword, got %q", t.Literal)
	}
	switch t.Literal {
	case "seq":
		return p.parseSeq()
	case "digits":
		p.advance()
		n, err := p.expect(token.INTEGER, "digits width")
		if err != nil {
			return nil, err
		}
		v, _ := strconv.Atoi(n.Literal)
		return ast.DigitsRule{Width: v}, nil
	case "step":
		p.advance()
		n, err := p.expect(token.INTEGER, "step size")
		if err != nil {
			return nil, err
		}
		v, _ := strconv.ParseInt(n.Literal, 10, 64)
		return ast.StepRule{Step: v}, nil
	case "charset":
		return p.parseCharset()
	case "length":
		p.advance()
		n, err := p.expect(token.INTEGER, "length")
		if err != nil {
			return nil, err
		}
		v, _ := strconv.Atoi(n.Literal)
		return ast.LengthRule{N: v}, nil
	case "enum":
		return p.parseEnum()
	case "fixed":
		p.advance()
		v, err := p.expectNoSymbol()
		if err != nil {
			return nil, err
		}
		return ast.FixedRule{Value: v.Literal}, nil
	case "range":
		return p.parseRange()
	case "date_range":
		return p.parseDateRange()
	case "datetime":
		p.advance()
		return ast.DatetimeRule{}, nil
	case "copy":
		p.advance()
		col, err := p.expect(token.IDENT, "column name")
		if err != nil {
			return nil, err
		}
		return ast.CopyRule{Column: col.Literal}, nil
	case "join":
		return p.parseJoin()
	case "regex":
		p.advance()
		pat, err := p.expect(token.STRING, "regex pattern (must be quoted)")
		if err != nil {
			return nil, err
		}
		return ast.RegexRule{Pattern: pat.Literal}, nil
	case "reference":
		p.advance()
		name, err := p.expect(token.STRING, "reference table name (must be quoted)")
		if err != nil {
			return nil, err
		}
		return ast.ReferenceRule{Name: name.Literal}, nil
	case "output":
		return p.parseOutput()
	case "value_source":
		return p.parseValueSource()
	case "allow_null":
		return p.parseAllowNull()
	case "null_probability":
		p.advance()
		f, err := p.parseFloatLiteral("null_probability")
		if err != nil {
			return nil, err
		}
		if f < 0 || f > 1 {
			t := p.cur()
			return nil, dslerr.NewInvalidRuleError("null_probability %v out of [0,1] at %d:%d", f, t.Line, t.Column)
		}
		return ast.NullProbabilityRule{P: f}, nil
	case "class":
		p.advance()
		name, err := p.expect(token.STRING, "class name (must be quoted)")
		if err != nil {
			return nil, err
		}
		return ast.ClassRefRule{Name: name.Literal}, nil
	default:
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unknown rule %q", t.Literal)
	}
}

func (p *parser) parseSeq() (ast.RuleEntry, error) {
	p.advance() // seq
	from, err := p.expect(token.INTEGER, "seq start")
	if err != nil {
		return nil, err
	}
	dd, err := p.expect(token.DOTDOT, "'..' in seq")
	if err != nil {
		return nil, err
	}
	if !p.at(token.INTEGER) {
		t := p.cur()
		return nil, dslerr.NewSyntaxError(dd.Line, dd.Column, "open range is not allowed; seq requires both bounds (got %q)", t.Literal)
	}
	to := p.advance()
	a, _ := strconv.ParseInt(from.Literal, 10, 64)
	b, _ := strconv.ParseInt(to.Literal, 10, 64)
	return ast.SeqRule{Start: a, End: b}, nil
}

func (p *parser) parseCharset() (ast.RuleEntry, error) {
	p.advance() // charset
	t := p.cur()
	switch t.Kind {
	case token.IDENT:
		p.advance()
		return ast.CharsetRule{Kind: t.Literal}, nil
	case token.STRING:
		p.advance()
		return ast.CharsetRule{Kind: t.Literal, Literal: true}, nil
	default:
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "expected a charset kind or quoted literal set, got %q", t.Literal)
	}
}

func (p *parser) parseEnum() (ast.RuleEntry, error) {
	p.advance() // enum
	if _, err := p.expect(token.LBRACKET, "to start enum list"); err != nil {
		return nil, err
	}
	var vals []string
	for !p.at(token.RBRACKET) {
		v, err := p.expectNoSymbol()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v.Literal)
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.advance() // ]
	return ast.EnumRule{Values: vals}, nil
}

func (p *parser) parseRange() (ast.RuleEntry, error) {
	p.advance() // range
	lo, loFloat, err := p.parseNumericBound("range start")
	if err != nil {
		return nil, err
	}
	dd, err := p.expect(token.DOTDOT, "'..' in range")
	if err != nil {
		return nil, err
	}
	if !p.at(token.INTEGER) && !p.at(token.FLOAT) {
		t := p.cur()
		return nil, dslerr.NewSyntaxError(dd.Line, dd.Column, "open range is not allowed; range requires both bounds (got %q)", t.Literal)
	}
	hi, hiFloat, err := p.parseNumericBound("range end")
	if err != nil {
		return nil, err
	}
	return ast.RangeRule{Lo: lo, Hi: hi, IsFloat: loFloat || hiFloat}, nil
}

func (p *parser) parseNumericBound(context string) (float64, bool, error) {
	t := p.cur()
	switch t.Kind {
	case token.INTEGER:
		p.advance()
		v, _ := strconv.ParseFloat(t.Literal, 64)
		return v, false, nil
	case token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(t.Literal, 64)
		return v, true, nil
	default:
		return 0, false, dslerr.NewSyntaxError(t.Line, t.Column, "expected a number for %s, got %q", context, t.Literal)
	}
}

func (p *parser) parseFloatLiteral(context string) (float64, error) {
	t := p.cur()
	switch t.Kind {
	case token.INTEGER, token.FLOAT:
		p.advance()
		v, _ := strconv.ParseFloat(t.Literal, 64)
		return v, nil
	default:
		return 0, dslerr.NewSyntaxError(t.Line, t.Column, "expected a number for %s, got %q", context, t.Literal)
	}
}

func (p *parser) parseDateRange() (ast.RuleEntry, error) {
	p.advance() // date_range
	from, err := p.expect(token.STRING, "date_range start (must be quoted)")
	if err != nil {
		return nil, err
	}
	dd, err := p.expect(token.DOTDOT, "'..' in date_range")
	if err != nil {
		return nil, err
	}
	if !p.at(token.STRING) {
		t := p.cur()
		return nil, dslerr.NewSyntaxError(dd.Line, dd.Column, "open range is not allowed; date_range requires both bounds (got %q)", t.Literal)
	}
	to := p.advance()
	format := ""
	if p.at(token.STRING) {
		format = p.advance().Literal
	}
	return ast.DateRangeRule{From: from.Literal, To: to.Literal, Format: format}, nil
}

func (p *parser) parseJoin() (ast.RuleEntry, error) {
	p.advance() // join
	sep, err := p.expect(token.STRING, "join separator (must be quoted)")
	if err != nil {
		return nil, err
	}
	cols, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	return ast.JoinRule{Sep: sep.Literal, Columns: cols}, nil
}

func (p *parser) parseIdentList() ([]string, error) {
	if _, err := p.expect(token.LBRACKET, "to start column list"); err != nil {
		return nil, err
	}
	var out []string
	for !p.at(token.RBRACKET) {
		c, err := p.expect(token.IDENT, "column name")
		if err != nil {
			return nil, err
		}
		out = append(out, c.Literal)
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.advance() // ]
	return out, nil
}

func (p *parser) parseOutput() (ast.RuleEntry, error) {
	p.advance() // output
	side, err := p.expect(token.IDENT, "'label' or 'value'")
	if err != nil {
		return nil, err
	}
	switch side.Literal {
	case "label":
		return ast.OutputRule{Side: ast.OutputLabel}, nil
	case "value":
		return ast.OutputRule{Side: ast.OutputValue}, nil
	default:
		return nil, dslerr.NewSyntaxError(side.Line, side.Column, "output must be 'label' or 'value', got %q", side.Literal)
	}
}

func (p *parser) parseValueSource() (ast.RuleEntry, error) {
	p.advance() // value_source
	switch p.cur().Kind {
	case token.NEWLINE, token.RBRACE, token.EOF:
		return ast.ValueSourceRule{}, nil
	case token.IDENT:
		col := p.advance()
		return ast.ValueSourceRule{Column: col.Literal}, nil
	default:
		t := p.cur()
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "value_source takes an optional column name, got %q", t.Literal)
	}
}

func (p *parser) parseAllowNull() (ast.RuleEntry, error) {
	p.advance() // allow_null
	b, err := p.expect(token.IDENT, "'true' or 'false'")
	if err != nil {
		return nil, err
	}
	switch b.Literal {
	case "true":
		return ast.AllowNullRule{Allow: true}, nil
	case "false":
		return ast.AllowNullRule{Allow: false}, nil
	default:
		return nil, dslerr.NewSyntaxError(b.Line, b.Column, "allow_null must be 'true' or 'false', got %q", b.Literal)
	}
}
