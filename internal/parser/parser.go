// Package parser builds a concrete section tree (internal/ast) out of
// the mamegen token stream, enforcing the DSL's syntactic restrictions:
// one rule per line, no bare ':' or '=' in rule/config bodies, only
// closed ranges, and quoting rules for labels and reference/class
// names. Violations are reported as *dslerr.SyntaxError carrying the
// offending token's source position.
package parser

import (
	"strconv"

	"github.com/mitumame/mamegen/internal/ast"
	"github.com/mitumame/mamegen/internal/dslerr"
	"github.com/mitumame/mamegen/internal/token"
)

// Parse builds the section tree from a token stream produced by
// internal/lexer.
func Parse(tokens []token.Token) ([]ast.Section, error) {
	p := &parser{toks: tokens}
	return p.parseProgram()
}

type parser struct {
	toks []token.Token
	pos  int
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) atKeyword(lit string) bool {
	return p.cur().Kind == token.IDENT && p.cur().Literal == lit
}

func (p *parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

func (p *parser) expect(k token.Kind, context string) (token.Token, error) {
	if !p.at(k) {
		t := p.cur()
		return t, dslerr.NewSyntaxError(t.Line, t.Column, "expected %s %s, got %s %q", k, context, t.Kind, t.Literal)
	}
	return p.advance(), nil
}

// expectEndOfLine enforces one-rule-per-line: after consuming an
// entry's operands, only a NEWLINE or the closing brace is permitted
// before the next entry.
func (p *parser) expectEndOfLine() error {
	switch p.cur().Kind {
	case token.NEWLINE:
		p.advance()
		return nil
	case token.RBRACE, token.EOF:
		return nil
	default:
		t := p.cur()
		return dslerr.NewSyntaxError(t.Line, t.Column, "unexpected %q after rule; only one rule is allowed per line", t.Literal)
	}
}

func (p *parser) parseProgram() ([]ast.Section, error) {
	var sections []ast.Section
	p.skipNewlines()
	for !p.at(token.EOF) {
		sec, err := p.parseSection()
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
		p.skipNewlines()
	}
	return sections, nil
}

func (p *parser) parseSection() (ast.Section, error) {
	t := p.cur()
	if t.Kind != token.IDENT {
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "expected a section keyword, got %q", t.Literal)
	}
	switch t.Literal {
	case "CONFIG":
		return p.parseConfigSection()
	case "HEADER":
		return p.parseHeaderSection()
	case "REFERENCE":
		return p.parseReferenceSection()
	case "CLASS":
		return p.parseClassSection()
	case "COLUMN_RULES":
		return p.parseColumnRulesSection()
	default:
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unknown section %q", t.Literal)
	}
}

func (p *parser) parseBraceBody() error {
	_, err := p.expect(token.LBRACE, "to open block")
	return err
}

// --- CONFIG ---

func (p *parser) parseConfigSection() (ast.Section, error) {
	p.advance() // CONFIG
	if err := p.parseBraceBody(); err != nil {
		return nil, err
	}
	p.skipNewlines()

	sec := &ast.ConfigSection{}
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			t := p.cur()
			return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unterminated CONFIG block")
		}
		key, err := p.expectNoSymbol()
		if err != nil {
			return nil, err
		}
		val, err := p.expectNoSymbol()
		if err != nil {
			return nil, err
		}
		sec.Pairs = append(sec.Pairs, ast.ConfigPair{Key: key.Literal, Value: val.Literal, Line: key.Line, Col: key.Column})
		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	p.advance() // }
	return sec, nil
}

// expectNoSymbol consumes the next token, rejecting bare ':' and '='.
func (p *parser) expectNoSymbol() (token.Token, error) {
	t := p.cur()
	if t.Kind == token.SYMBOL {
		return t, dslerr.NewSyntaxError(t.Line, t.Column, "%q is not allowed here", t.Literal)
	}
	if t.Kind == token.NEWLINE || t.Kind == token.RBRACE || t.Kind == token.EOF {
		return t, dslerr.NewSyntaxError(t.Line, t.Column, "unexpected end of entry")
	}
	return p.advance(), nil
}

// --- HEADER ---

func (p *parser) parseHeaderSection() (ast.Section, error) {
	kw := p.advance() // HEADER
	if err := p.parseBraceBody(); err != nil {
		return nil, err
	}
	p.skipNewlines()

	names, err := p.parseStringList()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.expect(token.RBRACE, "to close HEADER"); err != nil {
		return nil, err
	}
	return &ast.HeaderSection{Names: names, Line: kw.Line}, nil
}

func (p *parser) parseStringList() ([]string, error) {
	if _, err := p.expect(token.LBRACKET, "to start list"); err != nil {
		return nil, err
	}
	var out []string
	for !p.at(token.RBRACKET) {
		s, err := p.expect(token.STRING, "list element")
		if err != nil {
			return nil, err
		}
		out = append(out, s.Literal)
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.advance() // ]
	return out, nil
}

func (p *parser) parseIntList() ([]int, error) {
	if _, err := p.expect(token.LBRACKET, "to start list"); err != nil {
		return nil, err
	}
	var out []int
	for !p.at(token.RBRACKET) {
		n, err := p.expect(token.INTEGER, "list element")
		if err != nil {
			return nil, err
		}
		v, _ := strconv.Atoi(n.Literal)
		out = append(out, v)
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.advance() // ]
	return out, nil
}

// --- REFERENCE ---

func (p *parser) parseReferenceSection() (ast.Section, error) {
	kw := p.advance() // REFERENCE
	name, err := p.expect(token.STRING, "REFERENCE name (must be quoted)")
	if err != nil {
		return nil, err
	}
	if err := p.parseBraceBody(); err != nil {
		return nil, err
	}
	p.skipNewlines()

	sec := &ast.ReferenceSection{Name: name.Literal, Line: kw.Line}
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			t := p.cur()
			return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unterminated REFERENCE block")
		}
		label, err := p.expect(token.STRING, "reference row label (must be quoted)")
		if err != nil {
			return nil, err
		}
		value, err := p.parseReferenceValue()
		if err != nil {
			return nil, err
		}
		sec.Rows = append(sec.Rows, ast.ReferenceRow{Label: label.Literal, Value: value})
		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	p.advance() // }
	return sec, nil
}

func (p *parser) parseReferenceValue() (any, error) {
	t := p.cur()
	switch t.Kind {
	case token.STRING:
		p.advance()
		return t.Literal, nil
	case token.INTEGER:
		p.advance()
		n, _ := strconv.ParseInt(t.Literal, 10, 64)
		return n, nil
	case token.FLOAT:
		p.advance()
		f, _ := strconv.ParseFloat(t.Literal, 64)
		return f, nil
	default:
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "expected a reference value, got %q", t.Literal)
	}
}

// --- CLASS ---

func (p *parser) parseClassSection() (ast.Section, error) {
	kw := p.advance() // CLASS
	name, err := p.expect(token.STRING, "CLASS name (must be quoted)")
	if err != nil {
		return nil, err
	}
	if err := p.parseBraceBody(); err != nil {
		return nil, err
	}
	body, err := p.parseRuleBody()
	if err != nil {
		return nil, err
	}
	return &ast.ClassSection{Name: name.Literal, Body: body, Line: kw.Line}, nil
}

// --- COLUMN_RULES ---

func (p *parser) parseColumnRulesSection() (ast.Section, error) {
	p.advance() // COLUMN_RULES
	if err := p.parseBraceBody(); err != nil {
		return nil, err
	}
	p.skipNewlines()

	sec := &ast.ColumnRulesSection{}
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			t := p.cur()
			return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unterminated COLUMN_RULES block")
		}
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		if err := p.parseBraceBody(); err != nil {
			return nil, err
		}
		body, err := p.parseRuleBody()
		if err != nil {
			return nil, err
		}
		sec.Entries = append(sec.Entries, ast.SelectorRule{Selector: sel, Body: body})
		p.skipNewlines()
	}
	p.advance() // }
	return sec, nil
}

func (p *parser) parseSelector() (ast.Selector, error) {
	t := p.cur()
	if t.Kind != token.IDENT {
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "expected a selector (INDEX/INDICES/LABEL/LABELS), got %q", t.Literal)
	}
	switch t.Literal {
	case "INDEX":
		p.advance()
		n, err := p.expect(token.INTEGER, "index")
		if err != nil {
			return nil, err
		}
		v, _ := strconv.Atoi(n.Literal)
		return ast.IndexSelector{Index: v}, nil
	case "INDICES":
		p.advance()
		return p.parseIndicesBody()
	case "LABEL":
		p.advance()
		s, err := p.expect(token.STRING, "label (must be quoted)")
		if err != nil {
			return nil, err
		}
		return ast.LabelSelector{Name: s.Literal}, nil
	case "LABELS":
		p.advance()
		return p.parseLabelsBody()
	default:
		return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unknown selector %q", t.Literal)
	}
}

func (p *parser) parseIndicesBody() (ast.Selector, error) {
	if p.at(token.LBRACKET) {
		list, err := p.parseIntList()
		if err != nil {
			return nil, err
		}
		return ast.IndexListSelector{Indices: list}, nil
	}
	from, err := p.expect(token.INTEGER, "range start")
	if err != nil {
		return nil, err
	}
	dd, err := p.expect(token.DOTDOT, "'..' in index range")
	if err != nil {
		return nil, err
	}
	if !p.at(token.INTEGER) {
		t := p.cur()
		return nil, dslerr.NewSyntaxError(dd.Line, dd.Column, "open range is not allowed; INDICES requires both bounds (got %q)", t.Literal)
	}
	to := p.advance()
	a, _ := strconv.Atoi(from.Literal)
	b, _ := strconv.Atoi(to.Literal)
	if a > b {
		return nil, dslerr.NewSyntaxError(from.Line, from.Column, "INDICES range %d..%d is inverted", a, b)
	}
	return ast.IndexRangeSelector{From: a, To: b}, nil
}

func (p *parser) parseLabelsBody() (ast.Selector, error) {
	if p.at(token.LBRACKET) {
		list, err := p.parseStringList()
		if err != nil {
			return nil, err
		}
		return ast.LabelListSelector{Names: list}, nil
	}
	from, err := p.expect(token.STRING, "range start label (must be quoted)")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DOTDOT, "'..' in label range"); err != nil {
		return nil, err
	}
	to, err := p.expect(token.STRING, "range end label (must be quoted)")
	if err != nil {
		return nil, err
	}
	return ast.LabelRangeSelector{From: from.Literal, To: to.Literal}, nil
}

// parseRuleBody parses entries until a closing '}', enforcing one entry
// per line.
func (p *parser) parseRuleBody() (ast.RuleBlock, error) {
	p.skipNewlines()
	var body ast.RuleBlock
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			t := p.cur()
			return nil, dslerr.NewSyntaxError(t.Line, t.Column, "unterminated rule block")
		}
		entry, err := p.parseRuleEntry()
		if err != nil {
			return nil, err
		}
		body = append(body, entry)
		if err := p.expectEndOfLine(); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	p.advance() // }
	return body, nil
}
