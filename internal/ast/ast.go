// Package ast defines the concrete section tree the parser builds from
// the token stream: CONFIG, HEADER, REFERENCE, CLASS, and COLUMN_RULES
// sections, each carrying its own rule bodies and selectors. The
// analyser consumes this tree; nothing downstream of the analyser
// touches it.
package ast

// Section is one top-level block. The five concrete kinds may appear in
// any order and may repeat; the analyser is responsible for merging
// repetitions.
type Section interface {
	sectionNode()
}

// ConfigPair is one `key value` pair inside a CONFIG block.
type ConfigPair struct {
	Key   string
	Value string
	Line  int
	Col   int
}

// ConfigSection holds accumulated CONFIG key/value pairs from one block.
type ConfigSection struct {
	Pairs []ConfigPair
}

func (*ConfigSection) sectionNode() {}

// HeaderSection holds one HEADER block's ordered column names.
type HeaderSection struct {
	Names []string
	Line  int
}

func (*HeaderSection) sectionNode() {}

// ReferenceRow is one (label, value) pair inside a REFERENCE block.
type ReferenceRow struct {
	Label string
	Value any // string, int64, or float64
}

// ReferenceSection holds one REFERENCE block's name and rows.
type ReferenceSection struct {
	Name string
	Rows []ReferenceRow
	Line int
}

func (*ReferenceSection) sectionNode() {}

// ClassSection holds one CLASS block's name and reusable rule body.
type ClassSection struct {
	Name string
	Body RuleBlock
	Line int
}

func (*ClassSection) sectionNode() {}

// SelectorRule pairs a selector phrase with the rule block that follows
// it inside a COLUMN_RULES section.
type SelectorRule struct {
	Selector Selector
	Body     RuleBlock
}

// ColumnRulesSection holds one COLUMN_RULES block's selector/body pairs,
// in document order.
type ColumnRulesSection struct {
	Entries []SelectorRule
}

func (*ColumnRulesSection) sectionNode() {}

// RuleBlock is an ordered list of single-rule entries, as written inside
// one `{ ... }` body. Order matters: flattening is last-writer-wins per
// rule key, and order is how "last" is determined.
type RuleBlock []RuleEntry

// RuleEntry is one rule-form occurrence inside a rule body. Key
// identifies which resolved-rule slot this entry occupies — two entries
// with the same Key on the same column conflict, and the later one (in
// document order, after selector flattening) wins.
type RuleEntry interface {
	RuleKey() string
}

type SeqRule struct{ Start, End int64 }

func (SeqRule) RuleKey() string { return "seq" }

type DigitsRule struct{ Width int }

func (DigitsRule) RuleKey() string { return "digits" }

type StepRule struct{ Step int64 }

func (StepRule) RuleKey() string { return "step" }

// CharsetRule names a built-in character class ("alphabet", "alnum",
// "digits") or carries a literal set of characters when Literal is true.
type CharsetRule struct {
	Kind    string
	Literal bool
}

func (CharsetRule) RuleKey() string { return "charset" }

type LengthRule struct{ N int }

func (LengthRule) RuleKey() string { return "length" }

type EnumRule struct{ Values []string }

func (EnumRule) RuleKey() string { return "enum" }

type FixedRule struct{ Value string }

func (FixedRule) RuleKey() string { return "fixed" }

// RangeRule is a numeric inclusive range. IsFloat is true when either
// bound was written with a decimal point.
type RangeRule struct {
	Lo, Hi  float64
	IsFloat bool
}

func (RangeRule) RuleKey() string { return "range" }

type DateRangeRule struct {
	From, To string
	Format   string
}

func (DateRangeRule) RuleKey() string { return "date_range" }

type DatetimeRule struct{}

func (DatetimeRule) RuleKey() string { return "datetime" }

type CopyRule struct{ Column string }

func (CopyRule) RuleKey() string { return "copy" }

type JoinRule struct {
	Sep     string
	Columns []string
}

func (JoinRule) RuleKey() string { return "join" }

type RegexRule struct{ Pattern string }

func (RegexRule) RuleKey() string { return "regex" }

type ReferenceRule struct{ Name string }

func (ReferenceRule) RuleKey() string { return "reference" }

// OutputSide is the side of a reference row a reference column emits.
type OutputSide int

const (
	OutputLabel OutputSide = iota
	OutputValue
)

type OutputRule struct{ Side OutputSide }

func (OutputRule) RuleKey() string { return "output" }

// ValueSourceRule selects reverse-lookup mode. Column is empty for the
// implicit form ("nearest output-label column to the left").
type ValueSourceRule struct{ Column string }

func (ValueSourceRule) RuleKey() string { return "value_source" }

type AllowNullRule struct{ Allow bool }

func (AllowNullRule) RuleKey() string { return "allow_null" }

type NullProbabilityRule struct{ P float64 }

func (NullProbabilityRule) RuleKey() string { return "null_probability" }

// ClassRefRule references a named CLASS body. Expanded away (replaced by
// the class's own entries) before flattening; it never survives into a
// ResolvedColumnRule.
type ClassRefRule struct{ Name string }

func (ClassRefRule) RuleKey() string { return "class" }

// Selector designates a set of header positions. The analyser resolves
// it to 0-based header indices, always in header order.
type Selector interface {
	selectorNode()
}

type IndexSelector struct{ Index int } // 1-based in source

func (IndexSelector) selectorNode() {}

type IndexRangeSelector struct{ From, To int } // 1-based, inclusive

func (IndexRangeSelector) selectorNode() {}

type IndexListSelector struct{ Indices []int } // 1-based

func (IndexListSelector) selectorNode() {}

type LabelSelector struct{ Name string }

func (LabelSelector) selectorNode() {}

type LabelRangeSelector struct{ From, To string }

func (LabelRangeSelector) selectorNode() {}

type LabelListSelector struct{ Names []string }

func (LabelListSelector) selectorNode() {}
