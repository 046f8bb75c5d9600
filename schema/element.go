// Package schema defines the in-memory form of a parsed schema: elements,
// cardinalities, facet constraints and the registry that indexes them.
//
// Values in this package are built once by an importer (see xsdimport) and
// are read-only afterwards. They carry no validation behavior.
package schema

import (
	"regexp"
	"strconv"
)

// BaseType is the primitive type an element's value is checked against.
type BaseType string

const (
	TypeString   BaseType = "string"
	TypeInt      BaseType = "int"
	TypeInteger  BaseType = "integer"
	TypeLong     BaseType = "long"
	TypeDecimal  BaseType = "decimal"
	TypeDate     BaseType = "date"
	TypeDateTime BaseType = "dateTime"
	TypeBoolean  BaseType = "boolean"
)

// Valid reports whether b is one of the supported base types.
func (b BaseType) Valid() bool {
	switch b {
	case TypeString, TypeInt, TypeInteger, TypeLong, TypeDecimal, TypeDate, TypeDateTime, TypeBoolean:
		return true
	default:
		return false
	}
}

// IsInteger reports whether b requires whole numbers.
func (b BaseType) IsInteger() bool {
	return b == TypeInt || b == TypeInteger || b == TypeLong
}

// Occurs is a maximum occurrence count. The zero value is 0.
// Unbounded is the only unbounded value; no finite count is reserved for it.
type Occurs struct {
	n         int
	unbounded bool
}

// Unbounded is the reserved "no upper limit" occurrence value.
var Unbounded = Occurs{unbounded: true}

// OccursOf returns a finite occurrence count. Negative n is clamped to 0.
func OccursOf(n int) Occurs {
	if n < 0 {
		n = 0
	}
	return Occurs{n: n}
}

// IsUnbounded reports whether o has no upper limit.
func (o Occurs) IsUnbounded() bool { return o.unbounded }

// Value returns the finite count and true, or (0, false) when unbounded.
func (o Occurs) Value() (int, bool) {
	if o.unbounded {
		return 0, false
	}
	return o.n, true
}

// Allows reports whether n occurrences stay within o.
func (o Occurs) Allows(n int) bool { return o.unbounded || n <= o.n }

func (o Occurs) String() string {
	if o.unbounded {
		return "unbounded"
	}
	return strconv.Itoa(o.n)
}

// Cardinality is the min/max occurrence rule of an element.
type Cardinality struct {
	Min int
	Max Occurs
}

// DefaultCardinality is applied when occurrence facets are absent: exactly one.
var DefaultCardinality = Cardinality{Min: 1, Max: OccursOf(1)}

// Required reports whether at least one occurrence is needed.
func (c Cardinality) Required() bool { return c.Min >= 1 }

func (c Cardinality) String() string {
	return "[" + strconv.Itoa(c.Min) + ".." + c.Max.String() + "]"
}

// Bound is a numeric range facet. Lexical keeps the literal from the schema
// so diagnostics echo what the author wrote.
type Bound struct {
	Value   float64
	Lexical string
}

// Pattern is a compiled, fully anchored pattern facet.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// NewPattern wraps an already translated and compiled expression. source is
// the pattern as written in the schema.
func NewPattern(source string, re *regexp.Regexp) *Pattern {
	return &Pattern{source: source, re: re}
}

// Source returns the pattern as written in the schema.
func (p *Pattern) Source() string { return p.source }

// Expr returns the translated Go expression.
func (p *Pattern) Expr() string { return p.re.String() }

// MatchString reports whether s matches the whole pattern.
func (p *Pattern) MatchString(s string) bool { return p.re.MatchString(s) }

// Constraints is the facet set of a simple type. Every field is optional;
// nil pointers and empty slices mean "not set".
type Constraints struct {
	// Patterns holds one pattern per restriction step; a value must match all of them.
	Patterns       []*Pattern
	MinLength      *int
	MaxLength      *int
	MinInclusive   *Bound
	MaxInclusive   *Bound
	MinExclusive   *Bound
	MaxExclusive   *Bound
	TotalDigits    *int // advisory
	FractionDigits *int // advisory
	Enumeration    []string
}

// HasRange reports whether any numeric bound is set.
func (c Constraints) HasRange() bool {
	return c.MinInclusive != nil || c.MaxInclusive != nil || c.MinExclusive != nil || c.MaxExclusive != nil
}

// Element is one node of the schema tree. Elements are shared by reference
// across validations and must not be modified once the registry is built.
type Element struct {
	Name          string
	Path          string
	BaseType      BaseType // empty for complex elements
	TypeName      string   // named simple type the constraints were inlined from, if any
	Constraints   Constraints
	Cardinality   Cardinality
	Children      []*Element
	Documentation string
}

// IsComplex reports whether the element groups child elements.
func (e *Element) IsComplex() bool { return len(e.Children) > 0 }

// Child returns the direct child with the given name.
func (e *Element) Child(name string) (*Element, bool) {
	for _, c := range e.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NamedType is a reusable simple type. Its constraints are inlined onto every
// element that references it.
type NamedType struct {
	Name          string
	BaseType      BaseType
	Constraints   Constraints
	Documentation string
}
