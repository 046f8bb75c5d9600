package ilrskema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/ilrskema/i18n"
	"github.com/reoring/ilrskema/internal/value"
	"github.com/reoring/ilrskema/schema"
)

var (
	dateLexical     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeLexical = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
)

// Expectations named by type issues.
const (
	expectInteger  = "integer"
	expectDecimal  = "decimal"
	expectBoolean  = "boolean (true, false, 1 or 0)"
	expectDate     = "date (YYYY-MM-DD)"
	expectDateTime = "dateTime (YYYY-MM-DDThh:mm:ss with optional zone)"
)

// Validator checks values and batches of rows against schema elements.
// It holds no per-call state and may be shared between goroutines.
type Validator struct {
	opts Options
	tr   i18n.Translator
}

// NewValidator returns a Validator configured by opts.
func NewValidator(opts Options) *Validator {
	return &Validator{opts: opts, tr: opts.translator()}
}

var defaultValidator = NewValidator(Options{})

// ValidateValue checks one value against el with the default options.
func ValidateValue(v any, el *schema.Element) Issues {
	return defaultValidator.Value(v, el, Location{Row: NoRow})
}

// Value checks one value against el. Problems with the value are returned as
// issues; a nil element or one without a valid base type panics.
//
// Checks run in a fixed order: required (which stops everything else when it
// fires), type, pattern, length, range and enumeration.
func (v *Validator) Value(raw any, el *schema.Element, loc Location) Issues {
	if el == nil {
		panic("ilrskema: Value called with a nil element")
	}
	if !el.BaseType.Valid() {
		panic(fmt.Sprintf("ilrskema: element %s has no valid base type (%q)", el.Path, el.BaseType))
	}
	val := value.Of(raw)
	c := &checker{v: v, el: el, loc: loc, val: val}

	if val.Blank() {
		if el.Cardinality.Required() {
			c.add(CodeRequired, el.Cardinality.String(), nil)
		}
		return c.out
	}

	c.checkType()
	cons := el.Constraints
	for _, p := range cons.Patterns {
		if !p.MatchString(val.Text) {
			c.add(CodePattern, p.Source(), map[string]any{"pattern": p.Source()})
			break
		}
	}
	if cons.MinLength != nil || cons.MaxLength != nil {
		n := utf8.RuneCountInString(val.Text)
		if cons.MinLength != nil && n < *cons.MinLength {
			c.add(CodeMinLength, *cons.MinLength, map[string]any{"limit": *cons.MinLength, "length": n})
		}
		if cons.MaxLength != nil && n > *cons.MaxLength {
			c.add(CodeMaxLength, *cons.MaxLength, map[string]any{"limit": *cons.MaxLength, "length": n})
		}
	}
	if val.IsNumber && cons.HasRange() {
		x := val.Number
		c.bound(CodeMinInclusive, cons.MinInclusive, func(b float64) bool { return x >= b })
		c.bound(CodeMaxInclusive, cons.MaxInclusive, func(b float64) bool { return x <= b })
		c.bound(CodeMinExclusive, cons.MinExclusive, func(b float64) bool { return x > b })
		c.bound(CodeMaxExclusive, cons.MaxExclusive, func(b float64) bool { return x < b })
	}
	if enum := cons.Enumeration; len(enum) > 0 && !contains(enum, val.Text) {
		allowed := append([]string(nil), enum...)
		c.add(CodeEnumeration, allowed, map[string]any{"allowed": allowed})
	}
	return c.out
}

type checker struct {
	v   *Validator
	el  *schema.Element
	loc Location
	val value.Value
	out Issues
}

func (c *checker) checkType() {
	var expected string
	switch bt := c.el.BaseType; {
	case bt == schema.TypeString:
		return
	case bt.IsInteger():
		if c.val.Whole {
			return
		}
		expected = expectInteger
	case bt == schema.TypeDecimal:
		if c.val.IsNumber {
			return
		}
		expected = expectDecimal
	case bt == schema.TypeBoolean:
		if c.val.IsBool {
			return
		}
		expected = expectBoolean
	case bt == schema.TypeDate:
		if dateLexical.MatchString(c.val.Trimmed) {
			return
		}
		expected = expectDate
	case bt == schema.TypeDateTime:
		if dateTimeLexical.MatchString(c.val.Trimmed) {
			return
		}
		expected = expectDateTime
	}
	c.add(CodeType, expected, map[string]any{"expected": expected, "baseType": string(c.el.BaseType)})
}

func (c *checker) bound(code string, b *schema.Bound, ok func(float64) bool) {
	if b == nil || ok(b.Value) {
		return
	}
	c.add(code, b.Value, map[string]any{"limit": b.Lexical})
}

func (c *checker) add(code string, constraint any, params map[string]any) {
	field := c.loc.Field
	if field == "" {
		field = c.el.Name
	}
	c.out = append(c.out, Issue{
		Code:       code,
		Message:    c.v.tr.Message(code, messageData(field, params)),
		Path:       c.el.Path,
		Row:        c.loc.Row,
		Field:      c.loc.Field,
		Actual:     c.val.Raw,
		Constraint: constraint,
		Params:     params,
		Severity:   Error,
	})
}

// messageData flattens issue params into the translator's string map.
func messageData(field string, params map[string]any) map[string]string {
	data := make(map[string]string, len(params)+1)
	data["field"] = field
	for k, v := range params {
		switch x := v.(type) {
		case string:
			data[k] = x
		case int:
			data[k] = strconv.Itoa(x)
		case []string:
			data[k] = strings.Join(x, ", ")
		default:
			data[k] = fmt.Sprint(x)
		}
	}
	return data
}

func contains(set []string, s string) bool {
	for _, m := range set {
		if m == s {
			return true
		}
	}
	return false
}
