package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/ilrskema"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
	// Present holds when the field has non-blank text; want is ignored.
	Present
	// Blank holds when the field is missing or trims to empty; want is ignored.
	Blank
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	field string
	op    Op
	want  any
	all   []Conditional // composite AND
	any   []Conditional // composite OR
}

// If builds a conditional that compares a column of the row against want.
// Eq and Ne compare text; the ordering operators compare numbers and are
// false when either side is not numeric.
func If(field string, op Op, want any) Conditional {
	return Conditional{field: field, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	conds := append([]Conditional{c}, others...)
	return IfAll(conds...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	conds := append([]Conditional{c}, others...)
	return IfAny(conds...)
}

// Holds reports whether the condition is satisfied by rc.
func (c Conditional) Holds(rc ilrskema.RowContext) bool { return evalConditional(rc, c) }

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...ilrskema.RowRule) ilrskema.RowRule {
	inner := And(rules...)
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		if !evalConditional(rc, c) {
			return nil
		}
		return inner(rc)
	}
}

// RequireField reports a rule issue when field is blank.
func RequireField(name, field string) ilrskema.RowRule {
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		if v, _ := rc.Value(field); strings.TrimSpace(v) != "" {
			return nil
		}
		iss := ilrskema.IssueAt(ilrskema.At(rc.Index, field), ilrskema.CodeRule,
			fmt.Sprintf("%s is required when %s applies", field, name), map[string]any{"rule": name})
		iss.Rule = name
		if el := rc.Element(field); el != nil {
			iss.Path = el.Path
		}
		return ilrskema.Issues{iss}
	}
}

// Forbid reports a rule issue when field has a value.
func Forbid(name, field string) ilrskema.RowRule {
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		v, _ := rc.Value(field)
		if strings.TrimSpace(v) == "" {
			return nil
		}
		iss := ilrskema.IssueAt(ilrskema.At(rc.Index, field), ilrskema.CodeRule,
			fmt.Sprintf("%s must be empty when %s applies", field, name), map[string]any{"rule": name})
		iss.Rule = name
		iss.Actual = v
		if el := rc.Element(field); el != nil {
			iss.Path = el.Path
		}
		return ilrskema.Issues{iss}
	}
}

// AsWarning lowers every issue of r to a warning.
func AsWarning(r ilrskema.RowRule) ilrskema.RowRule {
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		iss := r(rc)
		for i := range iss {
			iss[i] = ilrskema.Warning(iss[i])
		}
		return iss
	}
}

// ------- helpers -------

func evalConditional(rc ilrskema.RowContext, c Conditional) bool {
	// composite AND
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(rc, it) {
				return false
			}
		}
		return true
	}
	// composite OR
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(rc, it) {
				return true
			}
		}
		return false
	}
	// simple predicate
	cur, ok := rc.Value(c.field)
	switch c.op {
	case Present:
		return ok && strings.TrimSpace(cur) != ""
	case Blank:
		return !ok || strings.TrimSpace(cur) == ""
	}
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

func compare(cur string, op Op, want any) bool {
	switch op {
	case Eq:
		return strings.TrimSpace(cur) == fmt.Sprint(want)
	case Ne:
		return strings.TrimSpace(cur) != fmt.Sprint(want)
	case Lt, Le, Gt, Ge:
		a, ok := toFloat(cur)
		if !ok {
			return false
		}
		b, ok := toFloat(want)
		if !ok {
			return false
		}
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		case Ge:
			return a >= b
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		f, err := strconv.ParseFloat(fmt.Sprint(x), 64)
		return f, err == nil
	}
}

// ---------- Rule combinators ----------

// And executes all rules and concatenates Issues.
func And(rules ...ilrskema.RowRule) ilrskema.RowRule {
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		var out ilrskema.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			if iss := r(rc); len(iss) > 0 {
				out = append(out, iss...)
			}
		}
		return out
	}
}

// Or succeeds if any rule returns no Issues. When every rule fails the branch
// with the fewest issues is reported.
func Or(rules ...ilrskema.RowRule) ilrskema.RowRule {
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		var best ilrskema.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(rc)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		if bestSet {
			return best
		}
		return nil
	}
}
