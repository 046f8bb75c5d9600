package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reoring/ilrskema"
)

// Expr compiles a boolean expression over a row into a rule. The rule
// reports one issue on field (which may be empty) whenever the expression
// is false.
//
// The expression sees the row as the map `row` (a missing column reads as
// "") and the zero-based `index`, plus two helpers:
//
//	blank(row.ULN)   whitespace only
//	num(row.AimType) the text as a number; evaluation fails when it is not numeric
//
// Example:
//
//	Expr("max-hours", "PlanLearnHours", `blank(row.PlanLearnHours) || num(row.PlanLearnHours) <= 1000`)
func Expr(name, field, source string) (ilrskema.RowRule, error) {
	prg, err := expr.Compile(source, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("rules: compile %s: %w", name, err)
	}
	return func(rc ilrskema.RowContext) ilrskema.Issues {
		loc := ilrskema.At(rc.Index, field)
		ok, err := runBool(prg, rc)
		if err != nil {
			iss := ilrskema.IssueAt(loc, ilrskema.CodeRule,
				fmt.Sprintf("rule %s could not be evaluated: %v", name, err), map[string]any{"rule": name, "error": err.Error()})
			iss.Rule = name
			return ilrskema.Issues{iss}
		}
		if ok {
			return nil
		}
		iss := ilrskema.IssueAt(loc, ilrskema.CodeRule, "", map[string]any{"rule": name})
		iss.Rule = name
		iss.Constraint = source
		if field != "" {
			iss.Actual, _ = rc.Value(field)
			if el := rc.Element(field); el != nil {
				iss.Path = el.Path
			}
		}
		return ilrskema.Issues{iss}
	}, nil
}

// MustExpr is like Expr but panics when source does not compile.
func MustExpr(name, field, source string) ilrskema.RowRule {
	r, err := Expr(name, field, source)
	if err != nil {
		panic(err)
	}
	return r
}

func runBool(prg *vm.Program, rc ilrskema.RowContext) (bool, error) {
	out, err := expr.Run(prg, env(rc))
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("result is %T, not bool", out)
	}
	return b, nil
}

func env(rc ilrskema.RowContext) map[string]any {
	row := make(map[string]string, len(rc.Row))
	for k, v := range rc.Row {
		row[k] = v
	}
	return map[string]any{"row": row, "index": rc.Index}
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(map[string]any{"row": map[string]string{}, "index": 0}),
		expr.AsBool(),
		expr.Function("blank", func(params ...any) (any, error) {
			return strings.TrimSpace(params[0].(string)) == "", nil
		},
			new(func(string) bool)),
		expr.Function("num", func(params ...any) (any, error) {
			s := strings.TrimSpace(params[0].(string))
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", s)
			}
			return f, nil
		},
			new(func(string) float64)),
	}
}
