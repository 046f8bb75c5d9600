package xsdimport

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/ilrskema/schema"
)

// applyFacets layers one restriction step on top of inherited constraints.
// Facets set on the derived step replace the inherited ones, except patterns:
// each step's pattern is kept and a value must match all of them.
func applyFacets(base schema.Constraints, f facetDecl, bt schema.BaseType, owner string, d *simpleDiag) (schema.Constraints, error) {
	c := base
	if len(f.patterns) > 0 {
		p, err := compilePatterns(f.patterns)
		if err != nil {
			return c, wrapErr(ErrInvalidFacet, owner, "pattern", err)
		}
		c.Patterns = append(append([]*schema.Pattern(nil), base.Patterns...), p)
	}
	if len(f.enumeration) > 0 {
		c.Enumeration = append([]string(nil), f.enumeration...)
	}
	names := make([]string, 0, len(f.values))
	for name := range f.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw := f.values[name]
		switch name {
		case facetLength:
			n, err := parseNonNegative(raw)
			if err != nil {
				return c, wrapErr(ErrInvalidFacet, owner, name, err)
			}
			c.MinLength, c.MaxLength = intPtr(n), intPtr(n)
		case facetMinLength, facetMaxLength, facetTotalDigits, facetFractionDigits:
			n, err := parseNonNegative(raw)
			if err != nil {
				return c, wrapErr(ErrInvalidFacet, owner, name, err)
			}
			switch name {
			case facetMinLength:
				c.MinLength = intPtr(n)
			case facetMaxLength:
				c.MaxLength = intPtr(n)
			case facetTotalDigits:
				c.TotalDigits = intPtr(n)
			default:
				c.FractionDigits = intPtr(n)
			}
		case facetMinInclusive, facetMaxInclusive, facetMinExclusive, facetMaxExclusive:
			b, err := parseBound(raw)
			if err != nil {
				if bt == schema.TypeDate || bt == schema.TypeDateTime {
					d.warnf("%s: %s=%q on %s type is not numeric; ignored", owner, name, raw, bt)
					continue
				}
				return c, wrapErr(ErrInvalidFacet, owner, name, err)
			}
			switch name {
			case facetMinInclusive:
				c.MinInclusive = b
			case facetMaxInclusive:
				c.MaxInclusive = b
			case facetMinExclusive:
				c.MinExclusive = b
			default:
				c.MaxExclusive = b
			}
		default:
			d.warnf("%s: facet %s is not supported; ignored", owner, name)
		}
	}
	return c, nil
}

func parseNonNegative(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative: %d", n)
	}
	return n, nil
}

func parseBound(raw string) (*schema.Bound, error) {
	lex := strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("bound %q is not finite", lex)
	}
	return &schema.Bound{Value: v, Lexical: lex}, nil
}

func intPtr(n int) *int { return &n }
