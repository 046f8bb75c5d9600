package xsdimport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reoring/ilrskema/schema"
)

const (
	// XSD \d covers every Unicode decimal digit.
	digitClass = `\p{Nd}`
	// XSD \w is everything except punctuation, separators and other.
	wordClass = `\p{L}\p{M}\p{N}\p{S}`
	notWord   = `\p{P}\p{Z}\p{C}`
	spaceSet  = ` \t\n\r`
	// XML 1.0 NameStartChar and NameChar (XSD \i and \c).
	nameStartChars = `:A-Z_a-z\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{2FF}\x{370}-\x{37D}\x{37F}-\x{1FFF}` +
		`\x{200C}-\x{200D}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}\x{10000}-\x{EFFFF}`
	nameChars = nameStartChars + `\-.0-9\x{B7}\x{0300}-\x{036F}\x{203F}-\x{2040}`
)

// compilePatterns turns the pattern facets of one restriction step into a
// single anchored expression. Several patterns are alternatives.
func compilePatterns(patterns []string) (*schema.Pattern, error) {
	bodies := make([]string, 0, len(patterns))
	for _, p := range patterns {
		body, err := translatePattern(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		bodies = append(bodies, "(?:"+body+")")
	}
	expr := "^(?:" + strings.Join(bodies, "|") + ")$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", strings.Join(patterns, "|"), err)
	}
	return schema.NewPattern(strings.Join(patterns, "|"), re), nil
}

// translatePattern rewrites an XSD regular expression into RE2 syntax. XSD
// patterns are implicitly anchored and treat ^ and $ as literals.
func translatePattern(p string) (string, error) {
	rs := []rune(p)
	b := &strings.Builder{}
	inClass := false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == '\\' {
			if i+1 >= len(rs) {
				return "", fmt.Errorf("trailing backslash")
			}
			i++
			n, err := translateEscape(rs, &i, inClass)
			if err != nil {
				return "", err
			}
			b.WriteString(n)
			continue
		}
		if inClass {
			switch r {
			case ']':
				inClass = false
				b.WriteRune(r)
			case '[':
				b.WriteString(`\[`)
			case '-':
				if i+1 < len(rs) && rs[i+1] == '[' {
					return "", fmt.Errorf("character class subtraction is not supported")
				}
				b.WriteRune(r)
			default:
				b.WriteRune(r)
			}
			continue
		}
		switch r {
		case '[':
			inClass = true
			b.WriteRune(r)
			if i+1 < len(rs) && rs[i+1] == '^' {
				b.WriteRune('^')
				i++
			}
		case '^', '$':
			b.WriteRune('\\')
			b.WriteRune(r)
		case '.':
			b.WriteString(`[^\n\r]`)
		default:
			b.WriteRune(r)
		}
	}
	if inClass {
		return "", fmt.Errorf("unterminated character class")
	}
	return b.String(), nil
}

// translateEscape handles the escape whose letter is at rs[*i]. It may advance
// *i past a \p{...} block.
func translateEscape(rs []rune, i *int, inClass bool) (string, error) {
	e := rs[*i]
	wrap := func(set string) string {
		if inClass {
			return set
		}
		return "[" + set + "]"
	}
	negated := func(set string) (string, error) {
		if inClass {
			return "", fmt.Errorf(`negated escape \%c inside a character class is not supported`, e)
		}
		return "[^" + set + "]", nil
	}
	switch e {
	case 'd':
		return digitClass, nil
	case 'D':
		return `\P{Nd}`, nil
	case 'w':
		return wrap(wordClass), nil
	case 'W':
		return wrap(notWord), nil
	case 's':
		return wrap(spaceSet), nil
	case 'S':
		return negated(spaceSet)
	case 'i':
		return wrap(nameStartChars), nil
	case 'I':
		return negated(nameStartChars)
	case 'c':
		return wrap(nameChars), nil
	case 'C':
		return negated(nameChars)
	case 'n':
		return `\n`, nil
	case 'r':
		return `\r`, nil
	case 't':
		return `\t`, nil
	case 'p', 'P':
		start := *i
		if start+1 >= len(rs) || rs[start+1] != '{' {
			return "", fmt.Errorf(`\%c must be followed by {name}`, e)
		}
		end := start + 2
		for end < len(rs) && rs[end] != '}' {
			end++
		}
		if end >= len(rs) {
			return "", fmt.Errorf(`unterminated \%c{...}`, e)
		}
		name := string(rs[start+2 : end])
		if strings.HasPrefix(name, "Is") {
			return "", fmt.Errorf("unicode block %s is not supported", name)
		}
		*i = end
		return `\` + string(e) + "{" + name + "}", nil
	default:
		if (e >= 'a' && e <= 'z') || (e >= 'A' && e <= 'Z') || (e >= '0' && e <= '9') {
			return "", fmt.Errorf(`unknown escape \%c`, e)
		}
		return `\` + string(e), nil
	}
}
