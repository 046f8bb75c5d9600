package ilrskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired     = "required"
	CodeType         = "type"
	CodePattern      = "pattern"
	CodeMinLength    = "minLength"
	CodeMaxLength    = "maxLength"
	CodeMinInclusive = "minInclusive"
	CodeMaxInclusive = "maxInclusive"
	CodeMinExclusive = "minExclusive"
	CodeMaxExclusive = "maxExclusive"
	CodeEnumeration  = "enumeration"
	// Batch level
	CodeMissingRequiredHeader = "MISSING_REQUIRED_HEADER"
	// Cross-field row rules
	CodeRule = "rule"
)

// CodeMissingRequiredValue is the name reporting collaborators use for a
// required value that is blank. It is the same code as CodeRequired.
const CodeMissingRequiredValue = CodeRequired

// Severity expresses the severity level for issues.
type Severity int

const (
	Error Severity = iota
	Warn
)

func (s Severity) String() string {
	if s == Warn {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error", "":
		*s = Error
	case "warning", "warn":
		*s = Warn
	default:
		return fmt.Errorf("ilrskema: unknown severity %q", b)
	}
	return nil
}

// NoRow is the Row of an issue that does not belong to a single row.
const NoRow = -1

// Issue represents a single validation entry.
type Issue struct {
	Code    string `json:"type"` // One of the codes listed above.
	Message string `json:"message"`
	Path    string `json:"path,omitempty"` // Schema path of the element (for example: Message/Learner/ULN).
	Row     int    `json:"rowIndex"`       // Zero-based row index, or NoRow.
	Field   string `json:"sourceField,omitempty"`
	// Actual is the raw value as it was supplied.
	Actual any `json:"actualValue,omitempty"`
	// Constraint is the violated threshold, pattern or allowed set.
	Constraint any `json:"constraint,omitempty"`
	// Params carries structured parameters (e.g., {"limit":10, "expected":"integer"})
	// for i18n and observability.
	Params   map[string]any `json:"params,omitempty"`
	Severity Severity       `json:"severity"`
	// Rule optionally records the rule name that produced this issue.
	Rule string `json:"rule,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. pattern at ULN (row 3)
		where := it.Field
		if where == "" {
			where = it.Path
		}
		fmt.Fprintf(b, "%s at %s", it.Code, where)
		if it.Row != NoRow {
			fmt.Fprintf(b, " (row %d)", it.Row)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Configuration problems found while resolving columns. They are returned as
// errors, never as issues.
var (
	ErrAmbiguousColumn    = errors.New("column name matches more than one schema element")
	ErrUnknownMappingPath = errors.New("mapped schema path does not exist")
	ErrComplexColumn      = errors.New("column resolves to a complex element")
	ErrUnknownRecordPath  = errors.New("record path does not exist")
)

// ConfigError describes one column (or the record path) that cannot be
// resolved without changing the configuration.
type ConfigError struct {
	Column     string
	Reason     error
	Candidates []string // schema paths, for ambiguous columns
}

func (e *ConfigError) Error() string {
	what := "column"
	if errors.Is(e.Reason, ErrUnknownRecordPath) {
		what = "record path"
	}
	msg := fmt.Sprintf("ilrskema: %s %q: %v", what, e.Column, e.Reason)
	if len(e.Candidates) > 0 {
		msg += " (" + strings.Join(e.Candidates, ", ") + "); add a mapping entry"
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Reason }
