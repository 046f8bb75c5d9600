package ilrskema_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/ilrskema"
	"github.com/reoring/ilrskema/i18n"
	"github.com/reoring/ilrskema/schema"
)

func leaf(name string, bt schema.BaseType, c schema.Constraints) *schema.Element {
	return &schema.Element{Name: name, Path: "R/" + name, BaseType: bt, Constraints: c, Cardinality: schema.DefaultCardinality}
}

func optional(el *schema.Element) *schema.Element {
	el.Cardinality.Min = 0
	return el
}

func pattern(src string) *schema.Pattern {
	return schema.NewPattern(src, regexp.MustCompile("^(?:"+src+")$"))
}

func bound(v float64, lex string) *schema.Bound { return &schema.Bound{Value: v, Lexical: lex} }

func intp(n int) *int { return &n }

func codes(iss ilrskema.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

var allTypes = []schema.BaseType{
	schema.TypeString, schema.TypeInt, schema.TypeInteger, schema.TypeLong,
	schema.TypeDecimal, schema.TypeDate, schema.TypeDateTime, schema.TypeBoolean,
}

func TestValue_RequiredShortCircuits(t *testing.T) {
	var nilStr *string
	cons := schema.Constraints{Patterns: []*schema.Pattern{pattern(`\d+`)}, MinLength: intp(3), Enumeration: []string{"123"}}
	for _, bt := range allTypes {
		for _, raw := range []any{nil, ilrskema.Null, nilStr, "", "   "} {
			iss := ilrskema.ValidateValue(raw, leaf("F", bt, cons))
			if diff := cmp.Diff([]string{ilrskema.CodeRequired}, codes(iss)); diff != "" {
				t.Fatalf("%s %#v: unexpected codes (-want +got):\n%s", bt, raw, diff)
			}
			if iss[0].Row != ilrskema.NoRow || iss[0].Path != "R/F" {
				t.Fatalf("required issue lost its context: %+v", iss[0])
			}
		}
	}
}

func TestValue_OptionalAbsentIsClean(t *testing.T) {
	cons := schema.Constraints{Patterns: []*schema.Pattern{pattern(`\d+`)}, MinLength: intp(3)}
	for _, bt := range allTypes {
		for _, raw := range []any{nil, ilrskema.Null, ""} {
			if iss := ilrskema.ValidateValue(raw, optional(leaf("F", bt, cons))); len(iss) != 0 {
				t.Fatalf("%s %#v: expected no issues, got %v", bt, raw, iss)
			}
		}
	}
}

func TestValue_Types(t *testing.T) {
	cases := []struct {
		bt   schema.BaseType
		raw  any
		fail bool
	}{
		{schema.TypeString, "anything", false},
		{schema.TypeString, 12, false},
		{schema.TypeInt, 42.5, true},
		{schema.TypeInt, "42", false},
		{schema.TypeInt, " 42 ", false},
		{schema.TypeInt, "42.5", true},
		{schema.TypeInt, 42.0, false},
		{schema.TypeInteger, "-17", false},
		{schema.TypeInteger, "seven", true},
		{schema.TypeLong, "9999999999", false},
		{schema.TypeLong, int64(1 << 40), false},
		{schema.TypeDecimal, "12.50", false},
		{schema.TypeDecimal, 3, false},
		{schema.TypeDecimal, "1.2.3", true},
		{schema.TypeDecimal, "NaN", true},
		{schema.TypeBoolean, true, false},
		{schema.TypeBoolean, "TRUE", false},
		{schema.TypeBoolean, "0", false},
		{schema.TypeBoolean, "yes", true},
		{schema.TypeDate, "2025-08-01", false},
		{schema.TypeDate, "01/08/2025", true},
		{schema.TypeDate, "2025-08-01T10:00:00", true},
		{schema.TypeDateTime, "2025-08-01T10:00:00", false},
		{schema.TypeDateTime, "2025-08-01T10:00:00.123Z", false},
		{schema.TypeDateTime, "2025-08-01T10:00:00+01:00", false},
		{schema.TypeDateTime, "2025-08-01", true},
	}
	for _, tc := range cases {
		iss := ilrskema.ValidateValue(tc.raw, leaf("F", tc.bt, schema.Constraints{}))
		if tc.fail {
			if diff := cmp.Diff([]string{ilrskema.CodeType}, codes(iss)); diff != "" {
				t.Errorf("%s %#v (-want +got):\n%s", tc.bt, tc.raw, diff)
			}
			continue
		}
		if len(iss) != 0 {
			t.Errorf("%s %#v: expected no issues, got %v", tc.bt, tc.raw, iss)
		}
	}
}

func TestValue_TypeIssuePayload(t *testing.T) {
	iss := ilrskema.ValidateValue(42.5, leaf("Hours", schema.TypeInt, schema.Constraints{}))
	if len(iss) != 1 || iss[0].Constraint != "integer" || iss[0].Actual != 42.5 {
		t.Fatalf("unexpected issue %+v", iss)
	}
	if !strings.Contains(iss[0].Message, "integer") {
		t.Fatalf("message should name the expectation: %q", iss[0].Message)
	}
	iss = ilrskema.ValidateValue("01/08/2025", leaf("Start", schema.TypeDate, schema.Constraints{}))
	if len(iss) != 1 || !strings.Contains(iss[0].Message, "YYYY-MM-DD") {
		t.Fatalf("date message should name the format: %+v", iss)
	}
}

func TestValue_InclusiveRange(t *testing.T) {
	el := leaf("N", schema.TypeInt, schema.Constraints{MinInclusive: bound(10, "10"), MaxInclusive: bound(100, "100")})
	for _, ok := range []any{10, "100", 55} {
		if iss := ilrskema.ValidateValue(ok, el); len(iss) != 0 {
			t.Fatalf("%v: unexpected issues %v", ok, iss)
		}
	}
	if diff := cmp.Diff([]string{ilrskema.CodeMinInclusive}, codes(ilrskema.ValidateValue(9, el))); diff != "" {
		t.Fatalf("9 (-want +got):\n%s", diff)
	}
	iss := ilrskema.ValidateValue("101", el)
	if diff := cmp.Diff([]string{ilrskema.CodeMaxInclusive}, codes(iss)); diff != "" {
		t.Fatalf("101 (-want +got):\n%s", diff)
	}
	if iss[0].Constraint != 100.0 || iss[0].Params["limit"] != "100" {
		t.Fatalf("bound payload lost: %+v", iss[0])
	}
}

func TestValue_ExclusiveRange(t *testing.T) {
	el := leaf("N", schema.TypeDecimal, schema.Constraints{MinExclusive: bound(0, "0"), MaxExclusive: bound(100, "100")})
	for _, ok := range []any{1, "99", 0.5} {
		if iss := ilrskema.ValidateValue(ok, el); len(iss) != 0 {
			t.Fatalf("%v: unexpected issues %v", ok, iss)
		}
	}
	if diff := cmp.Diff([]string{ilrskema.CodeMinExclusive}, codes(ilrskema.ValidateValue("0", el))); diff != "" {
		t.Fatalf("0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{ilrskema.CodeMaxExclusive}, codes(ilrskema.ValidateValue(100, el))); diff != "" {
		t.Fatalf("100 (-want +got):\n%s", diff)
	}
}

func TestValue_RangeSkippedWhenNotNumeric(t *testing.T) {
	el := leaf("N", schema.TypeDecimal, schema.Constraints{MinInclusive: bound(0, "0")})
	if diff := cmp.Diff([]string{ilrskema.CodeType}, codes(ilrskema.ValidateValue("abc", el))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValue_Enumeration(t *testing.T) {
	el := leaf("Kind", schema.TypeString, schema.Constraints{Enumeration: []string{"ILR"}})
	if iss := ilrskema.ValidateValue("ILR", el); len(iss) != 0 {
		t.Fatalf("unexpected issues %v", iss)
	}
	iss := ilrskema.ValidateValue("NOTILR", el)
	if diff := cmp.Diff([]string{ilrskema.CodeEnumeration}, codes(iss)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(any([]string{"ILR"}), iss[0].Constraint); diff != "" {
		t.Fatalf("constraint (-want +got):\n%s", diff)
	}
	if iss := ilrskema.ValidateValue("ilr", el); len(iss) != 1 {
		t.Fatalf("enumeration must be case-sensitive")
	}
}

func TestValue_ChecksAreCumulative(t *testing.T) {
	el := leaf("Code", schema.TypeString, schema.Constraints{Patterns: []*schema.Pattern{pattern(`[A-Z]+`)}, MinLength: intp(3)})
	iss := ilrskema.ValidateValue("a", el)
	if diff := cmp.Diff([]string{ilrskema.CodePattern, ilrskema.CodeMinLength}, codes(iss)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if iss[0].Constraint != "[A-Z]+" || iss[0].Actual != "a" {
		t.Fatalf("pattern payload lost: %+v", iss[0])
	}

	// a type failure does not hide pattern or length failures
	num := leaf("N", schema.TypeInt, schema.Constraints{Patterns: []*schema.Pattern{pattern(`\d{2}`)}, MaxLength: intp(2)})
	if diff := cmp.Diff([]string{ilrskema.CodeType, ilrskema.CodePattern, ilrskema.CodeMaxLength}, codes(ilrskema.ValidateValue("4.25", num))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValue_AllPatternsMustMatch(t *testing.T) {
	el := leaf("Code", schema.TypeString, schema.Constraints{Patterns: []*schema.Pattern{pattern(`[A-Z]+`), pattern(`.{2}`)}})
	if iss := ilrskema.ValidateValue("AB", el); len(iss) != 0 {
		t.Fatalf("unexpected issues %v", iss)
	}
	for raw, failed := range map[string]string{"ab": "[A-Z]+", "ABC": ".{2}", "abc": "[A-Z]+"} {
		iss := ilrskema.ValidateValue(raw, el)
		if diff := cmp.Diff([]string{ilrskema.CodePattern}, codes(iss)); diff != "" {
			t.Fatalf("%q (-want +got):\n%s", raw, diff)
		}
		if iss[0].Constraint != failed {
			t.Fatalf("%q: expected the first failing pattern %q, got %v", raw, failed, iss[0].Constraint)
		}
	}
}

func TestValue_ContradictoryLengths(t *testing.T) {
	el := leaf("S", schema.TypeString, schema.Constraints{MinLength: intp(5), MaxLength: intp(2)})
	if diff := cmp.Diff([]string{ilrskema.CodeMinLength, ilrskema.CodeMaxLength}, codes(ilrskema.ValidateValue("abc", el))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{ilrskema.CodeMinLength}, codes(ilrskema.ValidateValue("a", el))); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestValue_LengthCountsCharacters(t *testing.T) {
	el := leaf("Name", schema.TypeString, schema.Constraints{MaxLength: intp(4)})
	if iss := ilrskema.ValidateValue("Zoë!", el); len(iss) != 0 {
		t.Fatalf("multi-byte characters count once: %v", iss)
	}
}

func TestValidator_LocationAndTranslator(t *testing.T) {
	v := ilrskema.NewValidator(ilrskema.Options{Translator: i18n.New("ja")})
	iss := v.Value("", leaf("ULN", schema.TypeLong, schema.Constraints{}), ilrskema.At(4, "ULN"))
	if len(iss) != 1 || iss[0].Row != 4 || iss[0].Field != "ULN" {
		t.Fatalf("location not carried: %+v", iss)
	}
	if iss[0].Message != "ULN は必須です" {
		t.Fatalf("translator not used: %q", iss[0].Message)
	}
}

func TestValue_PanicsOnBrokenElement(t *testing.T) {
	for name, el := range map[string]*schema.Element{
		"nil":        nil,
		"no type":    {Name: "X", Path: "X"},
		"bogus type": {Name: "X", Path: "X", BaseType: "duration"},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", name)
				}
			}()
			ilrskema.ValidateValue("1", el)
		}()
	}
}
