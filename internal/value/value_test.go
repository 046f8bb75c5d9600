package value_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/reoring/ilrskema/internal/value"
)

func TestOf_Absent(t *testing.T) {
	var nilStr *string
	for _, raw := range []any{nil, value.Null, nilStr} {
		v := value.Of(raw)
		if !v.Absent || !v.Blank() {
			t.Fatalf("%#v should be absent", raw)
		}
	}
	empty := ""
	if v := value.Of(&empty); v.Absent || !v.Blank() {
		t.Fatalf("pointer to empty string is present but blank: %+v", v)
	}
	if v := value.Of("   "); v.Absent || !v.Blank() {
		t.Fatalf("whitespace is present but blank: %+v", v)
	}
}

func TestOf_Numbers(t *testing.T) {
	cases := []struct {
		raw      any
		text     string
		isNumber bool
		whole    bool
		number   float64
	}{
		{"42", "42", true, true, 42},
		{" -7 ", " -7 ", true, true, -7},
		{"42.5", "42.5", true, false, 42.5},
		{"42.0", "42.0", true, false, 42},
		{"1e3", "1e3", true, false, 1000},
		{".5", ".5", true, false, 0.5},
		{"NaN", "NaN", false, false, 0},
		{"Inf", "Inf", false, false, 0},
		{"0x10", "0x10", false, false, 0},
		{"1_000", "1_000", false, false, 0},
		{"abc", "abc", false, false, 0},
		{42, "42", true, true, 42},
		{uint8(7), "7", true, true, 7},
		{42.5, "42.5", true, false, 42.5},
		{float32(3), "3", true, true, 3},
		{100.0, "100", true, true, 100},
		{math.NaN(), "NaN", false, false, 0},
		{json.Number("12"), "12", true, true, 12},
	}
	for _, tc := range cases {
		v := value.Of(tc.raw)
		if v.Text != tc.text || v.IsNumber != tc.isNumber || v.Whole != tc.whole || (tc.isNumber && v.Number != tc.number) {
			t.Errorf("Of(%#v) = text %q number %v(%v) whole %v", tc.raw, v.Text, v.Number, v.IsNumber, v.Whole)
		}
	}
}

func TestOf_Booleans(t *testing.T) {
	cases := []struct {
		raw    any
		isBool bool
		want   bool
	}{
		{true, true, true},
		{false, true, false},
		{"TRUE", true, true},
		{"False", true, false},
		{"1", true, true},
		{"0", true, false},
		{1, true, true},
		{"yes", false, false},
		{"2", false, false},
	}
	for _, tc := range cases {
		v := value.Of(tc.raw)
		if v.IsBool != tc.isBool || v.Bool != tc.want {
			t.Errorf("Of(%#v): bool %v(%v)", tc.raw, v.Bool, v.IsBool)
		}
	}
}

type code string

func (c code) String() string { return "code-" + string(c) }

func TestOf_Stringer(t *testing.T) {
	if v := value.Of(code("A")); v.Text != "code-A" || v.Native {
		t.Fatalf("stringer not used for text: %+v", v)
	}
}
