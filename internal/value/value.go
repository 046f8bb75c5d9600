// Package value normalizes raw field values once so every constraint check
// reads the same interpretation of a value.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NullMarker is the type of Null.
type NullMarker struct{}

func (NullMarker) String() string { return "null" }

// Null marks a value that was explicitly provided as null.
var Null = NullMarker{}

var (
	integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLexical = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// Value is one raw value and its attempted interpretations.
type Value struct {
	Raw any
	// Text is the textual form used by pattern, length and enumeration checks.
	Text string
	// Trimmed is Text without surrounding whitespace; type checks read it.
	Trimmed string

	Absent bool // nil, Null or a nil *string
	Native bool // Raw was a Go number or bool rather than text

	Number   float64
	IsNumber bool // finite number, native or parsed from Trimmed
	Whole    bool // IsNumber and integral (native) or integer lexical form (text)

	Bool   bool
	IsBool bool
}

// Blank reports whether the value carries nothing: absent, null, or text
// that trims to empty.
func (v Value) Blank() bool { return v.Absent || v.Trimmed == "" }

// Of normalizes raw.
func Of(raw any) Value {
	v := Value{Raw: raw}
	switch x := raw.(type) {
	case nil, NullMarker, *NullMarker:
		v.Absent = true
	case *string:
		if x == nil {
			v.Absent = true
			break
		}
		v.fromText(*x)
	case string:
		v.fromText(x)
	case []byte:
		v.fromText(string(x))
	case json.Number:
		v.fromText(x.String())
	case bool:
		v.Native = true
		v.Bool, v.IsBool = x, true
		v.setText(strconv.FormatBool(x))
	case int:
		v.fromInt(int64(x))
	case int8:
		v.fromInt(int64(x))
	case int16:
		v.fromInt(int64(x))
	case int32:
		v.fromInt(int64(x))
	case int64:
		v.fromInt(x)
	case uint:
		v.fromUint(uint64(x))
	case uint8:
		v.fromUint(uint64(x))
	case uint16:
		v.fromUint(uint64(x))
	case uint32:
		v.fromUint(uint64(x))
	case uint64:
		v.fromUint(x)
	case float32:
		v.fromFloat(float64(x), 32)
	case float64:
		v.fromFloat(x, 64)
	case fmt.Stringer:
		v.fromText(x.String())
	default:
		v.fromText(fmt.Sprint(x))
	}
	return v
}

func (v *Value) setText(s string) {
	v.Text = s
	v.Trimmed = strings.TrimSpace(s)
}

func (v *Value) fromText(s string) {
	v.setText(s)
	t := v.Trimmed
	if decimalLexical.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsInf(f, 0) {
			v.Number, v.IsNumber = f, true
			v.Whole = integerLexical.MatchString(t)
		}
	}
	switch strings.ToLower(t) {
	case "true", "1":
		v.Bool, v.IsBool = true, true
	case "false", "0":
		v.Bool, v.IsBool = false, true
	}
}

func (v *Value) fromInt(n int64) {
	v.Native = true
	v.setText(strconv.FormatInt(n, 10))
	v.Number, v.IsNumber, v.Whole = float64(n), true, true
	v.boolFromNumber()
}

func (v *Value) fromUint(n uint64) {
	v.Native = true
	v.setText(strconv.FormatUint(n, 10))
	v.Number, v.IsNumber, v.Whole = float64(n), true, true
	v.boolFromNumber()
}

func (v *Value) fromFloat(f float64, bits int) {
	v.Native = true
	v.setText(strconv.FormatFloat(f, 'f', -1, bits))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	v.Number, v.IsNumber = f, true
	v.Whole = f == math.Trunc(f)
	v.boolFromNumber()
}

// A native 1 or 0 reads as a boolean the same way its text would.
func (v *Value) boolFromNumber() {
	switch v.Trimmed {
	case "1":
		v.Bool, v.IsBool = true, true
	case "0":
		v.Bool, v.IsBool = false, true
	}
}
