package ilrskema

import (
	"context"
	"log/slog"

	"github.com/reoring/ilrskema/i18n"
	"github.com/reoring/ilrskema/internal/value"
	"github.com/reoring/ilrskema/schema"
)

// Null is the explicit null marker. A nil *string is treated the same way.
var Null = value.Null

// Row is one tabular record keyed by column header. A header missing from
// the map means the value was not provided.
type Row map[string]string

// Location tells the validator where a value came from.
type Location struct {
	Row   int // NoRow when the value is not part of a batch
	Field string
}

// At is a row-scoped Location.
func At(row int, field string) Location { return Location{Row: row, Field: field} }

// RowContext is what a RowRule sees for one row.
type RowContext struct {
	Ctx   context.Context
	Index int
	Row   Row
	// Columns maps each resolved header to its schema element.
	Columns map[string]*schema.Element
}

// Value returns the raw text of field and whether it was provided.
func (rc RowContext) Value(field string) (string, bool) {
	v, ok := rc.Row[field]
	return v, ok
}

// Element returns the schema element the column field resolved to.
func (rc RowContext) Element(field string) *schema.Element { return rc.Columns[field] }

// RowRule is a cross-field check run once per row after the field checks.
// Returned issues get the row index filled in; an empty Code becomes CodeRule.
type RowRule func(RowContext) Issues

// Options configures a Validator.
type Options struct {
	// Mapping sends a column header to a schema path. Headers without an
	// entry are looked up by element name.
	Mapping map[string]string
	// RecordPath is the schema path whose direct simple children must all
	// have a column. Defaults to the registry root.
	RecordPath string
	// Translator renders issue messages. Defaults to i18n.Default().
	Translator i18n.Translator
	// Logger receives Debug diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Workers > 1 evaluates disjoint row ranges concurrently.
	Workers  int
	RowRules []RowRule
}

func (o Options) translator() i18n.Translator {
	if o.Translator == nil {
		return i18n.Default()
	}
	return o.Translator
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
