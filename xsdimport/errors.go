package xsdimport

import (
	"errors"
	"strings"
)

// Kinds of ParseError. Match them with errors.Is.
var (
	ErrMalformed      = errors.New("malformed schema")
	ErrUnresolvedType = errors.New("unresolved type reference")
	ErrCyclicType     = errors.New("cyclic type reference")
	ErrDuplicatePath  = errors.New("duplicate element path")
	ErrInvalidFacet   = errors.New("invalid facet")
)

// ParseError reports why a schema description could not be turned into a
// registry. No partial registry is ever returned alongside it.
type ParseError struct {
	Kind error  // one of the Err* kinds above
	Path string // element path or type name, when known
	Msg  string
	Err  error // underlying cause, optional
}

func (e *ParseError) Error() string {
	b := &strings.Builder{}
	b.WriteString("xsdimport: ")
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	} else {
		b.WriteString("parse error")
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func parseErr(kind error, path, msg string) *ParseError {
	return &ParseError{Kind: kind, Path: path, Msg: msg}
}

func wrapErr(kind error, path, msg string, err error) *ParseError {
	return &ParseError{Kind: kind, Path: path, Msg: msg, Err: err}
}
