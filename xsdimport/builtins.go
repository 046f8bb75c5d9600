package xsdimport

import (
	"strconv"

	"github.com/reoring/ilrskema/schema"
)

const xsdNamespace = "http://www.w3.org/2001/XMLSchema"

type builtin struct {
	base     schema.BaseType
	minValue string // implied lower bound, inclusive
}

var builtins = map[string]builtin{
	"string":             {base: schema.TypeString},
	"normalizedString":   {base: schema.TypeString},
	"token":              {base: schema.TypeString},
	"language":           {base: schema.TypeString},
	"Name":               {base: schema.TypeString},
	"NCName":             {base: schema.TypeString},
	"NMTOKEN":            {base: schema.TypeString},
	"ID":                 {base: schema.TypeString},
	"IDREF":              {base: schema.TypeString},
	"anyURI":             {base: schema.TypeString},
	"anySimpleType":      {base: schema.TypeString},
	"anyType":            {base: schema.TypeString},
	"int":                {base: schema.TypeInt},
	"short":              {base: schema.TypeInt},
	"byte":               {base: schema.TypeInt},
	"integer":            {base: schema.TypeInteger},
	"long":               {base: schema.TypeLong},
	"nonNegativeInteger": {base: schema.TypeInteger, minValue: "0"},
	"positiveInteger":    {base: schema.TypeInteger, minValue: "1"},
	"unsignedLong":       {base: schema.TypeLong, minValue: "0"},
	"unsignedInt":        {base: schema.TypeInt, minValue: "0"},
	"unsignedShort":      {base: schema.TypeInt, minValue: "0"},
	"unsignedByte":       {base: schema.TypeInt, minValue: "0"},
	"decimal":            {base: schema.TypeDecimal},
	"double":             {base: schema.TypeDecimal},
	"float":              {base: schema.TypeDecimal},
	"date":               {base: schema.TypeDate},
	"dateTime":           {base: schema.TypeDateTime},
	"boolean":            {base: schema.TypeBoolean},
}

// builtinConstraints returns the base type and implied facets of a builtin.
// Unknown builtins fall back to string with a warning.
func builtinConstraints(local string, d *simpleDiag) (schema.BaseType, schema.Constraints) {
	b, ok := builtins[local]
	if !ok {
		d.warnf("builtin type xs:%s is not supported; treated as string", local)
		return schema.TypeString, schema.Constraints{}
	}
	var c schema.Constraints
	if b.minValue != "" {
		v, _ := strconv.ParseFloat(b.minValue, 64)
		c.MinInclusive = &schema.Bound{Value: v, Lexical: b.minValue}
	}
	return b.base, c
}
