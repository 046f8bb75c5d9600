// Package ilrskema validates tabular learner records against an ILR schema.
//
// - A schema.Registry (built by xsdimport) describes every element, its base type and its facets
// - Validator.Value checks one value against one element and returns Issues, never an error
// - Validator.Rows resolves column headers, checks header completeness and validates every row
// - Result carries the error and warning counts plus the ordered issue list
//
// Design policy:
// - The registry is immutable and shared; the validator keeps no state between calls.
// - Bad data becomes Issues. Unusable configuration (ambiguous columns, unknown mapping paths) is an error.
// - Defaults such as the provider identifier belong to the config package and are passed in explicitly.
//
// Typical usage:
//
//	reg, _, err := xsdimport.BuildFile("ILR-2025-26.xsd", xsdimport.Options{})
//	res, err := ilrskema.ValidateRows(ctx, rows, headers, reg, ilrskema.Options{
//		RecordPath: "Message/Learner",
//		Mapping:    map[string]string{"Postcode": "Message/Learner/Postcode"},
//	})
//	if !res.Valid {
//		report(res.Issues)
//	}
package ilrskema
