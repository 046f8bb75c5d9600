package ilrskema

// IssueAt creates an Issue at the given location with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(loc Location, code, msg string, params map[string]any) Issue {
	return Issue{Code: code, Message: msg, Row: loc.Row, Field: loc.Field, Params: params, Severity: Error}
}

// Warning returns iss with its severity lowered to Warn.
func Warning(iss Issue) Issue {
	iss.Severity = Warn
	return iss
}
