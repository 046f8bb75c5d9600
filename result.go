package ilrskema

import json "github.com/goccy/go-json"

// Result is the outcome of validating a batch.
type Result struct {
	Valid        bool   `json:"valid"`
	ErrorCount   int    `json:"errorCount"`
	WarningCount int    `json:"warningCount"`
	Issues       Issues `json:"issues"`
}

// NewResult tallies issues by severity. Issues is never nil in the result.
func NewResult(issues Issues) Result {
	r := Result{Issues: AppendIssues(nil, issues...)}
	for _, iss := range r.Issues {
		switch iss.Severity {
		case Warn:
			r.WarningCount++
		default:
			r.ErrorCount++
		}
	}
	r.Valid = r.ErrorCount == 0
	return r
}

// Err returns the issues as an error when the result is not valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Issues
}

// JSON renders the result for a reporting collaborator.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}
