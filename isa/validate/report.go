// Package validate implements the validation path: schema conformance,
// structural checks and declared-versus-used cross-reference reconciliation
// over a raw ISA-JSON document.
//
// The validation path never fails fast except on schema non-conformance;
// every other check is exhaustive and additive, so one run yields the
// complete diagnostic picture.
package validate

import (
	"fmt"

	"github.com/google/uuid"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Diagnostic is one validation finding. Diagnostics are never mutated once
// appended to a report.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Report is an ordered, append-only sequence of diagnostics for one
// document. The run ID ties log lines and rendered output of the same
// validation run together.
type Report struct {
	RunID       string       `json:"run_id" yaml:"run_id"`
	File        string       `json:"file" yaml:"file"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// NewReport creates an empty report for the named input.
func NewReport(file string) *Report {
	return &Report{RunID: uuid.NewString(), File: file}
}

func (r *Report) append(severity Severity, format string, args ...interface{}) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Warnf appends a warning diagnostic.
func (r *Report) Warnf(format string, args ...interface{}) {
	r.append(SeverityWarning, format, args...)
}

// Errorf appends an error diagnostic.
func (r *Report) Errorf(format string, args ...interface{}) {
	r.append(SeverityError, format, args...)
}

// Fatalf appends a fatal diagnostic. Fatal diagnostics halt further
// validation at the orchestration level; the report itself keeps accepting
// appends.
func (r *Report) Fatalf(format string, args ...interface{}) {
	r.append(SeverityFatal, format, args...)
}

// Valid reports whether the document passed: no error or fatal entries.
func (r *Report) Valid() bool {
	return r.Count(SeverityError) == 0 && r.Count(SeverityFatal) == 0
}

// HasFatal reports whether a fatal diagnostic was appended.
func (r *Report) HasFatal() bool {
	return r.Count(SeverityFatal) > 0
}

// Count returns the number of diagnostics at the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == severity {
			n++
		}
	}
	return n
}
