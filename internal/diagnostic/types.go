package diagnostic

import (
	"fmt"
	"strings"

	"astrie/internal/common"
	"astrie/internal/errors"
)

// Codes recorded by the core passes.
const (
	CodeUnmappedKind        = "unmapped-kind"
	CodeTypelessAlternative = "typeless-alternative"
	CodeNameCollision       = "name-collision"
	CodeUnliftedVariant     = "unlifted-variant"
	CodeUnresolvedRef       = "unresolved-ref"
	CodeAnonymousInline     = "anonymous-inline"
	CodeDependencyCycle     = "dependency-cycle"
	CodeUnsupportedDecl     = "unsupported-declaration"
	CodeDroppedAttribute    = "dropped-attribute"
)

// Diagnostics holds all diagnostic information from one pipeline run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Target is the back end the diagnostic was raised for (if any).
	Target string
	// Path locates the declaration or member, e.g. "Order.shipping".
	Path string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, target, path string) {
	d.Errors = append(d.Errors, newDiagnostic(DiagnosticError, code, message, target, path))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, target, path string) {
	d.Warnings = append(d.Warnings, newDiagnostic(DiagnosticWarning, code, message, target, path))
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, target, path string) {
	d.Infos = append(d.Infos, newDiagnostic(DiagnosticInfo, code, message, target, path))
}

func newDiagnostic(sev DiagnosticSeverity, code, message, target, path string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		Target:   target,
		Path:     path,
	}
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return d != nil && len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Len is the total number of diagnostics of every severity.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// WithCode returns every diagnostic carrying code, errors first.
func (d *Diagnostics) WithCode(code string) []Diagnostic {
	if d == nil {
		return nil
	}

	var out []Diagnostic

	for _, group := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range group {
			if diag.Code == code {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Target != "" {
		prefix = append(prefix, "["+d.Target+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
