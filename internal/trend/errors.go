package trend

import (
	"fmt"
	"strings"
)

// Violation codes returned inside ValidationErrors.
const (
	CodeUnknownField    = "UnknownFieldError"
	CodeUnknownOperator = "UnknownOperatorError"
	CodeTypeMismatch    = "TypeMismatchError"
	CodeMalformedRange  = "MalformedRangeError"
	CodeUnknownOutcome  = "UnknownOutcomeError"
	CodeMalformedQuery  = "MalformedQueryError"
)

// Top-level error codes used in the wire error envelope.
const (
	CodeValidation = "ValidationError"
	CodeDataSource = "DataSourceError"
)

// Violation is a single validation failure, tagged with the path of the
// offending field in the input document.
type Violation struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors carries every violation found in one validation pass.
// Validation never fails fast: the caller gets the full list.
type ValidationErrors struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = fmt.Sprintf("%s: %s", v.Path, v.Message)
	}
	return "invalid trend query: " + strings.Join(msgs, "; ")
}

func (e *ValidationErrors) add(path, code, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

// DataSourceError wraps a failed or timed-out candidate-row fetch. The
// engine performs no retry; the caller decides what to do with it.
type DataSourceError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *DataSourceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("data source timeout during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("data source error during %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
