// Package apperrors defines the error kinds shared by the bulletin parser and the layers around it.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error so callers can branch without inspecting message text
type Kind int

const (
	KindUnknown Kind = iota
	// KindTooFewLines means the bulletin has fewer non-blank lines than the minimum
	KindTooFewLines
	// KindMalformedRecord means a currency line does not split into the expected fields
	KindMalformedRecord
	// KindInvalidDateFormat means the bulletin date line is missing or unparseable
	KindInvalidDateFormat
	// KindValidation means a record or list broke a numeric, shape or format constraint
	KindValidation
	// KindUpstream means the bulletin could not be fetched
	KindUpstream
	// KindNotFound means the requested currency or snapshot does not exist
	KindNotFound
	// KindInvalidRequest means the caller supplied bad input
	KindInvalidRequest
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindTooFewLines:       "too_few_lines",
	KindMalformedRecord:   "malformed_record",
	KindInvalidDateFormat: "invalid_date_format",
	KindValidation:        "validation",
	KindUpstream:          "upstream",
	KindNotFound:          "not_found",
	KindInvalidRequest:    "invalid_request",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Violation describes one failed constraint
type Violation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
	Value string `json:"value,omitempty"`
}

func (v Violation) String() string {
	rule := v.Rule
	if v.Param != "" {
		rule += "=" + v.Param
	}
	if v.Value != "" {
		return fmt.Sprintf("%s failed %s (got %q)", v.Field, rule, v.Value)
	}
	return fmt.Sprintf("%s failed %s", v.Field, rule)
}

// Error is the structured error returned by the parser and services
type Error struct {
	Kind       Kind
	Message    string
	Line       string
	Expected   string
	Actual     string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Violations) > 0 {
		parts := make([]string, 0, len(e.Violations))
		for _, v := range e.Violations {
			parts = append(parts, v.String())
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, "; "))
	}

	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", e.Expected, e.Actual)
	}

	if e.Line != "" {
		fmt.Fprintf(&b, " [%s]", e.Line)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the sentinels below match any
// error of their kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithLine returns a copy of the error annotated with the offending input line
func (e *Error) WithLine(line string) *Error {
	cp := *e
	cp.Line = line
	return &cp
}

// Sentinels for errors.Is
var (
	ErrTooFewLines       = &Error{Kind: KindTooFewLines, Message: "too few lines"}
	ErrMalformedRecord   = &Error{Kind: KindMalformedRecord, Message: "malformed record"}
	ErrInvalidDateFormat = &Error{Kind: KindInvalidDateFormat, Message: "invalid date format"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation error"}
	ErrUpstream          = &Error{Kind: KindUpstream, Message: "upstream error"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest, Message: "invalid request"}
)

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ViolationsOf returns the violations carried by err, if any
func ViolationsOf(err error) []Violation {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}

// TooFewLines reports a bulletin with fewer than minimum non-blank lines
func TooFewLines(got, minimum int) *Error {
	return &Error{
		Kind:     KindTooFewLines,
		Message:  "invalid CNB data format: too few lines",
		Expected: fmt.Sprintf("at least %d", minimum),
		Actual:   fmt.Sprintf("%d", got),
	}
}

// MalformedRecord reports a currency line that split into got fields instead of want
func MalformedRecord(line string, got, want int) *Error {
	direction := "few"
	if got > want {
		direction = "many"
	}
	return &Error{
		Kind:     KindMalformedRecord,
		Message:  fmt.Sprintf("invalid currency data format in CNB data: too %s parts", direction),
		Line:     line,
		Expected: fmt.Sprintf("%d", want),
		Actual:   fmt.Sprintf("%d", got),
	}
}

// InvalidDateFormat reports a date line that could not be read
func InvalidDateFormat(line string, err error) *Error {
	return &Error{
		Kind:    KindInvalidDateFormat,
		Message: "invalid date format in CNB data",
		Line:    line,
		Err:     err,
	}
}

// Validation reports broken field constraints
func Validation(message string, violations ...Violation) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    message,
		Violations: violations,
	}
}

// Upstream reports a failed or unusable fetch from the bulletin source
func Upstream(message string, err error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: message,
		Err:     err,
	}
}

// NotFound reports a missing currency or snapshot
func NotFound(message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
	}
}

// InvalidRequest reports bad caller input
func InvalidRequest(message string, violations ...Violation) *Error {
	return &Error{
		Kind:       KindInvalidRequest,
		Message:    message,
		Violations: violations,
	}
}
