package oda

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField marks a mandatory JSON field that was absent or null.
	ErrMissingField = errors.New("missing mandatory field")
	// ErrWrongType marks a JSON field whose value has an unexpected type.
	ErrWrongType = errors.New("unexpected field type")
	// ErrMalformed marks a body that is not valid JSON of the expected shape.
	ErrMalformed = errors.New("malformed json")
)

// DecodeError reports why a JSON value could not be mapped to an entity.
type DecodeError struct {
	// Field is the dotted path of the offending field, e.g. "building.id" or "[3].id".
	Field  string
	Reason error
	Detail string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode")
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason.Error())
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Reason }

// Missing builds a DecodeError for an absent mandatory field.
func Missing(field string) *DecodeError {
	return &DecodeError{Field: field, Reason: ErrMissingField}
}

// WrongType builds a DecodeError for a field of the wrong JSON type.
func WrongType(field, want, got string) *DecodeError {
	return &DecodeError{Field: field, Reason: ErrWrongType, Detail: fmt.Sprintf("want %s, got %s", want, got)}
}

// InElement prefixes the field path of a DecodeError with an array index.
func InElement(idx int, err error) error {
	var de *DecodeError
	if !errors.As(err, &de) {
		return fmt.Errorf("element %d: %w", idx, err)
	}
	field := fmt.Sprintf("[%d]", idx)
	if de.Field != "" {
		field += "." + de.Field
	}
	return &DecodeError{Field: field, Reason: de.Reason, Detail: de.Detail}
}

// NetworkError is the single error type surfaced by endpoint clients. It wraps
// transport failures, non-2xx responses and decode failures alike.
type NetworkError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       []byte
	Cause      error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString("oda")
	if e.Method != "" {
		b.WriteString(" ")
		b.WriteString(e.Method)
	}
	if e.URL != "" {
		b.WriteString(" ")
		b.WriteString(e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// IsDecode reports whether the failure came from decoding the response body.
func (e *NetworkError) IsDecode() bool {
	var de *DecodeError
	return errors.As(e.Cause, &de)
}

// StatusCode extracts the HTTP status carried by a NetworkError anywhere in err's chain.
func StatusCode(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.StatusCode
	}
	return 0
}
