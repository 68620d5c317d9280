// Package validation is the single parse-and-validate step used at every
// boundary: worker requests, worker responses and in-process documents.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/go-playground/validator/v10"
)

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the payload of a ValidationError result.
type ValidationErrors struct {
	Boundary string            `json:"boundary,omitempty"`
	Errors   []ValidationError `json:"errors"`
}

// Summary joins the individual messages into one line.
func (v ValidationErrors) Summary() string {
	parts := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		if e.Field == "" {
			parts = append(parts, e.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Shape describes what a boundary accepts: struct tags on T plus optional
// cross-field checks that tags cannot express.
type Shape[T any] struct {
	Name               string
	MaxBytes           int
	AllowUnknownFields bool
	Checks             []func(T) []ValidationError
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = newValidator()
	})
	return validate
}

// Parse decodes raw strictly into T and validates it against shape.
func Parse[T any](raw []byte, shape Shape[T]) result.Result[T] {
	var value T

	if shape.MaxBytes > 0 && len(raw) > shape.MaxBytes {
		return failed[T](shape.Name, []ValidationError{{
			Message: fmt.Sprintf("message too large. Maximum size: %d bytes", shape.MaxBytes),
		}})
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if !shape.AllowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&value); err != nil {
		return failed[T](shape.Name, []ValidationError{decodeError(err)})
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return failed[T](shape.Name, []ValidationError{{Message: "unexpected data after JSON value"}})
	}

	return Check(value, shape)
}

// Check validates an already-typed value against shape.
func Check[T any](value T, shape Shape[T]) result.Result[T] {
	errs := Struct(value)
	if len(errs) == 0 {
		for _, check := range shape.Checks {
			errs = append(errs, check(value)...)
		}
	}
	if len(errs) > 0 {
		return failed[T](shape.Name, errs)
	}
	return result.Ok(value)
}

// Struct runs the tag rules on v and returns one ValidationError per failed field.
func Struct(v interface{}) []ValidationError {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return out
}

func failed[T any](boundary string, errs []ValidationError) result.Result[T] {
	payload := ValidationErrors{Boundary: boundary, Errors: errs}
	message := "Invalid " + boundary
	if boundary == "" {
		message = "Validation failed"
	}
	return result.Err[T](apperrors.KindValidation, payload, message)
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func decodeError(err error) ValidationError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxErr):
		return ValidationError{Message: fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)}
	case errors.As(err, &typeErr):
		return ValidationError{Field: typeErr.Field, Message: fmt.Sprintf("must be a %s", typeErr.Type.String())}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return ValidationError{Field: field, Message: "is not allowed"}
	case errors.Is(err, io.EOF):
		return ValidationError{Message: "message is empty"}
	default:
		return ValidationError{Message: err.Error()}
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "number":
		return "must contain only digits"
	case "finite":
		return "must be a finite number"
	case "month":
		return "must be a canonical month name"
	case "dayofmonth":
		return "must be a two-digit day between 01 and 31"
	case "storelocation":
		return "must be a known store location"
	case "calendarview":
		return "must be one of: Daily, Monthly, Yearly"
	case "unique":
		return fmt.Sprintf("must not repeat %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", fe.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "bcp47_language_tag":
		return "must be a BCP 47 language tag"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
