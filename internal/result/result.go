// Package result provides the success/failure envelope returned by every
// fallible step of chart derivation. Failures are values, not panics.
package result

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
)

// Failure is the payload of an Err result.
type Failure struct {
	Kind    apperrors.Kind `json:"kind"`
	Data    interface{}    `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Error implements error so a Failure can be handed to ordinary error handling.
func (f Failure) Error() string {
	switch {
	case f.Message != "" && f.Data != nil:
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Data)
	case f.Message != "":
		return fmt.Sprintf("%s: %s", f.Kind, f.Message)
	default:
		return string(f.Kind)
	}
}

// Unwrap exposes the kind sentinel and, when the payload is an error, the payload.
func (f Failure) Unwrap() []error {
	errs := []error{f.Kind.Sentinel()}
	if err, ok := f.Data.(error); ok {
		errs = append(errs, err)
	}
	return errs
}

// Result is either Ok(data) or Err(failure). The zero value is an Unknown Err.
type Result[T any] struct {
	ok      bool
	data    T
	failure Failure
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// Err builds a failed result.
func Err[T any](kind apperrors.Kind, data interface{}, message string) Result[T] {
	if !kind.IsValid() {
		kind = apperrors.KindUnknown
	}
	return Result[T]{failure: Failure{Kind: kind, Data: data, Message: message}}
}

// Fail re-types an existing failure.
func Fail[T any](f Failure) Result[T] {
	return Err[T](f.Kind, f.Data, f.Message)
}

// FromError classifies err with apperrors.KindOf and stores it as the payload.
func FromError[T any](err error, message string) Result[T] {
	var f Failure
	if errors.As(err, &f) {
		if message != "" {
			f.Message = message
		}
		return Fail[T](f)
	}
	return Err[T](apperrors.KindOf(err), err, message)
}

// IsOk reports whether the result carries data.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// Value returns the data and true on Ok, the zero value and false on Err.
func (r Result[T]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.data, true
}

// Failure returns the failure and true on Err.
func (r Result[T]) Failure() (Failure, bool) {
	if r.ok {
		return Failure{}, false
	}
	if r.failure.Kind == "" {
		return Failure{Kind: apperrors.KindUnknown}, true
	}
	return r.failure, true
}

// Unwrap converts the result into Go's (value, error) convention.
func (r Result[T]) Unwrap() (T, error) {
	if f, failed := r.Failure(); failed {
		var zero T
		return zero, f
	}
	return r.data, nil
}

// WithMessage replaces the human-readable context of an Err, keeping kind and payload.
// Ok results are returned unchanged.
func (r Result[T]) WithMessage(message string) Result[T] {
	if r.ok {
		return r
	}
	f, _ := r.Failure()
	f.Message = message
	return Fail[T](f)
}

// Then runs f on the data of an Ok result. An Err input short-circuits unchanged.
// If f fails, its failure is kept and its message is replaced by step.
func Then[T, U any](r Result[T], step string, f func(T) Result[U]) Result[U] {
	if fail, failed := r.Failure(); failed {
		return Fail[U](fail)
	}
	out := f(r.data)
	if !out.ok {
		return out.WithMessage(step)
	}
	return out
}

// Map transforms the data of an Ok result with an infallible function.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if fail, failed := r.Failure(); failed {
		return Fail[U](fail)
	}
	return Ok(f(r.data))
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Kind    apperrors.Kind  `json:"kind,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// MarshalJSON encodes the result as {"success":true,"data":…} or
// {"success":false,"kind":…,"error":…,"message":…}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		data, err := json.Marshal(r.data)
		if err != nil {
			return nil, err
		}
		return json.Marshal(envelope{Success: true, Data: data})
	}

	f, _ := r.Failure()
	env := envelope{Kind: f.Kind, Message: f.Message}
	if f.Data != nil {
		payload, err := json.Marshal(encodablePayload(f.Data))
		if err != nil {
			return nil, err
		}
		env.Error = payload
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes an envelope produced by MarshalJSON. Err payloads are
// decoded generically since their concrete type does not cross the wire.
func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	if env.Success {
		var data T
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &data); err != nil {
				return err
			}
		}
		*r = Ok(data)
		return nil
	}

	var payload interface{}
	if len(env.Error) > 0 {
		if err := json.Unmarshal(env.Error, &payload); err != nil {
			return err
		}
	}
	*r = Err[T](env.Kind, payload, env.Message)
	return nil
}

func encodablePayload(v interface{}) interface{} {
	if _, ok := v.(json.Marshaler); ok {
		return v
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}
