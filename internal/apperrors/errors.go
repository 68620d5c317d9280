// Package apperrors defines the error taxonomy shared by the selector, the
// derivation engine and the worker protocol.
package apperrors

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies a failure so it can travel as data across the worker boundary.
type Kind string

const (
	KindValidation        Kind = "ValidationError"
	KindNotFound          Kind = "NotFound"
	KindMissingSlice      Kind = "MissingSlice"
	KindMalformedDocument Kind = "MalformedDocument"
	KindChannel           Kind = "ChannelError"
	KindUnknown           Kind = "Unknown"
)

var (
	ErrValidation        = stderrors.New("validation failed")
	ErrNotFound          = stderrors.New("requested date slice not found")
	ErrMissingSlice      = stderrors.New("selected date metrics are missing")
	ErrMalformedDocument = stderrors.New("metrics document is malformed")
	ErrChannel           = stderrors.New("worker channel failure")
	ErrUnknown           = stderrors.New("unknown error")
)

var sentinels = map[Kind]error{
	KindValidation:        ErrValidation,
	KindNotFound:          ErrNotFound,
	KindMissingSlice:      ErrMissingSlice,
	KindMalformedDocument: ErrMalformedDocument,
	KindChannel:           ErrChannel,
	KindUnknown:           ErrUnknown,
}

// Sentinel returns the sentinel error for a kind.
func (k Kind) Sentinel() error {
	if err, ok := sentinels[k]; ok {
		return err
	}
	return ErrUnknown
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	_, ok := sentinels[k]
	return ok
}

// KindOf returns the kind of the first sentinel found in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for kind, sentinel := range sentinels {
		if stderrors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}

// Wrap annotates err with message and marks it with the sentinel for kind.
// The original error stays reachable through errors.Is and errors.As.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return errors.Wrap(kind.Sentinel(), message)
	}
	return &kindError{
		kind:  kind,
		cause: errors.Wrap(err, message),
	}
}

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return errors.Wrapf(kind.Sentinel(), format, args...)
}

type kindError struct {
	kind  Kind
	cause error
}

func (e *kindError) Error() string {
	return e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind.Sentinel(), e.cause}
}
