package apperrors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := stderrors.New("disk on fire")

	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "bare sentinel", err: ErrNotFound, expected: KindNotFound},
		{name: "fmt wrapped sentinel", err: fmt.Errorf("year 2021: %w", ErrNotFound), expected: KindNotFound},
		{name: "New with kind", err: New(KindMissingSlice, "no day %s", "01"), expected: KindMissingSlice},
		{name: "Wrap with cause", err: Wrap(KindChannel, cause, "send failed"), expected: KindChannel},
		{name: "unclassified error", err: cause, expected: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("queue closed")
	err := Wrap(KindChannel, cause, "receive failed")

	assert.ErrorIs(t, err, ErrChannel)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "receive failed: queue closed", err.Error())
}

func TestKindSentinel(t *testing.T) {
	assert.Equal(t, ErrMalformedDocument, KindMalformedDocument.Sentinel())
	assert.Equal(t, ErrUnknown, Kind("Bogus").Sentinel())
	assert.True(t, KindValidation.IsValid())
	assert.False(t, Kind("Bogus").IsValid())
}
