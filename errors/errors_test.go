package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrUnresolvedReference, "loading study S1")

	assert.Contains(t, wrapped.Error(), "loading study S1")
	assert.True(t, Is(wrapped, ErrUnresolvedReference))
	assert.False(t, Is(wrapped, ErrDuplicateIdentifier))
}

func TestNewUnresolvedReference(t *testing.T) {
	err := NewUnresolvedReference("protocols", "#protocol/P2")

	assert.True(t, Is(err, ErrUnresolvedReference))
	assert.Contains(t, err.Error(), "protocols")
	assert.Contains(t, err.Error(), "#protocol/P2")
}

func TestNewDuplicateIdentifier(t *testing.T) {
	err := NewDuplicateIdentifier("samples", "#sample/s1")

	assert.True(t, Is(err, ErrDuplicateIdentifier))
	assert.Contains(t, err.Error(), "#sample/s1")
}

func TestIsLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unresolved reference", Wrap(ErrUnresolvedReference, "ctx"), true},
		{"duplicate identifier", ErrDuplicateIdentifier, true},
		{"unresolved io", Wrap(ErrUnresolvedIO, "process #process/p1"), true},
		{"ambiguous identifier", ErrAmbiguousIdentifier, true},
		{"missing unit", ErrMissingUnit, true},
		{"schema violation is not a load error", ErrSchemaViolation, false},
		{"unrelated", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLoadError(tt.err))
		})
	}
}
