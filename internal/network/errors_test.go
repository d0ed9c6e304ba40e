package network

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"node and component", newError(ErrCodeAlreadyConnected, "n1", "m1", "full"), "ALREADY_CONNECTED: full (node=n1, component=m1)"},
		{"node only", newError(ErrCodeUnknownNode, "n1", "", "missing"), "UNKNOWN_NODE: missing (node=n1)"},
		{"component only", newError(ErrCodeNotAttached, "", "m1", "gone"), "NOT_ATTACHED: gone (component=m1)"},
		{"bare sentinel", ErrPathNotFound, "PATH_NOT_FOUND: PATH_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := newError(ErrCodeRemovalBlocked, "n1", "", "busy")
	wrapped := fmt.Errorf("removing: %w", err)

	assert.True(t, errors.Is(wrapped, ErrRemovalBlocked))
	assert.False(t, errors.Is(wrapped, ErrUnknownNode))
	assert.Equal(t, ErrCodeRemovalBlocked, CodeOf(wrapped))
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.False(t, IsPathNotFound(nil))
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsPathNotFound(newError(ErrCodePathNotFound, "", "", "x")))
	assert.True(t, IsUnknownNode(newError(ErrCodeUnknownNode, "", "", "x")))
	assert.True(t, IsCyclicTopology(newError(ErrCodeCyclicTopology, "", "", "x")))
	assert.False(t, IsCyclicTopology(newError(ErrCodePathNotFound, "", "", "x")))
	assert.True(t, IsForeignComponent(newError(ErrCodeForeignComponent, "", "", "x")))
	assert.False(t, IsForeignComponent(newError(ErrCodeDuplicateRegistration, "", "", "x")))
}
