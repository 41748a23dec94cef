package apperr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTemplate = &Error{
	Message: "goal %q not found",
}

func TestFmtKeepsIdentity(t *testing.T) {
	err := errTemplate.Fmt("read books")

	assert.Equal(t, `goal "read books" not found`, err.Error())
	assert.True(t, errors.Is(err, errTemplate))
	assert.Equal(t, `goal %q not found`, errTemplate.Message)
}

func TestWrapExposesCause(t *testing.T) {
	err := errTemplate.Fmt("x").Wrap(io.EOF)

	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, err, errTemplate)
	assert.Equal(t, `goal "x" not found: EOF`, err.Error())
}

func TestIsRejectsOtherErrors(t *testing.T) {
	other := &Error{Message: "something else"}

	assert.False(t, errors.Is(errTemplate.Fmt("y"), other))
}
