package perrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBody(t *testing.T) {
	err := NewErrNotFound("project not found", errors.New("sql: no rows"))
	var perr Err
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusNotFound, perr.HttpStatus())
	assert.Equal(t, map[string]string{"error": "project not found"}, perr.Body())
	assert.NotEmpty(t, perr.Stacktrace)

	fields := FieldErrors{}
	fields.Add("progress", "too big")
	fields.Add("progress", "still too big")
	verr := NewErrValidation(fields).(Err)
	assert.Equal(t, http.StatusBadRequest, verr.HttpStatus())
	assert.Equal(t, FieldErrors{"progress": {"too big", "still too big"}}, verr.Body())
}

func TestAsFieldErrorsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", NewErrFieldValidation("title", "required"))
	fields, ok := AsFieldErrors(wrapped)
	require.True(t, ok)
	assert.Equal(t, []string{"required"}, fields["title"])

	_, ok = AsFieldErrors(NewErrForbidden())
	assert.False(t, ok)
}
