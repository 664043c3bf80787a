package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	require.NoError(t, errs.Err())

	errs.Add("title", "title is required")
	errs.Add("budget", "budget must be greater than zero")

	err := errs.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation error: budget: budget must be greater than zero; title: title is required", err.Error())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"title is required"}, verr.Fields["title"])
}

func TestWrappedSentinels(t *testing.T) {
	assert.True(t, errors.Is(NotFound("job"), ErrNotFound))
	assert.Equal(t, "job not found", NotFound("job").Error())
	assert.True(t, errors.Is(Forbidden("not the job owner"), ErrForbidden))
	assert.True(t, errors.Is(InvalidState("job is not open"), ErrInvalidState))
	assert.False(t, errors.Is(InvalidState("x"), ErrValidation))
}
