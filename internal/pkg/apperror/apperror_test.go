package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	base := Conflict("already_claimed", "conversation already claimed")
	wrapped := fmt.Errorf("claim failed: %w", base)

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "already_claimed", appErr.Code)
}

func TestAsRejectsPlainErrors(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(502, "upload_failed", "failed to store image", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to store image")
}
