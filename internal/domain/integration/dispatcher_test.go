package integration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchError(t *testing.T) {
	err := &DispatchError{StatusCode: 422, Body: `{"error":"unknown po"}`}

	assert.ErrorIs(t, err, ErrDispatchFailed)
	assert.Contains(t, err.Error(), "HTTP 422")

	wrapped := fmt.Errorf("send invoice: %w", err)
	var de *DispatchError
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, 422, de.StatusCode)
	assert.Equal(t, `{"error":"unknown po"}`, de.Body)
}
