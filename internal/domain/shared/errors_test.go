package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Purchase order not found")
	assert.Equal(t, "Purchase order not found", err.Error())
	assert.Equal(t, "NOT_FOUND", err.Code)

	var de *DomainError
	assert.True(t, errors.As(ErrNotFound, &de))
}

func TestStorageError(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewStorageError("create purchase order", cause)

	assert.Equal(t, "storage: create purchase order: database is locked", err.Error())
	assert.ErrorIs(t, err, cause)

	var se *StorageError
	assert.True(t, errors.As(error(err), &se))
	assert.Equal(t, "create purchase order", se.Op)
}
