package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsTimeOrdered(t *testing.T) {
	prev, err := NewID()
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), prev.Version())

	for range 1000 {
		id, err := NewID()
		require.NoError(t, err)
		require.Less(t, prev.String(), id.String())
		prev = id
	}
}
