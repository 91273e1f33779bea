package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Cook1ng!")
	require.NoError(t, err)
	assert.NotEqual(t, "Cook1ng!", hash)
	assert.True(t, CheckPasswordHash("Cook1ng!", hash))
	assert.False(t, CheckPasswordHash("cook1ng!", hash))
	assert.False(t, CheckPasswordHash("Cook1ng!", "not-a-hash"))
}
