package invite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	code, err := newCode()
	require.NoError(t, err)

	// 16 bytes base32 without padding.
	assert.Len(t, code, 26)
	for _, r := range code {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", string(r))
	}
}

func TestNewCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := newCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "generated a duplicate code")
		seen[code] = true
	}
}
