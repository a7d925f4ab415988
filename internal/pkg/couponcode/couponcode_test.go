//go:build unit

package couponcode_test

import (
	"testing"

	"loyalty-core/internal/pkg/couponcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("codes are unique and url safe", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 50 {
			code, err := couponcode.Generate(16)
			require.NoError(t, err)
			assert.NotContains(t, code, "+")
			assert.NotContains(t, code, "/")
			assert.NotContains(t, code, "=")
			assert.False(t, seen[code])
			seen[code] = true
		}
	})

	t.Run("non-positive length falls back to the default", func(t *testing.T) {
		code, err := couponcode.Generate(0)
		require.NoError(t, err)
		assert.NotEmpty(t, code)
	})
}

func TestVerify(t *testing.T) {
	code, err := couponcode.Generate(16)
	require.NoError(t, err)
	hash := couponcode.Hash(code)

	assert.True(t, couponcode.Verify(code, hash))
	assert.False(t, couponcode.Verify(code+"x", hash))
	assert.False(t, couponcode.Verify("", hash))
}
