// internal/chain/hash_test.go
package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProductID(t *testing.T) {
	// Known Keccak-256 vector for "abc".
	hash, err := HashProductID("abc")
	require.NoError(t, err)
	assert.Equal(t, "0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45", hash.Hex())
}

func TestHashProductIDDeterministic(t *testing.T) {
	first, err := HashProductID("c3cf2e34-8a35-4e5b-a1aa-8b0b20e6e3a2")
	require.NoError(t, err)

	second, err := HashProductID("c3cf2e34-8a35-4e5b-a1aa-8b0b20e6e3a2")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := HashProductID("c3cf2e34-8a35-4e5b-a1aa-8b0b20e6e3a3")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestHashProductIDEmpty(t *testing.T) {
	_, err := HashProductID("")
	assert.ErrorIs(t, err, ErrEmptyProductID)
}
