package cbor

import (
	"testing"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicEncoding(t *testing.T) {
	value := map[string]int{"round": 3, "challenge": 1, "accepted": 0}
	first, err := Marshal(value)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		next, err := Marshal(value)
		require.NoError(t, err)
		assert.Equal(t, first, next, "Map encoding is not deterministic")
	}
}

func TestBigIntAsByteString(t *testing.T) {
	value := big.NewInt(1234567890)
	bts, err := Marshal(value)
	require.NoError(t, err)

	// 0x44: byte string of length 4
	assert.Equal(t, []byte{0x44, 0x49, 0x96, 0x02, 0xd2}, bts)

	restored := new(big.Int)
	require.NoError(t, Unmarshal(bts, restored))
	assert.Zero(t, value.Cmp(restored))
}

func TestDuplicateMapKeys(t *testing.T) {
	// {1: 2, 1: 3}
	data := []byte{0xa2, 0x01, 0x02, 0x01, 0x03}
	var dst map[int]int
	assert.Error(t, Unmarshal(data, &dst), "Duplicate map keys should be rejected")
}
