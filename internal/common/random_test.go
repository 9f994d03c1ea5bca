package common

import (
	"testing"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBigInt(t *testing.T) {
	max := new(big.Int).Lsh(big.NewInt(1), 80)
	for i := 0; i < 100; i++ {
		r, err := RandomBigInt(nil, 80)
		require.NoError(t, err)
		assert.True(t, r.Sign() >= 0, "Negative value")
		assert.True(t, r.Cmp(max) < 0, "Value exceeds 80 bits")
	}
}

func TestRandomInRange(t *testing.T) {
	min := big.NewInt(10)
	max := big.NewInt(25)
	for i := 0; i < 100; i++ {
		r, err := RandomInRange(nil, min, max)
		require.NoError(t, err)
		assert.True(t, r.Cmp(min) >= 0, "Value below lower bound")
		assert.True(t, r.Cmp(max) < 0, "Value reached upper bound")
	}
}

func TestRandomInRangeSingleton(t *testing.T) {
	// [7, 8) leaves exactly one possible value
	r, err := RandomInRange(nil, big.NewInt(7), big.NewInt(8))
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.Int64())
}

func TestRandomInRangeEmpty(t *testing.T) {
	_, err := RandomInRange(nil, big.NewInt(8), big.NewInt(8))
	assert.Error(t, err, "Empty range should be rejected")

	_, err = RandomInRange(nil, big.NewInt(9), big.NewInt(8))
	assert.Error(t, err, "Inverted range should be rejected")
}

func TestRandomBit(t *testing.T) {
	var seen [2]int
	for i := 0; i < 200; i++ {
		b, err := RandomBit(nil)
		require.NoError(t, err)
		require.True(t, b == 0 || b == 1, "Bit out of range: %d", b)
		seen[b]++
	}
	assert.NotZero(t, seen[0], "200 draws without a single 0")
	assert.NotZero(t, seen[1], "200 draws without a single 1")
}
