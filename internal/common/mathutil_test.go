package common

import (
	"testing"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/stretchr/testify/assert"
)

func TestModInverse(t *testing.T) {
	inv, ok := ModInverse(big.NewInt(3), big.NewInt(7))
	assert.True(t, ok, "3 should be invertible modulo 7")
	assert.Equal(t, big.NewInt(5), inv)

	_, ok = ModInverse(big.NewInt(4), big.NewInt(8))
	assert.False(t, ok, "4 should not be invertible modulo 8")
}

func TestModPow(t *testing.T) {
	result, err := ModPow(big.NewInt(5), big.NewInt(3), big.NewInt(7))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(6), result)

	result, err = ModPow(big.NewInt(3), big.NewInt(-1), big.NewInt(7))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(5), result)

	result, err = ModPow(big.NewInt(2), big.NewInt(-2), big.NewInt(9))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(7), result)

	_, err = ModPow(big.NewInt(4), big.NewInt(-1), big.NewInt(8))
	assert.Equal(t, ErrNoModInverse, err)
}

func TestLegendreSymbol(t *testing.T) {
	// The quadratic residues modulo 13 are 1, 3, 4, 9, 10 and 12
	expected := []int{0, 1, -1, 1, 1, -1, -1, -1, -1, 1, 1, -1, 1}
	for a, symbol := range expected {
		assert.Equal(t, symbol, LegendreSymbol(big.NewInt(int64(a)), big.NewInt(13)), "Wrong symbol for %d", a)
	}
	assert.Equal(t, 0, LegendreSymbol(big.NewInt(26), big.NewInt(13)))
}

func TestCrt(t *testing.T) {
	assert.Equal(t, big.NewInt(8), Crt(big.NewInt(2), big.NewInt(3), big.NewInt(3), big.NewInt(5)))
	assert.Equal(t, big.NewInt(59), Crt(big.NewInt(4), big.NewInt(11), big.NewInt(7), big.NewInt(13)))
	assert.Zero(t, Crt(big.NewInt(0), big.NewInt(11), big.NewInt(0), big.NewInt(13)).Sign())

	assert.Panics(t, func() {
		Crt(big.NewInt(1), big.NewInt(4), big.NewInt(1), big.NewInt(6))
	}, "Crt should reject moduli that are not coprime")
}

func TestPrimeSqrt(t *testing.T) {
	// 11 = 3 (mod 4), the shortcut applies
	root, ok := PrimeSqrt(big.NewInt(5), big.NewInt(11))
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(5), new(big.Int).Exp(root, big.NewInt(2), big.NewInt(11)))

	_, ok = PrimeSqrt(big.NewInt(2), big.NewInt(11))
	assert.False(t, ok, "2 is not a quadratic residue modulo 11")

	// 13 = 1 (mod 4), the full Tonelli-Shanks loop runs
	root, ok = PrimeSqrt(big.NewInt(10), big.NewInt(13))
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(10), new(big.Int).Exp(root, big.NewInt(2), big.NewInt(13)))

	_, ok = PrimeSqrt(big.NewInt(5), big.NewInt(13))
	assert.False(t, ok, "5 is not a quadratic residue modulo 13")

	root, ok = PrimeSqrt(big.NewInt(0), big.NewInt(11))
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(0), root)
}

func TestModSqrt(t *testing.T) {
	factors := []*big.Int{big.NewInt(11), big.NewInt(13)}

	root, ok := ModSqrt(big.NewInt(25), factors)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(25), new(big.Int).Exp(root, big.NewInt(2), big.NewInt(143)))

	_, ok = ModSqrt(big.NewInt(2), factors)
	assert.False(t, ok, "2 is not a quadratic residue modulo 143")

	factorsWithFour := []*big.Int{big.NewInt(4), big.NewInt(11)}

	root, ok = ModSqrt(big.NewInt(25), factorsWithFour)
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(25), new(big.Int).Exp(root, big.NewInt(2), big.NewInt(44)))

	_, ok = ModSqrt(big.NewInt(6), factorsWithFour)
	assert.False(t, ok, "6 = 2 (mod 4) has no square root modulo 44")
}

func BenchmarkPrimeSqrt(b *testing.B) {
	p := big.NewInt(104729) // 1 (mod 4), so no shortcut
	val := new(big.Int).Exp(big.NewInt(12345), big.NewInt(2), p)
	for i := 0; i < b.N; i++ {
		_, ok := PrimeSqrt(val, p)
		assert.True(b, ok)
	}
}
