package common

import (
	"crypto/rand"
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/fiatshamir/big"
)

// Samplers for the uniform random values that the protocol consumes. All of
// them take their randomness source as an explicit parameter so that callers
// can substitute a deterministic reader in tests; passing nil selects
// crypto/rand.Reader.
//
// A note on uniformity: big.RandInt wraps "crypto/rand".Int, which performs
// rejection sampling. Deriving a value by reducing random bytes modulo the
// range size would be simpler but skews the distribution slightly whenever
// that size is not a power of two; rejection sampling has no such modulo bias.

// Reader returns rnd if it is non-nil, and crypto/rand.Reader otherwise.
func Reader(rnd io.Reader) io.Reader {
	if rnd != nil {
		return rnd
	}
	return rand.Reader
}

// RandomBigInt returns a random big integer value in the range
// [0,(2^numBits)-1], inclusive.
func RandomBigInt(rnd io.Reader, numBits uint) (*big.Int, error) {
	t := new(big.Int).Lsh(bigONE, numBits)
	return big.RandInt(Reader(rnd), t)
}

// RandomInRange returns a uniform random value in [min, max). The range must
// be nonempty: max <= min is a contract violation and returns an error.
func RandomInRange(rnd io.Reader, min, max *big.Int) (*big.Int, error) {
	if max.Cmp(min) <= 0 {
		return nil, errors.Errorf("randomInRange: empty range [%v, %v)", min, max)
	}
	r, err := big.RandInt(Reader(rnd), new(big.Int).Sub(max, min))
	if err != nil {
		return nil, err
	}
	return r.Add(r, min), nil
}

// RandomBit returns 0 or 1, each with probability 1/2.
func RandomBit(rnd io.Reader) (uint, error) {
	var b [1]byte
	if _, err := io.ReadFull(Reader(rnd), b[:]); err != nil {
		return 0, err
	}
	return uint(b[0] & 1), nil
}
