// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/fiatshamir/big"
)

// SmallPrimes is a list of small prime numbers that allows us to rapidly
// exclude some fraction of composite candidates when searching for a random
// prime. This list is truncated at the point where SmallPrimesProduct exceeds
// a uint64. It does not include two because we ensure that the candidates are
// odd by construction.
var SmallPrimes = []uint8{
	3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
}

// SmallPrimesProduct is the product of the values in SmallPrimes and allows us
// to reduce a candidate prime by this number and then determine whether it's
// coprime with all the elements of SmallPrimes without further big.Int
// operations.
var SmallPrimesProduct = new(big.Int).SetUint64(16294579238595022365)

// RandomPrime returns a random probable prime of exactly bits bits that has
// passed iters Miller-Rabin iterations, drawing candidates from rand (nil
// selects crypto/rand.Reader). Sampling continues until a candidate passes;
// the expected number of trials is proportional to bits.
// This code is an adaption of Go's own Prime function in rand/util.go
func RandomPrime(rand io.Reader, bits uint, iters int) (*big.Int, error) {
	if bits < 2 {
		return nil, errors.New("randomPrime: prime size must be at least 2-bit")
	}
	if iters < 1 {
		return nil, errors.New("randomPrime: at least one Miller-Rabin iteration is required")
	}

	rand = Reader(rand)

	b := bits % 8
	if b == 0 {
		b = 8
	}

	bytes := make([]byte, (bits+7)/8)
	p := new(big.Int)
	bigMod := new(big.Int)

NextCandidate:
	for {
		if _, err := io.ReadFull(rand, bytes); err != nil {
			return nil, err
		}

		// Clear bits in the first byte to make sure the candidate has a size <= bits.
		bytes[0] &= uint8(int(1<<b) - 1)

		// Set the two most significant bits, so that the candidate has exactly the
		// requested length and the product of two candidates always has the full
		// 2*bits length.
		if b >= 2 {
			bytes[0] |= 3 << (b - 2)
		} else {
			// Here b==1, because b cannot be zero.
			bytes[0] |= 1
			if len(bytes) > 1 {
				bytes[1] |= 0x80
			}
		}

		// Make the value odd since an even number this large certainly isn't prime.
		bytes[len(bytes)-1] |= 1

		p.SetBytes(bytes)

		// Calculate the value mod the product of SmallPrimes. If it's a multiple of any of these
		// primes we discard this candidate. This check is much cheaper than ProbablyPrime() below.
		bigMod.Mod(p, SmallPrimesProduct)
		mod := bigMod.Uint64()
		for _, prime := range SmallPrimes {
			if mod%uint64(prime) == 0 && (bits > 6 || mod != uint64(prime)) {
				continue NextCandidate
			}
		}

		if p.ProbablyPrime(iters) {
			return p, nil
		}
	}
}
