package fiatshamir

import (
	"github.com/go-errors/errors"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/privacybydesign/fiatshamir/internal/common"
)

var (
	// ErrNoModInverse is returned when a value that must be inverted modulo n
	// has no inverse.
	ErrNoModInverse = common.ErrNoModInverse

	// ErrNoSquareRoot is returned by RecoverWitness for values that are not
	// quadratic residues modulo n.
	ErrNoSquareRoot = errors.New("value has no square root modulo n")
)

// ExtractWitness computes the witness from accepting responses to both
// challenges over a single commitment: x' = s1 * s0^(-1) mod n, which
// satisfies x'^2 = y mod n. A prover that answers both challenges with the
// same randomizer thereby surrenders its witness.
func ExtractWitness(pubk *PublicKey, t, s0, s1 *big.Int) (*big.Int, error) {
	if !pubk.VerifyResponse(t, ChallengeSquare, s0) {
		return nil, errors.New("response for challenge 0 does not verify")
	}
	if !pubk.VerifyResponse(t, ChallengeWitness, s1) {
		return nil, errors.New("response for challenge 1 does not verify")
	}

	s0Inv, ok := common.ModInverse(s0, pubk.N)
	if !ok {
		return nil, ErrNoModInverse
	}
	x := new(big.Int).Mul(s1, s0Inv)
	return x.Mod(x, pubk.N), nil
}

// RecoverWitness computes a square root of y modulo n from the prime
// factorization in the private key. The returned root is not necessarily the
// key's own witness: y has four roots modulo n, and any of them is a valid
// witness.
func (privk *PrivateKey) RecoverWitness(y *big.Int) (*big.Int, error) {
	root, ok := common.ModSqrt(y, []*big.Int{privk.P, privk.Q})
	if !ok {
		return nil, ErrNoSquareRoot
	}
	return root, nil
}
