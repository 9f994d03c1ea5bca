package fiatshamir

import (
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/privacybydesign/fiatshamir/internal/common"
)

var (
	bigONE = big.NewInt(1)
	bigTWO = big.NewInt(2)
)

// Challenge is the verifier's challenge bit in a single round of the protocol.
type Challenge uint8

const (
	// ChallengeSquare asks the prover to open the commitment itself: s = r.
	ChallengeSquare Challenge = 0
	// ChallengeWitness asks the prover to multiply in the witness: s = r*x mod n.
	ChallengeWitness Challenge = 1
)

// Commitment is the prover's opening message of a round: t = r^2 mod n for a
// fresh randomizer r. The randomizer never leaves the prover.
type Commitment struct {
	T *big.Int `json:"t"`

	r *big.Int
}

func newCommitment(rand io.Reader, n *big.Int) (*Commitment, error) {
	r, err := common.RandomInRange(rand, bigONE, new(big.Int).Sub(n, bigONE))
	if err != nil {
		return nil, err
	}
	return &Commitment{T: new(big.Int).Exp(r, bigTWO, n), r: r}, nil
}

// NewCommitment draws a fresh randomizer r in [1, n-1) and commits to it.
// Passing nil for rand selects crypto/rand.Reader.
func NewCommitment(rand io.Reader, pubk *PublicKey) (*Commitment, error) {
	return newCommitment(rand, pubk.N)
}

// NewChallenge draws a uniformly random challenge for a single round. Passing
// nil for rand selects crypto/rand.Reader.
func NewChallenge(rand io.Reader) (Challenge, error) {
	bit, err := common.RandomBit(rand)
	return Challenge(bit), err
}

// RespondTo answers the challenge over the given commitment: s = r * x^c mod n.
func (privk *PrivateKey) RespondTo(com *Commitment, c Challenge) (*big.Int, error) {
	if com == nil || com.r == nil {
		return nil, errors.New("commitment carries no randomizer")
	}
	if c > ChallengeWitness {
		return nil, errors.Errorf("challenge %d out of range", c)
	}

	n := privk.N
	if n == nil {
		n = new(big.Int).Mul(privk.P, privk.Q)
	}

	s := new(big.Int).Exp(privk.X, big.NewInt(int64(c)), n)
	s.Mul(com.r, s)
	return s.Mod(s, n), nil
}

// VerifyResponse checks a single round: s^2 mod n must equal t * y^c mod n.
func (pubk *PublicKey) VerifyResponse(t *big.Int, c Challenge, s *big.Int) bool {
	if t == nil || s == nil || c > ChallengeWitness {
		return false
	}
	lhs := new(big.Int).Exp(s, bigTWO, pubk.N)
	rhs := new(big.Int).Exp(pubk.Y, big.NewInt(int64(c)), pubk.N)
	rhs.Mul(t, rhs)
	rhs.Mod(rhs, pubk.N)
	return lhs.Cmp(rhs) == 0
}
