package fiatshamir

import (
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/fiatshamir/big"
)

type (
	// Prover holds the proving side of an interactive identification session.
	// Within a round, Commit must be called before Respond.
	Prover struct {
		privk *PrivateKey
		n     *big.Int
		rand  io.Reader
		com   *Commitment
	}

	// Verifier holds the verifying side of an interactive identification
	// session. Within a round, Challenge must be called before Verify.
	Verifier struct {
		pubk *PublicKey
		rand io.Reader
		t    *big.Int
		c    Challenge
	}
)

// NewProver prepares an interactive session for the holder of the private key.
// Passing nil for rand selects crypto/rand.Reader.
func NewProver(rand io.Reader, privk *PrivateKey) *Prover {
	n := privk.N
	if n == nil {
		n = new(big.Int).Mul(privk.P, privk.Q)
	}
	return &Prover{privk: privk, n: n, rand: rand}
}

// Commit starts a new round, returning the commitment to send to the verifier.
func (p *Prover) Commit() (*big.Int, error) {
	com, err := newCommitment(p.rand, p.n)
	if err != nil {
		return nil, err
	}
	p.com = com
	return com.T, nil
}

// Respond answers the verifier's challenge for the current round. The round's
// randomizer is discarded afterwards: answering two distinct challenges over
// the same commitment reveals the witness, c.f. ExtractWitness().
func (p *Prover) Respond(c Challenge) (*big.Int, error) {
	if p.com == nil {
		return nil, errors.New("no commitment is pending, call Commit first")
	}
	com := p.com
	p.com = nil
	return p.privk.RespondTo(com, c)
}

// NewVerifier prepares an interactive session against the given public key.
// Passing nil for rand selects crypto/rand.Reader.
func NewVerifier(rand io.Reader, pubk *PublicKey) *Verifier {
	return &Verifier{pubk: pubk, rand: rand}
}

// Challenge accepts the prover's commitment and draws the challenge for this
// round.
func (v *Verifier) Challenge(t *big.Int) (Challenge, error) {
	if t == nil {
		return 0, errors.New("missing commitment")
	}
	c, err := NewChallenge(v.rand)
	if err != nil {
		return 0, err
	}
	v.t, v.c = t, c
	return c, nil
}

// Verify checks the prover's response, concluding the current round.
func (v *Verifier) Verify(s *big.Int) bool {
	if v.t == nil {
		return false
	}
	t := v.t
	v.t = nil
	return v.pubk.VerifyResponse(t, v.c, s)
}

// RunSession runs a complete identification session between an in-process
// prover and verifier, recording every round in a hash-chained transcript.
// The session runs the given number of rounds, or the number prescribed by the
// key's parameters if rounds is 0, and stops at the first failed round. The
// returned bool is the verdict; a rejected session is not an error.
func RunSession(rand io.Reader, privk *PrivateKey, pubk *PublicKey, rounds uint) (*Transcript, bool, error) {
	if rounds == 0 {
		rounds = pubk.systemParameters().Lrounds
	}
	Logger.Infof("starting identification session of %d rounds", rounds)

	prover := NewProver(rand, privk)
	verifier := NewVerifier(rand, pubk)

	transcript := &Transcript{Rounds: rounds}
	parent, err := genesisHash(pubk)
	if err != nil {
		return nil, false, err
	}

	for i := uint(0); i < rounds; i++ {
		t, err := prover.Commit()
		if err != nil {
			return nil, false, err
		}
		c, err := verifier.Challenge(t)
		if err != nil {
			return nil, false, err
		}
		s, err := prover.Respond(c)
		if err != nil {
			return nil, false, err
		}
		ok := verifier.Verify(s)
		Logger.Debugf("round %d: t=%v c=%d s=%v accepted=%t", i, t, c, s, ok)

		record := &RoundRecord{
			Index:      uint64(i),
			T:          t,
			C:          c,
			S:          s,
			Accepted:   ok,
			ParentHash: parent,
		}
		transcript.Records = append(transcript.Records, record)
		if !ok {
			Logger.Infof("identification session rejected in round %d", i)
			return transcript, false, nil
		}
		parent = record.hash()
	}

	transcript.Accepted = true
	Logger.Infof("identification session accepted after %d rounds", rounds)
	return transcript, true, nil
}
