// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fiatshamir

import (
	"io"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/privacybydesign/fiatshamir/cbor"
	"github.com/privacybydesign/fiatshamir/internal/common"
)

type (
	// Proof is a noninteractive proof of knowledge of the witness. It
	// consists of Lsec parallel rounds whose challenge bits are taken from a
	// hash over the public key, the commitments, and the caller's context
	// and nonce.
	Proof struct {
		T []*big.Int `json:"t"` // Commitments t_i = r_i^2 mod n
		C *big.Int   `json:"c"` // Challenge hash; bit i is round i's challenge
		S []*big.Int `json:"s"` // Responses s_i = r_i * x^c_i mod n
	}

	// Signature is a signature over a message, created with the signature
	// variant of the noninteractive proof.
	Signature struct {
		T []*big.Int `json:"t"`
		C *big.Int   `json:"c"`
		S []*big.Int `json:"s"`
	}
)

// createChallenge creates a challenge based on context, nonce and the
// contributions.
func createChallenge(context, nonce *big.Int, contributions []*big.Int, issig bool) *big.Int {
	// Basically, sandwich the contributions between context and nonce
	input := make([]*big.Int, 2+len(contributions))
	input[0] = context
	copy(input[1:1+len(contributions)], contributions)
	input[len(input)-1] = nonce
	return common.HashCommit(input, issig)
}

func newProof(rand io.Reader, privk *PrivateKey, pubk *PublicKey, context, nonce *big.Int, issig bool) (*Proof, error) {
	params := pubk.systemParameters()
	if params.Lsec > 256 {
		return nil, errors.Errorf("cannot draw %d challenge bits from a single hash", params.Lsec)
	}

	n := pubk.N
	upper := new(big.Int).Sub(n, bigONE)

	randomizers := make([]*big.Int, params.Lsec)
	commitments := make([]*big.Int, params.Lsec)
	var err error
	for i := range randomizers {
		if randomizers[i], err = common.RandomInRange(rand, bigONE, upper); err != nil {
			return nil, err
		}
		commitments[i] = new(big.Int).Exp(randomizers[i], bigTWO, n)
	}

	contributions := make([]*big.Int, 0, len(commitments)+2)
	contributions = append(contributions, pubk.N, pubk.Y)
	contributions = append(contributions, commitments...)
	challenge := createChallenge(context, nonce, contributions, issig)

	responses := make([]*big.Int, len(randomizers))
	for i, r := range randomizers {
		s := new(big.Int).Exp(privk.X, big.NewInt(int64(challenge.Bit(i))), n)
		s.Mul(r, s)
		responses[i] = s.Mod(s, n)
	}

	return &Proof{T: commitments, C: challenge, S: responses}, nil
}

// NewProof proves knowledge of the witness noninteractively. The context and
// nonce are hashed into the challenge; a verifier supplying the nonce makes
// the proof fresh, a fixed context separates application domains. Passing nil
// for rand selects crypto/rand.Reader.
func NewProof(rand io.Reader, privk *PrivateKey, pubk *PublicKey, context, nonce *big.Int) (*Proof, error) {
	return newProof(rand, privk, pubk, context, nonce, false)
}

// ChallengeContribution reconstructs the challenge hash input from the proof:
// the public key followed by the commitments recomputed from the responses,
// t_i = s_i^2 * y^(-c_i) mod n.
func (p *Proof) ChallengeContribution(pubk *PublicKey) ([]*big.Int, error) {
	contributions := make([]*big.Int, 0, len(p.S)+2)
	contributions = append(contributions, pubk.N, pubk.Y)
	for i, s := range p.S {
		yc, err := common.ModPow(pubk.Y, new(big.Int).Neg(big.NewInt(int64(p.C.Bit(i)))), pubk.N)
		if err != nil {
			return nil, err
		}
		t := new(big.Int).Exp(s, bigTWO, pubk.N)
		t.Mul(t, yc).Mod(t, pubk.N)
		contributions = append(contributions, t)
	}
	return contributions, nil
}

// correctResponseSizes checks that the proof carries the right number of
// commitments and responses, all within [0, n).
func (p *Proof) correctResponseSizes(pubk *PublicKey) bool {
	if p.C == nil || uint(len(p.S)) != pubk.systemParameters().Lsec || len(p.T) != len(p.S) {
		return false
	}
	for _, t := range p.T {
		if t == nil || t.Sign() < 0 || t.Cmp(pubk.N) >= 0 {
			return false
		}
	}
	for _, s := range p.S {
		if s == nil || s.Sign() < 0 || s.Cmp(pubk.N) >= 0 {
			return false
		}
	}
	return true
}

func (p *Proof) verify(pubk *PublicKey, context, nonce *big.Int, issig bool) bool {
	if !p.correctResponseSizes(pubk) {
		return false
	}
	contributions, err := p.ChallengeContribution(pubk)
	if err != nil {
		return false
	}
	// The carried commitments must equal the reconstructed ones
	for i, t := range p.T {
		if t.Cmp(contributions[2+i]) != 0 {
			return false
		}
	}
	return p.VerifyWithChallenge(pubk, createChallenge(context, nonce, contributions, issig))
}

// Verify checks the proof against the public key under the given context and
// nonce.
func (p *Proof) Verify(pubk *PublicKey, context, nonce *big.Int) bool {
	return p.verify(pubk, context, nonce, false)
}

// VerifyWithChallenge verifies the proof against the reconstructed challenge.
func (p *Proof) VerifyWithChallenge(pubk *PublicKey, reconstructedChallenge *big.Int) bool {
	return p.correctResponseSizes(pubk) && p.C.Cmp(reconstructedChallenge) == 0
}

// MarshalBinary returns the deterministic CBOR encoding of the proof.
func (p *Proof) MarshalBinary() ([]byte, error) {
	type alias Proof
	return cbor.Marshal((*alias)(p))
}

// UnmarshalBinary parses a CBOR-encoded proof.
func (p *Proof) UnmarshalBinary(data []byte) error {
	type alias Proof
	return cbor.Unmarshal(data, (*alias)(p))
}

// SignMessage signs the message with the signature variant of the
// noninteractive proof: the message hash takes the nonce's place in the
// challenge, framed in the signature domain so that signatures and proofs
// cannot be confused for one another.
func SignMessage(rand io.Reader, privk *PrivateKey, pubk *PublicKey, message []byte) (*Signature, error) {
	proof, err := newProof(rand, privk, pubk, nil, common.IntHashSha256(message), true)
	if err != nil {
		return nil, err
	}
	return &Signature{T: proof.T, C: proof.C, S: proof.S}, nil
}

// Verify checks the signature over the message against the public key.
func (sig *Signature) Verify(pubk *PublicKey, message []byte) bool {
	proof := Proof{T: sig.T, C: sig.C, S: sig.S}
	return proof.verify(pubk, nil, common.IntHashSha256(message), true)
}

// GenerateNonce generates a nonce for use in proofs
func GenerateNonce() (*big.Int, error) {
	return common.RandomBigInt(nil, DefaultSystemParameters[DefaultKeyLength].Lstatzk)
}
