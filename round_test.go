package fiatshamir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/privacybydesign/fiatshamir/internal/common"
)

func TestRoundVector(t *testing.T) {
	// n = 143, x = 5, y = 25: committing with r = 4 gives t = 16
	com := &Commitment{T: big.NewInt(16), r: big.NewInt(4)}

	s, err := demoPrivK.RespondTo(com, ChallengeSquare)
	require.NoError(t, err)
	assert.Zero(t, s.Cmp(big.NewInt(4)), "challenge 0 must open the commitment")
	assert.True(t, demoPubK.VerifyResponse(com.T, ChallengeSquare, s))

	s, err = demoPrivK.RespondTo(com, ChallengeWitness)
	require.NoError(t, err)
	assert.Zero(t, s.Cmp(big.NewInt(20)), "challenge 1 must answer r*x mod n")
	assert.True(t, demoPubK.VerifyResponse(com.T, ChallengeWitness, s))

	// Both sides of the verification equation come out as 114
	lhs := new(big.Int).Exp(s, bigTWO, demoPubK.N)
	rhs := new(big.Int).Mod(new(big.Int).Mul(com.T, demoPubK.Y), demoPubK.N)
	assert.Zero(t, lhs.Cmp(big.NewInt(114)))
	assert.Zero(t, rhs.Cmp(big.NewInt(114)))

	assert.False(t, demoPubK.VerifyResponse(com.T, ChallengeWitness, big.NewInt(21)))
}

func TestRoundBothChallenges(t *testing.T) {
	com, err := NewCommitment(nil, testPubK)
	require.NoError(t, err)
	require.True(t, com.T.Sign() > 0 && com.T.Cmp(testPubK.N) < 0)

	s0, err := testPrivK.RespondTo(com, ChallengeSquare)
	require.NoError(t, err)
	assert.True(t, testPubK.VerifyResponse(com.T, ChallengeSquare, s0),
		"challenge 0 response does not verify, whereas it should")

	s1, err := testPrivK.RespondTo(com, ChallengeWitness)
	require.NoError(t, err)
	assert.True(t, testPubK.VerifyResponse(com.T, ChallengeWitness, s1),
		"challenge 1 response does not verify, whereas it should")

	// Responses are bound to their challenge
	assert.False(t, testPubK.VerifyResponse(com.T, ChallengeSquare, s1))
	assert.False(t, testPubK.VerifyResponse(com.T, ChallengeWitness, s0))
}

func TestChallengeRange(t *testing.T) {
	com, err := NewCommitment(nil, testPubK)
	require.NoError(t, err)

	_, err = testPrivK.RespondTo(com, Challenge(2))
	assert.Error(t, err, "responding to an out of range challenge must fail")

	s, err := testPrivK.RespondTo(com, ChallengeWitness)
	require.NoError(t, err)
	assert.False(t, testPubK.VerifyResponse(com.T, Challenge(2), s))
}

func TestVerifyResponseReadonly(t *testing.T) {
	com, err := NewCommitment(nil, testPubK)
	require.NoError(t, err)
	s, err := testPrivK.RespondTo(com, ChallengeWitness)
	require.NoError(t, err)

	tCopy := new(big.Int).Set(com.T)
	sCopy := new(big.Int).Set(s)
	for i := 0; i < 3; i++ {
		assert.True(t, testPubK.VerifyResponse(com.T, ChallengeWitness, s))
	}
	assert.Zero(t, com.T.Cmp(tCopy), "VerifyResponse modified the commitment")
	assert.Zero(t, s.Cmp(sCopy), "VerifyResponse modified the response")
}

func TestNewChallenge(t *testing.T) {
	var seen [2]int
	for i := 0; i < 200; i++ {
		c, err := NewChallenge(nil)
		require.NoError(t, err)
		require.True(t, c == ChallengeSquare || c == ChallengeWitness)
		seen[c]++
	}
	assert.NotZero(t, seen[ChallengeSquare])
	assert.NotZero(t, seen[ChallengeWitness])
}

func TestForgedRounds(t *testing.T) {
	// A cheater without the witness guesses the challenge upfront: on guess 0
	// it commits t = s^2, on guess 1 it commits t = s^2 / y, and it wins a
	// round exactly when the guess was right.
	yInv, ok := common.ModInverse(testPubK.Y, testPubK.N)
	require.True(t, ok)

	verifier := NewVerifier(nil, testPubK)
	accepted := 0
	for i := 0; i < 1000; i++ {
		s := common.FastRandomBigInt(testPubK.N)
		guess, err := NewChallenge(nil)
		require.NoError(t, err)

		tval := new(big.Int).Exp(s, bigTWO, testPubK.N)
		if guess == ChallengeWitness {
			tval.Mod(tval.Mul(tval, yInv), testPubK.N)
		}

		if _, err = verifier.Challenge(tval); err != nil {
			t.Fatal(err)
		}
		if verifier.Verify(s) {
			accepted++
		}
	}

	// Binomial(1000, 1/2) stays well within these bounds
	assert.Greater(t, accepted, 350)
	assert.Less(t, accepted, 650)
}
