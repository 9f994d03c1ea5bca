package common

import "testing"
import "github.com/privacybydesign/fiatshamir/big"

func TestHashCommit(t *testing.T) {
	listA := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
		big.NewInt(3),
	}
	hashA := HashCommit(listA, false)
	if hashA == nil {
		t.Error("Failed to generate hash for A")
		return
	}

	listB := []*big.Int{
		big.NewInt(1),
		nil,
		big.NewInt(3),
	}
	hashB := HashCommit(listB, false)
	if hashB == nil {
		t.Error("Failed to generate hash for B")
		return
	}

	listC := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
	}
	hashC := HashCommit(listC, false)
	if hashC == nil {
		t.Error("Failed to generate hash for C")
		return
	}

	if hashA.Cmp(hashB) == 0 {
		t.Error("Hashes for A and B coincide")
	}
	if hashA.Cmp(hashC) == 0 {
		t.Error("Hashes for A and C coincide")
	}
	if hashB.Cmp(hashC) == 0 {
		t.Error("Hashes for B and C coincide")
	}
}

func TestHashCommitSignatureDomain(t *testing.T) {
	list := []*big.Int{
		big.NewInt(1),
		big.NewInt(2),
	}

	// The signature flag must put the hash in a separate domain
	if HashCommit(list, false).Cmp(HashCommit(list, true)) == 0 {
		t.Error("Hashes with and without the signature flag coincide")
	}
}

func TestIntHashSha256(t *testing.T) {
	hash := IntHashSha256([]byte("arbitrary input"))
	if hash.Sign() <= 0 {
		t.Error("Hash is not a positive integer")
	}
	if hash.BitLen() > 256 {
		t.Error("Hash exceeds 256 bits")
	}
	if hash.Cmp(IntHashSha256([]byte("arbitrary input"))) != 0 {
		t.Error("Hash is not deterministic")
	}
}
