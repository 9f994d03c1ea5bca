package fiatshamir

import (
	"bytes"
	"crypto/ecdsa"
	"io"
	"io/ioutil"
	"os"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/privacybydesign/fiatshamir/cbor"
	"github.com/privacybydesign/fiatshamir/signed"
)

type (
	// Hash is the SHA256-based multihash of a round record.
	Hash multihash.Multihash

	// RoundRecord is one round of an identification session as recorded in
	// its transcript. ParentHash is the hash of the previous record, chaining
	// the rounds together; the first record carries the hash of the public
	// key the session was run against.
	RoundRecord struct {
		Index      uint64    `json:"i"`
		T          *big.Int  `json:"t"`
		C          Challenge `json:"c"`
		S          *big.Int  `json:"s"`
		Accepted   bool      `json:"accepted"`
		ParentHash Hash      `json:"parenthash"`
	}

	// Transcript is the verifier's record of a full identification session:
	// the hash-chained rounds and the overall verdict. Rounds is the round
	// count the session was started with, so that a truncated record chain
	// cannot pass for a completed session.
	Transcript struct {
		Rounds   uint           `json:"rounds"`
		Records  []*RoundRecord `json:"records"`
		Accepted bool           `json:"accepted"`
	}
)

func (r *RoundRecord) hash() Hash {
	bts, err := cbor.Marshal(r)
	if err != nil {
		panic("failed to serialize round record: " + err.Error())
	}
	h, err := multihash.Sum(bts, multihash.SHA2_256, -1)
	if err != nil {
		panic("failed to hash round record: " + err.Error())
	}
	return Hash(h)
}

// genesisHash returns the parent hash of a session's first record: a digest
// of the public key, binding the transcript to the key it was run against.
func genesisHash(pubk *PublicKey) (Hash, error) {
	bts, err := cbor.Marshal([2]*big.Int{pubk.N, pubk.Y})
	if err != nil {
		return nil, err
	}
	h, err := multihash.Sum(bts, multihash.SHA2_256, -1)
	if err != nil {
		return nil, err
	}
	return Hash(h), nil
}

// Verify checks the transcript against the public key: the hash chain must be
// intact and rooted in the key, the round indices consecutive, every record's
// verdict must match what its values verify to, no rounds may follow a failed
// one, and the overall verdict must follow from the records. Repeated calls
// return the same result.
func (tr *Transcript) Verify(pubk *PublicKey) error {
	if len(tr.Records) == 0 {
		return errors.New("transcript contains no records")
	}
	if uint(len(tr.Records)) > tr.Rounds {
		return errors.New("transcript contains more records than session rounds")
	}

	parent, err := genesisHash(pubk)
	if err != nil {
		return err
	}
	for i, record := range tr.Records {
		if record == nil {
			return errors.Errorf("record %d is missing", i)
		}
		if record.Index != uint64(i) {
			return errors.Errorf("record %d has index %d", i, record.Index)
		}
		if !record.ParentHash.Equal(parent) {
			return errors.Errorf("record %d has invalid parent hash", i)
		}
		if pubk.VerifyResponse(record.T, record.C, record.S) != record.Accepted {
			return errors.Errorf("record %d has incorrect verdict", i)
		}
		if !record.Accepted && i != len(tr.Records)-1 {
			return errors.New("transcript continues after a failed round")
		}
		parent = record.hash()
	}

	accepted := uint(len(tr.Records)) == tr.Rounds && tr.Records[len(tr.Records)-1].Accepted
	if tr.Accepted != accepted {
		return errors.New("transcript verdict does not match its records")
	}
	return nil
}

// Sign seals the transcript into a receipt under the verifier's ECDSA key
// (c.f. signed.MarshalSign()).
func (tr *Transcript) Sign(sk *ecdsa.PrivateKey) (signed.Message, error) {
	return signed.MarshalSign(sk, tr)
}

// VerifyReceipt checks the receipt signature against the signer's public key
// and returns the transcript within. It does not check the transcript itself;
// use Transcript.Verify for that.
func VerifyReceipt(pk *ecdsa.PublicKey, msg signed.Message) (*Transcript, error) {
	transcript := &Transcript{}
	if err := signed.UnmarshalVerify(pk, msg, transcript); err != nil {
		return nil, err
	}
	return transcript, nil
}

// WriteTo writes the CBOR-encoded transcript to the given writer.
func (tr *Transcript) WriteTo(writer io.Writer) (int64, error) {
	bts, err := cbor.Marshal(tr)
	if err != nil {
		return 0, err
	}
	n, err := writer.Write(bts)
	return int64(n), err
}

// WriteToFile writes the CBOR-encoded transcript to a file. If any existing
// file with the same filename should be overwritten, set forceOverwrite to
// true.
func (tr *Transcript) WriteToFile(filename string, forceOverwrite bool) (int64, error) {
	var f *os.File
	var err error
	if forceOverwrite {
		f, err = os.Create(filename)
	} else {
		// This should return an error if the file already exists
		f, err = os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return tr.WriteTo(f)
}

// NewTranscriptFromFile reads a CBOR-encoded transcript from a file.
func NewTranscriptFromFile(filename string) (*Transcript, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to open transcript file", 0)
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to read transcript file", 0)
	}

	transcript := &Transcript{}
	if err = cbor.Unmarshal(b, transcript); err != nil {
		return nil, errors.WrapPrefix(err, "failed to parse transcript", 0)
	}
	return transcript, nil
}

func (hash Hash) String() string {
	return multihash.Multihash(hash).B58String()
}

func (hash Hash) Equal(other Hash) bool {
	return bytes.Equal(hash, other)
}
