package fiatshamir

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/privacybydesign/fiatshamir/big"
	"github.com/privacybydesign/fiatshamir/cbor"
	"github.com/privacybydesign/fiatshamir/internal/common"
	"github.com/privacybydesign/fiatshamir/safeprime"

	"github.com/go-errors/errors"
)

type (
	// PublicKey represents a prover's public key, against which the verifier
	// checks the prover's responses.
	PublicKey struct {
		XMLName    xml.Name `xml:"http://www.privacybydesign.foundation/fiatshamir PublicKey" json:"-"`
		Counter    uint     `xml:"Counter" json:"counter"`
		ExpiryDate int64    `xml:"ExpiryDate" json:"expirydate"`
		N          *big.Int `xml:"Elements>n" json:"n"` // Modulus n = p*q
		Y          *big.Int `xml:"Elements>y" json:"y"` // Public square y = x^2 mod n

		Params *SystemParameters `xml:"-" json:"-"`
	}

	// PrivateKey represents a prover's private key.
	PrivateKey struct {
		XMLName    xml.Name `xml:"http://www.privacybydesign.foundation/fiatshamir PrivateKey" json:"-"`
		Counter    uint     `xml:"Counter" json:"counter"`
		ExpiryDate int64    `xml:"ExpiryDate" json:"expirydate"`
		P          *big.Int `xml:"Elements>p" json:"p"`
		Q          *big.Int `xml:"Elements>q" json:"q"`
		X          *big.Int `xml:"Elements>x" json:"x"` // Witness: a square root of y modulo n

		N *big.Int `xml:"-" json:"-"`
	}
)

// XMLHeader can be a used as the XML header when writing keys in XML format.
const XMLHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n"

// NewPrivateKey creates a new private key using the provided parameters.
func NewPrivateKey(p, q, x *big.Int, counter uint, expiryDate time.Time) *PrivateKey {
	return &PrivateKey{
		P:          p,
		Q:          q,
		X:          x,
		N:          new(big.Int).Mul(p, q),
		Counter:    counter,
		ExpiryDate: expiryDate.Unix(),
	}
}

// NewPrivateKeyFromXML creates a new private key using the XML data provided.
func NewPrivateKeyFromXML(xmlInput string) (*PrivateKey, error) {
	privk := &PrivateKey{}
	if err := xml.Unmarshal([]byte(xmlInput), privk); err != nil {
		return nil, errors.WrapPrefix(err, "failed to parse private key", 0)
	}

	privk.N = new(big.Int).Mul(privk.P, privk.Q)

	// Do some sanity checks on the key data
	if err := privk.Validate(); err != nil {
		return nil, err
	}

	return privk, nil
}

// NewPrivateKeyFromFile creates a new private key from an XML file.
func NewPrivateKeyFromFile(filename string) (*PrivateKey, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to open private key file", 0)
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to read private key file", 0)
	}

	return NewPrivateKeyFromXML(string(b))
}

func (privk *PrivateKey) Validate() error {
	if privk.P == nil || privk.Q == nil || privk.X == nil {
		return errors.New("Private key is missing P, Q or X")
	}
	if privk.P.Cmp(privk.Q) == 0 {
		return errors.New("P and Q are equal")
	}
	if !privk.P.ProbablyPrime(40) {
		return errors.New("P is not prime")
	}
	if !privk.Q.ProbablyPrime(40) {
		return errors.New("Q is not prime")
	}
	n := new(big.Int).Mul(privk.P, privk.Q)
	if privk.N != nil && privk.N.Cmp(n) != 0 {
		return errors.New("Incompatible values for P, Q and N")
	}
	if privk.X.Sign() <= 0 || privk.X.Cmp(n) >= 0 {
		return errors.New("X is out of range")
	}
	if new(big.Int).GCD(nil, nil, privk.X, n).Cmp(big.NewInt(1)) != 0 {
		return errors.New("X is not invertible modulo N")
	}
	return nil
}

// Public computes the public key corresponding to the private key.
func (privk *PrivateKey) Public() *PublicKey {
	n := privk.N
	if n == nil {
		n = new(big.Int).Mul(privk.P, privk.Q)
	}
	return &PublicKey{
		Counter:    privk.Counter,
		ExpiryDate: privk.ExpiryDate,
		N:          n,
		Y:          new(big.Int).Exp(privk.X, big.NewInt(2), n),
		Params:     DefaultSystemParameters[n.BitLen()],
	}
}

// Print prints the key to stdout.
func (privk *PrivateKey) Print() error {
	_, err := privk.WriteTo(os.Stdout)
	return err
}

// WriteTo writes the XML-serialized private key to the given writer.
func (privk *PrivateKey) WriteTo(writer io.Writer) (int64, error) {
	// Write the standard XML header
	numHeaderBytes, err := writer.Write([]byte(XMLHeader))
	if err != nil {
		return 0, err
	}

	// And the actual XML body (with indentation)
	b, err := xml.MarshalIndent(privk, "", "   ")
	if err != nil {
		return int64(numHeaderBytes), err
	}
	numBodyBytes, err := writer.Write(b)
	return int64(numHeaderBytes + numBodyBytes), err
}

// WriteToFile writes the private key to an XML file. If any existing file with
// the same filename should be overwritten, set forceOverwrite to true.
func (privk *PrivateKey) WriteToFile(filename string, forceOverwrite bool) (int64, error) {
	var f *os.File
	var err error
	if forceOverwrite {
		f, err = os.Create(filename)
	} else {
		// This should return an error if the file already exists
		f, err = os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return privk.WriteTo(f)
}

// MarshalBinary returns the deterministic CBOR encoding of the private key.
func (privk *PrivateKey) MarshalBinary() ([]byte, error) {
	type alias PrivateKey
	return cbor.Marshal((*alias)(privk))
}

// UnmarshalBinary parses a CBOR-encoded private key.
func (privk *PrivateKey) UnmarshalBinary(data []byte) error {
	type alias PrivateKey
	if err := cbor.Unmarshal(data, (*alias)(privk)); err != nil {
		return err
	}
	if privk.P != nil && privk.Q != nil {
		privk.N = new(big.Int).Mul(privk.P, privk.Q)
	}
	return nil
}

// NewPublicKey creates and returns a new public key based on the provided parameters.
func NewPublicKey(n, y *big.Int, counter uint, expiryDate time.Time) *PublicKey {
	return &PublicKey{
		Counter:    counter,
		ExpiryDate: expiryDate.Unix(),
		N:          n,
		Y:          y,
		Params:     DefaultSystemParameters[n.BitLen()],
	}
}

// NewPublicKeyFromBytes creates a new public key using the XML data provided.
func NewPublicKeyFromBytes(bts []byte) (*PublicKey, error) {
	// TODO: this might fail in the future. The DefaultSystemParameters and the
	// public key might not match!
	pubk := &PublicKey{}
	if err := xml.Unmarshal(bts, pubk); err != nil {
		return nil, errors.WrapPrefix(err, "failed to parse public key", 0)
	}
	keylength := pubk.N.BitLen()
	if sysparam, ok := DefaultSystemParameters[keylength]; ok {
		pubk.Params = sysparam
	} else {
		return nil, fmt.Errorf("Unknown keylength %d", keylength)
	}
	return pubk, nil
}

func NewPublicKeyFromXML(xmlInput string) (*PublicKey, error) {
	return NewPublicKeyFromBytes([]byte(xmlInput))
}

// NewPublicKeyFromFile creates a new public key from an XML file.
func NewPublicKeyFromFile(filename string) (*PublicKey, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to open public key file", 0)
	}
	defer f.Close()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to read public key file", 0)
	}

	return NewPublicKeyFromBytes(b)
}

// systemParameters returns the key's parameters, falling back to the package
// default for keys of nonstandard length.
func (pubk *PublicKey) systemParameters() *SystemParameters {
	if pubk.Params != nil {
		return pubk.Params
	}
	return DefaultSystemParameters[DefaultKeyLength]
}

func (pubk *PublicKey) Validate() error {
	if pubk.N == nil || pubk.Y == nil {
		return errors.New("Public key is missing N or Y")
	}
	if pubk.N.Sign() <= 0 || pubk.N.Bit(0) == 0 {
		return errors.New("N is not a positive odd number")
	}
	if pubk.Y.Sign() <= 0 || pubk.Y.Cmp(pubk.N) >= 0 {
		return errors.New("Y is out of range")
	}
	if new(big.Int).GCD(nil, nil, pubk.Y, pubk.N).Cmp(big.NewInt(1)) != 0 {
		return errors.New("Y is not invertible modulo N")
	}
	return nil
}

// Print prints the key to stdout.
func (pubk *PublicKey) Print() error {
	_, err := pubk.WriteTo(os.Stdout)
	return err
}

// WriteTo writes the XML-serialized public key to the given writer.
func (pubk *PublicKey) WriteTo(writer io.Writer) (int64, error) {
	// Write the standard XML header
	numHeaderBytes, err := writer.Write([]byte(XMLHeader))
	if err != nil {
		return 0, err
	}

	// And the actual XML body (with indentation)
	b, err := xml.MarshalIndent(pubk, "", "   ")
	if err != nil {
		return int64(numHeaderBytes), err
	}
	numBodyBytes, err := writer.Write(b)
	return int64(numHeaderBytes + numBodyBytes), err
}

// WriteToFile writes the public key to an XML file. If any existing file with
// the same filename should be overwritten, set forceOverwrite to true.
func (pubk *PublicKey) WriteToFile(filename string, forceOverwrite bool) (int64, error) {
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

	return pubk.WriteTo(f)
}

// MarshalBinary returns the deterministic CBOR encoding of the public key.
func (pubk *PublicKey) MarshalBinary() ([]byte, error) {
	type alias PublicKey
	return cbor.Marshal((*alias)(pubk))
}

// UnmarshalBinary parses a CBOR-encoded public key.
func (pubk *PublicKey) UnmarshalBinary(data []byte) error {
	type alias PublicKey
	if err := cbor.Unmarshal(data, (*alias)(pubk)); err != nil {
		return err
	}
	if pubk.N != nil {
		pubk.Params = DefaultSystemParameters[pubk.N.BitLen()]
	}
	return nil
}

// GenerateKeyPair generates a private/public keypair of the given strength. If
// param is nil the parameters for DefaultKeyLength are used. Passing nil for
// rand selects crypto/rand.Reader.
func GenerateKeyPair(rand io.Reader, param *SystemParameters, counter uint, expiryDate time.Time) (*PrivateKey, *PublicKey, error) {
	if param == nil {
		param = DefaultSystemParameters[DefaultKeyLength]
	}
	warnInsecureKeyLength(param)

	p, err := common.RandomPrime(rand, param.Lprime, int(param.Lmriters))
	if err != nil {
		return nil, nil, err
	}

	// The primes are drawn independently; re-draw q in the unlikely case it collides with p
	var q *big.Int
	for {
		if q, err = common.RandomPrime(rand, param.Lprime, int(param.Lmriters)); err != nil {
			return nil, nil, err
		}
		if q.Cmp(p) != 0 {
			break
		}
	}

	return newKeyPair(rand, param, p, q, counter, expiryDate)
}

// GenerateSafeKeyPair generates a keypair like GenerateKeyPair, but with p and q
// chosen as safe primes, so that the modulus is of the form (2p'+1)(2q'+1) with
// p' and q' prime. Generation is considerably slower. The system random number
// generator is always used.
func GenerateSafeKeyPair(param *SystemParameters, counter uint, expiryDate time.Time) (*PrivateKey, *PublicKey, error) {
	if param == nil {
		param = DefaultSystemParameters[DefaultKeyLength]
	}
	warnInsecureKeyLength(param)

	p, q, err := generateSafePrimePair(param)
	if err != nil {
		return nil, nil, err
	}

	return newKeyPair(nil, param, p, q, counter, expiryDate)
}

func warnInsecureKeyLength(param *SystemParameters) {
	if param.Ln < 1024 {
		Logger.Warnf("generating insecure %d-bit keys, production deployments should use at least 2048 bits", param.Ln)
	}
}

func newKeyPair(rand io.Reader, param *SystemParameters, p, q *big.Int, counter uint, expiryDate time.Time) (*PrivateKey, *PublicKey, error) {
	n := new(big.Int).Mul(p, q)
	one := big.NewInt(1)

	// The witness x must lie in [1, n-1) and be invertible modulo n
	var x *big.Int
	var err error
	for {
		x, err = common.RandomInRange(rand, one, new(big.Int).Sub(n, one))
		if err != nil {
			return nil, nil, err
		}
		if new(big.Int).GCD(nil, nil, x, n).Cmp(one) == 0 {
			break
		}
	}

	priv := NewPrivateKey(p, q, x, counter, expiryDate)
	pubk := &PublicKey{
		Counter:    counter,
		ExpiryDate: expiryDate.Unix(),
		N:          n,
		Y:          new(big.Int).Exp(x, big.NewInt(2), n),
		Params:     param,
	}

	return priv, pubk, nil
}

// findMatch returns the first element of safeprimes that makes a suitable pair with p:
// p*q has the required bit length and p != q.
func findMatch(safeprimes []*big.Int, param *SystemParameters, p, n *big.Int) *big.Int {
	for _, q := range safeprimes {
		if uint(n.Mul(p, q).BitLen()) == param.Ln && p.Cmp(q) != 0 {
			return q
		}
	}
	return nil
}

func generateSafePrimePair(param *SystemParameters) (*big.Int, *big.Int, error) {
	// Declare and allocate all vars outside the loop and outside the helper function above
	stop := make(chan struct{})
	safeprimes := make([]*big.Int, 0, 10) // store all generated safe primes until we find a suitable pair
	n := new(big.Int)
	var p, q *big.Int
	var err error

	// Start safe prime generation
	ints, errs := safeprime.GenerateConcurrent(int(param.Lprime), stop)

	// Receive safe prime results in a loop, until we have a suitable pair of safe primes.
loop: // we need this label to continue the for loop from within the select below
	for {
		select { // wait for and then handle an incoming bigint or error, whichever comes first

		case p = <-ints:
			// If we have earlier found other candidates, see if any pair of them fits all requirements
			if q = findMatch(safeprimes, param, p, n); len(safeprimes) == 0 || q == nil {
				safeprimes = append(safeprimes, p) // include p as it might match with future safe primes
				continue loop
			}
			close(stop) // We have enough, stop safeprime.GenerateConcurrent()
			return p, q, nil

		case err = <-errs:
			close(stop) // Something went wrong during safe prime generation, abort
			return nil, nil, err

		}
	}
}
