// Package sampling implements secure sampling of random bytes.
package sampling

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for secure (keyed) deterministic generation of random
// bytes.
type PRNG interface {
	io.Reader
}

// KeyedPRNG is a structure storing the parameters used to securely and
// deterministically generate shared sequences of random bytes among different
// parties using the hash function blake2b. Backward sequence security (given
// the digest i, compute the digest i-1) is ensured by default, however forward
// sequence security (given the digest i, compute the digest i+1) is only
// ensured if the [KeyedPRNG] is keyed.
type KeyedPRNG struct {
	key []byte
	xof blake2b.XOF
}

// NewKeyedPRNG creates a new instance of [KeyedPRNG]. Accepts an optional key,
// else set key=nil which is treated as key=[]byte{}.
// WARNING: A PRNG INITIALISED WITH key=nil IS INSECURE!
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = key
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// NewPRNG creates a new instance of [KeyedPRNG] keyed with 64 fresh bytes
// from the platform CSPRNG. It returns an error if the entropy source fails;
// the returned PRNG is never silently degraded.
func NewPRNG() (*KeyedPRNG, error) {
	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return NewKeyedPRNG(key)
}

// Key returns a copy of the key used to seed the PRNG.
// This value can be used to instantiate a new PRNG that will produce the same
// stream of bytes.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads bytes from the [KeyedPRNG] on sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.xof.Reset()
}
