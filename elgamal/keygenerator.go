package elgamal

import (
	"fmt"

	"github.com/tuneinsight/lhe25519/utils/sampling"
)

// KeyGenerator is a structure used to generate secret and public keys.
type KeyGenerator struct {
	params Parameters
	prng   sampling.PRNG
}

// NewKeyGenerator creates a new [KeyGenerator], seeded from the platform
// CSPRNG.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error only happens if the entropy source fails.
		panic(fmt.Errorf("cannot NewKeyGenerator: %w", err))
	}
	return &KeyGenerator{params: params, prng: prng}
}

// GenSecretKeyNew generates a new [SecretKey].
func (kgen *KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	sk = NewSecretKey()
	kgen.GenSecretKey(sk)
	return
}

// GenSecretKey generates a [SecretKey]: 32 uniform bytes with Ed25519
// clamping applied.
func (kgen *KeyGenerator) GenSecretKey(sk *SecretKey) {
	if _, err := kgen.prng.Read(sk.Value[:]); err != nil {
		// Sanity check, the keyed PRNG does not fail.
		panic(fmt.Errorf("cannot GenSecretKey: %w", err))
	}
	sk.Value[0] &= 0xf8
	sk.Value[31] &= 0x7f
	sk.Value[31] |= 0x40
}

// GenPublicKeyNew generates the public key P = sB from the provided
// [SecretKey].
func (kgen *KeyGenerator) GenPublicKeyNew(sk *SecretKey) (pk *PublicKey) {
	pk = NewPublicKey()
	kgen.GenPublicKey(sk, pk)
	return
}

// GenPublicKey generates the public key P = sB from the provided [SecretKey].
func (kgen *KeyGenerator) GenPublicKey(sk *SecretKey, pk *PublicKey) {
	s, err := sk.Scalar()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot GenPublicKey: %w", err))
	}
	pk.Value.ScalarBaseMult(s)
}

// GenKeyPairNew generates a new [SecretKey] and the corresponding
// [PublicKey].
func (kgen *KeyGenerator) GenKeyPairNew() (sk *SecretKey, pk *PublicKey) {
	sk = kgen.GenSecretKeyNew()
	pk = kgen.GenPublicKeyNew(sk)
	return
}

// WithPRNG returns a copy of this key generator with prng as its source of
// randomness. The receiver is left unchanged.
func (kgen *KeyGenerator) WithPRNG(prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{params: kgen.params, prng: prng}
}
