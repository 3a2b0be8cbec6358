package elgamal

import (
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/tuneinsight/lhe25519/utils/sampling"
)

// Encryptor is a structure used to encrypt [Plaintext] under a [PublicKey].
// It is safe for concurrent use only through [Encryptor.ShallowCopy], which
// shares the key but reallocates the source of randomness.
type Encryptor struct {
	params  Parameters
	encoder *Encoder
	pk      *PublicKey
	prng    sampling.PRNG
}

// NewEncryptor creates a new [Encryptor] for the provided public key.
func NewEncryptor(params Parameters, pk *PublicKey) *Encryptor {

	if pk == nil || pk.Value == nil {
		// Sanity check
		panic(fmt.Errorf("cannot NewEncryptor: public key is nil"))
	}

	prng, err := sampling.NewPRNG()
	if err != nil {
		// Sanity check, this error only happens if the entropy source fails.
		panic(fmt.Errorf("cannot NewEncryptor: %w", err))
	}

	return &Encryptor{
		params:  params,
		encoder: NewEncoder(params),
		pk:      pk,
		prng:    prng,
	}
}

// Encrypt encrypts pt and writes the result on ct. A fresh random scalar r is
// sampled per call, so two encryptions of the same plaintext differ with
// overwhelming probability.
func (enc *Encryptor) Encrypt(pt *Plaintext, ct *Ciphertext) error {

	m, err := pt.Scalar()
	if err != nil {
		return fmt.Errorf("cannot Encrypt: %w", err)
	}

	r, err := enc.sampleScalar()
	if err != nil {
		return fmt.Errorf("cannot Encrypt: %w", err)
	}

	// (C0, C1) = (rP + mB, rB)
	ct.C0.VarTimeDoubleScalarBaseMult(r, enc.pk.Value, m)
	ct.C1.ScalarBaseMult(r)

	return nil
}

// EncryptNew encrypts pt and returns the result on a newly allocated
// [Ciphertext].
func (enc *Encryptor) EncryptNew(pt *Plaintext) (ct *Ciphertext, err error) {
	ct = NewCiphertext()
	if err = enc.Encrypt(pt, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// EncryptInt64 encodes value and encrypts it on ct. It returns
// [ErrMessageOutOfRange] if value lies outside the message range.
func (enc *Encryptor) EncryptInt64(value int64, ct *Ciphertext) error {
	pt := NewPlaintext()
	if err := enc.encoder.Encode(value, pt); err != nil {
		return fmt.Errorf("cannot EncryptInt64: %w", err)
	}
	return enc.Encrypt(pt, ct)
}

// EncryptInt64New encodes value and encrypts it on a newly allocated
// [Ciphertext].
func (enc *Encryptor) EncryptInt64New(value int64) (ct *Ciphertext, err error) {
	ct = NewCiphertext()
	if err = enc.EncryptInt64(value, ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// WithKey returns a shallow copy of the receiver with a new public key, in
// which the source of randomness is shared. The returned [Encryptor] cannot
// be used concurrently with the receiver.
func (enc *Encryptor) WithKey(pk *PublicKey) *Encryptor {
	if pk == nil || pk.Value == nil {
		// Sanity check
		panic(fmt.Errorf("cannot WithKey: public key is nil"))
	}
	return &Encryptor{
		params:  enc.params,
		encoder: enc.encoder,
		pk:      pk,
		prng:    enc.prng,
	}
}

// WithPRNG returns a shallow copy of the receiver with prng as its source of
// randomness. The returned [Encryptor] cannot be used concurrently with the
// receiver.
func (enc *Encryptor) WithPRNG(prng sampling.PRNG) *Encryptor {
	return &Encryptor{
		params:  enc.params,
		encoder: enc.encoder,
		pk:      enc.pk,
		prng:    prng,
	}
}

// ShallowCopy creates a copy of the receiver in which the key material is
// shared and the source of randomness is reallocated. The receiver and the
// returned [Encryptor] can be used concurrently.
func (enc *Encryptor) ShallowCopy() *Encryptor {
	return NewEncryptor(enc.params, enc.pk)
}

func (enc *Encryptor) sampleScalar() (*edwards25519.Scalar, error) {
	var wide [64]byte
	if _, err := io.ReadFull(enc.prng, wide[:]); err != nil {
		return nil, err
	}
	return edwards25519.NewScalar().SetUniformBytes(wide[:])
}
