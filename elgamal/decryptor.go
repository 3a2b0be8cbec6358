package elgamal

import (
	"fmt"

	"filippo.io/edwards25519"
)

// Decryptor is a structure used to decrypt [Ciphertext]. It stores the secret
// key and a handle on a populated [DecryptionTable]. The table is read-only
// and may be shared between decryptors; a [Decryptor] is safe for concurrent
// use through [Decryptor.ShallowCopy].
type Decryptor struct {
	params Parameters
	sk     *SecretKey
	s      *edwards25519.Scalar
	table  *DecryptionTable
	base   *edwards25519.Point
}

// NewDecryptor instantiates a new [Decryptor] from a secret key and a
// decryption table. Either argument may be nil, in which case the
// corresponding error is reported by [Decryptor.Decrypt].
func NewDecryptor(params Parameters, sk *SecretKey, table *DecryptionTable) *Decryptor {

	if table != nil && !params.Equal(&table.params) {
		// Sanity check
		panic(fmt.Errorf("cannot NewDecryptor: table parameters do not match decryptor parameters"))
	}

	var s *edwards25519.Scalar
	if sk != nil {
		var err error
		if s, err = sk.Scalar(); err != nil {
			// Sanity check, this error should not happen.
			panic(fmt.Errorf("cannot NewDecryptor: %w", err))
		}
	}

	return &Decryptor{
		params: params,
		sk:     sk,
		s:      s,
		table:  table,
		base:   edwards25519.NewGeneratorPoint(),
	}
}

// Decrypt decrypts ct and returns the signed integer it encrypts.
//
// The message point R = C0 - s*C1 = mB is recovered first, then m is
// extracted by baby-step giant-step: for each baby step i from 0 upward, the
// point (m-i)B is looked up in the giant-step table; on the first (and only)
// hit with giant index m1, the message is m1*2^BabyBits + i.
//
// Decrypt returns [ErrMissingSecretKey] or [ErrTableNotLoaded] if the
// decryptor lacks either, and [ErrUndecryptableCiphertext] if the search
// exhausts all baby steps, which happens when the cleartext lies outside the
// message range or when the ciphertext does not match the key or the table.
//
// Decryption is inherently variable-time; the secret key is not protected
// against timing side channels on the lookup loop.
func (d *Decryptor) Decrypt(ct *Ciphertext) (value int64, err error) {

	if d.sk == nil {
		return 0, fmt.Errorf("cannot Decrypt: %w", ErrMissingSecretKey)
	}

	if d.table == nil || d.table.Len() == 0 {
		return 0, fmt.Errorf("cannot Decrypt: %w", ErrTableNotLoaded)
	}

	// R = C0 - s*C1
	R := edwards25519.NewIdentityPoint().ScalarMult(d.s, ct.C1)
	R.Subtract(ct.C0, R)

	var key [32]byte
	for i := 0; i < d.params.BabySteps(); i++ {
		copy(key[:], R.Bytes())
		if m1, ok := d.table.Lookup(key); ok {
			return int64(m1)<<d.params.BabyBits() + int64(i), nil
		}
		// (m-i)B - B = (m-(i+1))B
		R.Subtract(R, d.base)
	}

	return 0, fmt.Errorf("cannot Decrypt: %w", ErrUndecryptableCiphertext)
}

// WithKey returns a shallow copy of the receiver with a new secret key, in
// which the table handle is shared.
func (d *Decryptor) WithKey(sk *SecretKey) *Decryptor {
	return NewDecryptor(d.params, sk, d.table)
}

// WithTable returns a shallow copy of the receiver with a new decryption
// table, in which the key material is shared.
func (d *Decryptor) WithTable(table *DecryptionTable) *Decryptor {
	return NewDecryptor(d.params, d.sk, table)
}

// ShallowCopy creates a copy of the receiver in which all the read-only
// data-structures are shared. The receiver and the returned [Decryptor] can
// be used concurrently.
func (d *Decryptor) ShallowCopy() *Decryptor {
	return NewDecryptor(d.params, d.sk, d.table)
}
