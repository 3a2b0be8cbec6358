package elgamal

import (
	"fmt"

	"filippo.io/edwards25519"
)

// Evaluator is a structure holding the necessary elements to operate the
// homomorphic operations between ciphertexts and/or plaintexts.
//
// All operations are linear on the underlying group elements: the result of
// an operation decrypts to the corresponding integer result as long as that
// result stays within the message range of the parameters. The range
// discipline is the caller's responsibility; an out-of-range result is
// reported by [Decryptor.Decrypt] as [ErrUndecryptableCiphertext] at the
// earliest.
//
// An [Evaluator] holds no mutable state and can be used concurrently.
type Evaluator struct {
	params Parameters
}

// NewEvaluator creates a new [Evaluator] for the given parameters.
func NewEvaluator(params Parameters) *Evaluator {
	return &Evaluator{params: params}
}

// Add adds ct0 to ct1 and returns the result on ctOut: enc(x) + enc(y) is an
// encryption of x+y. ctOut may alias either operand.
func (eval *Evaluator) Add(ct0, ct1, ctOut *Ciphertext) {
	ctOut.C0.Add(ct0.C0, ct1.C0)
	ctOut.C1.Add(ct0.C1, ct1.C1)
}

// AddNew adds ct0 to ct1 and returns the result on a newly allocated
// [Ciphertext].
func (eval *Evaluator) AddNew(ct0, ct1 *Ciphertext) (ctOut *Ciphertext) {
	ctOut = NewCiphertext()
	eval.Add(ct0, ct1, ctOut)
	return
}

// Sub subtracts ct1 from ct0 and returns the result on ctOut: enc(x) - enc(y)
// is an encryption of x-y. ctOut may alias either operand.
func (eval *Evaluator) Sub(ct0, ct1, ctOut *Ciphertext) {
	ctOut.C0.Subtract(ct0.C0, ct1.C0)
	ctOut.C1.Subtract(ct0.C1, ct1.C1)
}

// SubNew subtracts ct1 from ct0 and returns the result on a newly allocated
// [Ciphertext].
func (eval *Evaluator) SubNew(ct0, ct1 *Ciphertext) (ctOut *Ciphertext) {
	ctOut = NewCiphertext()
	eval.Sub(ct0, ct1, ctOut)
	return
}

// AddPlain adds the plaintext pt to ct and returns the result on ctOut:
// enc(x) + y is an encryption of x+y. Only the message component C0 moves;
// the randomness component C1 is copied unchanged.
func (eval *Evaluator) AddPlain(ct *Ciphertext, pt *Plaintext, ctOut *Ciphertext) error {
	m, err := pt.Scalar()
	if err != nil {
		return fmt.Errorf("cannot AddPlain: %w", err)
	}
	M := edwards25519.NewIdentityPoint().ScalarBaseMult(m)
	ctOut.C0.Add(ct.C0, M)
	ctOut.C1.Set(ct.C1)
	return nil
}

// AddPlainNew adds the plaintext pt to ct and returns the result on a newly
// allocated [Ciphertext].
func (eval *Evaluator) AddPlainNew(ct *Ciphertext, pt *Plaintext) (ctOut *Ciphertext, err error) {
	ctOut = NewCiphertext()
	if err = eval.AddPlain(ct, pt, ctOut); err != nil {
		return nil, err
	}
	return ctOut, nil
}

// SubPlain subtracts the plaintext pt from ct and returns the result on
// ctOut: enc(x) - y is an encryption of x-y.
func (eval *Evaluator) SubPlain(ct *Ciphertext, pt *Plaintext, ctOut *Ciphertext) error {
	m, err := pt.Scalar()
	if err != nil {
		return fmt.Errorf("cannot SubPlain: %w", err)
	}
	M := edwards25519.NewIdentityPoint().ScalarBaseMult(m)
	ctOut.C0.Subtract(ct.C0, M)
	ctOut.C1.Set(ct.C1)
	return nil
}

// SubPlainNew subtracts the plaintext pt from ct and returns the result on a
// newly allocated [Ciphertext].
func (eval *Evaluator) SubPlainNew(ct *Ciphertext, pt *Plaintext) (ctOut *Ciphertext, err error) {
	ctOut = NewCiphertext()
	if err = eval.SubPlain(ct, pt, ctOut); err != nil {
		return nil, err
	}
	return ctOut, nil
}

// MulPlain multiplies ct by the plaintext pt and returns the result on ctOut:
// enc(x) * k is an encryption of x*k. Both components are scaled, so the
// result remains a valid encryption under the same key. A negative multiplier
// is supported through its encoding L+k; as with every operation, x*k must
// stay within the message range to decrypt.
func (eval *Evaluator) MulPlain(ct *Ciphertext, pt *Plaintext, ctOut *Ciphertext) error {
	k, err := pt.Scalar()
	if err != nil {
		return fmt.Errorf("cannot MulPlain: %w", err)
	}
	ctOut.C0.ScalarMult(k, ct.C0)
	ctOut.C1.ScalarMult(k, ct.C1)
	return nil
}

// MulPlainNew multiplies ct by the plaintext pt and returns the result on a
// newly allocated [Ciphertext].
func (eval *Evaluator) MulPlainNew(ct *Ciphertext, pt *Plaintext) (ctOut *Ciphertext, err error) {
	ctOut = NewCiphertext()
	if err = eval.MulPlain(ct, pt, ctOut); err != nil {
		return nil, err
	}
	return ctOut, nil
}

// Neg negates ct and returns the result on ctOut: -enc(x) is an encryption
// of -x. Point negation is used directly, which is equivalent to multiplying
// both components by the scalar L-1.
func (eval *Evaluator) Neg(ct, ctOut *Ciphertext) {
	ctOut.C0.Negate(ct.C0)
	ctOut.C1.Negate(ct.C1)
}

// NegNew negates ct and returns the result on a newly allocated [Ciphertext].
func (eval *Evaluator) NegNew(ct *Ciphertext) (ctOut *Ciphertext) {
	ctOut = NewCiphertext()
	eval.Neg(ct, ctOut)
	return
}
