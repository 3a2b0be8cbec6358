// Package elgamal implements an additively homomorphic encryption scheme based
// on exponential (lifted) ElGamal over the prime-order subgroup of Curve25519.
//
// A signed integer v is encoded as a scalar modulo the group order L and
// carried inside a ciphertext as the group element vB, where B is the Ed25519
// base point. Additions and subtractions of ciphertexts, additions and
// subtractions of plaintexts, multiplications by a plaintext and negations are
// all performed on the group elements and match the corresponding integer
// operations as long as the result stays within the supported message range.
//
// Decryption recovers vB and then extracts v with a baby-step giant-step
// search backed by a precomputed [DecryptionTable]. The table only depends on
// the curve and on the [Parameters], so it can be generated once, persisted
// with [DecryptionTable.WriteTo] and shared read-only between any number of
// decryptors.
package elgamal

import (
	"errors"
)

var (
	// ErrMessageOutOfRange is returned by [Encoder.Encode] when the input
	// integer lies outside the supported message range of the parameters.
	ErrMessageOutOfRange = errors.New("message out of supported range")

	// ErrPlaintextOutOfBounds is returned by [Encoder.Decode] when the scalar
	// is not the encoding of an in-range message.
	ErrPlaintextOutOfBounds = errors.New("plaintext is not the encoding of an in-range message")

	// ErrMissingSecretKey is returned by [Decryptor.Decrypt] when no secret
	// key is loaded.
	ErrMissingSecretKey = errors.New("decryptor has no secret key")

	// ErrTableNotLoaded is returned by [Decryptor.Decrypt] when no populated
	// decryption table is loaded.
	ErrTableNotLoaded = errors.New("decryption table is not populated")

	// ErrUndecryptableCiphertext is returned by [Decryptor.Decrypt] when the
	// baby-step giant-step search terminates without a table hit. This happens
	// for malformed ciphertexts, for cleartexts outside the message range and
	// when the secret key or the table do not match the ciphertext.
	ErrUndecryptableCiphertext = errors.New("unable to decrypt ciphertext")
)

// groupOrder is the little-endian encoding of the order of the Ed25519
// prime-order subgroup, L = 2^252 + 27742317777372353535851937790883648493.
var groupOrder = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}
