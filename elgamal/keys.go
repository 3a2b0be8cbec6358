package elgamal

import (
	"bufio"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/tuneinsight/lhe25519/utils/buffer"
)

// SecretKey is a structure storing a clamped Ed25519 secret scalar in its
// 32-byte little-endian form. The clamping bits (the three lowest bits of
// byte 0 cleared, the top bit of byte 31 cleared, bit 6 of byte 31 set) are an
// invariant of every key produced by [KeyGenerator].
type SecretKey struct {
	Value [32]byte
}

// NewSecretKey allocates a new zero [SecretKey].
func NewSecretKey() *SecretKey {
	return &SecretKey{}
}

// Scalar returns the secret key as a curve scalar. Clamping is applied again
// on the stored bytes, which is a no-op on keys produced by [KeyGenerator].
func (sk *SecretKey) Scalar() (*edwards25519.Scalar, error) {
	s, err := edwards25519.NewScalar().SetBytesWithClamping(sk.Value[:])
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	return s, nil
}

// Equal returns whether the receiver and the operand secret keys are
// identical.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	return sk.Value == other.Value
}

// CopyNew returns a deep copy of the secret key.
func (sk *SecretKey) CopyNew() *SecretKey {
	return &SecretKey{Value: sk.Value}
}

// BinarySize returns the serialized size of the object in bytes.
func (sk *SecretKey) BinarySize() int {
	return 32
}

// WriteTo writes the object on an [io.Writer]. It implements the
// [io.WriterTo] interface.
func (sk *SecretKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		inc, err := w.Write(sk.Value[:])
		if err != nil {
			return int64(inc), err
		}
		return int64(inc), w.Flush()
	default:
		return sk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
func (sk *SecretKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		inc, err := io.ReadFull(r, sk.Value[:])
		return int64(inc), err
	default:
		return sk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (sk *SecretKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(sk.BinarySize())
	_, err = sk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [SecretKey.MarshalBinary] or [SecretKey.WriteTo] on the object.
func (sk *SecretKey) UnmarshalBinary(data []byte) (err error) {
	_, err = sk.ReadFrom(buffer.NewBuffer(data))
	return
}

// PublicKey is a structure storing the public key P = sB, a point of the
// prime-order subgroup.
type PublicKey struct {
	Value *edwards25519.Point
}

// NewPublicKey allocates a new [PublicKey] set to the identity.
func NewPublicKey() *PublicKey {
	return &PublicKey{Value: edwards25519.NewIdentityPoint()}
}

// Equal returns whether the receiver and the operand public keys are
// identical.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.Value.Equal(other.Value) == 1
}

// CopyNew returns a deep copy of the public key.
func (pk *PublicKey) CopyNew() *PublicKey {
	return &PublicKey{Value: edwards25519.NewIdentityPoint().Set(pk.Value)}
}

// BinarySize returns the serialized size of the object in bytes.
func (pk *PublicKey) BinarySize() int {
	return 32
}

// WriteTo writes the object on an [io.Writer]. It implements the
// [io.WriterTo] interface.
func (pk *PublicKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		inc, err := w.Write(pk.Value.Bytes())
		if err != nil {
			return int64(inc), err
		}
		return int64(inc), w.Flush()
	default:
		return pk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
func (pk *PublicKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var enc [32]byte
		inc, err := io.ReadFull(r, enc[:])
		if err != nil {
			return int64(inc), err
		}
		if pk.Value == nil {
			pk.Value = edwards25519.NewIdentityPoint()
		}
		if _, err = pk.Value.SetBytes(enc[:]); err != nil {
			return int64(inc), fmt.Errorf("cannot ReadFrom: invalid point encoding: %w", err)
		}
		return int64(inc), nil
	default:
		return pk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (pk *PublicKey) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pk.BinarySize())
	_, err = pk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [PublicKey.MarshalBinary] or [PublicKey.WriteTo] on the object.
func (pk *PublicKey) UnmarshalBinary(data []byte) (err error) {
	_, err = pk.ReadFrom(buffer.NewBuffer(data))
	return
}
