package elgamal

import (
	"bufio"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/tuneinsight/lhe25519/utils/buffer"
)

// Ciphertext is an ElGamal ciphertext: the pair of group elements
// (C0, C1) = (mB + rP, rB) for an encoded message m, a fresh random scalar r
// and a public key P. The pair is malleable by construction; homomorphic
// operations on it are provided by [Evaluator].
type Ciphertext struct {
	C0 *edwards25519.Point
	C1 *edwards25519.Point
}

// NewCiphertext allocates a new [Ciphertext] with both components set to the
// identity.
func NewCiphertext() *Ciphertext {
	return &Ciphertext{
		C0: edwards25519.NewIdentityPoint(),
		C1: edwards25519.NewIdentityPoint(),
	}
}

// Copy copies the operand ciphertext on the receiver.
func (ct *Ciphertext) Copy(other *Ciphertext) {
	ct.C0.Set(other.C0)
	ct.C1.Set(other.C1)
}

// CopyNew returns a deep copy of the ciphertext.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	ctNew := NewCiphertext()
	ctNew.Copy(ct)
	return ctNew
}

// Equal returns whether the receiver and the operand ciphertexts are
// identical.
func (ct *Ciphertext) Equal(other *Ciphertext) bool {
	return ct.C0.Equal(other.C0) == 1 && ct.C1.Equal(other.C1) == 1
}

// BinarySize returns the serialized size of the object in bytes.
func (ct *Ciphertext) BinarySize() int {
	return 64
}

// WriteTo writes the object on an [io.Writer]. It implements the
// [io.WriterTo] interface, and will write exactly object.BinarySize() bytes
// on w.
func (ct *Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int
		if inc, err = w.Write(ct.C0.Bytes()); err != nil {
			return n + int64(inc), err
		}
		n += int64(inc)
		if inc, err = w.Write(ct.C1.Bytes()); err != nil {
			return n + int64(inc), err
		}
		return n + int64(inc), w.Flush()
	default:
		return ct.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var enc [32]byte
		var inc int
		if ct.C0 == nil {
			ct.C0 = edwards25519.NewIdentityPoint()
		}
		if ct.C1 == nil {
			ct.C1 = edwards25519.NewIdentityPoint()
		}
		for _, p := range []*edwards25519.Point{ct.C0, ct.C1} {
			if inc, err = io.ReadFull(r, enc[:]); err != nil {
				return n + int64(inc), err
			}
			n += int64(inc)
			if _, err = p.SetBytes(enc[:]); err != nil {
				return n, fmt.Errorf("cannot ReadFrom: invalid point encoding: %w", err)
			}
		}
		return n, nil
	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (ct *Ciphertext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err = ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Ciphertext.MarshalBinary] or [Ciphertext.WriteTo] on the object.
func (ct *Ciphertext) UnmarshalBinary(data []byte) (err error) {
	_, err = ct.ReadFrom(buffer.NewBuffer(data))
	return
}
