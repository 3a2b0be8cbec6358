package elgamal

import (
	"bufio"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/tuneinsight/lhe25519/utils/buffer"
)

// Plaintext is the encoding of a signed integer as a canonical scalar modulo
// the group order L, in 32 little-endian bytes. Plaintexts are produced by
// [Encoder.Encode] and consumed by [Encryptor], [Evaluator] and
// [Encoder.Decode].
type Plaintext struct {
	Value [32]byte
}

// NewPlaintext allocates a new zero [Plaintext], the encoding of the
// message 0.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Scalar returns the plaintext as a curve scalar. It returns an error if the
// plaintext bytes are not a canonical scalar, i.e. were not produced by
// [Encoder.Encode].
func (pt *Plaintext) Scalar() (*edwards25519.Scalar, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(pt.Value[:])
	if err != nil {
		return nil, fmt.Errorf("plaintext is not a canonical scalar: %w", err)
	}
	return s, nil
}

// Equal returns whether the receiver and the operand plaintext are identical.
func (pt *Plaintext) Equal(other *Plaintext) bool {
	return pt.Value == other.Value
}

// CopyNew returns a deep copy of the plaintext.
func (pt *Plaintext) CopyNew() *Plaintext {
	return &Plaintext{Value: pt.Value}
}

// BinarySize returns the serialized size of the object in bytes.
func (pt *Plaintext) BinarySize() int {
	return 32
}

// WriteTo writes the object on an [io.Writer]. It implements the
// [io.WriterTo] interface.
func (pt *Plaintext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		inc, err := w.Write(pt.Value[:])
		if err != nil {
			return int64(inc), err
		}
		return int64(inc), w.Flush()
	default:
		return pt.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
func (pt *Plaintext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		inc, err := io.ReadFull(r, pt.Value[:])
		return int64(inc), err
	default:
		return pt.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (pt *Plaintext) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(pt.BinarySize())
	_, err = pt.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Plaintext.MarshalBinary] or [Plaintext.WriteTo] on the object.
func (pt *Plaintext) UnmarshalBinary(data []byte) (err error) {
	_, err = pt.ReadFrom(buffer.NewBuffer(data))
	return
}
