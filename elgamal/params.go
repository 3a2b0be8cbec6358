package elgamal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/lhe25519/utils/buffer"
)

// MaxMessageBits is the largest supported message width. The negative-value
// heuristic of [Encoder.Decode] inspects the scalar bytes from position 5 up and
// is only sound for messages of at most 40 bits.
const MaxMessageBits = 40

// MSG40 is the canonical parameter set: signed 40-bit messages with a 15-bit
// baby-step search, giving a decryption table of 2^25 entries.
var MSG40 = ParametersLiteral{
	MessageBits: 40,
	BabyBits:    15,
}

// ParametersLiteral is a literal representation of scheme parameters. It is
// checked for correctness and compiled into a [Parameters] struct by
// [NewParametersFromLiteral].
//
// A message of MessageBits bits m is split as m = m1*2^BabyBits + m0 with
// 0 <= m0 < 2^BabyBits. Decryption stores the giant steps m1 in a precomputed
// table of 2^(MessageBits-BabyBits) entries and searches the baby steps m0
// online, so BabyBits trades table memory for decryption time.
type ParametersLiteral struct {
	MessageBits int
	BabyBits    int
}

// Parameters represents a parameter set for the scheme. Its fields must not be
// modified after instantiation.
type Parameters struct {
	messageBits int
	babyBits    int
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a
// [ParametersLiteral].
func NewParametersFromLiteral(pl ParametersLiteral) (Parameters, error) {
	if pl.MessageBits < 2 || pl.MessageBits > MaxMessageBits {
		return Parameters{}, fmt.Errorf("invalid parameters: MessageBits must be in [2, %d] but is %d", MaxMessageBits, pl.MessageBits)
	}
	if pl.BabyBits < 1 || pl.BabyBits >= pl.MessageBits {
		return Parameters{}, fmt.Errorf("invalid parameters: BabyBits must be in [1, MessageBits) but is %d", pl.BabyBits)
	}
	return Parameters{messageBits: pl.MessageBits, babyBits: pl.BabyBits}, nil
}

// MessageBits returns the width of the supported message range in bits,
// including the sign bit.
func (p Parameters) MessageBits() int {
	return p.messageBits
}

// BabyBits returns the number of message bits searched online during
// decryption.
func (p Parameters) BabyBits() int {
	return p.babyBits
}

// GiantBits returns the number of message bits covered by the decryption
// table.
func (p Parameters) GiantBits() int {
	return p.messageBits - p.babyBits
}

// MaxMessage returns the largest encodable message, 2^(MessageBits-1) - 1.
func (p Parameters) MaxMessage() int64 {
	return (int64(1) << (p.messageBits - 1)) - 1
}

// MinMessage returns the smallest encodable message, -2^(MessageBits-1).
func (p Parameters) MinMessage() int64 {
	return -(int64(1) << (p.messageBits - 1))
}

// TableSize returns the number of entries of the decryption table, one per
// giant-step index in [-2^(GiantBits-1), 2^(GiantBits-1)).
func (p Parameters) TableSize() int {
	return 1 << p.GiantBits()
}

// BabySteps returns the number of baby-step iterations of the decryption
// loop, 2^BabyBits.
func (p Parameters) BabySteps() int {
	return 1 << p.babyBits
}

// Equal returns whether the receiver and the operand parameters are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return p.messageBits == other.messageBits && p.babyBits == other.babyBits
}

// BinarySize returns the serialized size of the object in bytes.
func (p Parameters) BinarySize() int {
	return 2
}

// WriteTo writes the object on an [io.Writer]. It implements the
// [io.WriterTo] interface, and will write exactly object.BinarySize() bytes
// on w.
func (p Parameters) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:
		var inc int64
		if inc, err = buffer.WriteUint8(w, uint8(p.messageBits)); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = buffer.WriteUint8(w, uint8(p.babyBits)); err != nil {
			return n + inc, err
		}
		return n + inc, w.Flush()
	default:
		return p.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
func (p *Parameters) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:
		var inc int64
		var messageBits, babyBits uint8
		if inc, err = buffer.ReadUint8(r, &messageBits); err != nil {
			return n + inc, err
		}
		n += inc
		if inc, err = buffer.ReadUint8(r, &babyBits); err != nil {
			return n + inc, err
		}
		n += inc
		*p, err = NewParametersFromLiteral(ParametersLiteral{
			MessageBits: int(messageBits),
			BabyBits:    int(babyBits),
		})
		return n, err
	default:
		return p.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (p Parameters) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(p.BinarySize())
	_, err = p.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [Parameters.MarshalBinary] or [Parameters.WriteTo] on the object.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	_, err = p.ReadFrom(buffer.NewBuffer(data))
	return
}
