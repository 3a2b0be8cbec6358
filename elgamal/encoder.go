package elgamal

import (
	"encoding/binary"
	"fmt"

	"filippo.io/edwards25519"
)

// Encoder maps signed integers to and from their scalar encoding modulo the
// group order L.
//
// A non-negative v encodes as the 32-byte little-endian integer v. A negative
// v encodes as the canonical representative L + v: the 256-bit two's
// complement of v plus L, with the carry out of the top byte discarded (it is
// always zero since |v| is far below L). Reducing modulo L rather than modulo
// a power of two is what lets scalar multiplication by the base point carry
// message addition: encode(a)*B + encode(b)*B = encode(a+b)*B whenever a+b
// stays in range.
type Encoder struct {
	params Parameters
}

// NewEncoder creates a new [Encoder] for the given parameters.
func NewEncoder(params Parameters) *Encoder {
	return &Encoder{params: params}
}

// Encode encodes value on pt. It returns [ErrMessageOutOfRange] if value lies
// outside [p.MinMessage(), p.MaxMessage()].
func (ecd Encoder) Encode(value int64, pt *Plaintext) error {

	if value > ecd.params.MaxMessage() || value < ecd.params.MinMessage() {
		return fmt.Errorf("cannot Encode: %w: %d not in [%d, %d]", ErrMessageOutOfRange, value, ecd.params.MinMessage(), ecd.params.MaxMessage())
	}

	m := &pt.Value
	binary.LittleEndian.PutUint64(m[0:8], uint64(value))
	for i := 8; i < 32; i++ {
		m[i] = 0
	}

	if value >= 0 {
		return nil
	}

	// Two's-complement extension of the negative value over 256 bits, then a
	// single 256-bit addition of L. The carry out of the top byte is zero
	// because |value| <= 2^39 << L.
	for i := 8; i < 32; i++ {
		m[i] = 0xff
	}
	var carry uint16
	for i := 0; i < 32; i++ {
		s := uint16(m[i]) + uint16(groupOrder[i]) + carry
		m[i] = byte(s)
		carry = s >> 8
	}

	return nil
}

// EncodeNew encodes value on a newly allocated [Plaintext].
func (ecd Encoder) EncodeNew(value int64) (pt *Plaintext, err error) {
	pt = NewPlaintext()
	if err = ecd.Encode(value, pt); err != nil {
		return nil, err
	}
	return pt, nil
}

// Decode decodes pt and returns the signed integer it encodes.
//
// The scalar is first reduced modulo L. It is treated as negative iff any byte
// at position 5 or above is nonzero, which no in-range non-negative encoding can
// produce; in that case L is subtracted to recover the two's-complement value.
// If the resulting high region is not a valid sign extension, or the value
// lies outside the message range, Decode returns [ErrPlaintextOutOfBounds]
// instead of a corrupted value.
func (ecd Encoder) Decode(pt *Plaintext) (value int64, err error) {

	var m [32]byte
	scReduce(&m, &pt.Value)

	negative := false
	for i := 5; i < 32; i++ {
		negative = negative || m[i] != 0
	}

	if negative {
		// Subtract L to recover the 256-bit two's complement of the value.
		var borrow uint16
		for i := 0; i < 32; i++ {
			d := uint16(m[i]) - uint16(groupOrder[i]) - borrow
			m[i] = byte(d)
			borrow = (d >> 8) & 1
		}
		for i := 8; i < 32; i++ {
			if m[i] != 0xff {
				return 0, fmt.Errorf("cannot Decode: %w", ErrPlaintextOutOfBounds)
			}
		}
	}

	value = int64(binary.LittleEndian.Uint64(m[0:8]))

	if negative && value >= 0 {
		return 0, fmt.Errorf("cannot Decode: %w", ErrPlaintextOutOfBounds)
	}

	if value > ecd.params.MaxMessage() || value < ecd.params.MinMessage() {
		return 0, fmt.Errorf("cannot Decode: %w", ErrPlaintextOutOfBounds)
	}

	return value, nil
}

// scReduce reduces an arbitrary 32-byte scalar modulo L, writing the
// canonical representative on dst.
func scReduce(dst *[32]byte, src *[32]byte) {
	var wide [64]byte
	copy(wide[:32], src[:])
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		// Sanity check, SetUniformBytes only fails on a wrong input length.
		panic(fmt.Errorf("scReduce: %w", err))
	}
	copy(dst[:], s.Bytes())
}
