package elgamal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/tuneinsight/lhe25519/utils"
	"github.com/tuneinsight/lhe25519/utils/buffer"
)

// DecryptionTable is the precomputed giant-step table of the baby-step
// giant-step decryption: it maps the canonical 32-byte encoding of the point
// (m1 * 2^BabyBits) * B to the giant-step index m1, for every m1 in
// [-2^(GiantBits-1), 2^(GiantBits-1)).
//
// The content only depends on the curve and on the [Parameters], so the table
// is generated once with [GenDecryptionTable], persisted with
// [DecryptionTable.WriteTo] and reloaded with [DecryptionTable.ReadFrom] on
// later runs. A populated table is immutable and can be shared read-only
// between any number of [Decryptor] instances and goroutines.
//
// The container is an open-addressing hash table with a flat entry layout:
// for the canonical parameters it holds 2^25 entries in about 1.4 GiB of
// resident memory. The bucket index is derived from the low bytes of the
// point encoding itself, which is already uniformly distributed.
type DecryptionTable struct {
	params Parameters
	mask   uint64
	slots  []uint32 // 1-based index into the entry arrays, 0 is empty
	keys   []byte   // flat 32-byte keys, in insertion order
	vals   []int32
}

// NewDecryptionTable allocates an empty [DecryptionTable] for the given
// parameters, to be populated by [DecryptionTable.ReadFrom].
func NewDecryptionTable(params Parameters) *DecryptionTable {
	n := params.TableSize()
	// Power-of-two slot count at a load factor of at most 1/2.
	slotCount := utils.Max(64, utils.NextPow2(uint64(2*n)))
	return &DecryptionTable{
		params: params,
		mask:   slotCount - 1,
		slots:  make([]uint32, slotCount),
		keys:   make([]byte, 0, n*32),
		vals:   make([]int32, 0, n),
	}
}

// GenDecryptionTable generates the decryption table for the given parameters.
//
// Construction is sequential and deterministic: giant steps are inserted in
// increasing order of m1, walking the curve incrementally with one point
// addition of (2^BabyBits)B per entry. For the canonical parameters this
// takes on the order of a minute and the result is byte-identical, under the
// persistence format, on every machine.
//
// The context is checked between chunks of giant steps, so a caller can abort
// a long construction; the partial table is discarded and ctx.Err() is
// returned.
func GenDecryptionTable(ctx context.Context, params Parameters) (*DecryptionTable, error) {

	t := NewDecryptionTable(params)

	half := int64(1) << (params.GiantBits() - 1)

	// Starting point: encode(-2^(GiantBits-1) * 2^BabyBits) * B, the giant
	// step of the smallest message.
	pt, err := NewEncoder(params).EncodeNew(-half << params.BabyBits())
	if err != nil {
		// Sanity check, the smallest giant step is always encodable.
		panic(fmt.Errorf("cannot GenDecryptionTable: %w", err))
	}
	m, err := pt.Scalar()
	if err != nil {
		// Sanity check, this error should not happen.
		panic(fmt.Errorf("cannot GenDecryptionTable: %w", err))
	}
	P := edwards25519.NewIdentityPoint().ScalarBaseMult(m)

	// Increment between consecutive giant steps: (2^BabyBits) * B.
	var stepBytes [32]byte
	binary.LittleEndian.PutUint64(stepBytes[:8], uint64(1)<<params.BabyBits())
	stepScalar, err := edwards25519.NewScalar().SetCanonicalBytes(stepBytes[:])
	if err != nil {
		// Sanity check, 2^BabyBits < L.
		panic(fmt.Errorf("cannot GenDecryptionTable: %w", err))
	}
	step := edwards25519.NewIdentityPoint().ScalarBaseMult(stepScalar)

	var key [32]byte
	for m1 := -half; m1 < half; m1++ {
		if m1&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("cannot GenDecryptionTable: %w", err)
			}
		}
		copy(key[:], P.Bytes())
		t.insert(key, int32(m1))
		P.Add(P, step)
	}

	return t, nil
}

// Len returns the number of entries of the table.
func (t *DecryptionTable) Len() int {
	return len(t.vals)
}

// Lookup returns the giant-step index stored under the canonical point
// encoding key, and whether the key is present.
func (t *DecryptionTable) Lookup(key [32]byte) (m1 int32, ok bool) {
	h := binary.LittleEndian.Uint64(key[:8])
	for idx := h & t.mask; ; idx = (idx + 1) & t.mask {
		e := t.slots[idx]
		if e == 0 {
			return 0, false
		}
		off := int(e-1) * 32
		if bytes.Equal(t.keys[off:off+32], key[:]) {
			return t.vals[e-1], true
		}
	}
}

// insert appends a new entry and links it into the slot array. Keys are
// distinct curve points, so no update-in-place case exists.
func (t *DecryptionTable) insert(key [32]byte, val int32) {
	t.keys = append(t.keys, key[:]...)
	t.vals = append(t.vals, val)
	e := uint32(len(t.vals))
	h := binary.LittleEndian.Uint64(key[:8])
	for idx := h & t.mask; ; idx = (idx + 1) & t.mask {
		if t.slots[idx] == 0 {
			t.slots[idx] = e
			return
		}
	}
}

// Equal returns whether the receiver and the operand tables hold identical
// mappings in identical order.
func (t *DecryptionTable) Equal(other *DecryptionTable) bool {
	if !t.params.Equal(&other.params) || len(t.vals) != len(other.vals) {
		return false
	}
	if !bytes.Equal(t.keys, other.keys) {
		return false
	}
	for i := range t.vals {
		if t.vals[i] != other.vals[i] {
			return false
		}
	}
	return true
}

// BinarySize returns the serialized size of the object in bytes: an 8-byte
// entry count followed by 36 bytes per entry.
func (t *DecryptionTable) BinarySize() int {
	return 8 + t.Len()*36
}

// WriteTo writes the object on an [io.Writer]. It implements the
// [io.WriterTo] interface, and will write exactly object.BinarySize() bytes
// on w.
//
// The layout is the little-endian uint64 entry count, then for each entry the
// 32-byte canonical point encoding followed by the little-endian int32
// giant-step index. Entries are written in insertion order, so two tables
// generated by [GenDecryptionTable] for the same parameters serialize to
// identical bytes. No header and no checksum are written; integrity of the
// persisted file is the caller's concern.
func (t *DecryptionTable) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteUint64(w, uint64(t.Len())); err != nil {
			return n + inc, err
		}
		n += inc

		for i := range t.vals {
			var inc int
			if inc, err = w.Write(t.keys[i*32 : (i+1)*32]); err != nil {
				return n + int64(inc), err
			}
			n += int64(inc)
			var inc64 int64
			if inc64, err = buffer.WriteInt32(w, t.vals[i]); err != nil {
				return n + inc64, err
			}
			n += inc64
		}

		return n, w.Flush()

	default:
		bw := bufio.NewWriter(w)
		if n, err = t.WriteTo(bw); err != nil {
			return n, err
		}
		return n, bw.Flush()
	}
}

// ReadFrom reads on the object from an [io.Reader]. It implements the
// [io.ReaderFrom] interface.
//
// The entry count must match the table size of the parameters the receiver
// was allocated for; a mismatch or a short read leaves the receiver
// unpopulated and returns an error.
func (t *DecryptionTable) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		t.reset()

		var inc int64
		var count uint64
		if inc, err = buffer.ReadUint64(r, &count); err != nil {
			return n + inc, fmt.Errorf("cannot ReadFrom: %w", err)
		}
		n += inc

		if count != uint64(t.params.TableSize()) {
			return n, fmt.Errorf("cannot ReadFrom: table size mismatch: file holds %d entries, parameters require %d", count, t.params.TableSize())
		}

		var key [32]byte
		var val int32
		for i := uint64(0); i < count; i++ {
			var inc int
			if inc, err = io.ReadFull(r, key[:]); err != nil {
				t.reset()
				return n + int64(inc), fmt.Errorf("cannot ReadFrom: %w", err)
			}
			n += int64(inc)
			var inc64 int64
			if inc64, err = buffer.ReadInt32(r, &val); err != nil {
				t.reset()
				return n + inc64, fmt.Errorf("cannot ReadFrom: %w", err)
			}
			n += inc64
			t.insert(key, val)
		}

		return n, nil

	default:
		return t.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated
// slice of bytes.
func (t *DecryptionTable) MarshalBinary() (data []byte, err error) {
	buf := buffer.NewBufferSize(t.BinarySize())
	_, err = t.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// [DecryptionTable.MarshalBinary] or [DecryptionTable.WriteTo] on the object.
func (t *DecryptionTable) UnmarshalBinary(data []byte) (err error) {
	_, err = t.ReadFrom(buffer.NewBuffer(data))
	return
}

func (t *DecryptionTable) reset() {
	for i := range t.slots {
		t.slots[i] = 0
	}
	t.keys = t.keys[:0]
	t.vals = t.vals[:0]
}
