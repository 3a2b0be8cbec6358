package buffer

import (
	"encoding/binary"
	"io"
)

// Reader is an interface for readers that hold an internal buffer. It is
// notably implemented by [bufio.Reader] and by [Buffer].
type Reader interface {
	io.Reader
	io.ByteReader
}

// ReadUint8 reads a single byte from r into c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	*c = b
	return 1, nil
}

// ReadUint32 reads a little-endian uint32 from r into c.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {
	var buf [4]byte
	inc, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(inc), err
	}
	*c = binary.LittleEndian.Uint32(buf[:])
	return int64(inc), nil
}

// ReadInt32 reads a little-endian int32 from r into c.
func ReadInt32(r Reader, c *int32) (n int64, err error) {
	var u uint32
	if n, err = ReadUint32(r, &u); err != nil {
		return n, err
	}
	*c = int32(u)
	return n, nil
}

// ReadUint64 reads a little-endian uint64 from r into c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {
	var buf [8]byte
	inc, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(inc), err
	}
	*c = binary.LittleEndian.Uint64(buf[:])
	return int64(inc), nil
}
