package buffer

import (
	"encoding/binary"
	"io"
)

// Writer is an interface for writers that hold an internal buffer and that
// expose a Flush method. It is notably implemented by [bufio.Writer] and by
// [Buffer].
type Writer interface {
	io.Writer
	Flush() (err error)
}

// WriteUint8 writes a single byte on w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {
	inc, err := w.Write([]byte{c})
	return int64(inc), err
}

// WriteUint32 writes a little-endian uint32 on w.
func WriteUint32(w Writer, c uint32) (n int64, err error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], c)
	inc, err := w.Write(buf[:])
	return int64(inc), err
}

// WriteInt32 writes a little-endian int32 on w.
func WriteInt32(w Writer, c int32) (n int64, err error) {
	return WriteUint32(w, uint32(c))
}

// WriteUint64 writes a little-endian uint64 on w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], c)
	inc, err := w.Write(buf[:])
	return int64(inc), err
}
