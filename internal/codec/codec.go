// Package codec holds the binary primitives shared by the property, element
// and stream encoders.
//
// Fixed-width integers are written big-endian so that encoded identifiers and
// counters keep their natural byte order. Variable-length payloads (strings,
// decimals, nested blobs) carry a uvarint length prefix.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorrupt is returned whenever a buffer ends early or carries a length
// prefix that does not fit in the remaining bytes.
var ErrCorrupt = errors.New("corrupt encoding")

// AppendUvarint appends v in unsigned varint form.
func AppendUvarint(b []byte, v uint64) []byte {
	return binary.AppendUvarint(b, v)
}

// AppendUint32 appends v as 4 big-endian bytes.
func AppendUint32(b []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(b, v)
}

// AppendUint64 appends v as 8 big-endian bytes.
func AppendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}

// AppendInt64 appends v as 8 big-endian bytes (two's complement).
func AppendInt64(b []byte, v int64) []byte {
	return binary.BigEndian.AppendUint64(b, uint64(v))
}

// AppendBytes appends p prefixed by its length.
func AppendBytes(b, p []byte) []byte {
	b = binary.AppendUvarint(b, uint64(len(p)))
	return append(b, p...)
}

// AppendString appends s as length-prefixed UTF-8.
func AppendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

// Reader decodes the primitives written by the Append* helpers.
// It never panics on short input; every method reports ErrCorrupt instead.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// Fixed returns the next n bytes without copying.
func (r *Reader) Fixed(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrCorrupt, n, r.off, r.Len())
	}
	p := r.buf[r.off : r.off+n]
	r.off += n
	return p, nil
}

// Byte reads a single byte.
func (r *Reader) Byte() (byte, error) {
	p, err := r.Fixed(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// Uint32 reads 4 big-endian bytes.
func (r *Reader) Uint32() (uint32, error) {
	p, err := r.Fixed(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

// Uint64 reads 8 big-endian bytes.
func (r *Reader) Uint64() (uint64, error) {
	p, err := r.Fixed(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

// Int64 reads 8 big-endian bytes as a signed value.
func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Uvarint reads an unsigned varint.
func (r *Reader) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad varint at offset %d", ErrCorrupt, r.off)
	}
	r.off += n
	return v, nil
}

// Count reads a uvarint element count and rejects counts that cannot
// possibly be satisfied by the remaining input (each element needs at
// least minSize bytes).
func (r *Reader) Count(minSize int) (int, error) {
	v, err := r.Uvarint()
	if err != nil {
		return 0, err
	}
	if minSize < 1 {
		minSize = 1
	}
	if v > uint64(r.Len()/minSize) {
		return 0, fmt.Errorf("%w: count %d exceeds remaining %d bytes", ErrCorrupt, v, r.Len())
	}
	return int(v), nil
}

// Bytes reads a length-prefixed byte slice. The result aliases the input.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("%w: length %d exceeds remaining %d bytes", ErrCorrupt, n, r.Len())
	}
	return r.Fixed(int(n))
}

// String reads a length-prefixed string.
func (r *Reader) String() (string, error) {
	p, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(p), nil
}
