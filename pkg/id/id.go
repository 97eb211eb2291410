// Package id provides the compact identifiers used for every graph element.
//
// An ID is 12 bytes wide:
//
//	[0:4]  big-endian unix seconds of creation
//	[4:9]  generator discriminator (random per Generator)
//	[9:12] big-endian 24-bit counter
//
// Many Generators can mint IDs at the same time, in the same or in different
// processes, without talking to each other. Collisions require two generators
// to share a discriminator and wrap their counter within the same second.
package id

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sanonone/epgm/internal/codec"
)

// Size is the width of an ID in bytes.
const Size = 12

// ErrFormat is returned when a string or byte slice is not a valid ID.
var ErrFormat = errors.New("malformed identifier")

// ID identifies one graph head, vertex or edge. IDs are comparable and can be
// used directly as map keys.
type ID [Size]byte

// Nil is the zero ID. Factories treat it as "missing".
var Nil ID

// FromString parses the 24 character hex form produced by String.
func FromString(s string) (ID, error) {
	var out ID
	if len(s) != 2*Size {
		return Nil, fmt.Errorf("%w: %q has %d characters, want %d", ErrFormat, s, len(s), 2*Size)
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return Nil, fmt.Errorf("%w: %q: %v", ErrFormat, s, err)
	}
	return out, nil
}

// MustFromString is like FromString but panics on error.
// Intended for constants and tests.
func MustFromString(s string) ID {
	out, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return out
}

// FromBytes copies a 12 byte slice into an ID.
func FromBytes(b []byte) (ID, error) {
	var out ID
	if len(b) != Size {
		return Nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFormat, len(b), Size)
	}
	copy(out[:], b)
	return out, nil
}

// String returns the lowercase hex form.
func (i ID) String() string {
	return hex.EncodeToString(i[:])
}

// Bytes returns a copy of the raw identifier bytes.
func (i ID) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, i[:])
	return out
}

// IsZero reports whether i is the Nil ID.
func (i ID) IsZero() bool {
	return i == Nil
}

// Compare orders IDs byte-wise. It returns -1, 0 or +1.
func (i ID) Compare(o ID) int {
	return bytes.Compare(i[:], o[:])
}

// Less reports whether i sorts before o.
func (i ID) Less(o ID) bool {
	return i.Compare(o) < 0
}

// Timestamp returns the creation second embedded in the ID.
func (i ID) Timestamp() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(i[0:4])), 0)
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(b []byte) error {
	parsed, err := FromString(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// AppendBinary appends the 12 raw bytes of i.
func (i ID) AppendBinary(b []byte) []byte {
	return append(b, i[:]...)
}

// ReadID decodes an ID written by AppendBinary.
func ReadID(r *codec.Reader) (ID, error) {
	p, err := r.Fixed(Size)
	if err != nil {
		return Nil, err
	}
	var out ID
	copy(out[:], p)
	return out, nil
}
