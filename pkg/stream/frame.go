// Package stream writes and reads elements as a sequence of checksummed
// binary frames, so graphs built by a loader can be stored in a file or
// sent over a connection and decoded elsewhere.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"
)

// Constants for the frame protocol.
const (
	// MagicByte marks the start of a valid frame.
	MagicByte = 0xA5

	// HeaderSize is the fixed size of the frame metadata:
	// 1 byte (Magic) + 1 byte (Op) + 1 byte (Flags) + 4 bytes (Length) + 4 bytes (CRC32) = 11 bytes.
	HeaderSize = 11

	// MaxPayloadSize bounds the stored payload of one frame.
	MaxPayloadSize = 64 << 20

	// FlagSnappy marks a payload compressed with snappy.
	FlagSnappy byte = 1 << 0
)

// Op tells which element kind a frame carries.
type Op byte

const (
	OpGraphHead Op = 0x01
	OpVertex    Op = 0x02
	OpEdge      Op = 0x03
)

func (o Op) String() string {
	switch o {
	case OpGraphHead:
		return "graph_head"
	case OpVertex:
		return "vertex"
	case OpEdge:
		return "edge"
	default:
		return fmt.Sprintf("op(%#02x)", byte(o))
	}
}

func (o Op) valid() bool { return o >= OpGraphHead && o <= OpEdge }

var (
	// ErrInvalidMagic indicates the stream lost synchronization or is not a frame stream.
	ErrInvalidMagic = errors.New("invalid magic byte")
	// ErrChecksumMismatch indicates data corruption within the frame payload.
	ErrChecksumMismatch = errors.New("crc32 checksum mismatch")
	// ErrIncompleteFrame indicates the stream ended in the middle of a frame.
	ErrIncompleteFrame = errors.New("incomplete frame")
	// ErrUnknownOp indicates a frame whose op or flags this version cannot handle.
	ErrUnknownOp = errors.New("unknown frame op")
	// ErrFrameTooLarge indicates a length field above MaxPayloadSize.
	ErrFrameTooLarge = errors.New("frame too large")
)

// Frame is one decoded frame. Payload is always uncompressed.
type Frame struct {
	Op      Op
	Flags   byte
	Payload []byte
}

// Compressed reports whether the payload was stored compressed.
func (f Frame) Compressed() bool { return f.Flags&FlagSnappy != 0 }

// appendFrame encodes payload into a frame appended to b.
// Frame Format: [Magic(1)][Op(1)][Flags(1)][Length(4)][CRC(4)][Payload(N)]
// Length and CRC describe the stored payload, after compression.
func appendFrame(b []byte, op Op, flags byte, payload []byte) []byte {
	if flags&FlagSnappy != 0 {
		payload = snappy.Encode(nil, payload)
	}
	var header [HeaderSize]byte
	header[0] = MagicByte
	header[1] = byte(op)
	header[2] = flags
	binary.LittleEndian.PutUint32(header[3:7], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[7:11], crc32.ChecksumIEEE(payload))
	b = append(b, header[:]...)
	return append(b, payload...)
}

// ReadFrame reads the next frame from r.
// It validates the Magic Byte, the op, and the CRC32 Checksum, then
// decompresses the payload when needed.
// Returns the frame, the total bytes read (header + stored payload), and an error.
// io.EOF is returned only when r ends exactly at a frame boundary.
func ReadFrame(r io.Reader) (Frame, int, error) {
	var header [HeaderSize]byte

	// 1. Read Header
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.EOF {
			return Frame{}, 0, io.EOF
		}
		// Partial header (ErrUnexpectedEOF) or a failing reader.
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, 0, ErrIncompleteFrame
		}
		return Frame{}, 0, err
	}

	// 2. Validate Magic Byte, Op and Flags
	if header[0] != MagicByte {
		return Frame{}, HeaderSize, ErrInvalidMagic
	}
	f := Frame{Op: Op(header[1]), Flags: header[2]}
	if !f.Op.valid() || f.Flags&^FlagSnappy != 0 {
		return Frame{}, HeaderSize, fmt.Errorf("%w: op %#02x flags %#02x", ErrUnknownOp, header[1], header[2])
	}

	// 3. Parse Length and Expected CRC
	length := binary.LittleEndian.Uint32(header[3:7])
	expectedCRC := binary.LittleEndian.Uint32(header[7:11])
	if length > MaxPayloadSize {
		return Frame{}, HeaderSize, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	// 4. Read Payload
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, HeaderSize, ErrIncompleteFrame
		}
		return Frame{}, HeaderSize, err
	}
	n := HeaderSize + int(length)

	// 5. Verify Checksum
	if crc32.ChecksumIEEE(payload) != expectedCRC {
		return Frame{}, n, ErrChecksumMismatch
	}

	// 6. Decompress
	if f.Compressed() {
		var err error
		if payload, err = snappy.Decode(nil, payload); err != nil {
			return Frame{}, n, fmt.Errorf("snappy: %w", err)
		}
	}
	f.Payload = payload
	return f, n, nil
}
