// Package properties implements the typed attribute values carried by graph
// heads, vertices and edges.
//
// A Value holds exactly one of the supported kinds. Values of different kinds
// are never equal; ordering compares the kind rank first and the content
// second. Every Value has a binary form made of a one byte kind tag followed
// by a kind-specific payload:
//
//	Null     -
//	Bool     1 byte (0 or 1)
//	Int32    4 bytes big-endian
//	Int64    8 bytes big-endian
//	Float32  4 bytes IEEE-754 big-endian
//	Float64  8 bytes IEEE-754 big-endian
//	String   uvarint length + UTF-8 bytes
//	Decimal  uvarint length + decimal.Decimal binary form
//
// Lists, maps and timestamps are not supported kinds.
package properties

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sanonone/epgm/internal/codec"
)

// Kind is the type tag of a Value. The numeric value doubles as the binary
// tag and as the cross-kind ordering rank.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindDecimal
	numKinds
)

var kindNames = [numKinds]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindDecimal: "decimal",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

var (
	// ErrUnsupportedType is returned when a Go value or a binary tag does not
	// map to a supported kind.
	ErrUnsupportedType = errors.New("unsupported property type")
	// ErrTypeMismatch is returned by the typed getters when the stored kind
	// differs from the requested one.
	ErrTypeMismatch = errors.New("property type mismatch")
	// ErrCorruptEncoding is returned for truncated or invalid binary payloads.
	ErrCorruptEncoding = codec.ErrCorrupt
)

// Value is an immutable, typed property value. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64   // bool (0/1), int32, int64
	f    float64 // float32, float64
	s    string
	d    decimal.Decimal
}

func Null() Value { return Value{} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

func Int32(i int32) Value             { return Value{kind: KindInt32, i: int64(i)} }
func Int64(i int64) Value             { return Value{kind: KindInt64, i: i} }
func Float32(f float32) Value         { return Value{kind: KindFloat32, f: float64(f)} }
func Float64(f float64) Value         { return Value{kind: KindFloat64, f: f} }
func String(s string) Value           { return Value{kind: KindString, s: s} }
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, d: d} }

// FromAny converts a Go value into a Value. Plain int is stored as Int64.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int32:
		return Int32(t), nil
	case int64:
		return Int64(t), nil
	case int:
		return Int64(int64(t)), nil
	case float32:
		return Float32(t), nil
	case float64:
		return Float64(t), nil
	case string:
		return String(t), nil
	case decimal.Decimal:
		return Decimal(t), nil
	case *decimal.Decimal:
		if t == nil {
			return Null(), nil
		}
		return Decimal(*t), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
	}
}

// Kind returns the type tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the Null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) expect(k Kind) error {
	if v.kind != k {
		return fmt.Errorf("%w: value is %s, requested %s", ErrTypeMismatch, v.kind, k)
	}
	return nil
}

func (v Value) AsBool() (bool, error) {
	if err := v.expect(KindBool); err != nil {
		return false, err
	}
	return v.i == 1, nil
}

func (v Value) AsInt32() (int32, error) {
	if err := v.expect(KindInt32); err != nil {
		return 0, err
	}
	return int32(v.i), nil
}

func (v Value) AsInt64() (int64, error) {
	if err := v.expect(KindInt64); err != nil {
		return 0, err
	}
	return v.i, nil
}

func (v Value) AsFloat32() (float32, error) {
	if err := v.expect(KindFloat32); err != nil {
		return 0, err
	}
	return float32(v.f), nil
}

func (v Value) AsFloat64() (float64, error) {
	if err := v.expect(KindFloat64); err != nil {
		return 0, err
	}
	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if err := v.expect(KindString); err != nil {
		return "", err
	}
	return v.s, nil
}

func (v Value) AsDecimal() (decimal.Decimal, error) {
	if err := v.expect(KindDecimal); err != nil {
		return decimal.Decimal{}, err
	}
	return v.d, nil
}

// Any returns the Go value held by v (nil for Null).
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.i == 1
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindDecimal:
		return v.d
	}
	return nil
}

// Compare orders v against o: kind rank first, then natural order within the
// kind. It returns -1, 0 or +1.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return cmp.Compare(v.kind, o.kind)
	}
	switch v.kind {
	case KindBool, KindInt32, KindInt64:
		return cmp.Compare(v.i, o.i)
	case KindFloat32, KindFloat64:
		return cmp.Compare(v.f, o.f)
	case KindString:
		return strings.Compare(v.s, o.s)
	case KindDecimal:
		return v.d.Cmp(o.d)
	}
	return 0
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.i == 1)
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindDecimal:
		return v.d.String()
	}
	return v.kind.String()
}

// AppendBinary implements encoding.BinaryAppender.
func (v Value) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, byte(v.kind))
	switch v.kind {
	case KindNull:
	case KindBool:
		b = append(b, byte(v.i))
	case KindInt32:
		b = codec.AppendUint32(b, uint32(int32(v.i)))
	case KindInt64:
		b = codec.AppendInt64(b, v.i)
	case KindFloat32:
		b = codec.AppendUint32(b, math.Float32bits(float32(v.f)))
	case KindFloat64:
		b = codec.AppendUint64(b, math.Float64bits(v.f))
	case KindString:
		b = codec.AppendString(b, v.s)
	case KindDecimal:
		p, err := v.d.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("encode decimal %s: %w", v.d, err)
		}
		b = codec.AppendBytes(b, p)
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedType, v.kind)
	}
	return b, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v Value) MarshalBinary() ([]byte, error) {
	return v.AppendBinary(nil)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Value) UnmarshalBinary(b []byte) error {
	out, err := Decode(b)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// Decode parses a single encoded value. b must hold nothing else.
func Decode(b []byte) (Value, error) {
	r := codec.NewReader(b)
	v, err := ReadValue(r)
	if err != nil {
		return Value{}, err
	}
	if r.Len() != 0 {
		return Value{}, fmt.Errorf("%w: %d trailing bytes after %s value", ErrCorruptEncoding, r.Len(), v.kind)
	}
	return v, nil
}

// DecodePrefix parses the value at the start of b and reports how many bytes
// it used.
func DecodePrefix(b []byte) (Value, int, error) {
	r := codec.NewReader(b)
	v, err := ReadValue(r)
	if err != nil {
		return Value{}, 0, err
	}
	return v, r.Offset(), nil
}

// ReadValue decodes the next value from r.
func ReadValue(r *codec.Reader) (Value, error) {
	tag, err := r.Byte()
	if err != nil {
		return Value{}, err
	}
	k := Kind(tag)
	switch k {
	case KindNull:
		return Null(), nil
	case KindBool:
		c, err := r.Byte()
		if err != nil {
			return Value{}, err
		}
		if c > 1 {
			return Value{}, fmt.Errorf("%w: bool payload %d", ErrCorruptEncoding, c)
		}
		return Bool(c == 1), nil
	case KindInt32:
		u, err := r.Uint32()
		return Int32(int32(u)), err
	case KindInt64:
		i, err := r.Int64()
		return Int64(i), err
	case KindFloat32:
		u, err := r.Uint32()
		return Float32(math.Float32frombits(u)), err
	case KindFloat64:
		u, err := r.Uint64()
		return Float64(math.Float64frombits(u)), err
	case KindString:
		s, err := r.String()
		return String(s), err
	case KindDecimal:
		p, err := r.Bytes()
		if err != nil {
			return Value{}, err
		}
		var d decimal.Decimal
		if err := d.UnmarshalBinary(p); err != nil {
			return Value{}, fmt.Errorf("%w: decimal: %v", ErrCorruptEncoding, err)
		}
		return Decimal(d), nil
	}
	return Value{}, fmt.Errorf("%w: tag %d", ErrUnsupportedType, tag)
}
