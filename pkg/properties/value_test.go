package properties

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// supportedValues covers one instance of every kind.
func supportedValues() []Value {
	return []Value{
		Null(),
		Bool(true),
		Int32(23),
		Int64(23),
		Float32(2.3),
		Float64(2.3),
		String("23"),
		Decimal(decimal.NewFromInt(23)),
	}
}

func TestBinaryRoundTripAllKinds(t *testing.T) {
	for _, v := range supportedValues() {
		t.Run(v.Kind().String(), func(t *testing.T) {
			b, err := v.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, byte(v.Kind()), b[0], "first byte is the kind tag")

			out, err := Decode(b)
			require.NoError(t, err)
			assert.Equal(t, v.Kind(), out.Kind())
			assert.True(t, v.Equal(out), "%s != %s", v, out)
		})
	}
}

func TestBinaryLayout(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want []byte
	}{
		{"null", Null(), []byte{0}},
		{"bool", Bool(true), []byte{1, 1}},
		{"int32", Int32(-2), []byte{2, 0xff, 0xff, 0xff, 0xfe}},
		{"int64", Int64(1), []byte{3, 0, 0, 0, 0, 0, 0, 0, 1}},
		{"string", String("ab"), []byte{6, 2, 'a', 'b'}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.v.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tc.want, b)
		})
	}
}

func TestBinaryRoundTripEdgeValues(t *testing.T) {
	dec, err := decimal.NewFromString("-123456789012345678901234567890.0001")
	require.NoError(t, err)

	values := []Value{
		Int32(math.MinInt32),
		Int32(math.MaxInt32),
		Int64(math.MinInt64),
		Int64(math.MaxInt64),
		Float32(float32(math.Inf(-1))),
		Float64(math.SmallestNonzeroFloat64),
		String(""),
		String("grüße, 世界"),
		Decimal(dec),
		Decimal(decimal.Zero),
		Bool(false),
	}
	for _, v := range values {
		var out Value
		b, err := v.MarshalBinary()
		require.NoError(t, err)
		require.NoError(t, out.UnmarshalBinary(b))
		assert.True(t, v.Equal(out), "%s != %s", v, out)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Decode(nil)
		assert.ErrorIs(t, err, ErrCorruptEncoding)
	})
	t.Run("unknown tag", func(t *testing.T) {
		_, err := Decode([]byte{42})
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
	t.Run("truncated int64", func(t *testing.T) {
		_, err := Decode([]byte{3, 0, 0, 1})
		assert.ErrorIs(t, err, ErrCorruptEncoding)
	})
	t.Run("string length past end", func(t *testing.T) {
		_, err := Decode([]byte{6, 10, 'a'})
		assert.ErrorIs(t, err, ErrCorruptEncoding)
	})
	t.Run("bad bool", func(t *testing.T) {
		_, err := Decode([]byte{1, 7})
		assert.ErrorIs(t, err, ErrCorruptEncoding)
	})
	t.Run("short decimal", func(t *testing.T) {
		_, err := Decode([]byte{7, 2, 0, 0})
		assert.ErrorIs(t, err, ErrCorruptEncoding)
	})
	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Decode([]byte{0, 0})
		assert.ErrorIs(t, err, ErrCorruptEncoding)
	})
}

func TestDecodePrefix(t *testing.T) {
	b, err := String("ab").AppendBinary(nil)
	require.NoError(t, err)
	b, err = Int32(7).AppendBinary(b)
	require.NoError(t, err)

	v, n, err := DecodePrefix(b)
	require.NoError(t, err)
	assert.Equal(t, 4, n, "tag, length and two bytes")
	assert.True(t, String("ab").Equal(v))

	v, n, err = DecodePrefix(b[4:])
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, Int32(7).Equal(v))

	_, _, err = DecodePrefix([]byte{3, 0})
	assert.ErrorIs(t, err, ErrCorruptEncoding)
}

func TestTypedGetters(t *testing.T) {
	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	i, err := Int32(23).AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(23), i)

	s, err := String("x").AsString()
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	d, err := Decimal(decimal.NewFromInt(23)).AsDecimal()
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(23)))

	_, err = Int32(23).AsInt64()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = Null().AsString()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = Float64(1).AsFloat32()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFromAny(t *testing.T) {
	cases := []struct {
		in   any
		kind Kind
	}{
		{nil, KindNull},
		{true, KindBool},
		{int32(1), KindInt32},
		{int64(1), KindInt64},
		{1, KindInt64},
		{float32(1), KindFloat32},
		{1.5, KindFloat64},
		{"s", KindString},
		{decimal.NewFromInt(1), KindDecimal},
		{Int32(4), KindInt32},
	}
	for _, tc := range cases {
		v, err := FromAny(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.kind, v.Kind(), "%T", tc.in)
	}

	_, err := FromAny([]int{1})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = FromAny(map[string]any{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestEqualityIsKindStrict(t *testing.T) {
	assert.False(t, Int32(23).Equal(Int64(23)))
	assert.False(t, Float32(2.5).Equal(Float64(2.5)))
	assert.False(t, String("23").Equal(Int32(23)))
	assert.True(t, Null().Equal(Null()))
	assert.True(t, Decimal(decimal.RequireFromString("1.50")).Equal(Decimal(decimal.RequireFromString("1.5"))))
}

func TestCompare(t *testing.T) {
	t.Run("kind rank orders across kinds", func(t *testing.T) {
		vals := supportedValues()
		for i := 1; i < len(vals); i++ {
			assert.Equal(t, -1, vals[i-1].Compare(vals[i]), "%s vs %s", vals[i-1], vals[i])
			assert.Equal(t, 1, vals[i].Compare(vals[i-1]))
		}
	})
	t.Run("natural order within a kind", func(t *testing.T) {
		assert.Equal(t, -1, Bool(false).Compare(Bool(true)))
		assert.Equal(t, -1, Int64(-5).Compare(Int64(3)))
		assert.Equal(t, 1, Float64(2.5).Compare(Float64(2.25)))
		assert.Equal(t, -1, String("abc").Compare(String("abd")))
		assert.Equal(t, -1, Decimal(decimal.NewFromInt(-1)).Compare(Decimal(decimal.NewFromInt(1))))
		assert.Equal(t, 0, Int32(7).Compare(Int32(7)))
	})
}

func TestAnyAndString(t *testing.T) {
	assert.Nil(t, Null().Any())
	assert.Equal(t, int32(23), Int32(23).Any())
	assert.Equal(t, int64(23), Int64(23).Any())
	assert.Equal(t, float32(2.3), Float32(2.3).Any())
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, `"23"`, String("23").String())
	assert.Equal(t, "2.3", Float32(2.3).String())
	assert.Equal(t, "23", Decimal(decimal.NewFromInt(23)).String())
}
