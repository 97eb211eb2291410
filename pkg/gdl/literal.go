package gdl

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sanonone/epgm/pkg/properties"
)

// parseNumber turns a number token into a typed value:
//
//	23      Int32 (Int64 when out of int32 range)
//	23L     Int64
//	2.3f    Float32
//	2.3d    Float64, also any literal with a fraction or exponent
//	23BD    Decimal
func parseNumber(t token) (properties.Value, error) {
	body, suffix := splitSuffix(t.text)
	switch strings.ToLower(suffix) {
	case "bd":
		d, err := decimal.NewFromString(body)
		if err != nil {
			return properties.Value{}, errorf(t.pos, "bad decimal literal %q", t.text)
		}
		return properties.Decimal(d), nil
	case "l":
		i, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return properties.Value{}, errorf(t.pos, "bad long literal %q", t.text)
		}
		return properties.Int64(i), nil
	case "f":
		f, err := strconv.ParseFloat(body, 32)
		if err != nil {
			return properties.Value{}, errorf(t.pos, "bad float literal %q", t.text)
		}
		return properties.Float32(float32(f)), nil
	case "d":
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return properties.Value{}, errorf(t.pos, "bad double literal %q", t.text)
		}
		return properties.Float64(f), nil
	case "":
	default:
		return properties.Value{}, errorf(t.pos, "unknown number suffix %q in %q", suffix, t.text)
	}

	if strings.ContainsAny(body, ".eE") {
		f, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return properties.Value{}, errorf(t.pos, "bad double literal %q", t.text)
		}
		return properties.Float64(f), nil
	}
	i, err := strconv.ParseInt(body, 10, 64)
	if err != nil {
		return properties.Value{}, errorf(t.pos, "integer literal %q out of range", t.text)
	}
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return properties.Int32(int32(i)), nil
	}
	return properties.Int64(i), nil
}

// splitSuffix separates the trailing type letters of a number literal. An
// exponent marker followed by digits belongs to the body.
func splitSuffix(s string) (body, suffix string) {
	end := len(s)
	for end > 0 && isLetter(s[end-1]) {
		end--
	}
	return s[:end], s[end:]
}
