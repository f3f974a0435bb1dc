package value

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON encodes v as JSON, keeping object keys in insertion order.
// Undefined and symbol values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeJSON(&buf, v)
	return buf.Bytes(), nil
}

// LiteralToken returns the source-like token used when v is pinned as a literal:
// strings are quoted, bigints carry an n suffix, arrays and objects are their
// JSON text.
func (v Value) LiteralToken() string {
	switch v.Kind() {
	case KindString:
		return Quote(v.str)
	case KindNumber:
		return FormatNumber(v.num)
	case KindBigInt:
		return v.big.String() + "n"
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindUndefined:
		return "undefined"
	case KindSymbol:
		return "symbol"
	case KindNull:
		return "null"
	}
	var buf bytes.Buffer
	writeJSON(&buf, v)
	return buf.String()
}

// Quote returns s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatNumber formats f the way a JSON serializer in a JavaScript runtime
// would: integers without a fraction, exponents for very large or very small
// magnitudes, and null for values JSON cannot represent.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

func writeJSON(buf *bytes.Buffer, v Value) {
	switch v.Kind() {
	case KindString:
		buf.WriteString(Quote(v.str))
	case KindNumber:
		buf.WriteString(FormatNumber(v.num))
	case KindBigInt:
		buf.WriteString(v.big.String())
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSON(buf, item)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			buf.WriteString(Quote(pair.Key))
			buf.WriteByte(':')
			writeJSON(buf, pair.Value)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}
