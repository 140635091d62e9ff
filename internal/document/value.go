// Package document implements the value layer of the database: the
// type-prefixed order-preserving scalar encoding used by the sorted index,
// dotted-path traversal and assignment over document trees, the query-time
// comparison rule and the canonical JSON serialization that defines document
// identity.
//
// A document value is a tree built from the JSON shapes: nil, bool, float64,
// string, []any and map[string]any. Programmatically constructed documents
// may additionally carry int64 and uint64 leaves; the codec gives each
// numeric type its own tag.
package document

import (
	"encoding/binary"
	"math"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
)

// Scalar type tags. The tag is the first byte of every encoded scalar and
// defines the type bucket of a sorted-index entry. Comparisons across
// buckets are undefined at the byte level; readers must filter on the tag
// and re-compare decoded values.
const (
	TagInt    byte = 0x01 // signed 64-bit integer, big-endian two's complement
	TagUint   byte = 0x02 // unsigned 64-bit integer, big-endian
	TagDouble byte = 0x03 // IEEE-754 double, big-endian bits
	TagString byte = 0x04 // raw UTF-8 bytes
	TagBool   byte = 0x05 // 0x00 or 0x01
)

// IsScalar reports whether the value is encodable by the scalar codec.
// Null, arrays and objects are containers, not scalars.
func IsScalar(v any) bool {
	switch v.(type) {
	case bool, string, int, int64, uint64, float64:
		return true
	default:
		return false
	}
}

// EncodeScalar encodes a scalar value as a 1-byte type tag followed by an
// order-preserving payload. Non-scalar inputs and non-finite numbers are
// rejected.
func EncodeScalar(v any) ([]byte, error) {
	switch value := v.(type) {
	case int:
		return encodeInt(int64(value)), nil
	case int64:
		return encodeInt(value), nil
	case uint64:
		buf := make([]byte, 9)
		buf[0] = TagUint
		binary.BigEndian.PutUint64(buf[1:], value)
		return buf, nil
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, errors.NewUnsupportedValueError(value).
				WithDetail("reason", "non-finite number")
		}
		buf := make([]byte, 9)
		buf[0] = TagDouble
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(value))
		return buf, nil
	case string:
		buf := make([]byte, 1+len(value))
		buf[0] = TagString
		copy(buf[1:], value)
		return buf, nil
	case bool:
		if value {
			return []byte{TagBool, 0x01}, nil
		}
		return []byte{TagBool, 0x00}, nil
	default:
		return nil, errors.NewUnsupportedValueError(v)
	}
}

func encodeInt(v int64) []byte {
	buf := make([]byte, 9)
	buf[0] = TagInt
	binary.BigEndian.PutUint64(buf[1:], uint64(v))
	return buf
}

// DecodeScalar is the inverse of EncodeScalar. The round trip preserves the
// comparison value, not necessarily the tag: an integer-valued double comes
// back under TagDouble.
func DecodeScalar(b []byte) (any, error) {
	if len(b) == 0 {
		return nil, errors.NewCorruptEncodingError(nil, "empty encoding")
	}

	tag, payload := b[0], b[1:]
	switch tag {
	case TagInt:
		if len(payload) != 8 {
			return nil, errors.NewCorruptEncodingError(nil, "int payload must be 8 bytes").WithTag(tag)
		}
		return int64(binary.BigEndian.Uint64(payload)), nil
	case TagUint:
		if len(payload) != 8 {
			return nil, errors.NewCorruptEncodingError(nil, "uint payload must be 8 bytes").WithTag(tag)
		}
		return binary.BigEndian.Uint64(payload), nil
	case TagDouble:
		if len(payload) != 8 {
			return nil, errors.NewCorruptEncodingError(nil, "double payload must be 8 bytes").WithTag(tag)
		}
		return math.Float64frombits(binary.BigEndian.Uint64(payload)), nil
	case TagString:
		return string(payload), nil
	case TagBool:
		if len(payload) != 1 || payload[0] > 0x01 {
			return nil, errors.NewCorruptEncodingError(nil, "bool payload must be one of 0x00, 0x01").WithTag(tag)
		}
		return payload[0] == 0x01, nil
	default:
		return nil, errors.NewCorruptEncodingError(nil, "unknown type tag").WithTag(tag)
	}
}

// Tag returns the type tag an encodable scalar would carry, without
// building the payload.
func Tag(v any) (byte, bool) {
	switch v.(type) {
	case int, int64:
		return TagInt, true
	case uint64:
		return TagUint, true
	case float64:
		return TagDouble, true
	case string:
		return TagString, true
	case bool:
		return TagBool, true
	default:
		return 0, false
	}
}

// NumericTags are the tag buckets ordered numeric operators must scan and
// merge: the write path indexes numbers in their stored JSON form (doubles)
// while query values may carry integers at the same path.
var NumericTags = []byte{TagInt, TagUint, TagDouble}
