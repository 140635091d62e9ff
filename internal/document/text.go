package document

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
)

// ScalarText renders a scalar as the text fragment stored in equality-index
// keys. Integral doubles and integers render identically ("25" whether the
// document carried float64(25) or int64(25)), so documents parsed from JSON
// and query literals parsed from text agree on the same index entry.
func ScalarText(v any) (string, bool) {
	switch value := v.(type) {
	case bool:
		if value {
			return "true", true
		}
		return "false", true
	case string:
		return value, true
	case int:
		return strconv.FormatInt(int64(value), 10), true
	case int64:
		return strconv.FormatInt(value, 10), true
	case uint64:
		return strconv.FormatUint(value, 10), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return "", false
	}
}

// ParseValueText interprets the textual value of a query condition:
// "true"/"false" parse as booleans, a pure numeric literal parses as a
// signed integer when it fits and as a double otherwise, and everything
// else is a string with surrounding double quotes stripped.
func ParseValueText(text string) any {
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return text[1 : len(text)-1]
	}
	switch text {
	case "true":
		return true
	case "false":
		return false
	}
	if integer, err := strconv.ParseInt(text, 10, 64); err == nil {
		return integer
	}
	if double, err := strconv.ParseFloat(text, 64); err == nil {
		return double
	}
	return text
}

// Marshal produces the canonical serialization of a document value: JSON
// with object keys in sorted order. Canonical bytes define both the stored
// representation and document identity for set algebra. Cyclic values are
// rejected.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewCodecError(err, errors.ErrorCodeUnsupportedValue, "document is not serializable").
			WithDetail("valueType", typeLabel(v))
	}
	return data, nil
}

// Unmarshal parses canonical bytes back into a document tree.
func Unmarshal(data []byte) (any, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, errors.NewCorruptEncodingError(err, "stored document is not valid JSON")
	}
	return value, nil
}

func typeLabel(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int64, uint64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
