package document

import (
	"bytes"
	"math"
	"testing"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		value any
		tag   byte
	}{
		{name: "positive int", value: int64(42), tag: TagInt},
		{name: "negative int", value: int64(-7), tag: TagInt},
		{name: "zero int", value: int64(0), tag: TagInt},
		{name: "uint", value: uint64(1 << 63), tag: TagUint},
		{name: "double", value: 3.5, tag: TagDouble},
		{name: "integral double", value: float64(25), tag: TagDouble},
		{name: "string", value: "hello", tag: TagString},
		{name: "empty string", value: "", tag: TagString},
		{name: "colon string", value: "a:b:c", tag: TagString},
		{name: "bool true", value: true, tag: TagBool},
		{name: "bool false", value: false, tag: TagBool},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := EncodeScalar(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.tag, encoded[0])

			decoded, err := DecodeScalar(encoded)
			require.NoError(t, err)
			assert.True(t, Equal(decoded, tc.value), "decoded %v should compare equal to %v", decoded, tc.value)
		})
	}
}

func TestEncodeRejectsNonScalars(t *testing.T) {
	for _, value := range []any{
		nil,
		map[string]any{"a": 1},
		[]any{1, 2},
	} {
		_, err := EncodeScalar(value)
		require.Error(t, err)
		assert.Equal(t, errors.ErrorCodeUnsupportedValue, errors.GetErrorCode(err))
	}
}

func TestEncodeRejectsNonFiniteNumbers(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := EncodeScalar(value)
		require.Error(t, err)
	}
}

func TestDecodeRejectsCorruptBytes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "unknown tag", data: []byte{0x7f, 0x00}},
		{name: "short int payload", data: []byte{TagInt, 0x01, 0x02}},
		{name: "short double payload", data: []byte{TagDouble, 0x01}},
		{name: "bad bool payload", data: []byte{TagBool, 0x02}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeScalar(tc.data)
			require.Error(t, err)
			assert.True(t, errors.IsCodecError(err))
		})
	}
}

func TestStringEncodingPreservesOrder(t *testing.T) {
	// Raw UTF-8 payloads keep byte-lexicographic order inside the string
	// bucket.
	left, err := EncodeScalar("apple")
	require.NoError(t, err)
	right, err := EncodeScalar("banana")
	require.NoError(t, err)
	assert.Negative(t, bytes.Compare(left, right))
}

func TestIntegerValuedDoubleDecodesAsDouble(t *testing.T) {
	encoded, err := EncodeScalar(float64(9))
	require.NoError(t, err)

	decoded, err := DecodeScalar(encoded)
	require.NoError(t, err)

	_, isDouble := decoded.(float64)
	assert.True(t, isDouble)
	assert.True(t, Equal(decoded, int64(9)))
}

func TestTag(t *testing.T) {
	tag, ok := Tag(int64(1))
	require.True(t, ok)
	assert.Equal(t, TagInt, tag)

	tag, ok = Tag(1.0)
	require.True(t, ok)
	assert.Equal(t, TagDouble, tag)

	_, ok = Tag(map[string]any{})
	assert.False(t, ok)
}
