package index

import (
	"testing"

	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualityKeyRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		path       string
		value      string
		primaryKey string
	}{
		{name: "plain", path: "city", value: "Paris", primaryKey: "a"},
		{name: "colon in primary key", path: "city", value: "Paris", primaryKey: "user:42"},
		{name: "colon in value", path: "title", value: "a:b:c", primaryKey: "doc1"},
		{name: "colons everywhere", path: "title", value: "x:y", primaryKey: "k:1:2"},
		{name: "backslash in value", value: `a\b`, path: "p", primaryKey: "k"},
		{name: "nested path", path: "address.city", value: "Lyon", primaryKey: "b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := EqualityKey(tc.path, tc.value, tc.primaryKey)
			require.True(t, IsReserved(key))

			path, value, primaryKey, err := ParseEqualityKey(key)
			require.NoError(t, err)
			assert.Equal(t, tc.path, path)
			assert.Equal(t, tc.value, value)
			assert.Equal(t, tc.primaryKey, primaryKey)
		})
	}
}

func TestEqualityScanPrefixSelectsExactValue(t *testing.T) {
	key := EqualityKey("city", "Paris", "a")
	prefix := EqualityScanPrefix("city", "Paris")
	assert.Equal(t, string(key), string(prefix)+"a")

	// A value that extends another must not fall under its prefix.
	other := EqualityKey("city", "Paris-Sud", "b")
	assert.NotEqual(t, string(other[:len(prefix)]), string(prefix))
}

func TestSortedKeyRoundTrip(t *testing.T) {
	encoded, err := document.EncodeScalar(int64(42))
	require.NoError(t, err)

	key := SortedKey("age", encoded, "user:7:x")
	require.True(t, IsReserved(key))

	path, parsedEncoded, primaryKey, err := ParseSortedKey(key)
	require.NoError(t, err)
	assert.Equal(t, "age", path)
	assert.Equal(t, encoded, parsedEncoded)
	assert.Equal(t, "user:7:x", primaryKey)

	decoded, err := document.DecodeScalar(parsedEncoded)
	require.NoError(t, err)
	assert.Equal(t, int64(42), decoded)
}

func TestSortedTagPrefixNarrowsBucket(t *testing.T) {
	encoded, err := document.EncodeScalar("hello")
	require.NoError(t, err)
	key := SortedKey("name", encoded, "k")

	stringBucket := SortedTagPrefix("name", document.TagString)
	assert.Equal(t, string(stringBucket), string(key[:len(stringBucket)]))

	intBucket := SortedTagPrefix("name", document.TagInt)
	assert.NotEqual(t, string(intBucket), string(key[:len(intBucket)]))
}

func TestGeoKeyRoundTrip(t *testing.T) {
	key := GeoKey("loc", "u09tvw0f6", "poi:17")
	require.True(t, IsReserved(key))

	path, geohash, primaryKey, err := ParseGeoKey(key)
	require.NoError(t, err)
	assert.Equal(t, "loc", path)
	assert.Equal(t, "u09tvw0f6", geohash)
	assert.Equal(t, "poi:17", primaryKey)
}

func TestGeoCellPrefixMatchesShorterCells(t *testing.T) {
	key := GeoKey("loc", "u09tvw0f6", "p")
	prefix := GeoCellPrefix("loc", "u09tv")
	assert.Equal(t, string(prefix), string(key[:len(prefix)]))
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved([]byte("__field_index__city:Paris:a")))
	assert.True(t, IsReserved([]byte("__field_sorted__age:01ff:a")))
	assert.True(t, IsReserved([]byte("__geo_sorted__loc:u09:a")))
	assert.False(t, IsReserved([]byte("user:42")))
	assert.False(t, IsReserved([]byte("__other__")))
	assert.False(t, IsReserved([]byte("")))
}

func TestParseRejectsForeignKeys(t *testing.T) {
	_, _, _, err := ParseEqualityKey([]byte("user:42"))
	require.Error(t, err)

	_, _, _, err = ParseSortedKey([]byte("__field_sorted__age"))
	require.Error(t, err)

	_, _, _, err = ParseSortedKey([]byte("__field_sorted__age:zz:pk"))
	require.Error(t, err)
}
