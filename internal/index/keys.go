// Package index implements the three secondary-index families derived from
// documents — equality, sorted and geospatial — and the write-path
// maintainer that keeps them consistent with the primary records inside a
// single transaction.
//
// All derived entries live in the same ordered keyspace as the documents,
// distinguished by reserved prefixes. The entry payload is always empty:
// the index key itself carries the field path, the indexed value and the
// primary key.
package index

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
)

// Reserved key prefixes. Primary keys must never start with one of these.
const (
	// EqualityPrefix marks entries of the equality index:
	// __field_index__<path>:<value-text>:<primary-key>.
	EqualityPrefix = "__field_index__"

	// SortedPrefix marks entries of the sorted index:
	// __field_sorted__<path>:<hex(encoded-value)>:<primary-key>.
	SortedPrefix = "__field_sorted__"

	// GeoPrefix marks entries of the geospatial index:
	// __geo_sorted__<path>:<geohash>:<primary-key>.
	GeoPrefix = "__geo_sorted__"
)

const fragmentSeparator = ":"

// IsReserved reports whether a key lies in one of the derived-index
// namespaces rather than the primary document namespace.
func IsReserved(key []byte) bool {
	return bytes.HasPrefix(key, []byte(EqualityPrefix)) ||
		bytes.HasPrefix(key, []byte(SortedPrefix)) ||
		bytes.HasPrefix(key, []byte(GeoPrefix))
}

// escapeFragment makes a path or value text safe to embed between the
// colon separators of an index key. Backslash escapes keep the encoding
// reversible for fragments that themselves contain colons or backslashes.
func escapeFragment(fragment string) string {
	fragment = strings.ReplaceAll(fragment, `\`, `\\`)
	return strings.ReplaceAll(fragment, fragmentSeparator, `\:`)
}

func unescapeFragment(fragment string) string {
	var b strings.Builder
	b.Grow(len(fragment))
	escaped := false
	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// splitEscaped finds the first unescaped separator and splits around it.
func splitEscaped(s string) (head, tail string, found bool) {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == fragmentSeparator[0]:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// EqualityKey composes the equality-index entry key for one
// (path, scalar text, primary key) triple. The path and value fragments are
// escaped; the primary key is stored raw as the final fragment and is
// recovered as the remainder after the second unescaped separator, so
// colon-bearing primary keys round-trip.
func EqualityKey(path, valueText, primaryKey string) []byte {
	return []byte(EqualityPrefix + escapeFragment(path) + fragmentSeparator +
		escapeFragment(valueText) + fragmentSeparator + primaryKey)
}

// EqualityScanPrefix yields the prefix whose scan enumerates every primary
// key holding the given scalar at the given path.
func EqualityScanPrefix(path, valueText string) []byte {
	return []byte(EqualityPrefix + escapeFragment(path) + fragmentSeparator +
		escapeFragment(valueText) + fragmentSeparator)
}

// ParseEqualityKey recovers (path, value text, primary key) from an
// equality-index entry key.
func ParseEqualityKey(key []byte) (path, valueText, primaryKey string, err error) {
	rest, ok := strings.CutPrefix(string(key), EqualityPrefix)
	if !ok {
		return "", "", "", errors.NewCorruptEncodingError(nil, "not an equality index key")
	}
	escapedPath, rest, ok := splitEscaped(rest)
	if !ok {
		return "", "", "", errors.NewCorruptEncodingError(nil, "equality index key is missing fragments")
	}
	escapedValue, primaryKey, ok := splitEscaped(rest)
	if !ok {
		return "", "", "", errors.NewCorruptEncodingError(nil, "equality index key is missing the primary key")
	}
	return unescapeFragment(escapedPath), unescapeFragment(escapedValue), primaryKey, nil
}

// SortedKey composes the sorted-index entry key for one
// (path, encoded value, primary key) triple. The encoded value is carried
// as lowercase hex so the fragment stays free of separators.
func SortedKey(path string, encoded []byte, primaryKey string) []byte {
	return []byte(SortedPrefix + escapeFragment(path) + fragmentSeparator +
		hex.EncodeToString(encoded) + fragmentSeparator + primaryKey)
}

// SortedPathPrefix yields the prefix covering every sorted-index entry for
// one field path, across all type buckets.
func SortedPathPrefix(path string) []byte {
	return []byte(SortedPrefix + escapeFragment(path) + fragmentSeparator)
}

// SortedTagPrefix narrows SortedPathPrefix to one scalar type bucket. The
// hex fragment of every entry starts with the two hex digits of its tag.
func SortedTagPrefix(path string, tag byte) []byte {
	return append(SortedPathPrefix(path), hex.EncodeToString([]byte{tag})...)
}

// ParseSortedKey recovers (path, encoded value, primary key) from a
// sorted-index entry key. The split is capped at the two separators
// surrounding the hex fragment, so primary keys containing colons stay
// intact in the final fragment.
func ParseSortedKey(key []byte) (path string, encoded []byte, primaryKey string, err error) {
	rest, ok := strings.CutPrefix(string(key), SortedPrefix)
	if !ok {
		return "", nil, "", errors.NewCorruptEncodingError(nil, "not a sorted index key")
	}
	escapedPath, rest, ok := splitEscaped(rest)
	if !ok {
		return "", nil, "", errors.NewCorruptEncodingError(nil, "sorted index key is missing fragments")
	}
	hexFragment, primaryKey, found := strings.Cut(rest, fragmentSeparator)
	if !found {
		return "", nil, "", errors.NewCorruptEncodingError(nil, "sorted index key is missing the primary key")
	}
	encoded, decodeErr := hex.DecodeString(hexFragment)
	if decodeErr != nil {
		return "", nil, "", errors.NewCorruptEncodingError(decodeErr, "sorted index key carries invalid hex")
	}
	return unescapeFragment(escapedPath), encoded, primaryKey, nil
}

// GeoKey composes the geospatial-index entry key for one
// (path, geohash, primary key) triple.
func GeoKey(path, geohash, primaryKey string) []byte {
	return []byte(GeoPrefix + escapeFragment(path) + fragmentSeparator +
		geohash + fragmentSeparator + primaryKey)
}

// GeoPathPrefix yields the prefix covering every geospatial entry for one
// field path.
func GeoPathPrefix(path string) []byte {
	return []byte(GeoPrefix + escapeFragment(path) + fragmentSeparator)
}

// GeoCellPrefix narrows GeoPathPrefix to one geohash cell. The cell may be
// shorter than the stored precision, in which case the scan covers every
// stored hash inside the coarser cell.
func GeoCellPrefix(path, cell string) []byte {
	return append(GeoPathPrefix(path), cell...)
}

// ParseGeoKey recovers (path, geohash, primary key) from a geospatial
// entry key.
func ParseGeoKey(key []byte) (path, geohash, primaryKey string, err error) {
	rest, ok := strings.CutPrefix(string(key), GeoPrefix)
	if !ok {
		return "", "", "", errors.NewCorruptEncodingError(nil, "not a geo index key")
	}
	escapedPath, rest, ok := splitEscaped(rest)
	if !ok {
		return "", "", "", errors.NewCorruptEncodingError(nil, "geo index key is missing fragments")
	}
	geohash, primaryKey, found := strings.Cut(rest, fragmentSeparator)
	if !found {
		return "", "", "", errors.NewCorruptEncodingError(nil, "geo index key is missing the primary key")
	}
	return unescapeFragment(escapedPath), geohash, primaryKey, nil
}
