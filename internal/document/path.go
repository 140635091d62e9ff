package document

import (
	"strconv"
	"strings"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
)

// PathSeparator joins the segments of a dotted field path. Object descent
// uses the field name, array descent the base-10 index of the element. The
// root is the empty path.
const PathSeparator = "."

// SplitPath breaks a dotted path into its segments. The empty path
// addresses the document root and yields no segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// JoinPath extends a parent path with one more segment.
func JoinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + PathSeparator + segment
}

// Read returns the subtree at the given dotted path, or ok=false when the
// path does not resolve: a missing object field, an out-of-range or
// non-numeric array index, or descent into a scalar.
func Read(doc any, path string) (any, bool) {
	current := doc
	for _, segment := range SplitPath(path) {
		switch node := current.(type) {
		case map[string]any:
			child, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = child
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Assign places a value at the given dotted path, creating intermediate
// objects as needed. An intermediate array is created instead when the next
// segment parses as a non-negative integer equal to the array's current
// length. Appending beyond the end of an array, or addressing a missing
// object member with a numeric-only segment, fails with an invalid-path
// error.
//
// The document root may be rebuilt while extending, so the (possibly new)
// root is returned. An empty path replaces the root with the value.
func Assign(doc any, path string, value any) (any, error) {
	return assign(doc, path, SplitPath(path), value)
}

func assign(node any, fullPath string, segments []string, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	segment := segments[0]
	if segment == "" {
		return nil, errors.NewInvalidPathError(fullPath, "empty path segment")
	}

	switch container := node.(type) {
	case map[string]any:
		child, exists := container[segment]
		if !exists {
			if _, numeric := parseIndex(segment); numeric {
				return nil, errors.NewInvalidPathError(fullPath, "numeric segment addresses a missing object member")
			}
			child = nil
		}
		next, err := assign(child, fullPath, segments[1:], value)
		if err != nil {
			return nil, err
		}
		container[segment] = next
		return container, nil

	case []any:
		index, numeric := parseIndex(segment)
		if !numeric {
			return nil, errors.NewInvalidPathError(fullPath, "non-numeric segment addresses an array")
		}
		switch {
		case index < len(container):
			next, err := assign(container[index], fullPath, segments[1:], value)
			if err != nil {
				return nil, err
			}
			container[index] = next
			return container, nil
		case index == len(container):
			next, err := assign(nil, fullPath, segments[1:], value)
			if err != nil {
				return nil, err
			}
			return append(container, next), nil
		default:
			return nil, errors.NewInvalidPathError(fullPath, "index beyond the end of the array")
		}

	default:
		// Missing node, or a scalar being extended into a container. A new
		// container is created keyed by the shape of the current segment.
		if index, numeric := parseIndex(segment); numeric {
			if index != 0 {
				return nil, errors.NewInvalidPathError(fullPath, "index beyond the end of the array")
			}
			next, err := assign(nil, fullPath, segments[1:], value)
			if err != nil {
				return nil, err
			}
			return []any{next}, nil
		}
		next, err := assign(nil, fullPath, segments[1:], value)
		if err != nil {
			return nil, err
		}
		return map[string]any{segment: next}, nil
	}
}

func parseIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return index, true
}
