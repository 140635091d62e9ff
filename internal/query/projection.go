package query

import (
	"strconv"
	"strings"

	"github.com/iamNilotpal/vaultdb/internal/document"
)

// Project builds a new document carrying only the requested paths. Each
// path that resolves in the source document is copied into the same
// position of the projected document, creating intermediate containers as
// needed.
//
// A path crossing an array with a non-numeric next segment collects the
// remaining path from every element and assigns the resulting array at the
// array's own path: projecting "items.name" turns each element's name into
// one entry of the projected "items" array.
func Project(doc any, paths []string) any {
	var projected any = map[string]any{}
	for _, path := range paths {
		projected = projectPath(projected, doc, path)
	}
	return projected
}

func projectPath(projected any, doc any, path string) any {
	segments := document.SplitPath(path)
	current := doc

	for i, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			child, ok := node[segment]
			if !ok {
				return projected
			}
			current = child

		case []any:
			if idx, numeric := arrayIndex(segment); numeric {
				if idx >= len(node) {
					return projected
				}
				current = node[idx]
				continue
			}
			collected := collectFromElements(node, segments[i:])
			if len(collected) == 0 {
				return projected
			}
			parentPath := strings.Join(segments[:i], document.PathSeparator)
			if next, err := document.Assign(projected, parentPath, collected); err == nil {
				projected = next
			}
			return projected

		default:
			return projected
		}
	}

	if next, err := document.Assign(projected, path, current); err == nil {
		projected = next
	}
	return projected
}

// collectFromElements reads the remaining path from every array element,
// keeping the values that resolve. Nested arrays collect recursively.
func collectFromElements(elements []any, segments []string) []any {
	collected := make([]any, 0, len(elements))
	for _, element := range elements {
		if value, ok := readThrough(element, segments); ok {
			collected = append(collected, value)
		}
	}
	return collected
}

func readThrough(node any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return node, true
	}
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[segments[0]]
		if !ok {
			return nil, false
		}
		return readThrough(child, segments[1:])
	case []any:
		if idx, numeric := arrayIndex(segments[0]); numeric {
			if idx >= len(n) {
				return nil, false
			}
			return readThrough(n[idx], segments[1:])
		}
		collected := collectFromElements(n, segments)
		if len(collected) == 0 {
			return nil, false
		}
		return collected, true
	default:
		return nil, false
	}
}

func arrayIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(segment)
	return idx, err == nil
}
