package query

import (
	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/iamNilotpal/vaultdb/internal/index"
)

// scanKind selects how the executor fetches candidate primary keys for one
// leaf predicate.
type scanKind int

const (
	// scanFull enumerates every primary key and relies entirely on the
	// post-filter.
	scanFull scanKind = iota

	// scanEquality prefix-scans the equality index under
	// (path, value text).
	scanEquality

	// scanSorted range-scans the sorted index's type buckets for the path
	// and filters decoded values against the operator.
	scanSorted

	// scanGeo prefix-scans the geospatial index cells covering the query
	// region.
	scanGeo
)

// plan carries the scan decision for one leaf. Planning is single-pass and
// local: no join ordering, no selectivity estimation — the executor
// composes leaves with set algebra instead.
type plan struct {
	kind scanKind

	// fallback marks an equality scan that may degrade to a full scan when
	// the index prefix turns up empty on a non-empty database. Set for Eq
	// leaves on configured hash paths, where the configuration may postdate
	// existing documents.
	fallback bool
}

// planLeaf maps a leaf predicate onto a scan strategy under the given
// configuration snapshot.
func planLeaf(cfg *index.Config, node Node) plan {
	switch n := node.(type) {
	case Eq:
		if document.IsScalar(n.Value) && cfg.IsHashIndexed(n.Path) {
			return plan{kind: scanEquality, fallback: true}
		}
		return plan{kind: scanFull}

	case Includes:
		if document.IsScalar(n.Value) && cfg.IsHashIndexed(n.Path) {
			return plan{kind: scanEquality}
		}
		return plan{kind: scanFull}

	case Gt, Gte, Lt, Lte, Ne:
		if cfg.IsSortedIndexed(leafPath(node)) {
			return plan{kind: scanSorted}
		}
		return plan{kind: scanFull}

	case GeoWithinRadius, GeoInBox:
		return plan{kind: scanGeo}

	default:
		return plan{kind: scanFull}
	}
}

// leafPath returns the field path a leaf predicate addresses.
func leafPath(node Node) string {
	switch n := node.(type) {
	case Eq:
		return n.Path
	case Includes:
		return n.Path
	case Gt:
		return n.Path
	case Gte:
		return n.Path
	case Lt:
		return n.Path
	case Lte:
		return n.Path
	case Ne:
		return n.Path
	case GeoWithinRadius:
		return n.Path
	case GeoInBox:
		return n.Path
	default:
		return ""
	}
}

// leafValue returns the comparison value of an ordered or equality leaf.
func leafValue(node Node) any {
	switch n := node.(type) {
	case Eq:
		return n.Value
	case Includes:
		return n.Value
	case Gt:
		return n.Value
	case Gte:
		return n.Value
	case Lt:
		return n.Value
	case Lte:
		return n.Value
	case Ne:
		return n.Value
	default:
		return nil
	}
}

// sortedScanTags returns the type buckets a sorted scan must visit for the
// query value. Numeric operators scan the integer, unsigned and double
// buckets and merge, since documents parsed from JSON and query literals
// may tag the same number differently. Ne visits every bucket; equality of
// incomparable types is undefined, so the post-filter settles membership.
func sortedScanTags(node Node, value any) []byte {
	if _, isNe := node.(Ne); isNe {
		return nil // nil means the whole per-path prefix
	}
	if _, numeric := document.NumericValue(value); numeric {
		return document.NumericTags
	}
	if tag, ok := document.Tag(value); ok {
		return []byte{tag}
	}
	return nil
}
