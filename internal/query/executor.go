package query

import (
	"context"
	"sort"

	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/iamNilotpal/vaultdb/internal/geo"
	"github.com/iamNilotpal/vaultdb/internal/index"
	"github.com/iamNilotpal/vaultdb/internal/storage"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"go.uber.org/zap"
)

// Executor evaluates one predicate tree against a configuration snapshot.
// An Executor lives for a single query: it caches hydrated documents and
// the primary-key census across the subtrees of that query only, so a
// running plan observes one consistent view of the configuration.
//
// Leaf scans produce candidate primary keys; every candidate is re-checked
// against the hydrated document, so index staleness and cross-tag sorted
// neighbors cannot leak into results. Subtree results combine at the
// primary-key level.
type Executor struct {
	store *storage.Store
	cfg   *index.Config
	log   *zap.SugaredLogger

	docs        map[string]any
	allKeys     []string
	censusTaken bool
}

// NewExecutor creates an executor bound to a store and a configuration
// snapshot.
func NewExecutor(store *storage.Store, cfg *index.Config, log *zap.SugaredLogger) *Executor {
	return &Executor{
		store: store,
		cfg:   cfg,
		log:   log,
		docs:  make(map[string]any),
	}
}

// Result is one matched document with the primary key it hydrated from.
type Result struct {
	Key      string
	Document any
}

// Run evaluates the tree and returns matched documents in byte order of
// their primary keys, after applying offset, limit and projection in that
// order. A negative limit means unlimited.
func (e *Executor) Run(ctx context.Context, node Node, projection []string, limit, offset int) ([]Result, error) {
	if err := Validate(node); err != nil {
		return nil, err
	}

	matched, err := e.execute(ctx, node)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(matched))
	for key := range matched {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]Result, 0, len(keys))
	for _, key := range keys {
		doc, ok := e.hydrate(key)
		if !ok {
			continue
		}
		results = append(results, Result{Key: key, Document: doc})
	}

	if offset > 0 {
		if offset >= len(results) {
			results = nil
		} else {
			results = results[offset:]
		}
	}
	if limit >= 0 && limit < len(results) {
		results = results[:limit]
	}

	if len(projection) > 0 {
		for i := range results {
			results[i].Document = Project(results[i].Document, projection)
		}
	}
	return results, nil
}

// execute evaluates a subtree into a set of primary keys.
func (e *Executor) execute(ctx context.Context, node Node) (map[string]struct{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch n := node.(type) {
	case And:
		left, err := e.execute(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.execute(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		return intersect(left, right), nil

	case Or:
		left, err := e.execute(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.execute(ctx, n.Right)
		if err != nil {
			return nil, err
		}
		for key := range right {
			left[key] = struct{}{}
		}
		return left, nil

	case Not:
		// Complement against the full primary keyspace. Linear in database
		// size; semantically required.
		child, err := e.execute(ctx, n.Child)
		if err != nil {
			return nil, err
		}
		all, err := e.census()
		if err != nil {
			return nil, err
		}
		complement := make(map[string]struct{})
		for _, key := range all {
			if _, matched := child[key]; !matched {
				complement[key] = struct{}{}
			}
		}
		return complement, nil

	default:
		return e.executeLeaf(ctx, node)
	}
}

func (e *Executor) executeLeaf(ctx context.Context, node Node) (map[string]struct{}, error) {
	leafPlan := planLeaf(e.cfg, node)

	candidates, err := e.candidates(node, leafPlan)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]struct{})
	for _, key := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, ok := e.hydrate(key)
		if !ok {
			continue
		}
		if e.evalLeaf(doc, node) {
			matched[key] = struct{}{}
		}
	}
	return matched, nil
}

// candidates fetches the primary keys a leaf's scan strategy proposes.
// Candidates are a superset of the answer; the caller post-filters every
// one against the hydrated document.
func (e *Executor) candidates(node Node, leafPlan plan) ([]string, error) {
	switch leafPlan.kind {
	case scanEquality:
		return e.equalityCandidates(node, leafPlan)
	case scanSorted:
		return e.sortedCandidates(node)
	case scanGeo:
		return e.geoCandidates(node)
	default:
		return e.census()
	}
}

func (e *Executor) equalityCandidates(node Node, leafPlan plan) ([]string, error) {
	path, value := leafPath(node), leafValue(node)
	text, ok := document.ScalarText(value)
	if !ok {
		return nil, errors.NewQueryError(nil, errors.ErrorCodeInvalidComparisonValue, "equality value is not a scalar").
			WithPath(path)
	}

	prefix := index.EqualityScanPrefix(path, text)
	keys, err := e.store.ScanKeys(prefix)
	if err != nil {
		return nil, err
	}

	primaryKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		primaryKeys = append(primaryKeys, string(key[len(prefix):]))
	}

	if len(primaryKeys) == 0 && leafPlan.fallback {
		// The configuration may postdate existing documents, leaving them
		// unindexed. An empty prefix on a non-empty database degrades to a
		// full scan; the post-filter restores exact semantics. Existing
		// documents are never retroactively indexed by a read.
		all, err := e.census()
		if err != nil {
			return nil, err
		}
		if len(all) > 0 {
			e.log.Debugw("Equality index miss, falling back to full scan", "path", path)
			return all, nil
		}
	}
	return primaryKeys, nil
}

func (e *Executor) sortedCandidates(node Node) ([]string, error) {
	path, value := leafPath(node), leafValue(node)
	tags := sortedScanTags(node, value)

	var keys [][]byte
	if tags == nil {
		pathKeys, err := e.store.ScanKeys(index.SortedPathPrefix(path))
		if err != nil {
			return nil, err
		}
		keys = pathKeys
	} else {
		for _, tag := range tags {
			lo := index.SortedTagPrefix(path, tag)
			hi := index.SortedTagPrefix(path, tag+1)
			bucket, err := e.store.ScanRange(lo, hi, true, false)
			if err != nil {
				return nil, err
			}
			keys = append(keys, bucket...)
		}
	}

	seen := make(map[string]struct{}, len(keys))
	primaryKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		_, encoded, primaryKey, err := index.ParseSortedKey(key)
		if err != nil {
			e.log.Warnw("Skipping unparsable sorted index entry", "key", string(key), "error", err)
			continue
		}
		stored, err := document.DecodeScalar(encoded)
		if err != nil {
			e.log.Warnw("Skipping undecodable sorted index entry", "key", string(key), "error", err)
			continue
		}
		// Byte order inside a bucket approximates value order at best; the
		// decoded value decides.
		if !matchesOperator(stored, node) {
			continue
		}
		if _, dup := seen[primaryKey]; dup {
			continue
		}
		seen[primaryKey] = struct{}{}
		primaryKeys = append(primaryKeys, primaryKey)
	}
	return primaryKeys, nil
}

func (e *Executor) geoCandidates(node Node) ([]string, error) {
	var prefixes [][]byte
	switch n := node.(type) {
	case GeoWithinRadius:
		cells := geo.CoverRadius(geo.Point{Lat: n.Lat, Lon: n.Lon}, n.Radius)
		if cells == nil {
			prefixes = append(prefixes, index.GeoPathPrefix(n.Path))
		} else {
			for _, cell := range cells {
				prefixes = append(prefixes, index.GeoCellPrefix(n.Path, cell))
			}
		}
	case GeoInBox:
		prefixes = append(prefixes, index.GeoPathPrefix(n.Path))
	default:
		return nil, errors.NewASTError("not a geo predicate")
	}

	seen := make(map[string]struct{})
	var primaryKeys []string
	for _, prefix := range prefixes {
		keys, err := e.store.ScanKeys(prefix)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			_, _, primaryKey, err := index.ParseGeoKey(key)
			if err != nil {
				e.log.Warnw("Skipping unparsable geo index entry", "key", string(key), "error", err)
				continue
			}
			if _, dup := seen[primaryKey]; dup {
				continue
			}
			seen[primaryKey] = struct{}{}
			primaryKeys = append(primaryKeys, primaryKey)
		}
	}
	return primaryKeys, nil
}

// census enumerates every primary key once per query, skipping the
// reserved index namespaces.
func (e *Executor) census() ([]string, error) {
	if e.censusTaken {
		return e.allKeys, nil
	}
	keys, err := e.store.ScanKeys(nil)
	if err != nil {
		return nil, err
	}
	primaryKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		if index.IsReserved(key) {
			continue
		}
		primaryKeys = append(primaryKeys, string(key))
	}
	e.allKeys = primaryKeys
	e.censusTaken = true
	return primaryKeys, nil
}

// hydrate loads and caches the document stored under a primary key. A
// candidate whose document has vanished or fails to parse is logged and
// skipped; one stale index entry never aborts a query.
func (e *Executor) hydrate(key string) (any, bool) {
	if doc, cached := e.docs[key]; cached {
		if doc == missingDocument {
			return nil, false
		}
		return doc, true
	}

	data, err := e.store.Get([]byte(key))
	if err != nil {
		if errors.IsNotFound(err) {
			e.log.Warnw("Index entry references a missing document", "key", key)
		} else {
			e.log.Errorw("Failed to hydrate document", "key", key, "error", err)
		}
		e.docs[key] = missingDocument
		return nil, false
	}

	doc, err := document.Unmarshal(data)
	if err != nil {
		e.log.Errorw("Stored document failed to parse", "key", key, "error", err)
		e.docs[key] = missingDocument
		return nil, false
	}
	e.docs[key] = doc
	return doc, true
}

// missingDocument marks negative hydration results in the cache.
var missingDocument = &struct{}{}

// evalLeaf re-checks a leaf predicate against a hydrated document.
func (e *Executor) evalLeaf(doc any, node Node) bool {
	switch n := node.(type) {
	case Eq:
		value, ok := document.Read(doc, n.Path)
		if !ok {
			return false
		}
		if elements, isArray := value.([]any); isArray {
			return containsEqual(elements, n.Value)
		}
		return document.Equal(value, n.Value)

	case Includes:
		value, ok := document.Read(doc, n.Path)
		if !ok {
			return false
		}
		elements, isArray := value.([]any)
		return isArray && containsEqual(elements, n.Value)

	case Gt, Gte, Lt, Lte, Ne:
		value, ok := document.Read(doc, leafPath(node))
		if !ok {
			return false
		}
		if elements, isArray := value.([]any); isArray {
			for _, element := range elements {
				if matchesOperator(element, node) {
					return true
				}
			}
			return false
		}
		return matchesOperator(value, node)

	case GeoWithinRadius:
		value, ok := document.Read(doc, n.Path)
		if !ok {
			return false
		}
		point, isPoint := geo.ParsePoint(value)
		if !isPoint {
			return false
		}
		return geo.Haversine(point, geo.Point{Lat: n.Lat, Lon: n.Lon}) <= n.Radius

	case GeoInBox:
		value, ok := document.Read(doc, n.Path)
		if !ok {
			return false
		}
		point, isPoint := geo.ParsePoint(value)
		if !isPoint {
			return false
		}
		rect := geo.Rect{MinLat: n.MinLat, MinLon: n.MinLon, MaxLat: n.MaxLat, MaxLon: n.MaxLon}
		return rect.Contains(point)

	default:
		return false
	}
}

func containsEqual(elements []any, value any) bool {
	for _, element := range elements {
		if document.Equal(element, value) {
			return true
		}
	}
	return false
}

// matchesOperator applies the comparison rule between a stored value and
// an ordered leaf's query value. Incomparable pairings never match.
func matchesOperator(stored any, node Node) bool {
	switch n := node.(type) {
	case Gt:
		result, ok := document.Compare(stored, n.Value)
		return ok && result > 0
	case Gte:
		result, ok := document.Compare(stored, n.Value)
		return ok && result >= 0
	case Lt:
		result, ok := document.Compare(stored, n.Value)
		return ok && result < 0
	case Lte:
		result, ok := document.Compare(stored, n.Value)
		return ok && result <= 0
	case Ne:
		result, ok := document.Compare(stored, n.Value)
		return ok && result != 0
	default:
		return false
	}
}

func intersect(left, right map[string]struct{}) map[string]struct{} {
	if len(right) < len(left) {
		left, right = right, left
	}
	out := make(map[string]struct{}, len(left))
	for key := range left {
		if _, ok := right[key]; ok {
			out[key] = struct{}{}
		}
	}
	return out
}
