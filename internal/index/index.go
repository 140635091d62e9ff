package index

import (
	stdErrors "errors"
	"strconv"

	"github.com/iamNilotpal/vaultdb/internal/document"
	"github.com/iamNilotpal/vaultdb/internal/geo"
	"github.com/iamNilotpal/vaultdb/internal/storage"
	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrDocumentTooDeep guards the recursive walk against runaway nesting.
	// Documents are trees; anything deeper than maxWalkDepth is treated as a
	// structural cycle and rejected.
	ErrDocumentTooDeep = stdErrors.New("document nesting exceeds the maximum depth")
)

// maxWalkDepth bounds recursive descent into a document tree.
const maxWalkDepth = 128

// Maintainer derives index mutations from document trees and applies them
// alongside the primary record inside the caller's transaction. It holds no
// state of its own beyond a logger; the configuration snapshot travels with
// each call so a write observes one consistent view.
type Maintainer struct {
	log *zap.SugaredLogger
}

// NewMaintainer creates a maintainer logging through the given logger.
func NewMaintainer(log *zap.SugaredLogger) (*Maintainer, error) {
	if log == nil {
		return nil, errors.NewRequiredFieldError("logger")
	}
	return &Maintainer{log: log}, nil
}

// Put writes the document under the primary key and replaces every derived
// index entry, all within the supplied transaction:
//
//  1. read the current value, if any;
//  2. remove the entries derived from the old value;
//  3. write the serialized new value;
//  4. create the entries derived from the new value.
//
// The created entries reflect exactly the bytes written, even when a field
// both leaves and arrives at the same path. Any error aborts the enclosing
// transaction — including encoding errors while re-deriving removals from
// stale data, since a partial removal would leave orphan entries behind.
func (m *Maintainer) Put(tx *storage.Txn, cfg *Config, primaryKey string, value any) error {
	if err := m.removeDerived(tx, cfg, primaryKey); err != nil {
		return err
	}

	data, err := document.Marshal(value)
	if err != nil {
		return err
	}
	if err := tx.Set([]byte(primaryKey), data); err != nil {
		return err
	}

	creations, err := m.Mutations(cfg, primaryKey, value)
	if err != nil {
		return err
	}
	for _, entry := range creations {
		if err := tx.Set(entry, nil); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the document and every index entry derived from it, within
// the supplied transaction. Returns whether a document existed.
func (m *Maintainer) Delete(tx *storage.Txn, cfg *Config, primaryKey string) (bool, error) {
	data, found, err := tx.Get([]byte(primaryKey))
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	if err := m.removeStored(tx, cfg, primaryKey, data); err != nil {
		return false, err
	}
	if err := tx.Delete([]byte(primaryKey)); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Maintainer) removeDerived(tx *storage.Txn, cfg *Config, primaryKey string) error {
	data, found, err := tx.Get([]byte(primaryKey))
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return m.removeStored(tx, cfg, primaryKey, data)
}

func (m *Maintainer) removeStored(tx *storage.Txn, cfg *Config, primaryKey string, data []byte) error {
	oldValue, err := document.Unmarshal(data)
	if err != nil {
		return err
	}
	removals, err := m.Mutations(cfg, primaryKey, oldValue)
	if err != nil {
		return err
	}
	for _, entry := range removals {
		if err := tx.Delete(entry); err != nil {
			return err
		}
	}
	return nil
}

// Mutations re-derives, as a pure function of (value, configuration), the
// full set of index entry keys the document owns. The write path applies
// this set as creations for the new value and removals for the old one, so
// the entries present after a write always equal a fresh derivation.
//
// Derivation runs over the canonical stored form of the value, so a number
// written as an integer is indexed exactly as the stored bytes re-derive it
// when the document is later replaced or deleted.
func (m *Maintainer) Mutations(cfg *Config, primaryKey string, value any) ([][]byte, error) {
	data, err := document.Marshal(value)
	if err != nil {
		return nil, err
	}
	stored, err := document.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	var entries [][]byte
	if err := m.walk(cfg, primaryKey, "", stored, 0, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Maintainer) walk(cfg *Config, primaryKey, path string, value any, depth int, entries *[][]byte) error {
	if depth > maxWalkDepth {
		return errors.NewCodecError(ErrDocumentTooDeep, errors.ErrorCodeInvalidInput, "document nesting too deep").
			WithPath(path)
	}

	switch node := value.(type) {
	case map[string]any:
		if cfg.IsGeoIndexed(path) {
			if point, ok := geo.ParsePoint(node); ok {
				*entries = append(*entries, GeoKey(path, geo.Encode(point), primaryKey))
			}
		}
		for field, child := range node {
			if err := m.walk(cfg, primaryKey, document.JoinPath(path, field), child, depth+1, entries); err != nil {
				return err
			}
		}
		return nil

	case []any:
		for i, element := range node {
			childPath := document.JoinPath(path, strconv.Itoa(i))
			if err := m.walk(cfg, primaryKey, childPath, element, depth+1, entries); err != nil {
				return err
			}
			// Primitive elements additionally index under the array's own
			// path, giving the equality index membership semantics.
			if document.IsScalar(element) {
				if err := m.emitScalar(cfg, primaryKey, path, element, entries); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		if value == nil {
			return nil
		}
		return m.emitScalar(cfg, primaryKey, path, value, entries)
	}
}

func (m *Maintainer) emitScalar(cfg *Config, primaryKey, path string, value any, entries *[][]byte) error {
	if cfg.IsHashIndexed(path) {
		text, ok := document.ScalarText(value)
		if !ok {
			return errors.NewUnsupportedValueError(value).WithPath(path)
		}
		*entries = append(*entries, EqualityKey(path, text, primaryKey))
	}
	if cfg.IsSortedIndexed(path) {
		encoded, err := document.EncodeScalar(value)
		if err != nil {
			return err
		}
		*entries = append(*entries, SortedKey(path, encoded, primaryKey))
	}
	return nil
}
