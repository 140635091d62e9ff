package storage

import (
	"context"
	"testing"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"github.com/iamNilotpal/vaultdb/pkg/logger"
	"github.com/iamNilotpal/vaultdb/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	opts := options.NewDefaultOptions()
	opts.InMemory = true

	store, err := New(context.Background(), &Config{Options: &opts, Logger: logger.NewNop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetRemove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put([]byte("k1"), []byte("v1")))

	value, err := store.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	require.NoError(t, store.Remove([]byte("k1")))

	_, err = store.Get([]byte("k1"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTransactionCommitsAtomically(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(tx *Txn) error {
		if err := tx.Set([]byte("a"), []byte("1")); err != nil {
			return err
		}
		return tx.Set([]byte("b"), []byte("2"))
	})
	require.NoError(t, err)

	value, err := store.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), value)
}

func TestTransactionAbortLeavesNoEffect(t *testing.T) {
	store := newTestStore(t)

	bodyErr := errors.NewBaseError(nil, errors.ErrorCodeInternal, "boom")
	err := store.Transaction(func(tx *Txn) error {
		if err := tx.Set([]byte("a"), []byte("1")); err != nil {
			return err
		}
		return bodyErr
	})
	require.Error(t, err)

	_, err = store.Get([]byte("a"))
	assert.True(t, errors.IsNotFound(err))
}

func TestTransactionSeesOwnWrites(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(tx *Txn) error {
		if err := tx.Set([]byte("k"), []byte("v")); err != nil {
			return err
		}
		value, found, err := tx.Get([]byte("k"))
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, []byte("v"), value)
		return nil
	})
	require.NoError(t, err)
}

func TestScanKeysByPrefix(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"a:1", "a:2", "b:1"} {
		require.NoError(t, store.Put([]byte(key), nil))
	}

	keys, err := store.ScanKeys([]byte("a:"))
	require.NoError(t, err)
	require.Len(t, keys, 2)
	// Byte-lexicographic order.
	assert.Equal(t, "a:1", string(keys[0]))
	assert.Equal(t, "a:2", string(keys[1]))
}

func TestScanRangeBounds(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"k1", "k2", "k3", "k4"} {
		require.NoError(t, store.Put([]byte(key), nil))
	}

	cases := []struct {
		name      string
		lo, hi    string
		includeLo bool
		includeHi bool
		want      []string
	}{
		{name: "closed", lo: "k1", hi: "k3", includeLo: true, includeHi: true, want: []string{"k1", "k2", "k3"}},
		{name: "half-open right", lo: "k1", hi: "k3", includeLo: true, want: []string{"k1", "k2"}},
		{name: "open left", lo: "k1", hi: "k4", includeHi: true, want: []string{"k2", "k3", "k4"}},
		{name: "unbounded right", lo: "k3", includeLo: true, want: []string{"k3", "k4"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hi []byte
			if tc.hi != "" {
				hi = []byte(tc.hi)
			}
			keys, err := store.ScanRange([]byte(tc.lo), hi, tc.includeLo, tc.includeHi)
			require.NoError(t, err)

			got := make([]string, 0, len(keys))
			for _, key := range keys {
				got = append(got, string(key))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScanPrefixStreamsValues(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Put([]byte("p:1"), []byte("one")))
	require.NoError(t, store.Put([]byte("p:2"), []byte("two")))

	seen := map[string]string{}
	err := store.ScanPrefix([]byte("p:"), func(key, value []byte) error {
		seen[string(key)] = string(value)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"p:1": "one", "p:2": "two"}, seen)
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Put([]byte("k"), nil), ErrStoreClosed)
	assert.ErrorIs(t, store.Close(), ErrStoreClosed)
}
