package query

import (
	"testing"

	"github.com/iamNilotpal/vaultdb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCopiesRequestedPaths(t *testing.T) {
	doc := map[string]any{
		"name": "Ada",
		"bio":  "a very long biography",
		"address": map[string]any{
			"city": "Paris",
			"zip":  "75001",
		},
	}

	projected := Project(doc, []string{"name", "address.city"})
	assert.Equal(t, map[string]any{
		"name": "Ada",
		"address": map[string]any{
			"city": "Paris",
		},
	}, projected)
}

func TestProjectSkipsMissingPaths(t *testing.T) {
	doc := map[string]any{"name": "Ada"}
	projected := Project(doc, []string{"name", "missing", "a.b.c"})
	assert.Equal(t, map[string]any{"name": "Ada"}, projected)
}

func TestProjectCollectsArrayChildrenAtParentPath(t *testing.T) {
	doc := map[string]any{
		"items": []any{
			map[string]any{"name": "apple", "price": 1.0},
			map[string]any{"name": "pear", "price": 2.0},
			map[string]any{"price": 3.0},
		},
	}

	projected := Project(doc, []string{"items.name"})
	assert.Equal(t, map[string]any{
		"items": []any{"apple", "pear"},
	}, projected)
}

func TestProjectNumericSegmentsDescendArrays(t *testing.T) {
	doc := map[string]any{
		"items": []any{
			map[string]any{"name": "apple"},
			map[string]any{"name": "pear"},
		},
	}

	projected := Project(doc, []string{"items.0.name"})
	assert.Equal(t, map[string]any{
		"items": []any{
			map[string]any{"name": "apple"},
		},
	}, projected)
}

func TestFromConditionsBuildsAndChain(t *testing.T) {
	node, err := FromConditions([]Condition{
		{Path: "age", Operator: OpGte, Value: "20"},
		{Path: "age", Operator: OpLt, Value: "30"},
	})
	require.NoError(t, err)

	and, ok := node.(And)
	require.True(t, ok)

	gte, ok := and.Left.(Gte)
	require.True(t, ok)
	assert.Equal(t, "age", gte.Path)
	assert.Equal(t, int64(20), gte.Value)

	lt, ok := and.Right.(Lt)
	require.True(t, ok)
	assert.Equal(t, int64(30), lt.Value)
}

func TestFromConditionsSingleLeaf(t *testing.T) {
	node, err := FromConditions([]Condition{{Path: "city", Operator: OpEquals, Value: "Paris"}})
	require.NoError(t, err)

	eq, ok := node.(Eq)
	require.True(t, ok)
	assert.Equal(t, "Paris", eq.Value)
}

func TestFromConditionsRejectsBadInput(t *testing.T) {
	_, err := FromConditions(nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeASTError, errors.GetErrorCode(err))

	_, err = FromConditions([]Condition{{Path: "x", Operator: "~=", Value: "1"}})
	require.Error(t, err)
	assert.Equal(t, errors.ErrorCodeASTError, errors.GetErrorCode(err))

	_, err = FromConditions([]Condition{{Operator: OpEquals, Value: "1"}})
	require.Error(t, err)
}

func TestValidateRejectsMalformedTrees(t *testing.T) {
	require.Error(t, Validate(nil))
	require.Error(t, Validate(And{Left: Eq{Path: "a", Value: 1}}))
	require.Error(t, Validate(Not{}))
	require.Error(t, Validate(GeoWithinRadius{Path: "loc", Radius: -1}))
	require.NoError(t, Validate(Or{
		Left:  Eq{Path: "a", Value: 1},
		Right: Not{Child: Eq{Path: "b", Value: 2}},
	}))
}

func TestCollectEqPaths(t *testing.T) {
	node := And{
		Left: Eq{Path: "city", Value: "Paris"},
		Right: Or{
			Left:  Eq{Path: "country", Value: "FR"},
			Right: Gt{Path: "age", Value: int64(10)},
		},
	}
	assert.ElementsMatch(t, []string{"city", "country"}, CollectEqPaths(node))
}
