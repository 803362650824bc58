package reaper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableT1() TableNode {
	return TableNode{Name: "t1", Columns: []string{"a", "b"}}
}

func TestHeightAndNumHoles(t *testing.T) {
	table := tableT1()
	sel := SelectNode[Empty]{Child: table}
	join := JoinNode[Empty]{Left: table, Right: sel}
	concat := ConcatNode[Empty]{Left: table, Right: sel}

	assert.Equal(t, 1, Height[Empty](table))
	assert.Equal(t, 2, Height[Empty](sel))
	assert.Equal(t, 3, Height[Empty](join))
	assert.Equal(t, 3, Height[Empty](concat))

	assert.Equal(t, 0, NumHoles[Empty](table))
	assert.Equal(t, 1, NumHoles[Empty](sel))
	assert.Equal(t, 2, NumHoles[Empty](join))
	assert.Equal(t, 1, NumHoles[Empty](concat))
}

func TestFieldsOf(t *testing.T) {
	table := tableT1()
	want := []Field{{Table: "t1", Column: "a"}, {Table: "t1", Column: "b"}}
	assert.Equal(t, want, FieldsOf[Empty](table))

	selAll := SelectNode[Empty]{Child: table}
	assert.Equal(t, want, FieldsOf[Empty](selAll))

	projected := []Field{{Table: "t1", Column: "a"}}
	selProj := SelectNode[Empty]{Fields: &projected, Child: table}
	assert.Equal(t, projected, FieldsOf[Empty](selProj))

	join := JoinNode[Empty]{Left: table, Right: table}
	assert.Equal(t, append(append([]Field{}, want...), want...), FieldsOf[Empty](join))
}

func TestWithPredicatesPreOrderAndCounts(t *testing.T) {
	table := tableT1()
	sel := SelectNode[Empty]{Child: table}
	join := JoinNode[Empty]{Left: sel, Right: table}

	p1 := EqPredicate{Left: IntExpr{1}, Right: IntExpr{1}}
	p2 := TruePredicate{}

	concrete, err := WithPredicates(join, []Predicate{p1, p2})
	require.NoError(t, err)
	assert.Equal(t, 0, NumHoles[Predicate](concrete))

	joinConcrete, ok := concrete.(JoinNode[Predicate])
	require.True(t, ok)
	assert.Equal(t, p1, joinConcrete.Hole)
	selConcrete, ok := joinConcrete.Left.(SelectNode[Predicate])
	require.True(t, ok)
	assert.Equal(t, p2, selConcrete.Hole)
}

func TestWithPredicatesWrongCount(t *testing.T) {
	table := tableT1()
	sel := SelectNode[Empty]{Child: table}

	_, err := WithPredicates(sel, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidSkeleton(err))
}

func TestWithPredicatesUnreachableField(t *testing.T) {
	table := tableT1()
	sel := SelectNode[Empty]{Child: table}
	bogus := EqPredicate{
		Left:  FieldExpr{Field: Field{Table: "t1", Column: "does_not_exist"}},
		Right: IntExpr{1},
	}

	_, err := WithPredicates(sel, []Predicate{bogus})
	require.Error(t, err)
	assert.True(t, IsInvalidSkeleton(err))
}

func TestTrivialSkeletonHasNoRemainingHoles(t *testing.T) {
	table := tableT1()
	join := JoinNode[Empty]{Left: SelectNode[Empty]{Child: table}, Right: table}
	concrete := trivialSkeleton(join)
	assert.Equal(t, 0, NumHoles[Predicate](concrete))
}
