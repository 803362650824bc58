package reaper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonEmptySubsets(t *testing.T) {
	fields := []Field{{Table: "t", Column: "a"}, {Table: "t", Column: "b"}}
	subsets := nonEmptySubsets(fields)
	assert.Len(t, subsets, 3) // {a}, {b}, {a,b}

	assert.Nil(t, nonEmptySubsets(nil))
}

func TestGrowStepIncludesIdentitySelectJoinConcat(t *testing.T) {
	tbl := TableNode{Name: "t1", Columns: []string{"a", "b"}}
	grown := growStep([]Skeleton{tbl})

	var sawIdentity, sawSelect, sawJoin, sawConcat bool
	for _, n := range grown {
		switch v := n.(type) {
		case TableNode:
			sawIdentity = v.Name == "t1"
		case SelectNode[Empty]:
			sawSelect = true
		case JoinNode[Empty]:
			sawJoin = true
		case ConcatNode[Empty]:
			sawConcat = true
		}
	}
	assert.True(t, sawIdentity, "identity skeleton must survive growStep")
	assert.True(t, sawSelect, "growStep must add Select variants")
	assert.True(t, sawJoin, "growStep must add Join variants (including self-join)")
	assert.True(t, sawConcat, "growStep must add Concat")
}

func newTestEvaluator(t *testing.T, inputs []ConcreteRelation) *Evaluator {
	t.Helper()
	ev, err := NewEvaluator(context.Background(), inputs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ev.Close() })
	return ev
}

func TestEliminateStepDedupesByRelationKey(t *testing.T) {
	inputs := []ConcreteRelation{
		{Name: "t1", Columns: []string{"a"}, Values: [][]int64{{1}, {2}}},
	}
	ev := newTestEvaluator(t, inputs)

	tbl := TableNode{Name: "t1", Columns: []string{"a"}}
	// Two structurally distinct skeletons producing the identical relation.
	dup := SelectNode[Empty]{Child: tbl}

	out := eliminateStep(ev, []Skeleton{tbl, dup}, ConcreteRelation{}, false)
	assert.Len(t, out, 1)
}

func TestEliminateStepIsIdempotent(t *testing.T) {
	inputs := []ConcreteRelation{
		{Name: "t1", Columns: []string{"a"}, Values: [][]int64{{1}, {2}}},
	}
	ev := newTestEvaluator(t, inputs)

	tbl := TableNode{Name: "t1", Columns: []string{"a"}}
	once := eliminateStep(ev, []Skeleton{tbl}, ConcreteRelation{}, false)
	twice := eliminateStep(ev, once, ConcreteRelation{}, false)
	assert.Equal(t, len(once), len(twice))
}

func TestEnumerateSkeletonsRespectsCancellation(t *testing.T) {
	inputs := []ConcreteRelation{
		{Name: "t1", Columns: []string{"a"}, Values: [][]int64{{1}}},
	}
	ev := newTestEvaluator(t, inputs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EnumerateSkeletons(ctx, ev, inputs, ConcreteRelation{}, 2)
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
}

func TestEnumerateSkeletonsFindsTargetForIdentity(t *testing.T) {
	inputs := []ConcreteRelation{
		{Name: "t1", Columns: []string{"a", "b"}, Values: [][]int64{{1, 2}, {3, 4}}},
	}
	target := ConcreteRelation{Columns: []string{"a", "b"}, Values: [][]int64{{1, 2}, {3, 4}}}
	ev := newTestEvaluator(t, inputs)

	survivors, err := EnumerateSkeletons(context.Background(), ev, inputs, target, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, survivors)
}
