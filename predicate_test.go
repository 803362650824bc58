package reaper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateHeight(t *testing.T) {
	tests := []struct {
		name string
		p    Predicate
		want int
	}{
		{"true", TruePredicate{}, 1},
		{"eq", EqPredicate{Left: IntExpr{1}, Right: IntExpr{1}}, 1},
		{"lt", LtPredicate{Left: IntExpr{1}, Right: IntExpr{2}}, 1},
		{"and of leaves", AndPredicate{Left: TruePredicate{}, Right: EqPredicate{Left: IntExpr{1}, Right: IntExpr{1}}}, 2},
		{
			"nested and",
			AndPredicate{
				Left:  AndPredicate{Left: TruePredicate{}, Right: TruePredicate{}},
				Right: TruePredicate{},
			},
			3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Height())
		})
	}
}

func TestEvalPredicate(t *testing.T) {
	env := environment{"a": 1, "b": 2}
	fa := FieldExpr{Field: Field{Table: "t", Column: "a"}}
	fb := FieldExpr{Field: Field{Table: "t", Column: "b"}}

	assert.True(t, EvalPredicate(TruePredicate{}, env))
	assert.True(t, EvalPredicate(EqPredicate{Left: fa, Right: IntExpr{1}}, env))
	assert.False(t, EvalPredicate(EqPredicate{Left: fa, Right: IntExpr{2}}, env))
	assert.True(t, EvalPredicate(LtPredicate{Left: fa, Right: fb}, env))
	assert.True(t, EvalPredicate(AndPredicate{
		Left:  EqPredicate{Left: fa, Right: IntExpr{1}},
		Right: LtPredicate{Left: fa, Right: fb},
	}, env))
}

func TestEvalPredicateUndefinedFieldIsFalse(t *testing.T) {
	env := environment{"a": 1}
	missing := FieldExpr{Field: Field{Table: "t", Column: "missing"}}
	assert.False(t, EvalPredicate(EqPredicate{Left: missing, Right: IntExpr{1}}, env))
	assert.False(t, EvalPredicate(LtPredicate{Left: missing, Right: IntExpr{1}}, env))
}

func TestPredicateFields(t *testing.T) {
	fa := Field{Table: "t", Column: "a"}
	fb := Field{Table: "t", Column: "b"}
	p := AndPredicate{
		Left:  EqPredicate{Left: FieldExpr{Field: fa}, Right: IntExpr{1}},
		Right: LtPredicate{Left: FieldExpr{Field: fb}, Right: IntExpr{2}},
	}
	assert.ElementsMatch(t, []Field{fa, fb}, predicateFields(p))
}
