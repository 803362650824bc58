package reaper

import (
	"context"

	"go.uber.org/zap"
)

// nonEmptySubsets enumerates every non-empty subset of fields, preserving
// relative order, as the power set minus the empty set.
func nonEmptySubsets(fields []Field) [][]Field {
	n := len(fields)
	if n == 0 {
		return nil
	}
	total := 1 << uint(n)
	out := make([][]Field, 0, total-1)
	for mask := 1; mask < total; mask++ {
		var s []Field
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				s = append(s, fields[i])
			}
		}
		out = append(out, s)
	}
	return out
}

// growStep produces Q' from Q: every q unchanged, every Select/Join over
// non-empty field subsets, and every Concat.
func growStep(q []Skeleton) []Skeleton {
	out := make([]Skeleton, 0, len(q))
	for _, n := range q {
		out = append(out, n)
		fn := FieldsOf[Empty](n)
		for _, s := range nonEmptySubsets(fn) {
			s := s
			out = append(out, SelectNode[Empty]{Fields: &s, Child: n})
		}
	}
	for _, a := range q {
		fa := FieldsOf[Empty](a)
		for _, b := range q {
			fb := FieldsOf[Empty](b)
			union := append(append([]Field{}, fa...), fb...)
			for _, s := range nonEmptySubsets(union) {
				s := s
				out = append(out, JoinNode[Empty]{Fields: &s, Left: a, Right: b})
			}
			out = append(out, ConcatNode[Empty]{Left: a, Right: b})
		}
	}
	return out
}

// eliminateStep drops every skeleton whose abstract evaluation hard-fails or
// whose resulting relation (by RelationKey, i.e. columns + row multiset)
// has already been produced by an earlier candidate in q. When last is
// true, an additional filter keeps only candidates whose relation is a
// superset of target.
func eliminateStep(ev *Evaluator, q []Skeleton, target ConcreteRelation, last bool) []Skeleton {
	seen := make(map[string]bool)
	out := make([]Skeleton, 0, len(q))
	for _, n := range q {
		rel, ok := ev.EvalAbstract(n)
		if !ok {
			continue
		}
		key := RelationKey(rel)
		if seen[key] {
			continue
		}
		if last && !IsSuperset(rel, target) {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// EnumerateSkeletons runs the bottom-up skeleton enumerator: start from one
// Table per input relation, then grow/eliminate depth times, returning the
// final surviving population.
func EnumerateSkeletons(ctx context.Context, ev *Evaluator, inputs []ConcreteRelation, target ConcreteRelation, depth int) ([]Skeleton, error) {
	q := make([]Skeleton, len(inputs))
	for i, r := range inputs {
		q[i] = TableNode{Name: r.Name, Columns: append([]string{}, r.Columns...)}
	}

	for d := 0; d < depth; d++ {
		if err := ctx.Err(); err != nil {
			return nil, NewCancelledError(err)
		}
		grown := growStep(q)
		q = eliminateStep(ev, grown, target, d == depth-1)
		zap.S().Debugw("reaper: skeleton enumerator iteration", "depth", d, "grown", len(grown), "survivors", len(q))
	}
	return q, nil
}
