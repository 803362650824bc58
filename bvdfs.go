package reaper

import "context"

// BVDFSPair is one (bitvector, predicate-tuple) pair emitted by BVDFS: a
// conservative record of which rows of eval_abstract(skeleton) would
// survive if the skeleton were instantiated with Tuple, in pre-order (own
// predicate, then left subtree, then right subtree).
type BVDFSPair struct {
	BitVector *RowBitVector
	Tuple     []Predicate
}

func clampPredicateDepth(d int) int {
	if d < 1 {
		return 1
	}
	return d
}

// BVDFS enumerates every (bitvector, predicate-tuple) pair reachable from
// skeleton by choosing one representative predicate per hole. Join does not
// decrement maxPredDepth for either child (holes on both sides are
// independent and rely on the same class pool depth); only Select does.
// predDepth bounds the And-nesting explored when enumerating each hole's
// predicate classes and is held fixed across the whole recursion.
// maxPredDepth is not read anywhere in the recursion: it neither ends it nor
// limits predicate enumeration.
func BVDFS(ctx context.Context, ev *Evaluator, q Skeleton, constants []int64, predDepth, maxPredDepth int) []BVDFSPair {
	if ctx.Err() != nil {
		return nil
	}
	switch t := q.(type) {
	case TableNode:
		n := ev.RowCount(t.Name)
		bv := NewRowBitVector(n)
		for i := 0; i < n; i++ {
			bv.Set(i)
		}
		return []BVDFSPair{{BitVector: bv, Tuple: nil}}

	case SelectNode[Empty]:
		rel, _ := ev.EvalAbstract(q)
		reps := EnumeratePredicates(rel, FieldsOf[Empty](q), constants, clampPredicateDepth(predDepth))
		childPairs := BVDFS(ctx, ev, t.Child, constants, predDepth, maxPredDepth-1)
		out := make([]BVDFSPair, 0, len(reps)*len(childPairs))
		for _, p := range reps {
			if ctx.Err() != nil {
				return nil
			}
			pvec := bitvectorOf(p, rel)
			for _, cp := range childPairs {
				tup := make([]Predicate, 0, 1+len(cp.Tuple))
				tup = append(tup, p)
				tup = append(tup, cp.Tuple...)
				out = append(out, BVDFSPair{BitVector: pvec.And(cp.BitVector), Tuple: tup})
			}
		}
		return out

	case JoinNode[Empty]:
		rel, _ := ev.EvalAbstract(q)
		reps := EnumeratePredicates(rel, FieldsOf[Empty](q), constants, clampPredicateDepth(predDepth))
		leftPairs := BVDFS(ctx, ev, t.Left, constants, predDepth, maxPredDepth)
		rightPairs := BVDFS(ctx, ev, t.Right, constants, predDepth, maxPredDepth)
		out := make([]BVDFSPair, 0, len(reps)*len(leftPairs)*len(rightPairs))
		for _, p := range reps {
			if ctx.Err() != nil {
				return nil
			}
			pvec := bitvectorOf(p, rel)
			for _, lp := range leftPairs {
				for _, rp := range rightPairs {
					cross := CrossProduct(lp.BitVector, rp.BitVector)
					tup := make([]Predicate, 0, 1+len(lp.Tuple)+len(rp.Tuple))
					tup = append(tup, p)
					tup = append(tup, lp.Tuple...)
					tup = append(tup, rp.Tuple...)
					out = append(out, BVDFSPair{BitVector: cross.And(pvec), Tuple: tup})
				}
			}
		}
		return out

	case ConcatNode[Empty]:
		leftPairs := BVDFS(ctx, ev, t.Left, constants, predDepth, maxPredDepth)
		rightPairs := BVDFS(ctx, ev, t.Right, constants, predDepth, maxPredDepth)
		out := make([]BVDFSPair, 0, len(leftPairs)*len(rightPairs))
		for _, lp := range leftPairs {
			for _, rp := range rightPairs {
				tup := make([]Predicate, 0, len(lp.Tuple)+len(rp.Tuple))
				tup = append(tup, lp.Tuple...)
				tup = append(tup, rp.Tuple...)
				out = append(out, BVDFSPair{BitVector: CrossProduct(lp.BitVector, rp.BitVector), Tuple: tup})
			}
		}
		return out

	default:
		panic("reaper: unreachable skeleton node type")
	}
}
