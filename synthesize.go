package reaper

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Rank scores a concrete query for ordering the candidates a synthesis call
// returns: smaller is better. The default is tree height; it is a swappable
// function value so a stronger ranking (favoring simpler predicates or
// smaller field lists) can be substituted without touching the driver.
var Rank = func(c Concrete) int { return Height[Predicate](c) }

func sortByRank(cs []Concrete) {
	sort.SliceStable(cs, func(i, j int) bool { return Rank(cs[i]) < Rank(cs[j]) })
}

// driveSkeleton runs the synthesis driver for one skeleton: compute the
// target bitvector, run BVDFS, keep exact matches, substitute predicates
// back in, and rank the survivors.
func driveSkeleton(ctx context.Context, ev *Evaluator, q Skeleton, target ConcreteRelation, constants []int64, predDepth, maxPredDepth int) ([]Concrete, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewCancelledError(err)
	}

	rel, _ := ev.EvalAbstract(q)
	targetBV := NewRowBitVector(len(rel.Values))
	for i, row := range rel.Values {
		if containsRow(target.Values, row) {
			targetBV.Set(i)
		}
	}

	pairs := BVDFS(ctx, ev, q, constants, predDepth, maxPredDepth)
	if err := ctx.Err(); err != nil {
		return nil, NewCancelledError(err)
	}

	var out []Concrete
	for _, pair := range pairs {
		if !pair.BitVector.Equal(targetBV) {
			continue
		}
		concrete, err := WithPredicates(q, pair.Tuple)
		if err != nil {
			return nil, err
		}
		out = append(out, concrete)
	}
	if len(out) == 0 {
		return nil, NewNoQueriesFoundError("skeleton has no predicate assignment matching the target")
	}
	sortByRank(out)
	return out, nil
}

// Synthesize is the library's single entry point: given an Example and a
// SynthesisConfig, it returns every concrete query it found whose
// evaluation on the inputs produces the target output, ranked best-first,
// or a SynthesisError (typically NoQueriesFound) if none match.
func Synthesize(ctx context.Context, example Example, cfg *SynthesisConfig) ([]Concrete, error) {
	if cfg == nil {
		cfg = DefaultSynthesisConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewInvalidSkeletonError(err.Error()).WithCause(err)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	ev, err := NewEvaluator(ctx, example.Input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, NewCancelledError(ctxErr)
		}
		return nil, err
	}
	defer ev.Close()

	constants := make([]int64, 0, len(cfg.Constants)+len(example.Constant))
	constants = append(constants, cfg.Constants...)
	constants = append(constants, example.Constant...)

	skeletons, err := EnumerateSkeletons(ctx, ev, example.Input, example.Output, cfg.SkeletonDepth)
	if err != nil {
		return nil, err
	}
	zap.S().Infow("reaper: skeleton enumeration complete", "skeletons", len(skeletons))

	var all []Concrete
	for _, sk := range skeletons {
		cands, err := driveSkeleton(ctx, ev, sk, example.Output, constants, cfg.PredicateDepth, cfg.MaxPredicateDepth)
		if err != nil {
			if IsNoQueriesFound(err) {
				continue
			}
			return nil, err
		}
		all = append(all, cands...)
	}

	if len(all) == 0 {
		return nil, NewNoQueriesFoundError("no skeleton's bitvector matched the target relation")
	}
	sortByRank(all)
	zap.S().Infow("reaper: synthesis complete", "candidates", len(all))
	return all, nil
}
