package reaper

// predicateClasses groups predicates by the row bitvector they produce over
// a fixed relation. Insertion order is preserved so representative choice
// ("the first inserted") is deterministic.
type predicateClasses struct {
	order map[string]int // bitvector key -> insertion index
	reps  []Predicate    // representatives, in insertion order
	keys  []string       // parallel to reps, the bitvector key of each
}

func newPredicateClasses() *predicateClasses {
	return &predicateClasses{order: make(map[string]int)}
}

// insert adds p under its bitvector key if that class is new, and reports
// whether it was new.
func (c *predicateClasses) insert(p Predicate, bv *RowBitVector) bool {
	key := bv.Key()
	if _, ok := c.order[key]; ok {
		return false
	}
	c.order[key] = len(c.reps)
	c.reps = append(c.reps, p)
	c.keys = append(c.keys, key)
	return true
}

// bitvectorOf computes p's row bitvector over r: bit i set iff p
// evaluates true under row i's column bindings.
func bitvectorOf(p Predicate, r ConcreteRelation) *RowBitVector {
	bv := NewRowBitVector(len(r.Values))
	for i, row := range r.Values {
		env := environmentFromRow(r.Columns, row)
		if EvalPredicate(p, env) {
			bv.Set(i)
		}
	}
	return bv
}

// EnumeratePredicates builds the full classes map for relation r over the
// atoms derived from fields and constants, growing compound And-predicates
// up to maxDepth, and returns one representative predicate per equivalence
// class in deterministic (first-inserted) order.
//
// Grouping only ever evaluates predicates against rows already materialized
// in r, so, unlike the executor-backed phases, this enumeration cannot
// itself fail. BVDFS passes in the relation from EvalAbstract without
// checking its fallback flag, so a failed evaluation yields classes over a
// zero-row dummy relation; no caller reports PredicateEnumerationFailure.
func EnumeratePredicates(r ConcreteRelation, fields []Field, constants []int64, maxDepth int) []Predicate {
	atoms := make([]Expr, 0, len(fields)+len(constants))
	for _, f := range fields {
		atoms = append(atoms, FieldExpr{Field: f})
	}
	for _, k := range constants {
		atoms = append(atoms, IntExpr{Value: k})
	}

	classes := newPredicateClasses()
	classes.insert(TruePredicate{}, bitvectorOf(TruePredicate{}, r))
	for _, a := range atoms {
		for _, b := range atoms {
			eq := EqPredicate{Left: a, Right: b}
			classes.insert(eq, bitvectorOf(eq, r))
			lt := LtPredicate{Left: a, Right: b}
			classes.insert(lt, bitvectorOf(lt, r))
		}
	}

	for depth := 1; depth < maxDepth; depth++ {
		reps := append([]Predicate{}, classes.reps...)
		for _, ri := range reps {
			for _, rj := range reps {
				cand := AndPredicate{Left: ri, Right: rj}
				classes.insert(cand, bitvectorOf(cand, r))
			}
		}
	}

	return classes.reps
}
