package reaper

import "fmt"

// Empty is the hole type of a skeleton: an abstract query with no
// predicates chosen yet.
type Empty struct{}

// Node is a relational-algebra AST parametric in a predicate-hole type H.
// When H is Empty the tree is a Skeleton; when H is Predicate it is
// Concrete. TableNode has no hole of its own and so satisfies Node[H] for
// every H.
type Node[H any] interface {
	isNode()
}

// TableNode is a leaf referencing an input relation by name.
type TableNode struct {
	Name    string
	Columns []string
}

func (TableNode) isNode() {}

// SelectNode is a projection plus row filter. Fields is nil to mean "all
// columns of Child".
type SelectNode[H any] struct {
	Fields *[]Field
	Child  Node[H]
	Hole   H
}

func (SelectNode[H]) isNode() {}

// JoinNode is a cross-product plus row filter over the concatenated columns
// of Left and Right. Fields is nil to mean "all columns of both sides,
// left-concatenated".
type JoinNode[H any] struct {
	Fields      *[]Field
	Left, Right Node[H]
	Hole        H
}

func (JoinNode[H]) isNode() {}

// ConcatNode unions two relations by concatenating their columns and
// cross-joining their rows. Despite the name this is not set union.
type ConcatNode[H any] struct {
	Left, Right Node[H]
}

func (ConcatNode[H]) isNode() {}

// Skeleton is a relational AST with no predicates chosen.
type Skeleton = Node[Empty]

// Concrete is a fully-instantiated relational AST.
type Concrete = Node[Predicate]

// Height returns the AST's tree height: 1 for a Table leaf, else
// 1 + max(child heights). Used by the default query ranking.
func Height[H any](n Node[H]) int {
	switch t := n.(type) {
	case TableNode:
		return 1
	case SelectNode[H]:
		return 1 + Height[H](t.Child)
	case JoinNode[H]:
		l, r := Height[H](t.Left), Height[H](t.Right)
		if l > r {
			return 1 + l
		}
		return 1 + r
	case ConcatNode[H]:
		l, r := Height[H](t.Left), Height[H](t.Right)
		if l > r {
			return 1 + l
		}
		return 1 + r
	default:
		panic(fmt.Sprintf("reaper: unreachable node type %T", n))
	}
}

// NumHoles returns the total count of Select + Join nodes in n.
func NumHoles[H any](n Node[H]) int {
	switch t := n.(type) {
	case TableNode:
		return 0
	case SelectNode[H]:
		return 1 + NumHoles[H](t.Child)
	case JoinNode[H]:
		return 1 + NumHoles[H](t.Left) + NumHoles[H](t.Right)
	case ConcatNode[H]:
		return NumHoles[H](t.Left) + NumHoles[H](t.Right)
	default:
		panic(fmt.Sprintf("reaper: unreachable node type %T", n))
	}
}

// FieldsOf computes a node's output fields structurally, without executing
// anything. Also used to determine each node's own field pool during
// predicate enumeration and to check that a hole's predicate only
// references fields reachable from that hole's input.
func FieldsOf[H any](n Node[H]) []Field {
	switch t := n.(type) {
	case TableNode:
		fields := make([]Field, len(t.Columns))
		for i, c := range t.Columns {
			fields[i] = Field{Table: t.Name, Column: c}
		}
		return fields
	case SelectNode[H]:
		if t.Fields != nil {
			return *t.Fields
		}
		return FieldsOf[H](t.Child)
	case JoinNode[H]:
		if t.Fields != nil {
			return *t.Fields
		}
		out := append([]Field{}, FieldsOf[H](t.Left)...)
		return append(out, FieldsOf[H](t.Right)...)
	case ConcatNode[H]:
		out := append([]Field{}, FieldsOf[H](t.Left)...)
		return append(out, FieldsOf[H](t.Right)...)
	default:
		panic(fmt.Sprintf("reaper: unreachable node type %T", n))
	}
}

// CloneSkeleton performs a cheap structural clone of a skeleton. Skeletons
// are immutable, so this is mostly a copy of the spine; shared subtrees keep
// their identity rather than being deep-cloned.
func CloneSkeleton(n Skeleton) Skeleton {
	switch t := n.(type) {
	case TableNode:
		cols := append([]string{}, t.Columns...)
		return TableNode{Name: t.Name, Columns: cols}
	case SelectNode[Empty]:
		return SelectNode[Empty]{Fields: t.Fields, Child: t.Child, Hole: Empty{}}
	case JoinNode[Empty]:
		return JoinNode[Empty]{Fields: t.Fields, Left: t.Left, Right: t.Right, Hole: Empty{}}
	case ConcatNode[Empty]:
		return ConcatNode[Empty]{Left: t.Left, Right: t.Right}
	default:
		panic(fmt.Sprintf("reaper: unreachable node type %T", n))
	}
}

// checkReachable validates, for one hole, that every Field the predicate
// mentions appears in reachable.
func checkReachable(p Predicate, reachable []Field) error {
	for _, f := range predicateFields(p) {
		found := false
		for _, r := range reachable {
			if r == f {
				found = true
				break
			}
		}
		if !found {
			return NewInvalidSkeletonError(fmt.Sprintf("predicate references unreachable field %s.%s", f.Table, f.Column))
		}
	}
	return nil
}

// WithPredicates consumes a flat, pre-order sequence of predicates (own hole
// first, then left subtree, then right subtree; Concat has no hole) and
// returns the concrete AST obtained by binding one predicate per hole. It
// fails with InvalidSkeleton if len(preds) != NumHoles(skeleton) or if some
// predicate references a column unreachable from its hole.
func WithPredicates(skeleton Skeleton, preds []Predicate) (Concrete, error) {
	if want := NumHoles[Empty](skeleton); want != len(preds) {
		return nil, NewInvalidSkeletonError(fmt.Sprintf("expected %d predicates, got %d", want, len(preds)))
	}
	idx := 0
	var build func(Skeleton) (Concrete, error)
	build = func(n Skeleton) (Concrete, error) {
		switch t := n.(type) {
		case TableNode:
			cols := append([]string{}, t.Columns...)
			return TableNode{Name: t.Name, Columns: cols}, nil
		case SelectNode[Empty]:
			p := preds[idx]
			idx++
			if err := checkReachable(p, FieldsOf[Empty](t.Child)); err != nil {
				return nil, err
			}
			child, err := build(t.Child)
			if err != nil {
				return nil, err
			}
			return SelectNode[Predicate]{Fields: t.Fields, Child: child, Hole: p}, nil
		case JoinNode[Empty]:
			p := preds[idx]
			idx++
			reachable := append(append([]Field{}, FieldsOf[Empty](t.Left)...), FieldsOf[Empty](t.Right)...)
			if err := checkReachable(p, reachable); err != nil {
				return nil, err
			}
			left, err := build(t.Left)
			if err != nil {
				return nil, err
			}
			right, err := build(t.Right)
			if err != nil {
				return nil, err
			}
			return JoinNode[Predicate]{Fields: t.Fields, Left: left, Right: right, Hole: p}, nil
		case ConcatNode[Empty]:
			left, err := build(t.Left)
			if err != nil {
				return nil, err
			}
			right, err := build(t.Right)
			if err != nil {
				return nil, err
			}
			return ConcatNode[Predicate]{Left: left, Right: right}, nil
		default:
			return nil, NewInvalidSkeletonError(fmt.Sprintf("unreachable node type %T", n))
		}
	}
	return build(skeleton)
}

// trivialSkeleton substitutes True into every hole of a skeleton, producing
// the concrete AST the abstract evaluator executes.
func trivialSkeleton(skeleton Skeleton) Concrete {
	n := NumHoles[Empty](skeleton)
	preds := make([]Predicate, n)
	for i := range preds {
		preds[i] = TruePredicate{}
	}
	concrete, err := WithPredicates(skeleton, preds)
	if err != nil {
		// True never references a field, so reachability can't fail and the
		// count always matches by construction.
		panic(fmt.Sprintf("reaper: trivialSkeleton: %v", err))
	}
	return concrete
}
