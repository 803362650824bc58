// Package reaper synthesizes SQL queries from input/output examples.
//
// Given a set of concrete input relations, a desired concrete output
// relation, and a pool of integer constants, Synthesize searches for one or
// more SQL queries, built from selection, projection, join, and
// concatenation over the inputs and guarded by boolean predicates over
// integer columns, whose evaluation over the inputs produces the target
// output.
package reaper

import "sort"

// Field identifies a column of a specific relation. Identity and equality
// are structural: two Fields are equal iff both components match.
type Field struct {
	Table  string
	Column string
}

// ConcreteRelation is a named, ordered list of columns paired with an
// ordered list of integer rows. Row order is not semantically significant
// but must be stable within one synthesis call so that bitvector indices
// stay meaningful.
type ConcreteRelation struct {
	Name    string
	Columns []string
	Values  [][]int64
}

// Example bundles the inputs and target output a synthesis call is asked to
// explain.
type Example struct {
	Input    []ConcreteRelation
	Output   ConcreteRelation
	Constant []int64
}

// sortedRows returns a copy of rows sorted lexicographically, used to make
// row-order-insensitive comparisons (elimination, equivalence grouping)
// deterministic.
func sortedRows(rows [][]int64) [][]int64 {
	out := make([][]int64, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		return lessRow(out[i], out[j])
	})
	return out
}

func lessRow(a, b []int64) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func equalRow(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RelationKey returns a canonical, comparable identity for a relation's
// content: its column list plus its row multiset, sorted so that row order
// never affects equality. Used to dedupe skeletons by observational
// equivalence.
func RelationKey(r ConcreteRelation) string {
	var b []byte
	for _, c := range r.Columns {
		b = append(b, c...)
		b = append(b, 0)
	}
	b = append(b, 1)
	for _, row := range sortedRows(r.Values) {
		for _, v := range row {
			b = appendInt64(b, v)
		}
		b = append(b, 0)
	}
	return string(b)
}

func appendInt64(b []byte, v int64) []byte {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b = append(b, byte(u>>(8*i)))
	}
	return b
}

// containsRow reports whether rows contains row, per-element equal.
func containsRow(rows [][]int64, row []int64) bool {
	for _, r := range rows {
		if equalRow(r, row) {
			return true
		}
	}
	return false
}

// IsSuperset reports whether result contains every column of expected and
// every row of expected, as raw lists, order-insensitive.
func IsSuperset(result, expected ConcreteRelation) bool {
	for _, col := range expected.Columns {
		found := false
		for _, rc := range result.Columns {
			if rc == col {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, row := range expected.Values {
		if !containsRow(result.Values, row) {
			return false
		}
	}
	return true
}

// columnNames extracts the bare column name of each field, in order.
func columnNames(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Column
	}
	return out
}
