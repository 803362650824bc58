package reaper

import "github.com/bits-and-blooms/bitset"

// RowBitVector marks which rows of a relation's candidate output a
// predicate (or a whole concrete query, evaluated with True in every hole)
// keeps. Bit i is set iff row i survives.
type RowBitVector struct {
	bits   *bitset.BitSet
	length uint
}

// NewRowBitVector allocates a zeroed bitvector of the given row count.
func NewRowBitVector(length int) *RowBitVector {
	return &RowBitVector{bits: bitset.New(uint(length)), length: uint(length)}
}

// Set marks row i as surviving.
func (v *RowBitVector) Set(i int) {
	v.bits.Set(uint(i))
}

// Test reports whether row i survives.
func (v *RowBitVector) Test(i int) bool {
	return v.bits.Test(uint(i))
}

// Len returns the number of rows this bitvector covers.
func (v *RowBitVector) Len() int {
	return int(v.length)
}

// Key returns a canonical, comparable string identity for the bitvector,
// used to bucket predicates and queries by observational equivalence
// without hashing the relation contents themselves.
func (v *RowBitVector) Key() string {
	b := make([]byte, v.length)
	for i := uint(0); i < v.length; i++ {
		if v.bits.Test(i) {
			b[i] = 1
		}
	}
	return string(b)
}

// Equal reports whether v and other mark exactly the same rows.
func (v *RowBitVector) Equal(other *RowBitVector) bool {
	return v.length == other.length && v.bits.Equal(other.bits)
}

// And returns the bitwise AND of v and other, used by BVDFS to combine a
// hole's predicate bitvector with the bitvector of the rows beneath it.
func (v *RowBitVector) And(other *RowBitVector) *RowBitVector {
	return &RowBitVector{bits: v.bits.Intersection(other.bits), length: v.length}
}

// CrossProduct builds the bitvector of a u×v cross-join: row i*len(v)+j of
// the product survives iff row i of u and row j of v both survive. Used for
// both Join and Concat, since Concat is rendered as a genuine Cartesian
// product of its two operands' rows.
func CrossProduct(u, v *RowBitVector) *RowBitVector {
	out := NewRowBitVector(u.Len() * v.Len())
	for i := 0; i < u.Len(); i++ {
		if !u.Test(i) {
			continue
		}
		for j := 0; j < v.Len(); j++ {
			if v.Test(j) {
				out.Set(i*v.Len() + j)
			}
		}
	}
	return out
}
