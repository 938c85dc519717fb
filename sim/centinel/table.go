// Package centinel reads and writes the self-describing, '|'-delimited
// tabular text format used for the simulator's demographic and
// mortality input tables: mortality rates, immigration counts and age
// distributions, infection-state probabilities, smear-positive
// fractions, case-fatality ratios, and observed population sizes used
// for notification-rate correction.
package centinel

import "github.com/tbsim/tbsim/sim"

// Dim names one dimension of a multi-dimensional table by a single
// lowercase letter, matching the source's 'a'..'z' dimension labels.
type Dim byte

// Shape is the main-memory shape of a table: an ordered list of
// (label, size) pairs. The first dimension varies slowest.
type Shape []struct {
	Label Dim
	Size  int
}

// Table is a dense multi-dimensional numeric array together with the
// Shape that indexes it. Data is stored row-major in Values, flattened
// in the order Shape lists its dimensions.
type Table struct {
	Shape  Shape
	Values []float64
}

// NewTable allocates a zero-valued Table of the given shape.
func NewTable(shape Shape) *Table {
	n := 1
	for _, d := range shape {
		n *= d.Size
	}
	return &Table{Shape: shape, Values: make([]float64, n)}
}

// index computes the flat offset for a set of per-dimension indices,
// given in the same order as Shape.
func (t *Table) index(idx []int) int {
	if len(idx) != len(t.Shape) {
		sim.Fatalf(sim.CodeIndexRange, "index has the wrong number of dimensions")
	}
	off := 0
	for i, d := range t.Shape {
		if idx[i] < 0 || idx[i] >= d.Size {
			sim.Fatalf(sim.CodeIndexRange, "table index out of range")
		}
		off = off*d.Size + idx[i]
	}
	return off
}

// At returns the value at the given per-dimension indices.
func (t *Table) At(idx ...int) float64 {
	return t.Values[t.index(idx)]
}

// Set assigns the value at the given per-dimension indices.
func (t *Table) Set(v float64, idx ...int) {
	t.Values[t.index(idx)] = v
}

// DimSize returns the size of the dimension labelled by d, or 0 if the
// table has no such dimension.
func (t *Table) DimSize(d Dim) int {
	for _, s := range t.Shape {
		if s.Label == d {
			return s.Size
		}
	}
	return 0
}
