package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildList builds a linked list over values[1:] (index 0 unused) in the
// given link order, returning the next-pointer slice and the head index.
func buildList(order []int) []int {
	next := make([]int, len(order)+1)
	for i := 0; i < len(order)-1; i++ {
		next[order[i]] = order[i+1]
	}
	return next
}

func toSlice(next []int, head int) []int {
	var out []int
	for p := head; p != 0; p = next[p] {
		out = append(out, p)
	}
	return out
}

func byValue(values []int) Order {
	return func(p, q int) int {
		return values[p] - values[q]
	}
}

func TestSortList_Empty(t *testing.T) {
	next := make([]int, 1)
	assert.Equal(t, 0, SortList(next, 0, 0, byValue(nil)))
}

func TestSortList_SingleElement(t *testing.T) {
	values := []int{0, 5}
	next := buildList([]int{1})
	head := SortList(next, 1, 1, byValue(values))
	assert.Equal(t, []int{1}, toSlice(next, head))
}

func TestSortList_TwoElementsAlreadyOrdered(t *testing.T) {
	values := []int{0, 1, 2}
	next := buildList([]int{1, 2})
	head := SortList(next, 1, 2, byValue(values))
	assert.Equal(t, []int{1, 2}, toSlice(next, head))
}

func TestSortList_TwoElementsReversed(t *testing.T) {
	values := []int{0, 2, 1}
	next := buildList([]int{1, 2})
	head := SortList(next, 1, 2, byValue(values))
	assert.Equal(t, []int{2, 1}, toSlice(next, head))
}

func TestSortList_UnknownCount(t *testing.T) {
	values := []int{0, 3, 1, 2}
	next := buildList([]int{1, 2, 3})
	head := SortList(next, 1, 0, byValue(values))
	assert.Equal(t, []int{2, 3, 1}, toSlice(next, head))
}

func TestSortList_StableOnEqualKeys(t *testing.T) {
	// Elements 1 and 2 carry equal keys; their relative order must survive.
	values := []int{0, 5, 5, 1}
	next := buildList([]int{1, 2, 3})
	head := SortList(next, 1, 3, byValue(values))
	assert.Equal(t, []int{3, 1, 2}, toSlice(next, head))
}

func TestSortList_RandomPermutationsSortCorrectly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(30)
		values := make([]int, n+1)
		order := make([]int, n)
		for i := 1; i <= n; i++ {
			values[i] = rng.Intn(50)
			order[i-1] = i
		}
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		next := buildList(order)
		head := SortList(next, order[0], n, byValue(values))
		got := toSlice(next, head)

		if len(got) != n {
			t.Fatalf("trial %d: sorted list has %d elements, want %d", trial, len(got), n)
		}
		for i := 1; i < len(got); i++ {
			if values[got[i-1]] > values[got[i]] {
				t.Fatalf("trial %d: list not sorted at position %d: %v", trial, i, got)
			}
		}
	}
}
