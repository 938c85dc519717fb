package sim

// Order compares two sortable elements, returning a negative number if p
// sorts before q, zero if they are equal, and a positive number if p sorts
// after q.
type Order func(p, q int) int

// SortList performs a stable merge sort over a singly linked list encoded
// as a slice of forward indexes: next[i] is the index of the element
// following element i, with 0 marking the end of the list. next[0] is
// unused, matching the convention that 0 is never a valid element index.
//
// head is the index of the first element on entry, and n is the number of
// elements if known, or 0 to have SortList count them. SortList returns
// the index of the first element of the sorted list; no element is moved,
// only the forward pointers change. The sort requires at most about
// n*log2(n) comparisons and takes advantage of any presequencing already
// present in the list, down to n-1 comparisons if the list arrives fully
// ordered.
func SortList(next []int, head, n int, order Order) int {
	s := &listSorter{next: next, order: order}
	return s.sort(head, n)
}

type listSorter struct {
	next               []int
	order              Order
	pcurr, pprev, count int
}

func (s *listSorter) sort(p, n int) int {
	if n == 0 {
		for i := p; i != 0; i = s.next[i] {
			n++
		}
	}
	if n == 0 || p == 0 {
		return 0
	}
	if n == 1 {
		return p
	}
	if n == 2 {
		if s.order(p, s.next[p]) <= 0 {
			return p
		}
		i := s.next[p]
		s.next[i] = p
		s.next[p] = 0
		return i
	}

	s.pcurr = p
	return s.isort(n)
}

// isort sorts at least n elements starting at s.pcurr, recursively
// dividing the remainder in half and merging the two sorted halves. It
// sets s.count to the number of elements actually sorted (which may
// exceed n, when a longer run was already in order) and leaves s.pcurr
// indexing the element following the last one sorted, or 0 if the whole
// list has been consumed.
func (s *listSorter) isort(n int) int {
	if n <= 1 {
		if s.pcurr == 0 {
			return 0
		}
		wp1 := s.pcurr
		s.count = 0

		for {
			s.pprev = s.pcurr
			s.count++
			s.pcurr = s.next[s.pcurr]
			if s.pcurr == 0 {
				return wp1
			}
			if s.order(s.pprev, s.pcurr) > 0 {
				break
			}
		}

		s.next[s.pprev] = 0
		return wp1
	}

	wp1 := s.isort(n / 2)
	if n <= s.count {
		return wp1
	}
	count1 := s.count

	wp2 := s.isort(n - s.count)
	s.count += count1
	return s.imerge(wp1, wp2)
}

// imerge merges two already-sorted lists headed at p (primary) and q
// (secondary) into one sorted list. When the same key appears in both
// lists, the primary list's elements are merged first, preserving
// stability.
func (s *listSorter) imerge(p, q int) int {
	if p == 0 {
		return q
	}
	if q == 0 {
		return p
	}

	pbeg := p
	primaryFirst := s.order(p, q) <= 0
	if !primaryFirst {
		pbeg = q
	}

	for {
		if primaryFirst {
			// Scan the primary list for an element greater than the
			// current secondary element, mending the primary list.
			for {
				s.pprev = p
				p = s.next[p]
				if p == 0 {
					s.next[s.pprev] = q
					return pbeg
				}
				if s.order(p, q) > 0 {
					break
				}
			}
			s.next[s.pprev] = q
			primaryFirst = false
			continue
		}

		// Scan the secondary list for an element greater than or equal
		// to the current primary element, mending the secondary list.
		for {
			s.pprev = q
			q = s.next[q]
			if q == 0 {
				s.next[s.pprev] = p
				return pbeg
			}
			if s.order(p, q) <= 0 {
				break
			}
		}
		s.next[s.pprev] = p
		primaryFirst = true
	}
}
