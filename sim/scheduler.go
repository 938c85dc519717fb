package sim

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// emptySlot marks a forward-index slot in the scheduler's bin lists as
// holding no event.
const emptySlot = -1

// defaultBinWidth is the span of simulated time represented by one full
// cycle through the bin ring, used when the caller does not pick a width.
const defaultBinWidth = 20.0

// Scheduler is a hashed-bucket calendar queue: event n's scheduled time
// selects a bin modulo the bin ring's width, and that bin's entries are
// kept as a singly linked list until the bin itself is dispatched, at
// which point it is sorted. Scheduling and cancelling cost O(1) on
// average; the only sort work happens lazily, once per bin, right before
// its entries are handed to the caller.
//
// Event numbers are caller-assigned slot indexes starting at 1; index 0 is
// never a valid event. This lets a population register reuse the same
// slot index as both the actor's array position and its scheduler handle.
type Scheduler struct {
	times []float64 // scheduled time for event n
	links []int     // forward index within n's bin, emptySlot if unscheduled
	bins  []int     // head index for each bin, 0 if empty

	binCount  int
	binWidth  float64
	cursor    int  // index of the current (soonest) bin
	sorted    bool // true if the current bin is already in time order
	pending   int  // total number of scheduled events

	cycleStart float64 // earliest time representable in the current cycle
	cycleEnd   float64 // earliest time beyond the current cycle
	now        float64 // time of the last dispatched event
}

// NewScheduler returns a Scheduler sized to hold up to capacity events
// (slot indexes 1..capacity), with its bin ring divided into binCount
// bins spanning binWidth units of simulated time per cycle. A binCount
// close to capacity, so that each bin holds about one event on average, is
// the usual choice.
func NewScheduler(capacity, binCount int, binWidth float64) *Scheduler {
	if binWidth <= 0 {
		binWidth = defaultBinWidth
	}
	if binCount <= 0 {
		binCount = capacity
	}
	s := &Scheduler{
		times:    make([]float64, capacity+1),
		links:    make([]int, capacity+1),
		bins:     make([]int, binCount),
		binCount: binCount,
		binWidth: binWidth,
		sorted:   true,
		cycleEnd: binWidth,
	}
	for i := range s.links {
		s.links[i] = emptySlot
	}
	return s
}

// Now returns the time of the most recently dispatched event.
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending returns the number of events currently scheduled.
func (s *Scheduler) Pending() int {
	return s.pending
}

// StartTime re-bases the bin ring so the first event will occur at or
// after t0. It must be called, if at all, before any event is scheduled,
// and saves the work of advancing bin-by-bin from time zero up to the
// actual start of the run. t0 is positioned in the middle of the first
// bin rather than at its edge, so a value computed elsewhere as
// 1959.9999999999 instead of 1960.0 due to floating-point rounding still
// lands in the same bin as 1960.0.
func (s *Scheduler) StartTime(t0 float64) {
	if s.pending != 0 {
		Fatalf(CodeEventInitNotEmpty, "attempt to initialize when the time bins are not empty")
	}
	s.cycleStart = t0 - (s.binWidth/float64(s.binCount))/2
	s.cycleEnd = s.cycleStart + s.binWidth
	s.now = t0
}

func (s *Scheduler) binOf(te float64) int {
	tr := (te - s.cycleStart) / s.binWidth
	tr -= math.Floor(tr)
	i := int(tr * float64(s.binCount))
	if i >= s.binCount {
		i = s.binCount - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Schedule adds event n, to occur at time te. n must not already be
// scheduled and te must not be in the past.
func (s *Scheduler) Schedule(n int, te float64) {
	if n < 1 || n >= len(s.links) {
		Fatalf(CodeEventIndexRange, "the event number is out of range", P("n", float64(n)))
	}
	if s.links[n] != emptySlot {
		Fatalf(CodeEventAlreadySched, "an event to be scheduled is already scheduled", P("n", float64(n)))
	}
	if te < s.now {
		Fatalf(CodeEventInPast, "a new event would be scheduled in the past", P("t", s.now), P("te", te))
	}

	s.times[n] = te

	i := s.binOf(te)
	if i == s.cursor {
		s.sorted = false
	}

	s.links[n] = s.bins[i]
	s.bins[i] = n
	s.pending++
}

// Cancel removes event n from the schedule.
func (s *Scheduler) Cancel(n int) {
	if n < 1 || n >= len(s.links) {
		Fatalf(CodeEventIndexRange, "the event number is out of range", P("n", float64(n)))
	}
	if s.links[n] == emptySlot {
		Fatalf(CodeEventNotSched, "an event to be cancelled is not yet scheduled", P("n", float64(n)))
	}

	i := s.binOf(s.times[n])
	if s.cancelFromBin(n, i) {
		return
	}

	// Floating-point rounding can place an event one bin away from where
	// its time alone would predict; check both neighbors before giving up.
	below := (i - 1 + s.binCount) % s.binCount
	if s.cancelFromBin(n, below) {
		return
	}
	above := (i + 1) % s.binCount
	if s.cancelFromBin(n, above) {
		return
	}

	Fatalf(CodeEventNotFound, "an existing event cannot be found in the time bins", P("n", float64(n)))
}

func (s *Scheduler) cancelFromBin(n, i int) bool {
	prev := 0
	for j := s.bins[i]; j > 0; prev, j = j, s.links[j] {
		if j == n {
			if prev > 0 {
				s.links[prev] = s.links[j]
			} else {
				s.bins[i] = s.links[j]
			}
			s.links[j] = emptySlot
			s.pending--
			if s.pending < 0 {
				Fatalf(CodeEventNegCounter, "the event counter has fallen negative", P("n", float64(n)), P("bin", float64(i)))
			}
			return true
		}
	}
	return false
}

// Renumber moves the event scheduled for slot m onto slot n, which must
// not currently have an event scheduled. This lets a population register
// compact a freed slot by relocating the actor previously at the highest
// in-use index, without disturbing that actor's pending event.
func (s *Scheduler) Renumber(n, m int) {
	if n < 1 || n >= len(s.links) {
		Fatalf(CodeEventIndexRange, "the event number is out of range", P("n", float64(n)))
	}
	if m < 1 || m >= len(s.links) {
		Fatalf(CodeEventIndexRange, "the event number is out of range", P("m", float64(m)))
	}
	if n == m {
		return
	}
	te := s.times[m]
	s.Cancel(m)
	s.Schedule(n, te)
}

// Next dispatches and returns the number of the earliest scheduled event,
// advancing Now to its time. It returns 0 if no events remain.
func (s *Scheduler) Next() int {
	for s.pending > 0 {
		for ; s.cursor < s.binCount; s.sorted, s.cursor = false, s.cursor+1 {
			j := s.bins[s.cursor]
			if j == 0 {
				continue
			}

			if !s.sorted {
				j = SortList(s.links, j, 0, s.scheduleOrder)
				s.bins[s.cursor] = j
				s.sorted = true
			}

			if s.times[j] < s.cycleEnd {
				if s.links[j] == emptySlot {
					Fatalf(CodeEventBrokenLink, "the event list has a broken link")
				}
				s.bins[s.cursor] = s.links[j]
				s.links[j] = emptySlot
				s.pending--
				s.now = s.times[j]
				return j
			}
		}

		s.cursor = 0
		s.cycleStart += s.binWidth
		s.cycleEnd = s.cycleStart + s.binWidth
	}
	return 0
}

func (s *Scheduler) scheduleOrder(p, q int) int {
	w := s.times[p] - s.times[q]
	switch {
	case w < 0:
		return -1
	case w > 0:
		return 1
	default:
		return 0
	}
}

// BinProfile reports, for each bin occupancy count from 0 up to the
// largest bin actually seen, the number of bins with that many pending
// events. It is a diagnostic: with events landing in bins independently
// at random, occupancy should follow a Poisson distribution with mean
// equal to the load factor (pending events per bin), and a badly skewed
// profile usually means the bin count or width needs tuning.
func (s *Scheduler) BinProfile() []int {
	var profile []int
	for i := 0; i < s.binCount; i++ {
		n := 0
		for j := s.bins[i]; j > 0; j = s.links[j] {
			n++
		}
		for len(profile) <= n {
			profile = append(profile, 0)
		}
		profile[n]++
	}
	return profile
}

// LoadFactor returns the mean number of pending events per bin, the
// lambda parameter of the Poisson distribution BinProfile is compared
// against.
func (s *Scheduler) LoadFactor() float64 {
	return float64(s.pending) / float64(s.binCount)
}

// PoissonFitStatistic returns a chi-square statistic comparing the
// current bin occupancy profile against the Poisson(LoadFactor)
// distribution it should follow when events hash into bins uniformly
// at random. Large values indicate the bin count or width needs
// tuning; this is a diagnostic, not an invariant the scheduler enforces.
func (s *Scheduler) PoissonFitStatistic() float64 {
	profile := s.BinProfile()
	if len(profile) == 0 || s.binCount == 0 {
		return 0
	}
	lambda := s.LoadFactor()
	if lambda <= 0 {
		return 0
	}
	pois := distuv.Poisson{Lambda: lambda}
	obs := make([]float64, len(profile))
	exp := make([]float64, len(profile))
	for k, n := range profile {
		obs[k] = float64(n)
		e := pois.Prob(float64(k)) * float64(s.binCount)
		if e <= 0 {
			e = 1e-9 // avoid a zero-expectation term blowing up ChiSquare
		}
		exp[k] = e
	}
	return stat.ChiSquare(obs, exp)
}
