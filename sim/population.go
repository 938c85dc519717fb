package sim

// Population is a compact-array register of live actors. Slot 0 is never
// used, so a slot index doubles as a Scheduler event number. Slots
// 1..nativeTop hold the native cohort; nativeTop+1..top hold the
// immigrant cohort. Removing an actor from the middle of either band
// would leave a hole, so Remove instead copies the last actor in the
// same cohort's band down into the freed slot and tells the Scheduler to
// relabel that actor's pending event — the register never has gaps.
type Population struct {
	actors []Actor
	sched  *Scheduler

	nativeTop int // highest in-use slot in the native cohort's band
	top       int // highest in-use slot overall
}

// NewPopulation returns a Population with room for up to capacity actors,
// dispatching scheduled events through sched.
func NewPopulation(capacity int, sched *Scheduler) *Population {
	return &Population{
		actors: make([]Actor, capacity+1),
		sched:  sched,
	}
}

// Len returns the number of live actors.
func (p *Population) Len() int {
	return p.top
}

// Get returns a pointer to actor n's record. Callers mutate it in place;
// Population never copies an Actor except during Remove's compaction.
func (p *Population) Get(n int) *Actor {
	if n < 1 || n > p.top {
		Fatalf(CodeIndexRange, "actor index out of range", P("n", float64(n)))
	}
	return &p.actors[n]
}

// Add allocates a new slot for an actor of the given cohort and returns
// its index. Native-cohort actors are inserted at the top of the native
// band, pushing the boundary up; immigrant actors are simply appended.
func (p *Population) Add(cohort Cohort) int {
	if p.top+1 >= len(p.actors) {
		Fatalf(CodePopCountBad, "population register is full", P("capacity", float64(len(p.actors)-1)))
	}

	if cohort == CohortNative {
		// Move whatever immigrant actor currently occupies the slot just
		// above the native band out to the new top slot, then claim the
		// vacated slot for the native newcomer.
		p.top++
		if p.nativeTop+1 != p.top {
			p.relocate(p.top, p.nativeTop+1)
		}
		p.nativeTop++
		n := p.nativeTop
		p.actors[n] = Actor{}
		return n
	}

	p.top++
	n := p.top
	p.actors[n] = Actor{}
	return n
}

// Remove deletes actor n, cancelling its pending scheduled event if any,
// and compacts the register by relocating the last actor of the same
// cohort's band into the freed slot.
func (p *Population) Remove(n int) {
	if n < 1 || n > p.top {
		Fatalf(CodeIndexRange, "actor index out of range", P("n", float64(n)))
	}
	if p.actors[n].Pending != 0 {
		p.sched.Cancel(n)
	}

	if n <= p.nativeTop {
		last := p.nativeTop
		if n != last {
			p.relocate(n, last)
		}
		p.nativeTop--
		if last != p.top {
			p.relocate(last, p.top)
		}
		p.top--
		return
	}

	last := p.top
	if n != last {
		p.relocate(n, last)
	}
	p.top--
}

// relocate copies actor src's record into slot dst and tells the
// Scheduler to relabel src's pending event (if any) as belonging to dst.
// It is the Go counterpart of the original simulator's renumber-on-
// removal compaction.
func (p *Population) relocate(dst, src int) {
	p.actors[dst] = p.actors[src]
	if p.actors[dst].Pending != 0 {
		p.sched.Renumber(dst, src)
	}
}

// NativeCount returns the number of live actors in the native cohort.
func (p *Population) NativeCount() int {
	return p.nativeTop
}

// ImmigrantCount returns the number of live actors in the immigrant cohort.
func (p *Population) ImmigrantCount() int {
	return p.top - p.nativeTop
}

// CohortRange returns the inclusive slot bounds [lo, hi] of cohort c's
// band, or (0, 0) if the band is currently empty.
func (p *Population) CohortRange(c Cohort) (int, int) {
	switch c {
	case CohortNative:
		if p.nativeTop == 0 {
			return 0, 0
		}
		return 1, p.nativeTop
	default:
		if p.top == p.nativeTop {
			return 0, 0
		}
		return p.nativeTop + 1, p.top
	}
}
