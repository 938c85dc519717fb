package sim

import "github.com/sirupsen/logrus"

// pseudoActor indexes one of the two reserved pseudo-actor records held
// directly on Simulation, outside the Population register, that drive
// external arrivals rather than representing a simulated individual.
// They are created once at initialization and live for the whole run.
type pseudoActor int

const (
	pseudoBirthGen      pseudoActor = 1
	pseudoImmigrateGen  pseudoActor = 2
	numPseudoActors                 = 2
)

// Simulation is the top-level context a replicate run owns: the RNG,
// the scheduler, the population register, the live-state counters, and
// the configuration every handler consults. Passing this explicitly
// instead of relying on process-wide singletons lets a caller run
// several independent replicates in one process.
//
// The birth and immigration pseudo-actors are never added to Pop: they
// occupy two fixed Scheduler slots just above Pop's own capacity,
// reserved for the life of the run, so Pop.Len(), NativeCount(),
// ImmigrantCount(), and CohortRange() never see them and
// pickTransmissionTarget can never draw one as a transmission target.
type Simulation struct {
	RNG    *RNG
	Sched  *Scheduler
	Pop    *Population
	Config *Config

	Counters [NumStates]int

	birthSlot int                        // reserved Scheduler slot for the birth generator
	immSlot   int                        // reserved Scheduler slot for the immigration generator
	pseudo    [numPseudoActors + 1]Actor // indexed by pseudoBirthGen / pseudoImmigrateGen

	Report *Reporter

	Now        float64
	Horizon    float64
	dispatched int64
}

// NewSimulation constructs a Simulation sized and parameterized by cfg,
// seeds its RNG, and schedules the two external generators so the run
// is ready to dispatch from t0.
func NewSimulation(cfg *Config) *Simulation {
	rng := NewRNG()
	if cfg.RandSeq >= 0 {
		rng.Start(uint32(cfg.RandSeq))
	} else {
		rng.StartArbitrary(uint32(-cfg.RandSeq))
	}

	actorCapacity := cfg.MaxNative + cfg.MaxImmigrant
	capacity := actorCapacity + numPseudoActors
	sched := NewScheduler(capacity, capacity/4+1, cfg.BucketWidth)
	sched.StartTime(cfg.StartYear)

	s := &Simulation{
		RNG:       rng,
		Sched:     sched,
		Pop:       NewPopulation(actorCapacity, sched),
		Config:    cfg,
		Now:       cfg.StartYear,
		Horizon:   cfg.StartYear + cfg.DurationYears,
		birthSlot: actorCapacity + 1,
		immSlot:   actorCapacity + 2,
	}
	s.Report = NewReporter(s)

	scheduleBirthGen(s, s.birthSlot)
	scheduleImmigrateGen(s, s.immSlot)

	return s
}

// actorFor returns the Actor record occupying slot n, whether n names a
// live Population member or one of the two reserved pseudo-actor slots.
// Every lookup keyed by a Scheduler index goes through this rather than
// Pop.Get directly, since the pseudo-actors live outside Pop's array.
func (s *Simulation) actorFor(n int) *Actor {
	switch n {
	case s.birthSlot:
		return &s.pseudo[pseudoBirthGen]
	case s.immSlot:
		return &s.pseudo[pseudoImmigrateGen]
	default:
		return s.Pop.Get(n)
	}
}

// Run dispatches events until the scheduler is exhausted or Now reaches
// Horizon, emitting a periodic report every Config.ReportInterval
// simulated years. It returns the number of events dispatched.
func (s *Simulation) Run() int64 {
	nextReport := s.Now + s.Config.ReportInterval
	for {
		n := s.Sched.Next()
		if n == 0 {
			break
		}
		s.Now = s.Sched.Now()
		if s.Now >= s.Horizon {
			break
		}
		a := s.actorFor(n)
		kind := a.Pending
		a.Pending = 0 // the scheduler entry this described has already been popped
		h, ok := dispatch[kind]
		if !ok {
			Fatalf(CodeBadSwitch, "no handler registered for the pending event kind", P("n", float64(n)), P("kind", float64(kind)))
		}
		h(s, n)
		s.dispatched++

		if s.Now >= nextReport {
			s.Report.Periodic()
			nextReport += s.Config.ReportInterval
		}
	}
	logrus.Infof("simulation reached t=%.3f after %d dispatched events", s.Now, s.dispatched)
	return s.dispatched
}

// incState and decState keep Counters in lockstep with every actor's
// State field; every handler that changes an actor's state must call
// both around the assignment.
func (s *Simulation) incState(st State) {
	s.Counters[st]++
}

func (s *Simulation) decState(st State) {
	s.Counters[st]--
	if s.Counters[st] < 0 {
		Fatalf(CodeStateOutOfRange, "a state counter has fallen negative", P("state", float64(st)))
	}
}

// setState transitions actor n from its current state to next, keeping
// Counters consistent.
func (s *Simulation) setState(n int, next State) {
	a := s.Pop.Get(n)
	if a.State != 0 {
		s.decState(a.State)
	}
	a.State = next
	s.incState(next)
}
