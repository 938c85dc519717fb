package sim

// scheduleBirthGen arms the birth pseudo-actor's first firing. It never
// holds a domain State and is never counted in Counters.
func scheduleBirthGen(s *Simulation, n int) {
	a := s.actorFor(n)
	a.Pending = EventBirthGen
	a.T[CandBirth] = s.Now + 1.0/s.Config.BirthRateNative
	s.Sched.Schedule(n, a.T[CandBirth])
}

// scheduleImmigrateGen arms the immigration pseudo-actor's first firing.
func scheduleImmigrateGen(s *Simulation, n int) {
	a := s.actorFor(n)
	a.Pending = EventImmigrateGen
	a.T[CandBirth] = s.Now + 1.0/s.Config.ImmigrationRate
	s.Sched.Schedule(n, a.T[CandBirth])
}

// handleBirthGen fires the birth pseudo-actor: it allocates one new
// native-cohort actor at age 0 and reschedules itself one inter-birth
// interval, 1/BirthRateNative years, later.
func handleBirthGen(sim *Simulation, n int) {
	newborn(sim, CohortNative)

	a := sim.actorFor(n)
	te := sim.Now + 1.0/sim.Config.BirthRateNative
	a.T[CandBirth] = te
	a.Pending = EventBirthGen
	sim.Sched.Schedule(n, te)
}

// handleImmigrateGen fires the immigration pseudo-actor: it allocates
// one new immigrant-cohort actor and reschedules itself at the next
// inter-arrival interval.
func handleImmigrateGen(sim *Simulation, n int) {
	newborn(sim, CohortImmigrant)

	a := sim.actorFor(n)
	te := sim.Now + 1.0/sim.Config.ImmigrationRate
	a.T[CandBirth] = te
	a.Pending = EventImmigrateGen
	sim.Sched.Schedule(n, te)
}

// newborn allocates a fresh actor of the given cohort, assigns it a sex
// by a fair coin flip, puts it in the Uninfected state, and schedules
// its first competing candidates (natural death, emigration, and
// possibly vaccination) via initialSchedule, the entry point every live
// actor passes through exactly once.
func newborn(sim *Simulation, cohort Cohort) int {
	n := sim.Pop.Add(cohort)
	a := sim.Pop.Get(n)
	a.Cohort = cohort
	if sim.RNG.Float64() < 0.5 {
		a.Sex = 1
	}
	a.T[CandBirth] = sim.Now
	sim.setState(n, Uninfected)
	initialSchedule(sim, n)
	return n
}
