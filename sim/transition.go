package sim

import "math"

// epsilon is added to any candidate instant a distribution could sample
// as exactly the current clock, so "strictly greater than now" always
// holds without the caller needing to special-case a zero draw.
const epsilon = 1e-9

// ageOf returns actor n's age at the current simulated time, the
// difference between now and its recorded birth instant.
func ageOf(sim *Simulation, n int) float64 {
	return sim.Now - sim.Pop.Get(n).T[CandBirth]
}

func lifeSourceFor(sim *Simulation, sex int) LifespanSource {
	if sex == 1 {
		return sim.Config.LifeMale
	}
	return sim.Config.LifeFemale
}

func strictlyFuture(sim *Simulation, t float64) float64 {
	if t <= sim.Now {
		return sim.Now + epsilon
	}
	return t
}

// initialSchedule arms the three candidates every newly created,
// Uninfected actor starts with: natural death, emigration, and —
// depending on a coin flip against the configured coverage rate —
// routine vaccination shortly after birth. It is the entry point every
// live actor passes through exactly once, mirroring the source's
// pattern of seeding all of an actor's future candidates at creation.
func initialSchedule(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	a.T[CandDeath] = strictlyFuture(sim, sim.Now+lifeSourceFor(sim, a.Sex).Sample(sim.RNG, a.Sex, ageOf(sim, n)))
	a.T[CandEmigrate] = strictlyFuture(sim, sim.Now+sim.Config.Emigration.Sample(sim.RNG, a.Sex, a.Cohort))

	candidates := []Candidate{CandDeath, CandEmigrate}
	if sim.RNG.Float64() < sim.Config.VaccineCoverage {
		a.T[CandExit] = strictlyFuture(sim, sim.Now+sim.RNG.Uniform(0.05, 0.5))
		candidates = append(candidates, CandExit)
	}

	winner, t := Earliest(a.T, candidates)
	schedule(sim, n, winner, t)
}

// handleVaccinate moves an Uninfected actor to Immune. Vaccination is
// treated as fully protective while it remains in force; the actor then
// competes only Death against Emigrate for its next event, the same
// pair every post-vaccination handler in this file recomputes.
func handleVaccinate(sim *Simulation, n int) {
	sim.setState(n, Immune)
	scheduleDeathVsEmigrate(sim, n)
}

// scheduleDeathVsEmigrate is the common tail for states that compete no
// domain candidate beyond natural death and emigration (Immune, and any
// other terminal-risk-only state).
func scheduleDeathVsEmigrate(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	winner, t := Earliest(a.T, []Candidate{CandDeath, CandEmigrate})
	schedule(sim, n, winner, t)
}

// handleTransmit fires a pulmonary disease case's transmission event: it
// infects one target actor drawn from the population (favoring the
// source's own cohort with probability ProbSameCohort), then
// recomputes its own candidates and reschedules itself.
//
// Priority order on ties among the source's own candidates follows the
// source's Earliest(tab, subset) convention: Transmit, Death, Emigrate,
// Exit (recovery), Mutate, Report, in that order — the same candidate
// set and ordering the mutation handler reuses, since neither changes
// the actor's disease state.
var transmitPriority = []Candidate{CandTransmit, CandDeath, CandEmigrate, CandExit, CandMutate, CandReport}

func handleTransmit(sim *Simulation, n int) {
	infectTarget(sim, n)

	a := sim.Pop.Get(n)
	a.T[CandTransmit] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(transmissionRate(sim)))
	winner, t := Earliest(a.T, transmitPriority)
	schedule(sim, n, winner, t)
}

// transmissionRate is the per-case annual force of infection a pulmonary
// case exerts on the population: 4.0 per year, or 1.0 per year when
// ProbSameCohort is zero or negative. No Config field sets it directly.
func transmissionRate(sim *Simulation) float64 {
	if sim.Config.ProbSameCohort <= 0 {
		return 1.0
	}
	return 4.0
}

// infectTarget picks one actor to expose to infection, preferring the
// source's own cohort with probability ProbSameCohort, and — only if
// the target is currently Uninfected — moves it to RecentInf and
// reschedules it, preempting whatever Death/Emigrate candidate the
// target already held.
func infectTarget(sim *Simulation, source int) {
	target := pickTransmissionTarget(sim, source)
	if target == 0 || target == source {
		return
	}
	t := sim.Pop.Get(target)
	if t.State != Uninfected {
		return
	}
	sim.Sched.Cancel(target)
	sim.setState(target, RecentInf)
	armPostInfectionCandidates(sim, target)
}

// pickTransmissionTarget returns a live actor index other than source,
// drawn from source's own cohort with probability ProbSameCohort and
// from the whole population otherwise. Returns 0 if the chosen band
// holds no actor other than source.
func pickTransmissionTarget(sim *Simulation, source int) int {
	src := sim.Pop.Get(source)
	lo, hi := 1, sim.Pop.Len()
	if sim.RNG.Float64() < sim.Config.ProbSameCohort {
		lo, hi = sim.Pop.CohortRange(src.Cohort)
	}
	if hi <= lo {
		return 0
	}
	// Draw among the hi-lo slots other than source, then step over it.
	k := lo + int(sim.RNG.Float64()*float64(hi-lo))
	if k >= source {
		k++
	}
	return k
}

// armPostInfectionCandidates computes the two new candidates a freshly
// infected (RecentInf) actor gains, progression to disease and
// conversion to remote latency, and competes them against its existing
// death and emigration candidates.
func armPostInfectionCandidates(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	a.T[CandDisease] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(0.3))
	a.T[CandExit] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(0.2))
	winner, t := Earliest(a.T, []Candidate{CandDisease, CandExit, CandDeath, CandEmigrate})
	schedule(sim, n, winner, t)
}

// handleToRemote converts an actor out of whatever infected or disease
// state it held (RecentInf, Reinfection, or a recovering disease case)
// into RemoteInf — latent infection, no longer progressing or
// transmitting — and recomputes the reactivation-vs-death-vs-emigrate
// competition that state holds.
func handleToRemote(sim *Simulation, n int) {
	sim.setState(n, RemoteInf)

	a := sim.Pop.Get(n)
	a.T[CandDisease] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(0.02))
	winner, t := Earliest(a.T, []Candidate{CandDisease, CandDeath, CandEmigrate})
	schedule(sim, n, winner, t)
}

// handleDisease progresses an actor from RecentInf, RemoteInf, or
// Reinfection into one of the six active-disease states, drawing a
// pulmonary/non-pulmonary split, then arms the post-onset candidates.
//
// Unlike handleTransmit and handleMutate, this follows the source's
// other documented tie-breaking idiom: an explicit cascade of pairwise
// comparisons rather than a call through Earliest, because its tie
// order differs from transmitPriority and the disease-death instant is
// derived from, rather than competing independently against, the other
// candidates.
func handleDisease(sim *Simulation, n int) {
	prior := sim.Pop.Get(n).State
	pulmonary := sim.RNG.Float64() < 0.6

	var next State
	switch {
	case prior == RecentInf && pulmonary:
		next = Primary
	case prior == RecentInf:
		next = PrimaryNP
	case prior == RemoteInf && pulmonary:
		next = Reactivation
	case prior == RemoteInf:
		next = ReactivationNP
	case pulmonary:
		next = ReinfDisease
	default:
		next = ReinfDiseaseNP
	}
	sim.setState(n, next)

	a := sim.Pop.Get(n)
	a.T[CandExit] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(0.5))  // recovery to latent
	a.T[CandReport] = strictlyFuture(sim, sim.Now+sim.RNG.Uniform(0.02, 0.3))
	if pulmonary {
		a.T[CandTransmit] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(transmissionRate(sim)))
		a.T[CandMutate] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(0.1))
	}

	// e is the earliest of the "ordinary" competitors; the disease-death
	// guard places death just inside that horizon rather than letting it
	// compete on an independently drawn instant of its own. This is the
	// documented design choice carried over from the source rather than
	// re-derived: the source leaves its intent ambiguous and SPEC_FULL
	// keeps the same formula.
	e := a.T[CandExit]
	if a.T[CandReport] < e {
		e = a.T[CandReport]
	}
	if pulmonary {
		if a.T[CandTransmit] < e {
			e = a.T[CandTransmit]
		}
		if a.T[CandMutate] < e {
			e = a.T[CandMutate]
		}
	}
	if a.T[CandEmigrate] < e {
		e = a.T[CandEmigrate]
	}
	a.T[CandDeath] = sim.Now + 0.99*(e-sim.Now)

	// Inline priority cascade: report, then recovery, then mutation
	// (pulmonary only), then emigration, then death, then transmission —
	// the fixed order this handler documents for ties, spelled out as
	// explicit comparisons rather than a subset passed to Earliest.
	winner := CandReport
	w := a.T[CandReport]
	if a.T[CandExit] < w {
		winner, w = CandExit, a.T[CandExit]
	}
	if pulmonary && a.T[CandMutate] < w {
		winner, w = CandMutate, a.T[CandMutate]
	}
	if a.T[CandEmigrate] < w {
		winner, w = CandEmigrate, a.T[CandEmigrate]
	}
	if a.T[CandDeath] < w {
		winner, w = CandDeath, a.T[CandDeath]
	}
	if pulmonary && a.T[CandTransmit] < w {
		winner, w = CandTransmit, a.T[CandTransmit]
	}
	schedule(sim, n, winner, w)
}

// handleMutate records a strain mutation event on a pulmonary disease
// case and recomputes its candidates exactly as handleTransmit does,
// since mutation changes the actor's strain but not its disease state.
func handleMutate(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	a.Strain++
	a.T[CandMutate] = strictlyFuture(sim, sim.Now+sim.RNG.Expon(0.1))
	winner, t := Earliest(a.T, transmitPriority)
	schedule(sim, n, winner, t)
}

// handleDeath removes an actor permanently: its state counter is
// decremented and its slot is compacted via Population.Remove, which
// also cancels any stray scheduler entry — though none should remain,
// since Remove is only ever called from the handler that just won
// CandDeath's own dispatch.
func handleDeath(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	sim.Report.NotifyTerminal(sim.Now, a, "death")
	sim.decState(a.State)
	sim.Pop.Remove(n)
	sim.Report.deathsSince++
}

// handleEmigrate removes an actor permanently for the same reason as
// handleDeath, via the emigration candidate instead of the death one.
func handleEmigrate(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	sim.Report.NotifyTerminal(sim.Now, a, "emigration")
	sim.decState(a.State)
	sim.Pop.Remove(n)
	sim.Report.emigSince++
}

// handleReport records one notification through the Reporter and
// continues the actor's disease course: Report does not recur, so the
// remaining candidates (omitting Report) compete for the actor's next
// event the same way handleTransmit's do.
func handleReport(sim *Simulation, n int) {
	a := sim.Pop.Get(n)
	sim.Report.Notify(sim.Now, a)

	remaining := []Candidate{CandDeath, CandEmigrate, CandExit}
	if a.State.IsPulmonary() {
		remaining = append(remaining, CandTransmit, CandMutate)
	}
	a.T[CandReport] = math.Inf(1)
	winner, t := Earliest(a.T, remaining)
	schedule(sim, n, winner, t)
}
