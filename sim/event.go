package sim

// Handler processes the event currently pending for actor n, mutating
// its record and/or the Population and rescheduling whatever candidate
// instant is now earliest. n's pending event has already been dequeued
// from the Scheduler by the time a Handler runs.
type Handler func(sim *Simulation, n int)

// dispatch maps an EventKind to the Handler invoked when the Scheduler
// hands back an actor whose Pending field carries that kind. It mirrors
// the original simulator's single dispatch switch, spelled out here as a
// table so new event kinds need only a new map entry.
var dispatch = map[EventKind]Handler{
	EventVaccinate:    handleVaccinate,
	EventTransmit:     handleTransmit,
	EventToRemote:     handleToRemote,
	EventDisease:      handleDisease,
	EventDeath:        handleDeath,
	EventMutate:       handleMutate,
	EventEmigrate:     handleEmigrate,
	EventBirthGen:     handleBirthGen,
	EventImmigrateGen: handleImmigrateGen,
	EventReport:       handleReport,
}

// Dispatch pops the next event from sim's Scheduler and runs its
// handler, returning false once the Scheduler is exhausted. It is fatal
// if the popped slot's Pending kind has no registered handler, since
// that can only mean a handler left Pending set to a stale or invalid
// value.
func Dispatch(sim *Simulation) bool {
	n := sim.Sched.Next()
	if n == 0 {
		return false
	}
	sim.Now = sim.Sched.Now()
	a := sim.actorFor(n)
	kind := a.Pending
	a.Pending = 0 // the scheduler entry this described has already been popped
	h, ok := dispatch[kind]
	if !ok {
		Fatalf(CodeBadSwitch, "no handler registered for the pending event kind", P("n", float64(n)), P("kind", float64(kind)))
	}
	h(sim, n)
	return true
}

// schedule records that candidate c is now actor n's pending event at
// time t, updating both the Actor record and the Scheduler. Handlers use
// this as their single exit point once Earliest has picked a winner.
func schedule(sim *Simulation, n int, c Candidate, t float64) {
	a := sim.actorFor(n)
	a.T[c] = t
	a.Pending = kindFor(a, c)
	sim.Sched.Schedule(n, t)
}
