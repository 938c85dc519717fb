package sim

// State identifies an actor's current disease/compartment state. The
// eleven values form a closed set: every live actor occupies exactly one
// of them at all times, and the Simulation's state counters track the
// population partitioned by state.
type State int

const (
	Uninfected State = iota + 1 // qU: never infected
	Immune                      // qV: successfully vaccinated
	RecentInf                   // qI1: infection acquired within the last few years
	RemoteInf                   // qI2: infection acquired long ago, currently latent
	Reinfection                 // qI3: reinfected after having been in RemoteInf
	Primary                     // qD1: primary pulmonary disease
	Reactivation                // qD2: reactivation pulmonary disease
	ReinfDisease                // qD3: reinfection pulmonary disease
	PrimaryNP                   // qD4: primary non-pulmonary disease
	ReactivationNP              // qD5: reactivation non-pulmonary disease
	ReinfDiseaseNP              // qD6: reinfection non-pulmonary disease
)

// NumStates is one more than the largest State value; counters are
// indexed 0..NumStates-1 so State can be used directly as an index
// (index 0 is unused).
const NumStates = int(ReinfDiseaseNP) + 1

func (s State) String() string {
	switch s {
	case Uninfected:
		return "Uninfected"
	case Immune:
		return "Immune"
	case RecentInf:
		return "RecentInfection"
	case RemoteInf:
		return "RemoteInfection"
	case Reinfection:
		return "Reinfection"
	case Primary:
		return "Primary"
	case Reactivation:
		return "Reactivation"
	case ReinfDisease:
		return "ReinfectionDisease"
	case PrimaryNP:
		return "PrimaryNonPulmonary"
	case ReactivationNP:
		return "ReactivationNonPulmonary"
	case ReinfDiseaseNP:
		return "ReinfectionDiseaseNonPulmonary"
	default:
		return "Unknown"
	}
}

// IsDisease reports whether s is one of the six active-disease states,
// pulmonary or not.
func (s State) IsDisease() bool {
	return s >= Primary && s <= ReinfDiseaseNP
}

// IsPulmonary reports whether a disease state is the pulmonary (smear-
// eligible, transmitting) variant rather than the non-pulmonary dual.
func (s State) IsPulmonary() bool {
	return s >= Primary && s <= ReinfDisease
}

// Candidate names one of the eight future instants an actor holds at all
// times. At most one candidate is actually present in the scheduler at
// any moment; the rest are speculative values a handler remembers so it
// can recompute the earliest without touching the others.
type Candidate int

const (
	CandBirth     Candidate = iota // time this record was created
	CandExit                       // time of transition out of the current latent state
	CandDeath                      // time of natural or disease death
	CandDisease                    // time of progression to active disease
	CandTransmit                   // time this actor next transmits infection
	CandMutate                     // time of strain mutation
	CandEmigrate                   // time of emigration
	CandReport                     // time this disease case is reported
)

// NumCandidates is the width of an actor's candidate-instant tuple.
const NumCandidates = int(CandReport) + 1

// EventKind tags which candidate is the one actually scheduled for an
// actor, so the scheduler's dispatch loop knows which handler to invoke
// without re-deriving it from state.
type EventKind int

const (
	EventVaccinate EventKind = iota + 1
	EventTransmit
	EventToRemote
	EventDisease
	EventDeath
	EventMutate
	EventEmigrate
	EventBirthGen
	EventImmigrateGen
	EventReport
)

// Cohort partitions the population register's index space into two
// contiguous bands. Transmission's close-contact selection and an
// actor's destruction both operate within a single cohort.
type Cohort int

const (
	CohortImmigrant Cohort = iota // born outside the study population
	CohortNative                  // born inside the study population
)

// Actor is one individual's record in the population register. Its
// candidate instants are recomputed in place by transition handlers;
// Pending names which one is currently the actor's single entry in the
// Scheduler.
type Actor struct {
	T       [NumCandidates]float64
	Pending EventKind
	State   State
	Sex     int    // 0 = female, 1 = male
	Cohort  Cohort
	SubCohort int // e.g. a co-infection or risk-group marker
	Strain  int
}

// Earliest returns the candidate in subset (in priority order — ties
// favor whichever candidate is listed first) whose time in a.T is
// smallest, together with that candidate's time. subset must be
// non-empty. This mirrors the fixed priority ordering each transition
// handler documents for its own competing candidates.
func Earliest(t [NumCandidates]float64, subset []Candidate) (Candidate, float64) {
	best := subset[0]
	bestTime := t[best]
	for _, c := range subset[1:] {
		if t[c] < bestTime {
			best = c
			bestTime = t[c]
		}
	}
	return best, bestTime
}

// candidateToKind maps a winning candidate to the EventKind recorded in
// Actor.Pending once it is scheduled. CandExit is the one ambiguous slot:
// the same instant means "becomes due for vaccination" while the actor
// is still Uninfected, and "exits the current latent/infected state"
// afterward, so its kind depends on the actor's State and is resolved by
// kindFor rather than this table. CandBirth never reaches the scheduler
// directly (birth is only ever the effect of the generators' own
// pending kind) and is likewise excluded.
var candidateToKind = map[Candidate]EventKind{
	CandTransmit: EventTransmit,
	CandDisease:  EventDisease,
	CandDeath:    EventDeath,
	CandMutate:   EventMutate,
	CandEmigrate: EventEmigrate,
	CandReport:   EventReport,
}

// kindFor resolves the EventKind a winning candidate should schedule as,
// given the actor's current state. Only CandExit is state-dependent.
func kindFor(a *Actor, c Candidate) EventKind {
	if c == CandExit {
		if a.State == Uninfected {
			return EventVaccinate
		}
		return EventToRemote
	}
	kind, ok := candidateToKind[c]
	if !ok {
		Fatalf(CodeBadSwitch, "candidate has no corresponding event kind", P("candidate", float64(c)))
	}
	return kind
}
