package sim

import "math"

// LifespanSource samples a remaining-years-to-natural-death for an actor
// of the given sex and current age. Implementations are selected at
// configuration time so the same transition handlers run unchanged
// whether mortality comes from a flat exponential hazard, an age-
// dependent Gompertz curve, or an empirical life table.
type LifespanSource interface {
	// Sample returns the number of simulated years remaining until
	// natural death for an individual of the given sex (0 female, 1
	// male) currently aged age years, drawing on rng.
	Sample(rng *RNG, sex int, age float64) float64
}

// ExponentialLifespan models natural death as a constant hazard rate
// independent of age, the simplest of the three sources.
type ExponentialLifespan struct {
	RateFemale float64
	RateMale   float64
}

func (e ExponentialLifespan) Sample(rng *RNG, sex int, age float64) float64 {
	rate := e.RateFemale
	if sex == 1 {
		rate = e.RateMale
	}
	return rng.Expon(rate)
}

// GompertzLifespan models mortality hazard growing exponentially with
// age, h(age) = baseline * exp(slope * age), inverted by sampling a
// uniform survival probability and solving for the remaining time.
type GompertzLifespan struct {
	BaselineFemale, SlopeFemale float64
	BaselineMale, SlopeMale     float64
}

func (g GompertzLifespan) Sample(rng *RNG, sex int, age float64) float64 {
	baseline, slope := g.BaselineFemale, g.SlopeFemale
	if sex == 1 {
		baseline, slope = g.BaselineMale, g.SlopeMale
	}
	u := rng.Float64()
	if u <= 0 {
		u = 1e-12
	}
	hazardAtAge := baseline * math.Exp(slope*age)
	remaining := math.Log(1-(slope/hazardAtAge)*math.Log(u)) / slope
	if remaining < 0 || math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		remaining = 0
	}
	return remaining
}

// RandTable pairs a strictly increasing value table with its matching
// cumulative-probability table, the shape RandF expects: V[0]<=...<=
// V[n-1], P[0]==0, P[n-1]==1.
type RandTable struct {
	V, P []float64
}

// EmpiricalLifespan draws a remaining lifespan from a tabulated inverse
// cumulative distribution of age-at-death, conditioned on having
// survived to the actor's current age, using RandF. Table is keyed by
// sex.
type EmpiricalLifespan struct {
	Female, Male RandTable
}

func (e EmpiricalLifespan) Sample(rng *RNG, sex int, age float64) float64 {
	table := e.Female
	if sex == 1 {
		table = e.Male
	}
	remaining := rng.RandF(table.V, table.P, age)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// EmigrationSource samples a time-to-emigration for an actor. Only the
// exponential variant is active; EmigrationEmpirical is carried forward
// from the source as a documented non-functional stub rather than
// silently dropped.
type EmigrationSource interface {
	Sample(rng *RNG, sex int, cohort Cohort) float64
}

// EmigrationExponential is the active emigration-time distribution: a
// constant per-cohort annual hazard.
type EmigrationExponential struct {
	RateNative    float64
	RateImmigrant float64
}

func (e EmigrationExponential) Sample(rng *RNG, sex int, cohort Cohort) float64 {
	rate := e.RateImmigrant
	if cohort == CohortNative {
		rate = e.RateNative
	}
	if rate <= 0 {
		return math.Inf(1)
	}
	return rng.Expon(rate)
}

// EmigrationEmpirical mirrors the source's second, table-driven
// emigration branch, which the original never wires up live and which
// always evaluates to zero. It is kept selectable for completeness but
// intentionally always returns 0 — do not infer an intended behavior
// beyond what the source actually does.
type EmigrationEmpirical struct {
	Table RandTable
}

func (e EmigrationEmpirical) Sample(rng *RNG, sex int, cohort Cohort) float64 {
	return 0
}
