package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExponentialLifespan_SamplesPositiveBySex(t *testing.T) {
	rng := NewRNG()
	rng.Start(1)
	src := ExponentialLifespan{RateFemale: 1.0 / 80, RateMale: 1.0 / 70}

	for i := 0; i < 50; i++ {
		assert.GreaterOrEqual(t, src.Sample(rng, 0, 0), 0.0)
		assert.GreaterOrEqual(t, src.Sample(rng, 1, 30), 0.0)
	}
}

func TestGompertzLifespan_NeverNegativeOrNaN(t *testing.T) {
	rng := NewRNG()
	rng.Start(7)
	src := GompertzLifespan{BaselineFemale: 0.0001, SlopeFemale: 0.1, BaselineMale: 0.0002, SlopeMale: 0.12}

	for i := 0; i < 200; i++ {
		r := src.Sample(rng, i%2, float64(i))
		assert.False(t, math.IsNaN(r))
		assert.False(t, math.IsInf(r, 0))
		assert.GreaterOrEqual(t, r, 0.0)
	}
}

func TestEmpiricalLifespan_RemainingNeverNegative(t *testing.T) {
	rng := NewRNG()
	rng.Start(3)
	table := RandTable{V: []float64{0, 40, 80, 100}, P: []float64{0, 0.5, 0.9, 1}}
	src := EmpiricalLifespan{Female: table, Male: table}

	for age := 0.0; age < 100; age += 10 {
		r := src.Sample(rng, 0, age)
		assert.GreaterOrEqual(t, r, 0.0)
	}
}

func TestEmigrationExponential_ZeroRateIsNeverDue(t *testing.T) {
	rng := NewRNG()
	rng.Start(5)
	src := EmigrationExponential{RateNative: 0, RateImmigrant: 1.0 / 40}
	assert.True(t, math.IsInf(src.Sample(rng, 0, CohortNative), 1))
	assert.False(t, math.IsInf(src.Sample(rng, 0, CohortImmigrant), 1))
}

func TestEmigrationEmpirical_AlwaysZero(t *testing.T) {
	rng := NewRNG()
	rng.Start(2)
	src := EmigrationEmpirical{Table: RandTable{V: []float64{0, 1}, P: []float64{0, 1}}}
	assert.Equal(t, 0.0, src.Sample(rng, 0, CohortNative))
	assert.Equal(t, 0.0, src.Sample(rng, 1, CohortImmigrant))
}
