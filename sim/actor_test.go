package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_IsDisease(t *testing.T) {
	assert.False(t, Uninfected.IsDisease())
	assert.False(t, RemoteInf.IsDisease())
	assert.True(t, Primary.IsDisease())
	assert.True(t, ReinfDiseaseNP.IsDisease())
}

func TestState_IsPulmonary(t *testing.T) {
	assert.True(t, Primary.IsPulmonary())
	assert.True(t, ReinfDisease.IsPulmonary())
	assert.False(t, PrimaryNP.IsPulmonary())
	assert.False(t, Uninfected.IsPulmonary())
}

func TestState_String_CoversEveryValue(t *testing.T) {
	for s := Uninfected; s <= ReinfDiseaseNP; s++ {
		assert.NotEqual(t, "Unknown", s.String())
	}
	assert.Equal(t, "Unknown", State(0).String())
}

func TestEarliest_PicksSmallestInSubsetOrder(t *testing.T) {
	var times [NumCandidates]float64
	times[CandDeath] = 10
	times[CandEmigrate] = 5
	times[CandExit] = 5

	c, when := Earliest(times, []Candidate{CandExit, CandEmigrate, CandDeath})
	assert.Equal(t, CandExit, c, "ties favor the candidate listed first")
	assert.Equal(t, 5.0, when)
}

func TestKindFor_ExitIsVaccinateWhileUninfected(t *testing.T) {
	a := &Actor{State: Uninfected}
	assert.Equal(t, EventVaccinate, kindFor(a, CandExit))
}

func TestKindFor_ExitIsToRemoteOnceInfected(t *testing.T) {
	a := &Actor{State: RemoteInf}
	assert.Equal(t, EventToRemote, kindFor(a, CandExit))

	a.State = Primary
	assert.Equal(t, EventToRemote, kindFor(a, CandExit))
}

func TestKindFor_OrdinaryCandidatesAreStateIndependent(t *testing.T) {
	a := &Actor{State: Uninfected}
	assert.Equal(t, EventDeath, kindFor(a, CandDeath))
	assert.Equal(t, EventTransmit, kindFor(a, CandTransmit))
	assert.Equal(t, EventMutate, kindFor(a, CandMutate))
	assert.Equal(t, EventEmigrate, kindFor(a, CandEmigrate))
	assert.Equal(t, EventReport, kindFor(a, CandReport))
	assert.Equal(t, EventDisease, kindFor(a, CandDisease))
}
