package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopulation_AddSeparatesCohortBands(t *testing.T) {
	sched := NewScheduler(10, 10, 20)
	p := NewPopulation(10, sched)

	n1 := p.Add(CohortNative)
	n2 := p.Add(CohortImmigrant)
	n3 := p.Add(CohortNative)

	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n3, "second native actor claims the slot just above the native band, displacing the immigrant to the new top slot")
	assert.Equal(t, 2, n2, "the immigrant was first placed in slot 2, before the second native actor displaced it")
	assert.Equal(t, 2, p.NativeCount())
	assert.Equal(t, 1, p.ImmigrantCount())
	assert.Equal(t, 3, p.Len())

	lo, hi := p.CohortRange(CohortNative)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 2, hi)
	lo, hi = p.CohortRange(CohortImmigrant)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 3, hi)
}

func TestPopulation_RemoveCompactsWithoutGaps(t *testing.T) {
	sched := NewScheduler(10, 10, 20)
	p := NewPopulation(10, sched)

	a := p.Add(CohortNative)
	b := p.Add(CohortNative)
	c := p.Add(CohortImmigrant)
	d := p.Add(CohortImmigrant)

	p.Get(a).Sex = 9 // mark so we can tell which record survives

	p.Remove(b)

	assert.Equal(t, 1, p.NativeCount())
	assert.Equal(t, 2, p.ImmigrantCount())
	assert.Equal(t, 3, p.Len(), "top shrinks by exactly one, no gap left behind")
	assert.Equal(t, 9, p.Get(a).Sex)

	_ = c
	_ = d
}

func TestPopulation_RemoveRelocatesScheduledEvent(t *testing.T) {
	sched := NewScheduler(10, 10, 20)
	p := NewPopulation(10, sched)

	a := p.Add(CohortNative)
	b := p.Add(CohortNative)

	p.Get(a).Pending = EventDeath
	sched.Schedule(a, 5.0)
	p.Get(b).Pending = EventDeath
	sched.Schedule(b, 7.0)

	p.Remove(a)

	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 1, sched.Pending(), "removing actor a must cancel only its own event, leaving b's intact")
	assert.Equal(t, 7.0, func() float64 {
		// b was relocated down into slot 1; Next should still fire at its own time.
		return sched.times[1]
	}())
}
