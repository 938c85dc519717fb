package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_ScheduleAndNextOrdersByTime(t *testing.T) {
	s := NewScheduler(8, 8, 20)
	s.Schedule(1, 5.0)
	s.Schedule(2, 1.0)
	s.Schedule(3, 3.0)

	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 3, s.Next())
	assert.Equal(t, 1, s.Next())
	assert.Equal(t, 0, s.Next())
}

func TestScheduler_NowAdvancesWithDispatch(t *testing.T) {
	s := NewScheduler(4, 4, 20)
	s.Schedule(1, 2.5)
	s.Next()
	assert.Equal(t, 2.5, s.Now())
}

func TestScheduler_CancelRemovesEvent(t *testing.T) {
	s := NewScheduler(4, 4, 20)
	s.Schedule(1, 1.0)
	s.Schedule(2, 2.0)
	s.Cancel(1)

	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 0, s.Next())
}

func TestScheduler_RenumberPreservesTime(t *testing.T) {
	s := NewScheduler(8, 8, 20)
	s.Schedule(5, 4.0)
	s.Renumber(2, 5)

	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 4.0, s.Now())
}

func TestScheduler_PendingTracksCount(t *testing.T) {
	s := NewScheduler(8, 8, 20)
	assert.Equal(t, 0, s.Pending())
	s.Schedule(1, 1.0)
	s.Schedule(2, 2.0)
	assert.Equal(t, 2, s.Pending())
	s.Next()
	assert.Equal(t, 1, s.Pending())
}

func TestScheduler_SpansMultipleCycles(t *testing.T) {
	s := NewScheduler(4, 4, 5)
	s.Schedule(1, 100.0)
	s.Schedule(2, 1.0)

	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 1, s.Next())
}

func TestScheduler_RandomizedOrderMatchesSortedTimes(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const n = 500
	s := NewScheduler(n, n/4, 20)

	times := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		times[i] = rng.Float64() * 1000
		s.Schedule(i, times[i])
	}

	last := -1.0
	count := 0
	for {
		j := s.Next()
		if j == 0 {
			break
		}
		count++
		if times[j] < last {
			t.Fatalf("event %d dispatched out of order: %v < %v", j, times[j], last)
		}
		last = times[j]
	}
	if count != n {
		t.Fatalf("dispatched %d events, want %d", count, n)
	}
}

func TestScheduler_BinProfileAndLoadFactor(t *testing.T) {
	s := NewScheduler(100, 100, 20)
	for i := 1; i <= 100; i++ {
		s.Schedule(i, float64(i)/5)
	}
	assert.Equal(t, 1.0, s.LoadFactor())
	profile := s.BinProfile()
	total := 0
	for n, count := range profile {
		total += n * count
	}
	assert.Equal(t, 100, total)
}

func TestScheduler_PoissonFitStatistic_LowForUniformHashing(t *testing.T) {
	s := NewScheduler(1000, 200, 20)
	rng := rand.New(rand.NewSource(1))
	for i := 1; i <= 1000; i++ {
		s.Schedule(i, rng.Float64()*20)
	}
	// Events land in bins independently at random here, so the chi-square
	// statistic against the Poisson(LoadFactor) profile should stay small;
	// this is a sanity bound, not a tight one, since it's still a draw.
	assert.Less(t, s.PoissonFitStatistic(), 400.0)
}

func TestScheduler_PoissonFitStatistic_ZeroWhenEmpty(t *testing.T) {
	s := NewScheduler(10, 10, 20)
	assert.Equal(t, 0.0, s.PoissonFitStatistic())
}

// Invariant violations (index out of range, double-scheduling, scheduling
// into the past) are reported through Fatalf, which exits the process per
// the "no retry, no partial progress" policy for fatal diagnostics — the
// same policy the teacher's own logrus.Fatalf call sites follow, and
// which is likewise not exercised directly in tests.
