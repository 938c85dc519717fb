package sim

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tbsim/tbsim/sim/eventlog"
	"github.com/tbsim/tbsim/sim/store"
)

func TestReporter_NotifyAggregatesByYearAgeSexCohort(t *testing.T) {
	sim := newTestSimulation(t)
	r := NewReporter(sim)

	a := &Actor{Sex: 1, Cohort: CohortNative}
	a.T[CandBirth] = 1990
	r.Notify(2010, a) // age 20 -> ageClass 4

	agg := r.aggregate()
	assert.Len(t, agg, 1)
	for key, count := range agg {
		assert.Equal(t, [4]int{2010, 4, 1, int(CohortNative)}, key)
		assert.Equal(t, 1, count)
	}
}

func TestReporter_NotifyBucketsRepeatsIntoSameCell(t *testing.T) {
	sim := newTestSimulation(t)
	r := NewReporter(sim)

	a := &Actor{Sex: 0, Cohort: CohortImmigrant}
	a.T[CandBirth] = 2000
	r.Notify(2015, a)
	r.Notify(2015, a)

	agg := r.aggregate()
	assert.Len(t, agg, 1)
	for _, count := range agg {
		assert.Equal(t, 2, count)
	}
}

func TestReporter_PeriodicResetsDeathAndEmigrationCounters(t *testing.T) {
	sim := newTestSimulation(t)
	sim.Report.deathsSince = 3
	sim.Report.emigSince = 2

	sim.Report.Periodic()

	assert.Equal(t, 0, sim.Report.deathsSince)
	assert.Equal(t, 0, sim.Report.emigSince)
}

func TestReporter_NotifyWritesToEventLogWhenAttached(t *testing.T) {
	sim := newTestSimulation(t)
	r := NewReporter(sim)

	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := eventlog.NewWriter(path)
	assert.NoError(t, err)
	r.EventLog = w

	a := &Actor{Sex: 1, Cohort: CohortNative}
	a.T[CandBirth] = 1990
	r.Notify(2010, a)
	r.NotifyTerminal(2011, a, "death")
	assert.NoError(t, w.Close())

	reader, err := eventlog.NewReader(path)
	assert.NoError(t, err)
	defer reader.Close()
	events, err := reader.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "notification", events[0].Kind)
	assert.Equal(t, "death", events[1].Kind)
}

func TestReporter_FinalWritesAggregateToStoreWhenAttached(t *testing.T) {
	sim := newTestSimulation(t)
	r := NewReporter(sim)
	r.RunID = "test-run"

	dbPath := filepath.Join(t.TempDir(), "out.db")
	st, err := store.Open(dbPath)
	assert.NoError(t, err)
	r.Store = st

	a := &Actor{Sex: 0, Cohort: CohortImmigrant}
	a.T[CandBirth] = 2000
	r.Notify(2015, a)

	r.Final()
	assert.NoError(t, st.Close())

	db, err := sql.Open("sqlite3", dbPath)
	assert.NoError(t, err)
	defer db.Close()

	var count int
	assert.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE run_id = ?`, "test-run").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNewReporter_UsesInjectedStartTimeMarker(t *testing.T) {
	fixed := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	old := startTimeMarker
	startTimeMarker = func() time.Time { return fixed }
	defer func() { startTimeMarker = old }()

	sim := newTestSimulation(t)
	r := NewReporter(sim)
	assert.Equal(t, fixed, r.startWallClock)
}
