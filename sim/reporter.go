package sim

import (
	"fmt"
	"time"

	"github.com/tbsim/tbsim/sim/eventlog"
	"github.com/tbsim/tbsim/sim/store"
)

// notification is one disease-case report, retained long enough to be
// aggregated by age-class, sex, cohort, and calendar year in the final
// summary.
type notification struct {
	year     int
	ageClass int
	sex      int
	cohort   Cohort
}

// Reporter accumulates the periodic and final statistics a run prints:
// live population counts by state (for the periodic status line) and
// every case notification (for the final age/sex/cohort/year
// aggregation and correction against an observed population table).
type Reporter struct {
	sim *Simulation

	notifications []notification
	deathsSince    int
	emigSince      int
	lastReportTime float64
	startWallClock time.Time

	// ObservedPopulation, if set, is used to scale raw notification
	// counts into per-100000 rates; it maps calendar year to the rate's
	// denominator population. No adjusted count is derived from it. Left
	// nil, the final summary reports raw counts only.
	ObservedPopulation map[int]float64

	// EventLog, if set, receives one JSON-lines entry per notification
	// and per terminal (death/emigration) event as it occurs. Left nil,
	// no per-event log is kept.
	EventLog *eventlog.Writer
	// Store, if set, receives the final aggregated notification table
	// and run summary once Final runs. Left nil, Final only prints.
	Store *store.Store
	// RunID identifies this run's rows in Store; ignored if Store is nil.
	RunID string
}

// NewReporter returns a Reporter bound to sim, ready to record from
// sim.Now onward.
func NewReporter(sim *Simulation) *Reporter {
	return &Reporter{sim: sim, startWallClock: startTimeMarker()}
}

// startTimeMarker exists only so tests can substitute a fixed instant;
// production code always wants the real wall clock.
var startTimeMarker = time.Now

// Notify records one disease-case notification at time t for actor a,
// bucketing its age into five-year classes the way the final summary
// aggregates them.
func (r *Reporter) Notify(t float64, a *Actor) {
	ageClass := int((t - a.T[CandBirth]) / 5)
	r.notifications = append(r.notifications, notification{
		year:     int(t),
		ageClass: ageClass,
		sex:      a.Sex,
		cohort:   a.Cohort,
	})
	r.logEvent(t, "notification", ageClass, a.Sex, int(a.Cohort))
}

// NotifyTerminal logs a death or emigration event to EventLog, if one is
// attached. It does not affect the age/sex/cohort/year aggregate, which
// only ever counts notifications.
func (r *Reporter) NotifyTerminal(t float64, a *Actor, kind string) {
	ageClass := int((t - a.T[CandBirth]) / 5)
	r.logEvent(t, kind, ageClass, a.Sex, int(a.Cohort))
}

func (r *Reporter) logEvent(t float64, kind string, ageClass, sex, cohort int) {
	if r.EventLog == nil {
		return
	}
	if err := r.EventLog.Write(eventlog.Event{
		Time: t, Kind: kind, AgeClass: ageClass, Sex: sex, Cohort: cohort,
	}); err != nil {
		Warnf(CodeIOInconsistent, fmt.Sprintf("event log write failed: %v", err))
	}
}

// Periodic prints one status line: the simulated instant, live
// population counts by cohort and state, deaths and emigrations since
// the previous report, and elapsed wall-clock time. It does not print a
// count of all events dispatched since the previous report.
func (r *Reporter) Periodic() {
	s := r.sim
	fmt.Printf("t=%.2f  native=%d immigrant=%d  U=%d V=%d I1=%d I2=%d I3=%d D=%d deaths=%d emigrations=%d elapsed=%s\n",
		s.Now, s.Pop.NativeCount(), s.Pop.ImmigrantCount(),
		s.Counters[Uninfected], s.Counters[Immune], s.Counters[RecentInf], s.Counters[RemoteInf], s.Counters[Reinfection],
		activeDiseaseCount(s), r.deathsSince, r.emigSince, time.Since(r.startWallClock).Round(time.Millisecond))
	r.deathsSince = 0
	r.emigSince = 0
	r.lastReportTime = s.Now
}

func activeDiseaseCount(s *Simulation) int {
	n := 0
	for st := Primary; st <= ReinfDiseaseNP; st++ {
		n += s.Counters[st]
	}
	return n
}

// aggregate buckets the full notification log by year, age class, sex,
// and cohort, counting raw notifications in each cell.
func (r *Reporter) aggregate() map[[4]int]int {
	out := make(map[[4]int]int)
	for _, n := range r.notifications {
		key := [4]int{n.year, n.ageClass, n.sex, int(n.cohort)}
		out[key]++
	}
	return out
}

// Final prints the end-of-run summary: total dispatched events, final
// live population, a coarse memory estimate, and the notification
// table aggregated by year/age-class/sex/cohort with rates per 100000
// when ObservedPopulation supplies a denominator for that year.
func (r *Reporter) Final() {
	s := r.sim
	fmt.Println("=== Final Summary ===")
	fmt.Printf("Elapsed wall-clock time : %s\n", time.Since(r.startWallClock).Round(time.Millisecond))
	fmt.Printf("Simulated time reached  : %.3f\n", s.Now)
	fmt.Printf("Events dispatched       : %d\n", s.dispatched)
	fmt.Printf("Live population         : %d (native=%d immigrant=%d)\n",
		s.Pop.Len(), s.Pop.NativeCount(), s.Pop.ImmigrantCount())

	const bytesPerActor = 112 // t[8]float64 (64 bytes) + six int fields (48 bytes) on a 64-bit platform
	fmt.Printf("Memory estimate         : %d bytes (%d slots in use)\n", s.Pop.Len()*bytesPerActor, s.Pop.Len())

	fmt.Println("Notifications (year, ageClass, sex, cohort): count, rate/100000")
	var storeRows []store.NotificationRow
	for key, count := range r.aggregate() {
		year := key[0]
		rateText := "n/a"
		var ratePtr *float64
		if pop, ok := r.ObservedPopulation[year]; ok && pop > 0 {
			rate := float64(count) / pop * 100000
			rateText = fmt.Sprintf("%.2f", rate)
			ratePtr = &rate
		}
		fmt.Printf("  (%d, %d, %d, %d): %d, %s\n", key[0], key[1], key[2], key[3], count, rateText)
		if r.Store != nil {
			storeRows = append(storeRows, store.NotificationRow{
				Year: key[0], AgeClass: key[1], Sex: key[2], Cohort: key[3], Count: count, Rate: ratePtr,
			})
		}
	}

	if r.Store == nil {
		return
	}
	run := store.RunSummary{
		RunID:            r.RunID,
		Seed:             int64(s.RNG.EndingSeed()),
		StartYear:        s.Config.StartYear,
		DurationYears:    s.Config.DurationYears,
		EventsDispatched: s.dispatched,
		FinalPopulation:  s.Pop.Len(),
	}
	if err := r.Store.WriteRun(run); err != nil {
		Warnf(CodeIOInconsistent, fmt.Sprintf("store run-summary write failed: %v", err))
		return
	}
	if err := r.Store.WriteNotifications(r.RunID, storeRows); err != nil {
		Warnf(CodeIOInconsistent, fmt.Sprintf("store notification write failed: %v", err))
	}
}
