// Package sim provides the core discrete-event simulation engine for an
// individual-based tuberculosis epidemiology model.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - scheduler.go: the hashed-bucket calendar queue that orders every event
//   - actor.go: the per-individual record and its candidate future instants
//   - event.go: the dispatch table mapping a pending event kind to its handler
//   - transition.go: the handlers that drive state transitions
//   - simulation.go: the top-level context and driver loop
//
// # Architecture
//
// rng.go, sort.go, and scheduler.go form the simulation substrate and
// know nothing about tuberculosis; population.go, actor.go, event.go,
// transition.go, generators.go, and lifespan.go form the domain layer
// built on top of it. config.go and errors.go are shared ambient
// concerns. Sub-packages hold optional, self-contained I/O concerns:
//   - sim/centinel/: the self-describing tabular input format
//   - sim/eventlog/: JSON-lines notification/terminal-event log
//   - sim/store/: optional SQLite sink for final aggregates
//
// # Key Interfaces
//
//   - LifespanSource: sample a remaining natural lifespan by sex and age
//   - EmigrationSource: sample a time-to-emigration by sex and cohort
//   - Handler: process the event currently pending for one actor
package sim
