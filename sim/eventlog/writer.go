// Package eventlog provides an append-only JSON-lines log of disease-
// case notifications and terminal (death/emigration) events, for
// offline analysis that does not need the full SQLite aggregate sink.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sugawarayuuta/sonnet"
)

// Event is one logged occurrence: a notification, death, or emigration,
// with enough context to reconstruct the final aggregation offline.
type Event struct {
	Time     float64 `json:"time"`
	Kind     string  `json:"kind"` // "notification", "death", or "emigration"
	AgeClass int     `json:"age_class"`
	Sex      int     `json:"sex"`
	Cohort   int     `json:"cohort"`
}

// Writer appends Events as JSON lines to a file, using sonnet's encoder
// for its lower per-call allocation overhead on the simulator's hot
// notification path.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
	count  uint64
}

// NewWriter creates a new event log writer at path, truncating any
// existing file there.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create event log: %w", err)
	}
	return &Writer{
		file:   f,
		writer: bufio.NewWriterSize(f, 64*1024),
	}, nil
}

// Write appends one Event to the log.
func (w *Writer) Write(e Event) error {
	data, err := sonnet.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of events written so far.
func (w *Writer) Count() uint64 {
	return w.count
}

// Close flushes and closes the log file.
func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Reader reads Events back from a JSON-lines event log. Unmarshalling
// uses the standard library rather than sonnet: sonnet's generated
// decoder path is optimized for the writer's hot loop, while reading
// back is an offline, infrequent operation where encoding/json's wider
// compatibility matters more than its extra allocation.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewReader opens an event log for reading.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 256*1024), 1024*1024)
	return &Reader{file: f, scanner: scanner}, nil
}

// Next reads the next Event. It returns io.EOF once the log is
// exhausted.
func (r *Reader) Next() (Event, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Event{}, err
		}
		return Event{}, io.EOF
	}
	var e Event
	if err := json.Unmarshal(r.scanner.Bytes(), &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}

// ReadAll reads every remaining Event from the log.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

// Close closes the log file.
func (r *Reader) Close() error {
	return r.file.Close()
}
