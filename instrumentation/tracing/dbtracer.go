package tracing

import (
	"sync"

	"github.com/sarchlab/memctl/datarecording"
)

// TraceTable is the table that DBTracer writes to.
const TraceTable = "trace"

// TraceEntry is the row layout of TraceTable.
type TraceEntry struct {
	ID        string
	Location  string
	Kind      string
	What      string
	ElapsedNs int64
}

// DBTracer is a tracer that stores events through a data recorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	err     error
}

// NewDBTracer creates the trace table and returns a tracer writing to it.
func NewDBTracer(backend datarecording.DataRecorder) (*DBTracer, error) {
	if err := backend.CreateTable(TraceTable, TraceEntry{}); err != nil {
		return nil, err
	}

	return &DBTracer{backend: backend}, nil
}

// Trace records an event. The first failure is kept and reported by Err.
func (t *DBTracer) Trace(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.backend.InsertData(TraceTable, TraceEntry{
		ID:        e.ID,
		Location:  e.Where,
		Kind:      e.Kind,
		What:      e.What,
		ElapsedNs: e.Elapsed.Nanoseconds(),
	})
	if err != nil && t.err == nil {
		t.err = err
	}
}

// Err returns the first error met while recording.
func (t *DBTracer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}
