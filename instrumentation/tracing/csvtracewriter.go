package tracing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter is a tracer that stores events into a CSV file.
type CSVTraceWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *csv.Writer

	events     []Event
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. An empty path picks a
// unique file name.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file being written, once Init has run.
func (t *CSVTraceWriter) Path() string {
	return t.path + ".csv"
}

// Init creates the CSV file. The file must not exist yet. The buffered
// events are flushed when the program exits through atexit.
func (t *CSVTraceWriter) Init() error {
	if t.path == "" {
		t.path = "memctl_trace_" + xid.New().String()
	}

	filename := t.Path()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	t.file = file
	t.w = csv.NewWriter(file)

	if err := t.w.Write([]string{"ID", "Where", "Kind", "What", "ElapsedNs"}); err != nil {
		return err
	}

	atexit.Register(func() { _ = t.Close() })

	return nil
}

// Trace buffers an event.
func (t *CSVTraceWriter) Trace(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, e)
	if len(t.events) >= t.bufferSize {
		_ = t.flush()
	}
}

// Flush writes the buffered events to the file.
func (t *CSVTraceWriter) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.flush()
}

func (t *CSVTraceWriter) flush() error {
	if t.w == nil {
		return nil
	}

	for _, e := range t.events {
		err := t.w.Write([]string{
			e.ID,
			e.Where,
			e.Kind,
			e.What,
			strconv.FormatInt(e.Elapsed.Nanoseconds(), 10),
		})
		if err != nil {
			return err
		}
	}

	t.events = nil
	t.w.Flush()

	return t.w.Error()
}

// Close flushes and closes the file.
func (t *CSVTraceWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}

	if err := t.flush(); err != nil {
		return err
	}

	err := t.file.Close()
	t.file = nil
	t.w = nil

	return err
}
