package tracing

import (
	"sort"
	"sync"
	"time"
)

// CountTracer counts events by kind and by what happened, and remembers the
// last event. The monitor uses it to report progress.
type CountTracer struct {
	lock    sync.Mutex
	kinds   map[string]uint64
	whats   map[string]uint64
	last    Event
	elapsed time.Duration
}

// NewCountTracer creates a new CountTracer.
func NewCountTracer() *CountTracer {
	return &CountTracer{
		kinds: make(map[string]uint64),
		whats: make(map[string]uint64),
	}
}

// Trace counts the event.
func (t *CountTracer) Trace(e Event) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.kinds[e.Kind]++
	t.whats[e.Kind+" "+e.What]++
	t.last = e
	t.elapsed = max(t.elapsed, e.Elapsed)
}

// Count returns the number of events of a kind.
func (t *CountTracer) Count(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.kinds[kind]
}

// CountWhat returns the number of events of a kind that share a description.
func (t *CountTracer) CountWhat(kind, what string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.whats[kind+" "+what]
}

// Kinds returns the kinds seen so far, sorted.
func (t *CountTracer) Kinds() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	kinds := make([]string, 0, len(t.kinds))
	for k := range t.kinds {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	return kinds
}

// Last returns the most recent event.
func (t *CountTracer) Last() Event {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.last
}

// Elapsed returns the largest elapsed time seen.
func (t *CountTracer) Elapsed() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.elapsed
}
