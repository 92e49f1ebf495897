package tracing

import "log"

// LogTracer prints every event to a logger.
type LogTracer struct {
	logger *log.Logger
	kinds  map[string]bool
}

// NewLogTracer creates a tracer that prints events of the given kinds, or of
// every kind if none is given.
func NewLogTracer(logger *log.Logger, kinds ...string) *LogTracer {
	t := &LogTracer{logger: logger}

	if len(kinds) > 0 {
		t.kinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			t.kinds[k] = true
		}
	}

	return t
}

// Trace prints the event.
func (t *LogTracer) Trace(e Event) {
	if t.kinds != nil && !t.kinds[e.Kind] {
		return
	}

	t.logger.Println(e)
}
