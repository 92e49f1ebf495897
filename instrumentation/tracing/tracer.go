package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/memctl/instrumentation/hooking"
)

// A Tracer receives events.
type Tracer interface {
	Trace(e Event)
}

// CollectTrace lets the tracer collect events from a domain.
func CollectTrace(domain hooking.Hookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook is a hook that forwards events to a tracer.
type traceHook struct {
	t Tracer
}

// Func converts the hook context and calls the tracer.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	if e, ok := eventFromHook(ctx); ok {
		h.t.Trace(e)
	}
}
