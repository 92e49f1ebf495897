// Package tracing turns the hooks of the memory drivers into a flat stream of
// events and sends them to tracers: a CSV file, a data recorder, a logger or
// an in-memory counter.
//
// A tracer is attached with CollectTrace before the driver starts working.
package tracing
