// Package hooking lets diagnostics observe a driver without changing what
// the driver does.
package hooking

import "time"

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

func (p *HookPos) String() string {
	return p.Name
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	// Domain is the hookable object that is raising this hook.
	Domain Hookable

	// Pos identifies where the hook is firing from.
	Pos *HookPos

	// Elapsed is the time the domain has spent in blocking delays since it
	// started its current operation.
	Elapsed time.Duration

	// Item carries the primary subject of the hook (a state, a command, a
	// register write).
	Item any

	// Detail holds optional auxiliary data; hook sites may leave it nil.
	Detail any
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// Name identifies the domain in traces.
	Name() string

	// AcceptHook registers a hook. Hooks must be registered before the
	// domain starts working and cannot be removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook

	// InvokeHook triggers the registered Hooks.
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	name     string
	hookList []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase(name string) *HookableBase {
	h := new(HookableBase)
	h.name = name
	h.hookList = make([]Hook, 0)

	return h
}

// Name returns the name of the domain.
func (h *HookableBase) Name() string {
	return h.name
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook register a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, h := range h.hookList {
		if h == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the register Hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}

var _ Hookable = (*HookableBase)(nil)
