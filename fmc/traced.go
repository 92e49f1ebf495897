package fmc

import (
	"fmt"
	"time"

	"github.com/sarchlab/memctl/instrumentation/hooking"
)

// HookPosRegisterWrite marks a write to a controller register. The hook item
// is a RegisterWrite.
var HookPosRegisterWrite = &hooking.HookPos{Name: "RegisterWrite"}

// A RegisterWrite is one value written to one register.
type RegisterWrite struct {
	Offset Offset
	Value  uint32
}

func (w RegisterWrite) String() string {
	return fmt.Sprintf("%s <- 0x%08x", w.Offset, w.Value)
}

type tracedRegisters struct {
	Registers
	domain  hooking.Hookable
	elapsed func() time.Duration
}

// Trace wraps r so that every write is reported to the hooks of domain.
// elapsed, if not nil, stamps each report.
func Trace(
	r Registers,
	domain hooking.Hookable,
	elapsed func() time.Duration,
) Registers {
	return &tracedRegisters{Registers: r, domain: domain, elapsed: elapsed}
}

func (t *tracedRegisters) Write(off Offset, value uint32) {
	t.Registers.Write(off, value)

	if t.domain.NumHooks() == 0 {
		return
	}

	ctx := hooking.HookCtx{
		Domain: t.domain,
		Pos:    HookPosRegisterWrite,
		Item:   RegisterWrite{Offset: off, Value: value},
	}

	if t.elapsed != nil {
		ctx.Elapsed = t.elapsed()
	}

	t.domain.InvokeHook(ctx)
}
