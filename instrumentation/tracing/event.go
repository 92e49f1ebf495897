package tracing

import (
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/nand"
	"github.com/sarchlab/memctl/sdram"
)

// Kinds of events.
const (
	KindRegister = "register"
	KindState    = "state"
	KindCommand  = "command"
	KindHold     = "hold"
	KindNand     = "nand"
)

// An Event is one thing a driver did.
type Event struct {
	ID      string
	Where   string
	Kind    string
	What    string
	Elapsed time.Duration
}

func (e Event) String() string {
	return fmt.Sprintf("[%s] %10v %-8s %s", e.Where, e.Elapsed, e.Kind, e.What)
}

// eventFromHook converts a hook context. It returns false for positions that
// are not traced.
func eventFromHook(ctx hooking.HookCtx) (Event, bool) {
	e := Event{
		ID:      xid.New().String(),
		Elapsed: ctx.Elapsed,
	}

	if ctx.Domain != nil {
		e.Where = ctx.Domain.Name()
	}

	switch ctx.Pos {
	case fmc.HookPosRegisterWrite:
		e.Kind = KindRegister
	case sdram.HookPosStateEnter:
		e.Kind = KindState
	case sdram.HookPosCommand:
		e.Kind = KindCommand
	case sdram.HookPosHold:
		e.Kind = KindHold
	case nand.HookPosCommand:
		e.Kind = KindNand
	default:
		return Event{}, false
	}

	e.What = fmt.Sprint(ctx.Item)

	return e, true
}
