package sdram

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/instrumentation/hooking"
)

// State is a stage of the power-up sequence.
type State int

// The power-up states, in order.
const (
	StateUnconfigured State = iota
	StateClockEnabled
	StatePrecharging
	StateAutoRefreshing
	StateModeRegisterLoad
	StateReady
	StateFaulted
)

var stateNames = map[State]string{
	StateUnconfigured:     "Unconfigured",
	StateClockEnabled:     "ClockEnabled",
	StatePrecharging:      "Precharging",
	StateAutoRefreshing:   "AutoRefreshing",
	StateModeRegisterLoad: "ModeRegisterLoad",
	StateReady:            "Ready",
	StateFaulted:          "Faulted",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Next returns the only state that may follow s.
func (s State) Next() State {
	switch s {
	case StateUnconfigured:
		return StateClockEnabled
	case StateClockEnabled:
		return StatePrecharging
	case StatePrecharging:
		return StateAutoRefreshing
	case StateAutoRefreshing:
		return StateModeRegisterLoad
	case StateModeRegisterLoad:
		return StateReady
	}

	return StateFaulted
}

// canFollow reports whether a step in state s may come after a step in prev.
// AUTO REFRESH is the only state that repeats.
func (s State) canFollow(prev State) bool {
	if s == StateAutoRefreshing && prev == StateAutoRefreshing {
		return true
	}

	return prev.Next() == s
}

// A Step is one row of the power-up table: enter State, issue Command, then
// wait at least Hold before anything else happens.
type Step struct {
	State        State
	Command      fmc.SdramMode
	ModeRegister ModeRegister
	Hold         time.Duration
}

// IssuesCommand reports whether the step writes the command register. The
// Ready step arms the refresh timer instead.
func (s Step) IssuesCommand() bool {
	return s.State != StateReady
}

// A Command is one write to the command register.
type Command struct {
	Mode         fmc.SdramMode
	Bank         fmc.SdramBank
	Refreshes    uint32
	ModeRegister ModeRegister
}

func (c Command) encode() uint32 {
	return fmc.Compose(
		fmc.SdcmrMODE.Is(uint32(c.Mode)),
		fmc.SdcmrCTB1.Flag(c.Bank == fmc.SdramBank1),
		fmc.SdcmrCTB2.Flag(c.Bank == fmc.SdramBank2),
		fmc.SdcmrNRFS.Is(c.Refreshes-1),
		fmc.SdcmrMRD.Is(uint32(c.ModeRegister)),
	)
}

func (c Command) String() string {
	if c.Mode == fmc.ModeLoadMode {
		return fmt.Sprintf("%s %s [%s]", c.Mode, c.Bank, c.ModeRegister)
	}

	return fmt.Sprintf("%s %s", c.Mode, c.Bank)
}

// A Plan is the full power-up table for one bank.
type Plan struct {
	Bank         fmc.SdramBank
	Steps        []Step
	RefreshCount uint64
}

// NewPlan lays out the power-up sequence for translated timings.
func NewPlan(bank fmc.SdramBank, t TimingRegisters, mode ModeRegister) Plan {
	steps := []Step{
		{State: StateClockEnabled, Command: fmc.ModeClockEnable, Hold: t.StartupHold},
		{State: StatePrecharging, Command: fmc.ModePrechargeAll, Hold: t.PrechargeHold},
	}

	for range t.AutoRefreshCommands {
		steps = append(steps, Step{
			State:   StateAutoRefreshing,
			Command: fmc.ModeAutoRefresh,
			Hold:    t.RefreshHold,
		})
	}

	steps = append(steps,
		Step{
			State:        StateModeRegisterLoad,
			Command:      fmc.ModeLoadMode,
			ModeRegister: mode,
			Hold:         t.ModeHold,
		},
		Step{State: StateReady},
	)

	return Plan{Bank: bank, Steps: steps, RefreshCount: t.RefreshCount}
}

// Validate checks that the steps follow the state order and end in Ready.
func (p Plan) Validate() error {
	if !p.Bank.Valid() {
		return configErr("Bank", int(p.Bank), "must be 1 or 2")
	}

	prev := StateUnconfigured
	for i, s := range p.Steps {
		if !s.State.canFollow(prev) {
			return configErr(fmt.Sprintf("Steps[%d]", i), s.State,
				"cannot follow "+prev.String())
		}

		prev = s.State
	}

	if prev != StateReady {
		return configErr("Steps", prev, "plan must end in Ready")
	}

	if _, err := fieldCOUNT.Check(p.RefreshCount); err != nil {
		return err
	}

	return nil
}

// Duration returns the sum of the holds in the power-up sequence.
func (p Plan) Duration() time.Duration {
	var d time.Duration
	for _, s := range p.Steps {
		d += s.Hold
	}

	return d
}

// Hook positions raised while the sequence runs.
var (
	// HookPosStateEnter fires when a step starts. The item is the State.
	HookPosStateEnter = &hooking.HookPos{Name: "StateEnter"}

	// HookPosCommand fires after a command is written. The item is the
	// Command.
	HookPosCommand = &hooking.HookPos{Name: "Command"}

	// HookPosHold fires before a blocking delay. The item is the
	// time.Duration.
	HookPosHold = &hooking.HookPos{Name: "Hold"}
)

// A Sequencer walks a Plan against the controller. It never retries and
// cannot be cancelled.
type Sequencer struct {
	regs      fmc.Registers
	delay     fmc.Delay
	domain    hooking.Hookable
	pollLimit int

	state   atomic.Int32
	elapsed time.Duration
}

// NewSequencer creates a sequencer. domain receives the hooks, pollLimit
// bounds the busy-flag polls after each command.
func NewSequencer(
	regs fmc.Registers,
	delay fmc.Delay,
	domain hooking.Hookable,
	pollLimit int,
) *Sequencer {
	return &Sequencer{
		regs:      regs,
		delay:     delay,
		domain:    domain,
		pollLimit: pollLimit,
	}
}

// State returns the state of the last step entered. It may be called while
// Run is in progress.
func (s *Sequencer) State() State {
	return State(s.state.Load())
}

// Elapsed returns the sum of the holds waited so far.
func (s *Sequencer) Elapsed() time.Duration {
	return s.elapsed
}

// Run executes every step of the plan in order. The plan must have been
// validated. An error means the controller hung and the sequence was left
// half way.
func (s *Sequencer) Run(p Plan) error {
	for _, step := range p.Steps {
		s.enter(step.State)

		if !step.IssuesCommand() {
			fmc.Modify(s.regs, fmc.SDRTR, fmc.SdrtrCOUNT.Is(uint32(p.RefreshCount)))
			continue
		}

		cmd := Command{
			Mode:         step.Command,
			Bank:         p.Bank,
			Refreshes:    1,
			ModeRegister: step.ModeRegister,
		}

		s.regs.Write(fmc.SDCMR, cmd.encode())
		s.invoke(HookPosCommand, cmd)

		if err := s.waitNotBusy(cmd); err != nil {
			s.enter(StateFaulted)
			return err
		}

		s.hold(step.Hold)
	}

	return nil
}

func (s *Sequencer) enter(state State) {
	s.state.Store(int32(state))
	s.invoke(HookPosStateEnter, state)
}

func (s *Sequencer) waitNotBusy(cmd Command) error {
	for range s.pollLimit {
		if !fmc.IsSet(s.regs, fmc.SDSR, fmc.SdsrBUSY) {
			return nil
		}
	}

	return fmt.Errorf("%w after %s", ErrControllerStuck, cmd)
}

func (s *Sequencer) hold(d time.Duration) {
	if d <= 0 {
		return
	}

	s.invoke(HookPosHold, d)
	s.delay.Delay(d)
	s.elapsed += d
}

func (s *Sequencer) invoke(pos *hooking.HookPos, item any) {
	if s.domain == nil || s.domain.NumHooks() == 0 {
		return
	}

	s.domain.InvokeHook(hooking.HookCtx{
		Domain:  s.domain,
		Pos:     pos,
		Elapsed: s.elapsed,
		Item:    item,
	})
}
