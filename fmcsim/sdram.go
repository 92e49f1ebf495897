package fmcsim

import (
	"fmt"
	"time"

	"github.com/sarchlab/memctl/fmc"
	"github.com/sarchlab/memctl/sdram"
	"github.com/sarchlab/memctl/timing"
)

// SdramRequirements are the power-up rules a simulated part enforces.
type SdramRequirements struct {
	Startup         time.Duration
	RowPrecharge    time.Duration
	RowCycle        time.Duration
	ModeRegisterSet time.Duration
	Refreshes       int
	CasLatency      uint8
	Capacity        uint64
}

// RequirementsFor derives the requirements of a part running at sdclk.
func RequirementsFor(c sdram.Chip, sdclk timing.Freq) SdramRequirements {
	t := c.Timing()

	return SdramRequirements{
		Startup:         t.StartupDelay,
		RowPrecharge:    t.RowPrecharge,
		RowCycle:        max(t.RowCycle, t.RowToRow),
		ModeRegisterSet: sdclk.DurationForCycles(uint64(t.ModeRegisterSet)),
		Refreshes:       t.Refreshes(),
		CasLatency:      c.Config().CasLatency,
		Capacity:        sdram.Capacity(c.Config()),
	}
}

// A Violation is a command the simulated part would not have survived.
type Violation struct {
	Command fmc.SdramMode
	At      time.Duration
	Reason  string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s at %v: %s", v.Command, v.At, v.Reason)
}

// SdramModel simulates the power-up behaviour of one SDRAM part. It checks
// the order of commands and the time between them. A part that saw a
// violation stops working: reads return zero and writes are lost, as on real
// hardware.
type SdramModel struct {
	req     SdramRequirements
	storage *Storage

	clockEnabled bool
	precharged   bool
	refreshes    int
	modeLoaded   bool
	mode         uint32
	refreshCount uint32
	status       fmc.SdramStatus

	last   fmc.SdramMode
	lastAt time.Duration
	hold   time.Duration

	violations []Violation
}

// NewSdramModel creates a powered-down part.
func NewSdramModel(req SdramRequirements) *SdramModel {
	return &SdramModel{
		req:     req,
		storage: NewStorage(req.Capacity, 0),
	}
}

func (m *SdramModel) violate(cmd fmc.SdramMode, at time.Duration, format string, args ...any) {
	m.violations = append(m.violations, Violation{
		Command: cmd,
		At:      at,
		Reason:  fmt.Sprintf(format, args...),
	})
}

// command applies one command issued at time at.
func (m *SdramModel) command(cmd fmc.SdramMode, nrfs, mrd uint32, at time.Duration) {
	if cmd != fmc.ModeClockEnable && !m.clockEnabled {
		m.violate(cmd, at, "clock not enabled")
	}

	if m.clockEnabled && at-m.lastAt < m.hold {
		m.violate(cmd, at, "issued %v after %s, needs %v",
			at-m.lastAt, m.last, m.hold)
	}

	m.last = cmd
	m.lastAt = at
	m.hold = 0

	switch cmd {
	case fmc.ModeClockEnable:
		m.clockEnabled = true
		m.hold = m.req.Startup
	case fmc.ModePrechargeAll:
		m.precharged = true
		m.refreshes = 0
		m.hold = m.req.RowPrecharge
	case fmc.ModeAutoRefresh:
		if !m.precharged {
			m.violate(cmd, at, "banks not precharged")
		}

		m.refreshes += int(nrfs)
		m.hold = m.req.RowCycle * time.Duration(nrfs)
	case fmc.ModeLoadMode:
		if !m.precharged {
			m.violate(cmd, at, "banks not precharged")
		}

		if !m.modeLoaded && m.refreshes < m.req.Refreshes {
			m.violate(cmd, at, "only %d of %d refreshes before mode load",
				m.refreshes, m.req.Refreshes)
		}

		if cl := uint8(mrd >> 4 & 7); m.req.CasLatency != 0 && cl != m.req.CasLatency {
			m.violate(cmd, at, "CAS latency %d, part configured for %d",
				cl, m.req.CasLatency)
		}

		m.mode = mrd
		m.modeLoaded = true
		m.hold = m.req.ModeRegisterSet
	case fmc.ModeSelfRefresh:
		m.status = fmc.StatusSelfRefresh
	case fmc.ModePowerDown:
		m.status = fmc.StatusPowerDown
	case fmc.ModeNormal:
		m.status = fmc.StatusNormal
	}
}

// Status returns the low power mode the part is in.
func (m *SdramModel) Status() fmc.SdramStatus {
	return m.status
}

// Ready reports whether the part finished power-up without violations.
func (m *SdramModel) Ready() bool {
	return m.modeLoaded && len(m.violations) == 0
}

// Refreshes returns the number of AUTO REFRESH commands since the last
// PRECHARGE ALL.
func (m *SdramModel) Refreshes() int {
	return m.refreshes
}

// ModeRegister returns the last value loaded into the mode register.
func (m *SdramModel) ModeRegister() uint32 {
	return m.mode
}

// RefreshCount returns the refresh timer reload armed by the controller.
func (m *SdramModel) RefreshCount() uint32 {
	return m.refreshCount
}

// Violations returns every violation seen so far.
func (m *SdramModel) Violations() []Violation {
	return append([]Violation(nil), m.violations...)
}

// Storage returns the content of the part.
func (m *SdramModel) Storage() *Storage {
	return m.storage
}

func (m *SdramModel) read8(offset uint64) (uint8, error) {
	if !m.Ready() {
		return 0, nil
	}

	b, err := m.storage.Read(offset, 1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (m *SdramModel) write8(offset uint64, v uint8) error {
	if !m.Ready() {
		return nil
	}

	return m.storage.Write(offset, []byte{v})
}
