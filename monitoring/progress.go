package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/memctl/instrumentation/hooking"
	"github.com/sarchlab/memctl/sdram"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// snapshot returns the counters without the lock.
func (b *ProgressBar) snapshot() progressRsp {
	b.Lock()
	defer b.Unlock()

	return progressRsp{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

type progressRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// A sequenceProgress moves a bar along the power-up sequence. A step is in
// progress from the moment it is entered until the next one starts.
type sequenceProgress struct {
	bar     *ProgressBar
	started bool
}

// Func advances the bar on every state change.
func (h *sequenceProgress) Func(ctx hooking.HookCtx) {
	if ctx.Pos != sdram.HookPosStateEnter {
		return
	}

	state := ctx.Item.(sdram.State)
	if state == sdram.StateFaulted {
		return
	}

	if h.started {
		h.bar.MoveInProgressToFinished(1)
	}

	h.started = true
	h.bar.IncrementInProgress(1)

	if state == sdram.StateReady {
		h.bar.MoveInProgressToFinished(1)
	}
}
