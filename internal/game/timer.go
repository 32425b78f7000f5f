package game

import (
	"sync"
	"time"
)

// Phase identifies which countdown a RoundTimer is running.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreview   Phase = "preview"
	PhaseAnswering Phase = "answering"
)

// RoundTimer runs one countdown at a time. Every arm gets a generation number;
// Cancel and re-arming bump it so a tick that raced with them becomes a no-op.
type RoundTimer struct {
	clock    Clock
	interval time.Duration

	mu        sync.Mutex
	gen       uint64
	phase     Phase
	duration  time.Duration
	remaining time.Duration
	stop      func()
}

func NewRoundTimer(clock Clock, interval time.Duration) *RoundTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &RoundTimer{clock: clock, interval: interval, phase: PhaseIdle}
}

// Arm starts a countdown of d. onTick receives the remaining time after every
// tick; onExpire fires exactly once when it reaches zero unless Cancel runs first.
// Any countdown already running is cancelled. Callbacks never run inside Arm.
func (t *RoundTimer) Arm(phase Phase, d time.Duration, onTick func(time.Duration), onExpire func()) {
	if d < t.interval {
		d = t.interval
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	t.gen++
	gen := t.gen
	t.phase = phase
	t.duration = d
	t.remaining = d
	t.stop = t.clock.Every(t.interval, func() { t.tick(gen, onTick, onExpire) })
}

func (t *RoundTimer) tick(gen uint64, onTick func(time.Duration), onExpire func()) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.remaining -= t.interval
	expired := t.remaining <= 0
	if expired {
		t.remaining = 0
		t.cancelLocked()
		t.gen++
	}
	remaining := t.remaining
	t.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if expired && onExpire != nil {
		onExpire()
	}
}

// Cancel stops the countdown; no callback of the current arm fires afterwards
// unless it was already running.
func (t *RoundTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.gen++
	t.phase = PhaseIdle
}

func (t *RoundTimer) cancelLocked() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// Remaining reports the time left in the current phase, within [0, duration].
func (t *RoundTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Phase reports the countdown currently armed, or PhaseIdle.
func (t *RoundTimer) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return PhaseIdle
	}
	return t.phase
}
