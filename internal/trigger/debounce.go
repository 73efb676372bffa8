// Package trigger implements the client-side protocol for firing duplicate
// checks while a user fills in a record form.
//
// The engine itself is stateless per check; this package owns the caller's
// half of the contract:
//   - debounce keystrokes so a check fires only after a quiet period
//   - skip checks for candidates below the minimum-input threshold
//   - drop stale results when a newer check has been scheduled
//   - gate form submission until the in-flight check resolves
package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-crm-backend/internal/match"
	"github.com/tbourn/go-crm-backend/internal/services"
)

// DefaultQuietPeriod is the pause in typing that triggers a scheduled check.
const DefaultQuietPeriod = 500 * time.Millisecond

// CheckFunc runs one duplicate check for a candidate. It is typically
// DuplicateService.Check with the acting user bound.
type CheckFunc func(ctx context.Context, c match.Candidate) (*services.CheckResult, error)

// ResultFunc receives the outcome of the latest live check. It is never
// called for superseded checks.
type ResultFunc func(res *services.CheckResult, err error)

// Debouncer schedules duplicate checks as form input changes. Each Update
// restarts the quiet-period timer; only the candidate observed when the timer
// fires is checked, and only the newest check's result is delivered.
//
// All methods are safe for concurrent use.
type Debouncer struct {
	check  CheckFunc
	onDone ResultFunc

	// QuietPeriod is the typing pause before a check fires (<= 0 uses the default).
	QuietPeriod time.Duration
	// SkipOnEdit suppresses checks entirely, for edit forms where the record
	// already exists and re-flagging it against itself is noise.
	SkipOnEdit bool

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64 // bumps on every Update; stale timers compare against it
	inflight   int    // scheduled or running checks not yet resolved
	cond       *sync.Cond
}

// NewDebouncer constructs a Debouncer delivering results to onDone.
func NewDebouncer(check CheckFunc, onDone ResultFunc) *Debouncer {
	d := &Debouncer{
		check:       check,
		onDone:      onDone,
		QuietPeriod: DefaultQuietPeriod,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Update reports the current form state. If the candidate meets the minimum
// input threshold, a check is scheduled to fire after the quiet period; any
// previously scheduled check is superseded. Below-threshold input cancels the
// pending check instead.
func (d *Debouncer) Update(ctx context.Context, c match.Candidate) {
	if d.SkipOnEdit {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	gen := d.generation

	if d.timer != nil {
		if d.timer.Stop() {
			// Pending check superseded before it fired.
			d.inflight--
			d.cond.Broadcast()
		}
		d.timer = nil
	}

	if !c.MeetsMinimum() {
		return
	}

	quiet := d.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	d.inflight++
	d.timer = time.AfterFunc(quiet, func() {
		d.run(ctx, gen, c)
	})
}

// run executes the scheduled check and delivers its result unless a newer
// Update superseded it while the check was running.
func (d *Debouncer) run(ctx context.Context, gen uint64, c match.Candidate) {
	defer func() {
		d.mu.Lock()
		d.inflight--
		d.cond.Broadcast()
		d.mu.Unlock()
	}()

	res, err := d.check(ctx, c)

	d.mu.Lock()
	stale := gen != d.generation
	d.mu.Unlock()
	if stale {
		// A newer check owns the dialog now.
		log.Debug().Uint64("generation", gen).Msg("dropping stale duplicate check result")
		return
	}

	if d.onDone != nil {
		d.onDone(res, err)
	}
}

// Flush cancels any pending timer and runs the pending check immediately.
// Callers use it when the user blurs the last field or hits submit before the
// quiet period elapses.
func (d *Debouncer) Flush(ctx context.Context, c match.Candidate) {
	if d.SkipOnEdit || !c.MeetsMinimum() {
		return
	}

	d.mu.Lock()
	d.generation++
	gen := d.generation
	if d.timer != nil {
		if d.timer.Stop() {
			d.inflight--
		}
		d.timer = nil
	}
	d.inflight++
	d.mu.Unlock()

	d.run(ctx, gen, c)
}

// Wait blocks until no check is scheduled or running, or until ctx is done.
// It is the submit gate: a form must not submit while a check that could
// raise a warning is still in flight.
func (d *Debouncer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	abandoned := false
	go func() {
		d.mu.Lock()
		for d.inflight > 0 && !abandoned {
			d.cond.Wait()
		}
		d.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.mu.Lock()
		abandoned = true
		d.mu.Unlock()
		d.cond.Broadcast()
		<-done
		return ctx.Err()
	}
}

// Cancel drops any pending scheduled check without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	if d.timer != nil {
		if d.timer.Stop() {
			d.inflight--
			d.cond.Broadcast()
		}
		d.timer = nil
	}
}
