// Package engine runs typing test sessions: it owns the word queue, the
// countdown and the running metrics, and settles the high score when a
// session ends.
package engine

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typespeed/internal/model"
)

// State is the lifecycle stage of the engine.
type State int

const (
	// StateIdle means no session is active and the next queue is ready.
	StateIdle State = iota
	// StateRunning means a session is counting down.
	StateRunning
	// StateEnded means a session stopped and was not returned to idle.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// WordSelector draws the words for one session.
type WordSelector interface {
	Select(bank []string, count int) ([]string, error)
}

// HighScoreStore persists the all-time best CPM.
type HighScoreStore interface {
	HighScore(ctx context.Context) (int, error)
	SetHighScore(ctx context.Context, cpm int) error
}

// Display renders engine state and owns the user's input buffer.
type Display interface {
	RenderWordQueue(words []string) error
	RenderStats(cpm, wpm int, remaining float64) error
	RenderHighScore(cpm, wpm int) error
	InputBuffer() string
	ClearInputBuffer()
}

// Engine is the session state machine. It is not safe for concurrent use;
// the host drives it from a single event loop.
type Engine struct {
	cfg     model.Config
	bank    []string
	sel     WordSelector
	store   HighScoreStore
	display Display

	state     State
	session   int
	queue     []string
	chars     int
	wpm       int
	remaining time.Duration
	highScore int
}

// New validates cfg and returns an idle engine. Call Prepare before Start.
func New(cfg model.Config, bank []string, sel WordSelector, store HighScoreStore, display Display) (*Engine, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("%w: word bank is empty", model.ErrInvalidConfiguration)
	}
	if sel == nil || store == nil || display == nil {
		return nil, fmt.Errorf("%w: selector, store and display are required", model.ErrInvalidConfiguration)
	}
	return &Engine{
		cfg:       cfg,
		bank:      bank,
		sel:       sel,
		store:     store,
		display:   display,
		remaining: cfg.Duration,
	}, nil
}

// Validate checks the settings a session needs.
func Validate(cfg model.Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be > 0", model.ErrInvalidConfiguration)
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be > 0", model.ErrInvalidConfiguration)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("%w: words must be > 0", model.ErrInvalidConfiguration)
	}
	return nil
}

// Prepare loads the stored high score and readies the first word queue.
func (e *Engine) Prepare(ctx context.Context) error {
	cpm, err := e.store.HighScore(ctx)
	if err != nil {
		return fmt.Errorf("%w: read high score: %w", model.ErrPersistence, err)
	}
	e.highScore = cpm
	if err := e.display.RenderHighScore(cpm, WordsPerMinute(cpm)); err != nil {
		return e.fail(displayError(err))
	}
	return e.reset()
}

// Start begins a session with the prepared queue and a full countdown.
func (e *Engine) Start() error {
	if e.state != StateIdle {
		return fmt.Errorf("cannot start a session while %s", e.state)
	}
	if len(e.queue) == 0 {
		queue, err := e.sel.Select(e.bank, e.cfg.Words)
		if err != nil {
			return err
		}
		e.queue = queue
	}
	e.chars = 0
	e.wpm = 0
	e.remaining = e.cfg.Duration
	e.session++
	e.state = StateRunning
	e.display.ClearInputBuffer()
	if err := e.render(true); err != nil {
		return e.fail(err)
	}
	return nil
}

// Tick advances a running session by one tick interval. It returns a
// non-nil result on the tick that ends the session. Outside a running
// session it does nothing.
func (e *Engine) Tick(ctx context.Context) (*model.Result, error) {
	if e.state != StateRunning {
		return nil, nil
	}
	// Expiry wins over any pending input.
	if e.remaining <= 0 {
		return e.finish(ctx, model.EndTimeExpired)
	}
	if len(e.queue) == 0 {
		return e.finish(ctx, model.EndWordsExhausted)
	}

	matched := false
	if head := e.queue[0]; e.display.InputBuffer() == head {
		e.chars += utf8.RuneCountInString(head)
		e.wpm = WordsPerMinute(e.chars)
		e.queue = e.queue[1:]
		e.display.ClearInputBuffer()
		matched = true
	}

	e.remaining -= e.cfg.TickInterval
	if e.remaining < 0 {
		e.remaining = 0
	}
	if err := e.render(matched); err != nil {
		return nil, e.fail(err)
	}

	switch {
	case e.remaining <= 0:
		return e.finish(ctx, model.EndTimeExpired)
	case len(e.queue) == 0:
		return e.finish(ctx, model.EndWordsExhausted)
	}
	return nil, nil
}

// End stops the running session on request and settles its score.
func (e *Engine) End(ctx context.Context) (*model.Result, error) {
	if e.state != StateRunning {
		return nil, fmt.Errorf("cannot end a session while %s", e.state)
	}
	return e.finish(ctx, model.EndCancelled)
}

// finish settles the score exactly once. On error the engine stays ended
// and the result still carries the session's metrics.
func (e *Engine) finish(ctx context.Context, reason model.EndReason) (*model.Result, error) {
	e.state = StateEnded
	result := &model.Result{
		CPM:       e.chars,
		WPM:       e.wpm,
		Reason:    reason,
		Remaining: e.Remaining(),
	}

	rec, err := Reconcile(ctx, e.store, e.chars)
	result.PreviousCPM = rec.Previous
	result.PreviousWPM = WordsPerMinute(rec.Previous)
	result.NewHighScore = rec.Updated
	if err != nil {
		return result, err
	}
	if rec.Updated {
		e.highScore = e.chars
		if err := e.display.RenderHighScore(e.chars, e.wpm); err != nil {
			return result, e.fail(displayError(err))
		}
	}
	if err := e.reset(); err != nil {
		return result, err
	}
	return result, nil
}

// reset prefetches the next queue and zeroes the metrics.
func (e *Engine) reset() error {
	queue, err := e.sel.Select(e.bank, e.cfg.Words)
	if err != nil {
		return e.fail(err)
	}
	e.queue = queue
	e.chars = 0
	e.wpm = 0
	e.remaining = e.cfg.Duration
	e.state = StateIdle
	e.display.ClearInputBuffer()
	if err := e.render(true); err != nil {
		return e.fail(err)
	}
	return nil
}

func (e *Engine) render(queueChanged bool) error {
	if queueChanged {
		if err := e.display.RenderWordQueue(e.queue); err != nil {
			return displayError(err)
		}
	}
	if err := e.display.RenderStats(e.chars, e.wpm, e.Remaining()); err != nil {
		return displayError(err)
	}
	return nil
}

func (e *Engine) fail(err error) error {
	e.state = StateEnded
	return err
}

func displayError(err error) error {
	return fmt.Errorf("%w: %w", model.ErrDisplay, err)
}

// State returns the current lifecycle stage.
func (e *Engine) State() State { return e.state }

// Session returns a counter that increments on every Start.
func (e *Engine) Session() int { return e.session }

// CharactersTyped returns the CPM accumulated so far.
func (e *Engine) CharactersTyped() int { return e.chars }

// WordsPerMinute returns the WPM derived from CharactersTyped.
func (e *Engine) WordsPerMinute() int { return e.wpm }

// Remaining returns the countdown in seconds.
func (e *Engine) Remaining() float64 { return e.remaining.Seconds() }

// HighScore returns the last known high score in CPM.
func (e *Engine) HighScore() int { return e.highScore }

// Queue returns a copy of the words still to be typed.
func (e *Engine) Queue() []string { return slices.Clone(e.queue) }

// Config returns the settings the engine was built with.
func (e *Engine) Config() model.Config { return e.cfg }
