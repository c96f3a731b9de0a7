// Package lookup owns the client-side half of identity verification: a
// debounced state machine that turns raw keystrokes into a stable
// verification state, and the confirmation binder that gates form submission.
package lookup

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rulerankit14/buy-instagram-followers/internal/instagram"
	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

// DefaultQuietPeriod is how long the input must stay unchanged before a
// lookup is dispatched.
const DefaultQuietPeriod = 650 * time.Millisecond

// Client is the network boundary to the resolution pipeline. A returned
// error is a transport failure; classified outcomes arrive as Results.
type Client interface {
	Lookup(ctx context.Context, handle string) (instagram.Result, error)
}

// Timer exposes the part of time.Timer used by the controller.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d. Swappable for deterministic tests.
type TimerFactory func(d time.Duration, fn func()) Timer

// DefaultTimerFactory schedules timers with time.AfterFunc.
func DefaultTimerFactory(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Phase tags the controller's visible state.
type Phase string

const (
	// PhaseIdle means the input is empty and nothing is pending.
	PhaseIdle Phase = "idle"
	// PhaseChecking means a lookup for Username is in flight.
	PhaseChecking Phase = "checking"
	// PhaseResult means Result holds a classified outcome for Username.
	PhaseResult Phase = "result"
)

// State is the controller's UI-facing state. Username is the normalized
// input the state refers to; Result is meaningful only in PhaseResult.
type State struct {
	Phase    Phase
	Username string
	Result   instagram.Result
}

// ControllerConfig controls controller construction.
type ControllerConfig struct {
	Client       Client
	QuietPeriod  time.Duration
	OnChange     func(State)
	TimerFactory TimerFactory
	Binder       *Binder
	RootContext  context.Context
	Logger       *zap.Logger
}

// Controller debounces username input and maps lookup outcomes onto a state
// machine. Each input change bumps a generation counter; a timer firing or a
// lookup resolving for an older generation is discarded silently, so at most
// one lookup is ever "current".
type Controller struct {
	client   Client
	quiet    time.Duration
	timers   TimerFactory
	onChange func(State)
	binder   *Binder
	rootCtx  context.Context
	logger   *zap.Logger

	mu         sync.Mutex
	generation uint64
	current    string
	timer      Timer
	state      State
}

// NewController builds a controller from the supplied configuration.
func NewController(cfg ControllerConfig) *Controller {
	quiet := cfg.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	timers := cfg.TimerFactory
	if timers == nil {
		timers = DefaultTimerFactory
	}

	rootCtx := cfg.RootContext
	if rootCtx == nil {
		rootCtx = context.Background()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		client:   cfg.Client,
		quiet:    quiet,
		timers:   timers,
		onChange: cfg.OnChange,
		binder:   cfg.Binder,
		rootCtx:  rootCtx,
		logger:   logger,
		state:    State{Phase: PhaseIdle},
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentInput returns the normalized value of the current input, or "" when
// the input is empty or invalid.
func (c *Controller) CurrentInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetInput feeds a raw input change into the state machine. Normalization
// failures transition to an invalid result synchronously; valid input
// schedules a lookup after the quiet period, restarting the timer if one is
// already pending. An empty input resets to Idle.
func (c *Controller) SetInput(raw string) {
	c.mu.Lock()

	c.generation++
	c.stopTimerLocked()

	if strings.TrimSpace(raw) == "" {
		c.current = ""
		st := c.setStateLocked(State{Phase: PhaseIdle})
		c.observeBinderLocked()
		c.mu.Unlock()
		c.notify(st)
		return
	}

	normalized, err := username.Normalize(raw)
	if err != nil {
		c.current = ""
		st := c.setStateLocked(State{
			Phase:  PhaseResult,
			Result: instagram.Result{Status: instagram.StatusInvalid, Message: invalidInputMessage(err)},
		})
		c.observeBinderLocked()
		c.mu.Unlock()
		c.notify(st)
		return
	}

	c.current = normalized
	c.observeBinderLocked()
	gen := c.generation
	c.timer = c.timers(c.quiet, func() {
		c.dispatch(gen, normalized)
	})
	c.mu.Unlock()
}

// dispatch runs when the quiet period elapses. It transitions to Checking and
// performs the lookup, unless the input has changed since the timer was set.
func (c *Controller) dispatch(gen uint64, handle string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	st := c.setStateLocked(State{Phase: PhaseChecking, Username: handle})
	c.mu.Unlock()
	c.notify(st)

	result, err := c.client.Lookup(c.rootCtx, handle)
	if err != nil {
		c.logger.Warn("lookup transport failed", zap.String("username", handle), zap.Error(err))
		result = instagram.Result{Status: instagram.StatusError, Message: "Verification failed"}
	}

	c.mu.Lock()
	if gen != c.generation {
		// The user edited the field while this lookup was in flight; its
		// result must not touch the visible state.
		c.mu.Unlock()
		return
	}
	st = c.setStateLocked(State{Phase: PhaseResult, Username: handle, Result: result})
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) setStateLocked(st State) State {
	c.state = st
	return st
}

func (c *Controller) observeBinderLocked() {
	if c.binder != nil {
		c.binder.ObserveInput(c.current)
	}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) notify(st State) {
	if c.onChange != nil {
		c.onChange(st)
	}
}

func invalidInputMessage(err error) string {
	switch err {
	case username.ErrTooLong:
		return "Username must be 30 characters or less"
	case username.ErrBadChars:
		return "Only letters, numbers, . and _ allowed"
	default:
		return "Invalid username"
	}
}
