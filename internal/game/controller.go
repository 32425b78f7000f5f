package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"butterfly-quiz-service/internal/domain"
)

// QuestionProvider supplies one question for a difficulty tier.
type QuestionProvider interface {
	Question(ctx context.Context, difficulty domain.Difficulty) (domain.Question, error)
}

// Settings are the per-session timing and sizing knobs.
type Settings struct {
	OptionCount int
	Preview     time.Duration
	Answer      time.Duration
	Tick        time.Duration
}

// DefaultSettings matches the observed game: 4 options, 5s preview, 10s to answer, 1s ticks.
func DefaultSettings() Settings {
	return Settings{
		OptionCount: 4,
		Preview:     5 * time.Second,
		Answer:      10 * time.Second,
		Tick:        time.Second,
	}
}

// Controller owns a single game session and is the only writer of its score
// and round counters. All methods are safe for concurrent use; timer callbacks
// arrive on the clock's goroutine.
type Controller struct {
	provider QuestionProvider
	settings Settings
	timer    *RoundTimer
	observer func(View)

	mu         sync.Mutex
	started    bool
	closed     bool
	finished   bool
	loading    bool
	round      int
	total      int
	score      int
	difficulty domain.Difficulty
	state      domain.RoundState
	question   *domain.Question
	outcome    domain.Outcome
	selected   string
	history    []domain.RoundResult
	summary    *domain.Summary
	lastErr    error

	// token identifies the live round; callbacks carrying an older token are stale.
	token uint64
	// resolved is the single check-and-set that decides between a submission
	// and the timeout for the live round.
	resolved atomic.Bool
	// version numbers every view built for the observer, under mu.
	version uint64

	// pubMu serializes observer delivery; published is the newest version delivered.
	pubMu     sync.Mutex
	published uint64
}

// Option customises a Controller.
type Option func(*Controller)

// WithObserver registers a callback that receives a View after every state change.
// Calls are serialized and arrive in version order; the controller's state lock
// is not held, so the callback may read View but must not block indefinitely.
func WithObserver(fn func(View)) Option {
	return func(c *Controller) { c.observer = fn }
}

func NewController(provider QuestionProvider, clock Clock, settings Settings, opts ...Option) *Controller {
	if clock == nil {
		clock = RealClock{}
	}
	c := &Controller{
		provider: provider,
		settings: settings,
		timer:    NewRoundTimer(clock, settings.Tick),
		state:    domain.RoundLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start creates the session and begins round 1. Configuration errors fail fast
// and leave the controller untouched; a provider failure leaves round 1 in
// Loading and is returned wrapped in domain.ErrProviderUnavailable.
func (c *Controller) Start(ctx context.Context, totalRounds int, difficulty domain.Difficulty) error {
	if totalRounds <= 0 {
		return fmt.Errorf("%w: total rounds must be positive, got %d", domain.ErrInvalidConfiguration, totalRounds)
	}
	if !difficulty.Valid() {
		return fmt.Errorf("%w: %w %d", domain.ErrInvalidConfiguration, domain.ErrUnknownDifficulty, int(difficulty))
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("%w: session already started", domain.ErrInvalidConfiguration)
	}
	c.started = true
	c.total = totalRounds
	c.difficulty = difficulty
	c.round = 1
	c.score = 0
	c.resetRoundLocked()
	c.mu.Unlock()

	return c.LoadNextQuestion(ctx)
}

// LoadNextQuestion fetches the question for the current round. It is only
// valid while the round is Loading; calling it again after a provider failure
// is the explicit reload. There is no automatic retry.
func (c *Controller) LoadNextQuestion(ctx context.Context) error {
	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.state != domain.RoundLoading {
		c.mu.Unlock()
		return domain.ErrRoundInProgress
	}
	if c.loading {
		c.mu.Unlock()
		return domain.ErrLoadInProgress
	}
	c.loading = true
	c.lastErr = nil
	token := c.token
	difficulty := c.difficulty
	c.mu.Unlock()

	question, err := c.provider.Question(ctx, difficulty)
	if err == nil {
		err = question.Validate(c.settings.OptionCount)
	}

	c.mu.Lock()
	c.loading = false
	if c.closed || token != c.token {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if err != nil {
		c.lastErr = fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
		view := c.nextViewLocked()
		c.mu.Unlock()
		c.notify(view)
		return c.lastErr
	}
	c.question = &question
	c.state = domain.RoundPreview
	c.timer.Arm(PhasePreview, c.settings.Preview, c.tickFunc(token), func() { c.beginAnswering(token) })
	view := c.nextViewLocked()
	c.mu.Unlock()

	c.notify(view)
	return nil
}

// BeginAnswering ends the preview window early and arms the answering countdown.
// It is a no-op outside Preview.
func (c *Controller) BeginAnswering() {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	c.beginAnswering(token)
}

func (c *Controller) beginAnswering(token uint64) {
	c.mu.Lock()
	if c.closed || token != c.token || c.state != domain.RoundPreview {
		c.mu.Unlock()
		return
	}
	c.state = domain.RoundAnswering
	c.timer.Arm(PhaseAnswering, c.settings.Answer, c.tickFunc(token), func() { c.handleTimeout(token) })
	view := c.nextViewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// SubmitAnswer resolves the round with the player's choice. It reports false,
// and changes nothing, outside Answering or once the round is resolved.
func (c *Controller) SubmitAnswer(selectedItemID string) (domain.Outcome, bool) {
	c.mu.Lock()
	if c.closed || c.state != domain.RoundAnswering || c.question == nil {
		c.mu.Unlock()
		return domain.OutcomeNone, false
	}
	if !c.resolved.CompareAndSwap(false, true) {
		c.mu.Unlock()
		return domain.OutcomeNone, false
	}
	c.timer.Cancel()

	outcome := domain.OutcomeIncorrect
	if Evaluate(*c.question, selectedItemID) {
		outcome = domain.OutcomeCorrect
		c.score++
	}
	c.selected = selectedItemID
	c.resolveLocked(outcome)
	view := c.nextViewLocked()
	c.mu.Unlock()

	c.notify(view)
	return outcome, true
}

// HandleTimeout resolves the live round as timed out. It is a no-op unless the
// round is Answering and unresolved.
func (c *Controller) HandleTimeout() {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	c.handleTimeout(token)
}

func (c *Controller) handleTimeout(token uint64) {
	c.mu.Lock()
	if c.closed || token != c.token || c.state != domain.RoundAnswering {
		c.mu.Unlock()
		return
	}
	if !c.resolved.CompareAndSwap(false, true) {
		c.mu.Unlock()
		return
	}
	c.timer.Cancel()
	c.resolveLocked(domain.OutcomeTimedOut)
	view := c.nextViewLocked()
	c.mu.Unlock()

	c.notify(view)
}

// AdvanceRound moves past a resolved round. Before the last round it loads the
// next question and returns a nil summary; on the last round it finalizes the
// session and returns the summary.
func (c *Controller) AdvanceRound(ctx context.Context) (*domain.Summary, error) {
	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.state != domain.RoundResolved {
		c.mu.Unlock()
		return nil, domain.ErrRoundNotResolved
	}

	if c.round >= c.total {
		c.timer.Cancel()
		summary := Summarize(c.score, c.total, c.difficulty)
		summary.Rounds = append([]domain.RoundResult(nil), c.history...)
		c.summary = &summary
		c.finished = true
		view := c.nextViewLocked()
		c.mu.Unlock()

		c.notify(view)
		return &summary, nil
	}

	c.round++
	c.resetRoundLocked()
	view := c.nextViewLocked()
	c.mu.Unlock()

	c.notify(view)
	return nil, c.LoadNextQuestion(ctx)
}

// Close tears the session down and cancels any live countdown so no callback
// can mutate it afterwards. It is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.token++
	c.timer.Cancel()
}

// View returns a read-only snapshot of the session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Difficulty returns the tier the session was started with.
func (c *Controller) Difficulty() domain.Difficulty {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.difficulty
}

func (c *Controller) usableLocked() error {
	switch {
	case c.closed:
		return domain.ErrSessionClosed
	case !c.started:
		return fmt.Errorf("%w: session not started", domain.ErrInvalidConfiguration)
	case c.finished:
		return domain.ErrSessionFinished
	}
	return nil
}

func (c *Controller) resetRoundLocked() {
	c.timer.Cancel()
	c.token++
	c.state = domain.RoundLoading
	c.question = nil
	c.outcome = domain.OutcomeNone
	c.selected = ""
	c.lastErr = nil
	c.resolved.Store(false)
}

func (c *Controller) resolveLocked(outcome domain.Outcome) {
	c.state = domain.RoundResolved
	c.outcome = outcome
	c.history = append(c.history, domain.RoundResult{
		Round:          c.round,
		CorrectItemID:  c.question.Correct.ID,
		SelectedItemID: c.selected,
		Outcome:        outcome,
	})
}

func (c *Controller) tickFunc(token uint64) func(time.Duration) {
	return func(time.Duration) {
		c.mu.Lock()
		if c.closed || token != c.token {
			c.mu.Unlock()
			return
		}
		view := c.nextViewLocked()
		c.mu.Unlock()
		c.notify(view)
	}
}

// nextViewLocked snapshots the session for the observer under a new version.
func (c *Controller) nextViewLocked() View {
	c.version++
	return c.viewLocked()
}

// notify delivers views in version order. A view built before one that was
// already delivered is dropped, so a tick racing a resolution cannot land last.
func (c *Controller) notify(view View) {
	if c.observer == nil {
		return
	}
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if view.Version <= c.published {
		return
	}
	c.published = view.Version
	c.observer(view)
}
