package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
	"github.com/google/uuid"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis, etc).
// Get refreshes a session's idle deadline; a session past it is evicted and
// closed instead of returned. Sweep evicts every expired session.
type SessionRepository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	Sweep() int
}

// SummaryRepository keeps the summaries of finished sessions.
type SummaryRepository interface {
	SaveSummary(ctx context.Context, summary domain.SessionSummary) error
	RecentSummaries(ctx context.Context, limit int) ([]domain.SessionSummary, error)
}

// GameOptions configures new sessions.
type GameOptions struct {
	Clock         game.Clock
	Settings      game.Settings
	DefaultRounds int
}

// GameService runs many independent single-player sessions.
type GameService struct {
	sessions  SessionRepository
	summaries SummaryRepository
	provider  game.QuestionProvider
	opts      GameOptions
	now       func() time.Time
	newID     func() string
}

func NewGameService(sessions SessionRepository, summaries SummaryRepository, provider game.QuestionProvider, opts GameOptions) *GameService {
	if opts.Clock == nil {
		opts.Clock = game.RealClock{}
	}
	if opts.Settings == (game.Settings{}) {
		opts.Settings = game.DefaultSettings()
	}
	if opts.DefaultRounds <= 0 {
		opts.DefaultRounds = 10
	}
	return &GameService{
		sessions:  sessions,
		summaries: summaries,
		provider:  provider,
		opts:      opts,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Start creates a session and loads its first question. Configuration errors
// create nothing. A provider failure still returns the new session id so the
// caller can reload it.
func (s *GameService) Start(ctx context.Context, rounds int, difficulty domain.Difficulty) (string, game.View, error) {
	if rounds == 0 {
		rounds = s.opts.DefaultRounds
	}

	session := newSession(s.newID())
	session.ctrl = game.NewController(s.provider, s.opts.Clock, s.opts.Settings, game.WithObserver(session.publish))

	err := session.ctrl.Start(ctx, rounds, difficulty)
	if errors.Is(err, domain.ErrInvalidConfiguration) {
		session.ctrl.Close()
		return "", game.View{}, err
	}
	s.sessions.Save(session)
	if err != nil {
		log.Printf("session %s: first question failed: %v", session.id, err)
	} else {
		log.Printf("session %s started: %d rounds, %s", session.id, rounds, difficulty)
	}
	return session.id, session.ctrl.View(), err
}

// State returns the current view of a session.
func (s *GameService) State(id string) (game.View, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return game.View{}, domain.ErrSessionNotFound
	}
	return session.ctrl.View(), nil
}

// Submit records an answer. accepted is false when the submission was ignored
// because the round was not answering or had already been resolved.
func (s *GameService) Submit(id, itemID string) (view game.View, accepted bool, err error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return game.View{}, false, domain.ErrSessionNotFound
	}
	_, accepted = session.ctrl.SubmitAnswer(itemID)
	return session.ctrl.View(), accepted, nil
}

// Begin ends the preview window early.
func (s *GameService) Begin(id string) (game.View, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return game.View{}, domain.ErrSessionNotFound
	}
	session.ctrl.BeginAnswering()
	return session.ctrl.View(), nil
}

// Reload retries the question load of a round stuck in Loading.
func (s *GameService) Reload(ctx context.Context, id string) (game.View, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return game.View{}, domain.ErrSessionNotFound
	}
	err := session.ctrl.LoadNextQuestion(ctx)
	return session.ctrl.View(), err
}

// Advance moves to the next round, or finishes the session and stores its summary.
func (s *GameService) Advance(ctx context.Context, id string) (game.View, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return game.View{}, domain.ErrSessionNotFound
	}
	summary, err := session.ctrl.AdvanceRound(ctx)
	if summary != nil {
		log.Printf("session %s finished: %d/%d (%d%%)", id, summary.Score, summary.TotalRounds, summary.Percentage)
		record := domain.SessionSummary{SessionID: id, Summary: *summary, FinishedAt: s.now()}
		if serr := s.summaries.SaveSummary(ctx, record); serr != nil {
			log.Printf("session %s: save summary: %v", id, serr)
		}
	}
	return session.ctrl.View(), err
}

// Replay ends a session and starts a fresh one with the same difficulty and length.
func (s *GameService) Replay(ctx context.Context, id string) (string, game.View, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return "", game.View{}, domain.ErrSessionNotFound
	}
	view := session.ctrl.View()
	s.End(id)
	return s.Start(ctx, view.TotalRounds, view.Difficulty)
}

// Subscribe returns a channel of views for a session. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, id string) (<-chan game.View, func(), error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// End tears a session down, cancelling its timers and closing subscriptions.
func (s *GameService) End(id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(id)
}

// RunReaper evicts idle sessions every interval until ctx is done.
func (s *GameService) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				log.Printf("reaped %d idle sessions", n)
			}
		}
	}
}

// RecentSummaries lists the most recent finished sessions, newest first.
func (s *GameService) RecentSummaries(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	return s.summaries.RecentSummaries(ctx, limit)
}

// Session pairs a game controller with the subscribers watching it.
type Session struct {
	id   string
	ctrl *game.Controller

	mu          sync.Mutex
	closed      bool
	last        *game.View
	subscribers map[chan game.View]struct{}
}

func newSession(id string) *Session {
	return &Session{id: id, subscribers: make(map[chan game.View]struct{})}
}

// NewSession wraps an existing controller; used by infrastructure tests.
func NewSession(id string, ctrl *game.Controller) *Session {
	s := newSession(id)
	s.ctrl = ctrl
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) subscribe() (<-chan game.View, func()) {
	ch := make(chan game.View, 8)
	initial := s.ctrl.View()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	// A view published after the snapshot was taken supersedes it.
	if s.last != nil && s.last.Version > initial.Version {
		initial = *s.last
	}
	s.subscribers[ch] = struct{}{}
	ch <- initial
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) publish(view game.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &view
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Slow subscriber: drop the oldest view so the newest one always lands.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}

// Close stops the session's timers and closes every subscription. Stores call
// it when they evict an idle session.
func (s *Session) Close() {
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	s.closeSubscribers()
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
