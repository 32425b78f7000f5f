package game_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
)

func TestPerfectGameSummary(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(ctx, 10, domain.DifficultyEasy); err != nil {
		t.Fatalf("start: %v", err)
	}

	var summary *domain.Summary
	for round := 1; round <= 10; round++ {
		v := c.View()
		if v.Round != round || v.State != domain.RoundPreview {
			t.Fatalf("round %d: unexpected view %+v", round, v)
		}
		if len(v.Options) != 0 {
			t.Fatalf("options must stay hidden during preview")
		}

		clock.Tick(5)
		v = c.View()
		if v.State != domain.RoundAnswering || v.RemainingSeconds != 10 || len(v.Options) != 4 {
			t.Fatalf("round %d: expected answering view, got %+v", round, v)
		}

		outcome, ok := c.SubmitAnswer(provider.lastCorrect())
		if !ok || outcome != domain.OutcomeCorrect {
			t.Fatalf("round %d: expected accepted correct answer, got %s %v", round, outcome, ok)
		}

		var err error
		summary, err = c.AdvanceRound(ctx)
		if err != nil {
			t.Fatalf("round %d advance: %v", round, err)
		}
		if round < 10 && summary != nil {
			t.Fatalf("summary emitted before the last round")
		}
	}

	if summary == nil {
		t.Fatalf("expected summary after last round")
	}
	if summary.Score != 10 || summary.TotalRounds != 10 || summary.Percentage != 100 || summary.Tier != domain.TierTop {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Rounds) != 10 {
		t.Fatalf("expected 10 round results, got %d", len(summary.Rounds))
	}
	if !c.View().Finished {
		t.Fatalf("expected finished view")
	}
	if _, err := c.AdvanceRound(ctx); !errors.Is(err, domain.ErrSessionFinished) {
		t.Fatalf("expected finished error, got %v", err)
	}
	if clock.Active() != 0 {
		t.Fatalf("expected no live timers, got %d", clock.Active())
	}
}

func TestTimeoutWinsAndLateSubmitIsIgnored(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(ctx, 5, domain.DifficultyHard); err != nil {
		t.Fatalf("start: %v", err)
	}
	for round := 1; round < 3; round++ {
		clock.Tick(5)
		c.SubmitAnswer(provider.lastCorrect())
		if _, err := c.AdvanceRound(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	clock.Tick(5)
	clock.Tick(9)
	if v := c.View(); v.State != domain.RoundAnswering || v.RemainingSeconds != 1 {
		t.Fatalf("expected 1s left, got %+v", v)
	}
	clock.Tick(1)

	v := c.View()
	if v.Round != 3 || v.State != domain.RoundResolved || v.Outcome != domain.OutcomeTimedOut {
		t.Fatalf("expected round 3 timed out, got %+v", v)
	}
	if v.Correct == nil || v.Correct.ID != provider.lastCorrect() {
		t.Fatalf("expected correct item revealed, got %+v", v.Correct)
	}

	if _, ok := c.SubmitAnswer(provider.lastCorrect()); ok {
		t.Fatalf("late submission must be ignored")
	}
	c.HandleTimeout()
	if got := c.View(); got.Score != 2 || got.Outcome != domain.OutcomeTimedOut {
		t.Fatalf("score or outcome changed after resolution: %+v", got)
	}
}

func TestDoubleSubmitIsNoop(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(ctx, 2, domain.DifficultyEasy); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := c.SubmitAnswer(provider.lastCorrect()); ok {
		t.Fatalf("submission during preview must be ignored")
	}

	clock.Tick(5)
	if outcome, ok := c.SubmitAnswer("wrong-id"); !ok || outcome != domain.OutcomeIncorrect {
		t.Fatalf("expected incorrect, got %s %v", outcome, ok)
	}
	if _, ok := c.SubmitAnswer(provider.lastCorrect()); ok {
		t.Fatalf("second submission must be ignored")
	}
	clock.Tick(20)

	v := c.View()
	if v.Score != 0 || v.Outcome != domain.OutcomeIncorrect || v.SelectedItemID != "wrong-id" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestAdvanceBeforeResolutionIsRejected(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(ctx, 3, domain.DifficultyMedium); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Tick(5)

	if _, err := c.AdvanceRound(ctx); !errors.Is(err, domain.ErrRoundNotResolved) {
		t.Fatalf("expected not resolved error, got %v", err)
	}
	v := c.View()
	if v.Round != 1 || v.State != domain.RoundAnswering {
		t.Fatalf("state changed after rejected advance: %+v", v)
	}
	if provider.callCount() != 1 {
		t.Fatalf("rejected advance must not load a question")
	}
}

func TestProviderFailureStaysLoadingUntilReload(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{fail: errors.New("catalog offline")}
	clock := game.NewManualClock()

	var mu sync.Mutex
	var errorsSeen int
	c := game.NewController(provider, clock, game.DefaultSettings(), game.WithObserver(func(v game.View) {
		if v.Error != "" {
			mu.Lock()
			errorsSeen++
			mu.Unlock()
		}
	}))

	err := c.Start(ctx, 10, domain.DifficultyEasy)
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected provider error, got %v", err)
	}
	clock.Tick(30)

	v := c.View()
	if v.State != domain.RoundLoading || v.Score != 0 || v.Round != 1 {
		t.Fatalf("expected round 1 loading with no score, got %+v", v)
	}
	if provider.callCount() != 1 {
		t.Fatalf("provider must not be retried automatically, calls=%d", provider.callCount())
	}
	mu.Lock()
	if errorsSeen != 1 {
		t.Fatalf("expected the failure surfaced once, got %d", errorsSeen)
	}
	mu.Unlock()

	provider.setFail(nil)
	if err := c.LoadNextQuestion(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v := c.View(); v.State != domain.RoundPreview || v.Error != "" {
		t.Fatalf("expected preview after reload, got %+v", v)
	}
	if err := c.LoadNextQuestion(ctx); !errors.Is(err, domain.ErrRoundInProgress) {
		t.Fatalf("expected reload outside loading to be rejected, got %v", err)
	}
}

func TestInvalidQuestionIsProviderFailure(t *testing.T) {
	provider := &stubProvider{duplicate: true}
	c := game.NewController(provider, game.NewManualClock(), game.DefaultSettings())

	err := c.Start(context.Background(), 1, domain.DifficultyEasy)
	if !errors.Is(err, domain.ErrProviderUnavailable) || !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected invalid question surfaced as provider failure, got %v", err)
	}
}

func TestStartRejectsBadConfiguration(t *testing.T) {
	provider := &stubProvider{}
	c := game.NewController(provider, game.NewManualClock(), game.DefaultSettings())

	if err := c.Start(context.Background(), 0, domain.DifficultyEasy); !errors.Is(err, domain.ErrInvalidConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if err := c.Start(context.Background(), 10, domain.Difficulty(7)); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("expected unknown difficulty, got %v", err)
	}
	if provider.callCount() != 0 {
		t.Fatalf("provider must not be called for rejected sessions")
	}
}

func TestBeginAnsweringSkipsPreview(t *testing.T) {
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(context.Background(), 1, domain.DifficultyEasy); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Tick(2)
	c.BeginAnswering()
	if v := c.View(); v.State != domain.RoundAnswering || v.RemainingSeconds != 10 {
		t.Fatalf("expected fresh answering countdown, got %+v", v)
	}
	clock.Tick(3)
	if v := c.View(); v.State != domain.RoundAnswering || v.RemainingSeconds != 7 {
		t.Fatalf("stale preview timer leaked into answering: %+v", v)
	}
}

func TestCloseCancelsTimers(t *testing.T) {
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(context.Background(), 3, domain.DifficultyEasy); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Tick(5)
	c.Close()
	c.Close()
	clock.Tick(20)

	if clock.Active() != 0 {
		t.Fatalf("expected timers cancelled on close")
	}
	if v := c.View(); v.State != domain.RoundAnswering {
		t.Fatalf("closed session must not be resolved by a stale timer: %+v", v)
	}
	if _, ok := c.SubmitAnswer(provider.lastCorrect()); ok {
		t.Fatalf("closed session must ignore submissions")
	}
	if _, err := c.AdvanceRound(context.Background()); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("expected closed error, got %v", err)
	}
}

func TestSubmitAndTimeoutRaceResolvesOnce(t *testing.T) {
	for i := 0; i < 200; i++ {
		provider := &stubProvider{}
		clock := game.NewManualClock()
		c := game.NewController(provider, clock, game.DefaultSettings())
		if err := c.Start(context.Background(), 1, domain.DifficultyEasy); err != nil {
			t.Fatalf("start: %v", err)
		}
		clock.Tick(5)

		var wg sync.WaitGroup
		accepted := make(chan bool, 1)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, ok := c.SubmitAnswer(provider.lastCorrect())
			accepted <- ok
		}()
		go func() {
			defer wg.Done()
			c.HandleTimeout()
		}()
		wg.Wait()

		v := c.View()
		if v.State != domain.RoundResolved {
			t.Fatalf("expected resolved round, got %+v", v)
		}
		ok := <-accepted
		switch {
		case ok && (v.Outcome != domain.OutcomeCorrect || v.Score != 1):
			t.Fatalf("submit won but view is %+v", v)
		case !ok && (v.Outcome != domain.OutcomeTimedOut || v.Score != 0):
			t.Fatalf("timeout won but view is %+v", v)
		}

		summary, err := c.AdvanceRound(context.Background())
		if err != nil || summary == nil || len(summary.Rounds) != 1 {
			t.Fatalf("expected a single resolution, got %+v err=%v", summary, err)
		}
	}
}

func TestObserverSeesResolutionAfterRacingTick(t *testing.T) {
	ctx := context.Background()
	clock := game.NewManualClock()

	var mu sync.Mutex
	var delivered []game.View
	entered := make(chan struct{})
	release := make(chan struct{})
	blocked := false
	observer := func(v game.View) {
		mu.Lock()
		delivered = append(delivered, v)
		hold := !blocked && v.State == domain.RoundAnswering && v.RemainingSeconds == 9
		if hold {
			blocked = true
		}
		mu.Unlock()
		if hold {
			close(entered)
			<-release
		}
	}
	c := game.NewController(&stubProvider{}, clock, game.DefaultSettings(), game.WithObserver(observer))
	if err := c.Start(ctx, 1, domain.DifficultyEasy); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.BeginAnswering()

	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		clock.Tick(1)
	}()
	<-entered

	submitDone := make(chan struct{})
	go func() {
		defer close(submitDone)
		if _, ok := c.SubmitAnswer("unknown"); !ok {
			t.Errorf("expected submission accepted")
		}
	}()
	deadline := time.Now().Add(2 * time.Second)
	for c.View().State != domain.RoundResolved {
		if time.Now().After(deadline) {
			t.Fatalf("submission never resolved the round")
		}
		time.Sleep(time.Millisecond)
	}
	close(release)
	<-tickDone
	<-submitDone

	mu.Lock()
	defer mu.Unlock()
	last := delivered[len(delivered)-1]
	if last.State != domain.RoundResolved || last.Outcome != domain.OutcomeIncorrect {
		t.Fatalf("expected resolved view delivered last, got state=%s remaining=%d", last.State, last.RemainingSeconds)
	}
	for i := 1; i < len(delivered); i++ {
		if delivered[i].Version <= delivered[i-1].Version {
			t.Fatalf("views delivered out of order: %d after %d", delivered[i].Version, delivered[i-1].Version)
		}
	}
}

func TestScoreNeverExceedsRoundsPlayed(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{}
	clock := game.NewManualClock()
	c := game.NewController(provider, clock, game.DefaultSettings())

	if err := c.Start(ctx, 6, domain.DifficultyMedium); err != nil {
		t.Fatalf("start: %v", err)
	}
	for round := 1; round <= 6; round++ {
		clock.Tick(5)
		switch round % 3 {
		case 0:
			clock.Tick(10)
		case 1:
			c.SubmitAnswer(provider.lastCorrect())
			c.SubmitAnswer(provider.lastCorrect())
		default:
			c.SubmitAnswer("nope")
		}
		v := c.View()
		if v.Score < 0 || v.Score > v.Round {
			t.Fatalf("score %d out of range at round %d", v.Score, v.Round)
		}
		summary, err := c.AdvanceRound(ctx)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if round == 6 {
			if summary.Score != 2 || summary.Percentage != 33 || summary.Tier != domain.TierLow {
				t.Fatalf("unexpected summary %+v", summary)
			}
		}
	}
}

type stubProvider struct {
	mu        sync.Mutex
	fail      error
	duplicate bool
	calls     int
	last      domain.Question
}

func (p *stubProvider) Question(_ context.Context, difficulty domain.Difficulty) (domain.Question, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail != nil {
		return domain.Question{}, p.fail
	}
	correct := domain.Item{ID: fmt.Sprintf("item-%d", p.calls), Name: "Monarch", FormalName: "Danaus plexippus", ImageURL: "https://example.com/m.jpg", Difficulty: difficulty}
	options := []domain.Item{
		{ID: fmt.Sprintf("d1-%d", p.calls)},
		correct,
		{ID: fmt.Sprintf("d2-%d", p.calls)},
		{ID: fmt.Sprintf("d3-%d", p.calls)},
	}
	if p.duplicate {
		options[3] = options[0]
	}
	p.last = domain.Question{Correct: correct, Options: options}
	return p.last, nil
}

func (p *stubProvider) lastCorrect() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last.Correct.ID
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubProvider) setFail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}
