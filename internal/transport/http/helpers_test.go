package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"butterfly-quiz-service/internal/app"
	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
	"butterfly-quiz-service/internal/infra/memory"
)

type testEnv struct {
	server *httptest.Server
	clock  *game.ManualClock
	games  *app.GameService
}

func newTestEnv(t *testing.T, seed bool) *testEnv {
	t.Helper()
	store := memory.NewItemStore()
	cache := memory.NewItemCache(store, time.Minute)
	catalog := app.NewCatalogService(store, cache)
	if seed {
		if _, _, err := catalog.Seed(context.Background()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	clock := game.NewManualClock()
	questions := app.NewQuestionProvider(cache, 4)
	games := app.NewGameService(memory.NewSessionStore(), memory.NewSummaryStore(10), questions, app.GameOptions{
		Clock:         clock,
		Settings:      game.DefaultSettings(),
		DefaultRounds: 10,
	})
	server := httptest.NewServer(NewRouter(catalog, games, questions, 10))
	t.Cleanup(server.Close)
	return &testEnv{server: server, clock: clock, games: games}
}

type sessionBody struct {
	ID       string `json:"id"`
	Round    int    `json:"round"`
	State    string `json:"state"`
	Outcome  string `json:"outcome"`
	Accepted bool   `json:"accepted"`
	Finished bool   `json:"finished"`
	Error    string `json:"error"`
	Options  []struct {
		ID string `json:"id"`
	} `json:"options"`
	Correct *domain.Item    `json:"correctAnswer"`
	Summary *domain.Summary `json:"summary"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}
