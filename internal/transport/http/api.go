package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"butterfly-quiz-service/internal/app"
	"butterfly-quiz-service/internal/domain"
	"butterfly-quiz-service/internal/game"
	"github.com/go-chi/chi/v5"
)

// API serves the catalog and session endpoints.
type API struct {
	catalog      *app.CatalogService
	games        *app.GameService
	questions    *app.QuestionProvider
	historyLimit int
}

type sessionResponse struct {
	ID string `json:"id"`
	game.View
}

type startRequest struct {
	Rounds     int             `json:"rounds"`
	Difficulty json.RawMessage `json:"difficulty"`
}

type answerRequest struct {
	ItemID string `json:"itemId"`
}

type answerResponse struct {
	Accepted bool `json:"accepted"`
	sessionResponse
}

type seedResponse struct {
	Inserted int `json:"inserted"`
	Existing int `json:"existing"`
}

func (a *API) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := a.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (a *API) seedItems(w http.ResponseWriter, r *http.Request) {
	inserted, existing, err := a.catalog.Seed(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seedResponse{Inserted: inserted, Existing: existing})
}

func (a *API) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := a.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (a *API) createItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := readJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item payload")
		return
	}
	created, err := a.catalog.Create(r.Context(), item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) updateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if err := readJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid item payload")
		return
	}
	updated, err := a.catalog.Update(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) question(w http.ResponseWriter, r *http.Request) {
	difficulty, err := difficultyParam(r.URL.Query().Get("difficulty"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	question, err := a.questions.Question(r.Context(), difficulty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (a *API) summaries(w http.ResponseWriter, r *http.Request) {
	limit := a.historyLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n < limit || limit <= 0 {
			limit = n
		}
	}
	summaries, err := a.games.RecentSummaries(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if summaries == nil {
		summaries = []domain.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *API) startSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid session payload")
			return
		}
	}
	difficulty, err := difficultyParam(strings.Trim(string(req.Difficulty), `"`))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	id, view, err := a.games.Start(r.Context(), req.Rounds, difficulty)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, sessionResponse{ID: id, View: view})
	case id != "":
		// The session exists in Loading; the client may reload it.
		writeJSON(w, statusFor(err), sessionResponse{ID: id, View: view})
	default:
		writeDomainError(w, err)
	}
}

func (a *API) sessionState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := a.games.State(id)
	writeSession(w, id, view, err)
}

func (a *API) endSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.games.State(id); err != nil {
		writeDomainError(w, err)
		return
	}
	a.games.End(id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid answer payload")
		return
	}
	id := chi.URLParam(r, "id")
	view, accepted, err := a.games.Submit(id, req.ItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Accepted: accepted, sessionResponse: sessionResponse{ID: id, View: view}})
}

func (a *API) beginAnswering(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := a.games.Begin(id)
	writeSession(w, id, view, err)
}

func (a *API) advanceRound(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := a.games.Advance(r.Context(), id)
	writeSession(w, id, view, err)
}

func (a *API) reloadQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := a.games.Reload(r.Context(), id)
	writeSession(w, id, view, err)
}

func (a *API) replaySession(w http.ResponseWriter, r *http.Request) {
	newID, view, err := a.games.Replay(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, sessionResponse{ID: newID, View: view})
	case newID != "":
		writeJSON(w, statusFor(err), sessionResponse{ID: newID, View: view})
	default:
		writeDomainError(w, err)
	}
}

func writeSession(w http.ResponseWriter, id string, view game.View, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeDomainError(w, err)
		return
	}
	if err != nil {
		writeJSON(w, statusFor(err), struct {
			sessionResponse
			Error string `json:"error"`
		}{sessionResponse{ID: id, View: view}, err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view})
}

// difficultyParam parses an optional difficulty, defaulting to Easy.
func difficultyParam(raw string) (domain.Difficulty, error) {
	if strings.TrimSpace(raw) == "" || raw == "null" {
		return domain.DifficultyEasy, nil
	}
	return domain.ParseDifficulty(raw)
}
