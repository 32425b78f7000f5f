package http

import (
	"net/http"

	"butterfly-quiz-service/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST API, the websocket endpoint and the health check.
func NewRouter(catalog *app.CatalogService, games *app.GameService, questions *app.QuestionProvider, historyLimit int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	api := &API{catalog: catalog, games: games, questions: questions, historyLimit: historyLimit}
	ws := NewWSHandler(games)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items", api.listItems)
		r.Post("/init-items", api.seedItems)
		r.Get("/quiz/question", api.question)
		r.Get("/summaries", api.summaries)

		r.Route("/admin/items", func(r chi.Router) {
			r.Get("/", api.listItems)
			r.Post("/", api.createItem)
			r.Get("/{id}", api.getItem)
			r.Put("/{id}", api.updateItem)
			r.Delete("/{id}", api.deleteItem)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", api.startSession)
			r.Get("/{id}", api.sessionState)
			r.Delete("/{id}", api.endSession)
			r.Post("/{id}/answer", api.submitAnswer)
			r.Post("/{id}/begin", api.beginAnswering)
			r.Post("/{id}/advance", api.advanceRound)
			r.Post("/{id}/reload", api.reloadQuestion)
			r.Post("/{id}/replay", api.replaySession)
		})
	})
	return r
}
