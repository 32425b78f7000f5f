package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"butterfly-quiz-service/internal/app"
	"butterfly-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	ItemID string `json:"itemId"`
}

type answerResult struct {
	Accepted bool           `json:"accepted"`
	Outcome  domain.Outcome `json:"outcome,omitempty"`
	Score    int            `json:"score"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and plays one session over the connection.
// With ?session=<id> it attaches to an existing session; otherwise it starts
// a new one from ?difficulty= and ?rounds= and ends it on disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	id := query.Get("session")
	owned := id == ""
	var startErr error
	if owned {
		difficulty, err := difficultyParam(query.Get("difficulty"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rounds := 0
		if raw := query.Get("rounds"); raw != "" {
			if rounds, err = strconv.Atoi(raw); err != nil {
				http.Error(w, "rounds must be an integer", http.StatusBadRequest)
				return
			}
		}
		id, _, startErr = h.service.Start(ctx, rounds, difficulty)
		if id == "" {
			http.Error(w, startErr.Error(), statusFor(startErr))
			return
		}
	} else if _, err := h.service.State(id); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		if owned {
			h.service.End(id)
		}
		return
	}
	defer conn.Close()
	if owned {
		defer h.service.End(id)
	}

	updates, cancel, err := h.service.Subscribe(ctx, id)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{ID: id}}
	if startErr != nil {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: startErr.Error()}}
	}

	go func() {
		defer close(updatesDone)
		summarySent := false
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				msgs := []outboundMessage[any]{{Type: "state", Payload: view}}
				if view.Finished && view.Summary != nil && !summarySent {
					summarySent = true
					msgs = append(msgs, outboundMessage[any]{Type: "summary", Payload: view.Summary})
				}
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.handle(r, id, inbound); ok {
			select {
			case send <- msg:
			case <-writerDone:
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle applies one client message. State changes reach the client through
// the subscription, so only direct replies are returned here.
func (h *WSHandler) handle(r *http.Request, id string, inbound inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload"), true
		}
		view, accepted, err := h.service.Submit(id, payload.ItemID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		result := answerResult{Accepted: accepted, Score: view.Score}
		if accepted {
			result.Outcome = view.Outcome
		}
		return outboundMessage[any]{Type: "answerResult", Payload: result}, true
	case "begin":
		_, err = h.service.Begin(id)
	case "next":
		_, err = h.service.Advance(r.Context(), id)
	case "reload":
		_, err = h.service.Reload(r.Context(), id)
	default:
		return errorMessage("unsupported message type"), true
	}
	if err != nil {
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			log.Printf("ws %s %s: %v", id, inbound.Type, err)
		}
		return errorMessage(err.Error()), true
	}
	return outboundMessage[any]{}, false
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
