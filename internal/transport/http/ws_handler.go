package http

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/app"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
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

type startPayload struct {
	Category      string              `json:"category"`
	Difficulty    domain.Difficulty   `json:"difficulty"`
	QuestionLimit int                 `json:"questionLimit,omitempty"`
	Resume        *domain.ResumeState `json:"resume,omitempty"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type hintPayload struct {
	Letter string `json:"letter"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives quiz sessions over
// them. Each connection serves one user; a `start` message begins a run and
// the server streams `state` snapshots until a `result` closes it out.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwarders sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Cancels the forwarder of the session currently streaming, if any.
	var cancelUpdates func()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid start payload")
				continue
			}
			session, err := h.service.StartSession(r.Context(), userID, domain.SessionConfig{
				Category:      payload.Category,
				Difficulty:    payload.Difficulty,
				QuestionLimit: payload.QuestionLimit,
				Resume:        payload.Resume,
			})
			if err != nil {
				send <- errorMessage(err.Error())
				continue
			}
			if cancelUpdates != nil {
				cancelUpdates()
			}
			updates, cancel := session.Subscribe()
			cancelUpdates = cancel
			forwarders.Add(1)
			go func() {
				defer forwarders.Done()
				h.forwardUpdates(r, session, updates, send, closeSignals)
			}()

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage("invalid answer payload")
				continue
			}
			session, ok := h.service.Session(userID)
			if !ok {
				send <- errorMessage("no active session")
				continue
			}
			session.Answer(payload.Option)

		case "hint":
			session, ok := h.service.Session(userID)
			if !ok {
				send <- errorMessage("no active session")
				continue
			}
			letter, ok := session.UseHint()
			if !ok {
				send <- errorMessage("hint unavailable")
				continue
			}
			send <- outboundMessage[any]{Type: "hint", Payload: hintPayload{Letter: letter}}

		case "extraTime":
			session, ok := h.service.Session(userID)
			if !ok {
				send <- errorMessage("no active session")
				continue
			}
			if !session.UseExtraTime() {
				send <- errorMessage("extra time unavailable")
			}

		case "skip":
			session, ok := h.service.Session(userID)
			if !ok {
				send <- errorMessage("no active session")
				continue
			}
			if !session.UseSkip() {
				send <- errorMessage("skip unavailable")
			}

		case "abandon":
			h.service.Abandon(userID)

		default:
			send <- errorMessage("unsupported message type")
		}
	}

	// Client is gone; resume state lives client-side, so the run is dropped.
	h.service.Abandon(userID)
	if cancelUpdates != nil {
		cancelUpdates()
	}
	close(closeSignals)
	forwarders.Wait()
	close(send)
	<-writerDone
}

// forwardUpdates streams session snapshots to the writer. When the session
// finishes it applies the result through the progression ledger and emits it
// as the closing message of the run. The session is the one captured at
// start; completing it directly means a concurrent restart cannot swallow
// the finished run's reward.
func (h *WSHandler) forwardUpdates(r *http.Request, session *app.Session, updates <-chan domain.SessionView, send chan<- outboundMessage[any], closeSignals <-chan struct{}) {
	for {
		select {
		case view, ok := <-updates:
			if !ok {
				return
			}
			select {
			case send <- outboundMessage[any]{Type: "state", Payload: view}:
			case <-closeSignals:
				return
			}
			if view.Phase == domain.PhaseFinished {
				outcome, err := h.service.CompleteSession(r.Context(), session)
				if err != nil {
					select {
					case send <- errorMessage(err.Error()):
					case <-closeSignals:
					}
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "result", Payload: outcome}:
				case <-closeSignals:
				}
				return
			}
		case <-closeSignals:
			return
		}
	}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
