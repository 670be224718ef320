package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/app"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/domain"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketQuizRun(t *testing.T) {
	pool := samplePool()
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(pool), time.Minute)
	sessions := memory.NewSessionStore()
	store := memory.NewProgressStore()
	board := memory.NewLeaderboard()
	ledger := app.NewProgressionLedger(store, board)
	service := app.NewQuizService(questions, sessions, ledger, board)
	wsHandler := NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"category":      "Science",
			"difficulty":    "Easy",
			"questionLimit": 2,
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}

	correctByID := make(map[string]string, len(pool))
	for _, q := range pool {
		correctByID[q.ID] = q.Correct
	}

	// Drive the run: answer each active question correctly, stop at result.
	answeredIndex := -1
	var result map[string]any
	for result == nil {
		typ, payload := readNext(conn, t, "")
		switch typ {
		case "state":
			if payload["phase"] != "active" {
				continue
			}
			index := int(payload["index"].(float64))
			if index == answeredIndex {
				continue
			}
			answeredIndex = index
			question := payload["question"].(map[string]any)
			answer := map[string]any{
				"type": "answer",
				"payload": map[string]any{
					"option": correctByID[question["id"].(string)],
				},
			}
			if err := conn.WriteJSON(answer); err != nil {
				t.Fatalf("write answer: %v", err)
			}
		case "result":
			result = payload
		case "error":
			t.Fatalf("unexpected error message: %v", payload)
		}
	}

	reward := result["reward"].(map[string]any)
	if int(reward["xp"].(float64)) != 20 {
		t.Fatalf("expected 20 xp for a perfect easy run of 2, got %v", reward["xp"])
	}
	delta := result["delta"].(map[string]any)
	if int(delta["newHighScore"].(float64)) != 2 {
		t.Fatalf("expected high score 2, got %v", delta["newHighScore"])
	}

	// The finished session is cleared once the result is applied.
	if _, ok := service.Session("u1"); ok {
		t.Fatalf("expected session removed after completion")
	}
}

func TestWebSocketStartWithBadResumeReportsError(t *testing.T) {
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(samplePool()), time.Minute)
	sessions := memory.NewSessionStore()
	ledger := app.NewProgressionLedger(memory.NewProgressStore(), nil)
	service := app.NewQuizService(questions, sessions, ledger, memory.NewLeaderboard())
	wsHandler := NewWSHandler(service)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "?userId=u1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// A resume index far past the drawn set must be rejected with an error
	// message, leaving the connection usable.
	start := map[string]any{
		"type": "start",
		"payload": map[string]any{
			"category":   "Science",
			"difficulty": "Easy",
			"resume":     map[string]any{"index": 50, "score": 0},
		},
	}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write start: %v", err)
	}
	_, payload := readNext(conn, t, "error")
	if payload["message"] != domain.ErrInvalidResumeState.Error() {
		t.Fatalf("unexpected error payload: %v", payload)
	}
	if _, ok := service.Session("u1"); ok {
		t.Fatalf("expected no session after rejected start")
	}

	// The same connection can still start a normal run.
	start["payload"] = map[string]any{"category": "Science", "difficulty": "Easy"}
	if err := conn.WriteJSON(start); err != nil {
		t.Fatalf("write second start: %v", err)
	}
	readNext(conn, t, "state")
	if _, ok := service.Session("u1"); !ok {
		t.Fatalf("expected active session after valid start")
	}
}

func TestWebSocketRejectsMissingUserID(t *testing.T) {
	service := app.NewQuizService(
		memory.NewQuestionRepository(memory.NewStaticQuestionLoader(nil), time.Minute),
		memory.NewSessionStore(),
		app.NewProgressionLedger(memory.NewProgressStore(), nil),
		memory.NewLeaderboard(),
	)
	wsHandler := NewWSHandler(service)

	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}

func samplePool() []domain.Question {
	return []domain.Question{
		{
			ID:         "sci-1",
			Category:   "Science",
			Difficulty: domain.DifficultyEasy,
			Text:       "What is 2 + 2?",
			Options:    []string{"3", "4", "5", "6"},
			Correct:    "4",
		},
		{
			ID:         "sci-2",
			Category:   "Science",
			Difficulty: domain.DifficultyEasy,
			Text:       "What is H2O commonly known as?",
			Options:    []string{"Salt", "Water", "Oxygen", "Hydrogen"},
			Correct:    "Water",
		},
	}
}
