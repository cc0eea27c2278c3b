package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/wricardo/terminal-maze/game/engine"
	"github.com/wricardo/terminal-maze/transport/websocket"
)

func newTestState(t *testing.T) *engine.GameState {
	t.Helper()
	m, err := engine.ParseLayout([]string{
		"11111",
		"14001",
		"11101",
		"13001",
		"11111",
	})
	if err != nil {
		t.Fatalf("ParseLayout failed: %v", err)
	}
	return engine.NewGameState(m)
}

func createTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.NewDecoder(w.Body).Decode(target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

func TestGetState(t *testing.T) {
	state := newTestState(t)
	state.Move(engine.Right)

	server := NewServer(state, nil, "run-1")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, createTestRequest("GET", "/api/state"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %s", ct)
	}

	var resp StateResponse
	parseResponse(t, w, &resp)

	if resp.RunID != "run-1" {
		t.Errorf("Expected run ID run-1, got %s", resp.RunID)
	}

	if resp.Snapshot.Player != (engine.Position{X: 2, Y: 1}) {
		t.Errorf("Expected player at (2,1), got %v", resp.Snapshot.Player)
	}

	if resp.Snapshot.TotalMoves != 1 {
		t.Errorf("Expected 1 move, got %d", resp.Snapshot.TotalMoves)
	}

	if len(resp.Board) != 5 || resp.Board[1] != "H * O   H" {
		t.Errorf("Unexpected board: %q", resp.Board)
	}
}

func TestGetHistory(t *testing.T) {
	state := newTestState(t)
	state.Move(engine.Right)
	state.Move(engine.Up)
	state.Move(engine.Right)

	server := NewServer(state, nil, "run-1")

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "default order is newest first",
			path:           "/api/history",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp HistoryResponse
				parseResponse(t, w, &resp)
				if resp.TotalMoves != 3 {
					t.Errorf("Expected 3 moves, got %d", resp.TotalMoves)
				}
				if len(resp.Moves) != 3 || resp.Moves[0].MoveNumber != 3 {
					t.Errorf("Expected newest move first, got %+v", resp.Moves)
				}
			},
		},
		{
			name:           "ascending with paging",
			path:           "/api/history?order=asc&limit=2&page=1",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp HistoryResponse
				parseResponse(t, w, &resp)
				if len(resp.Moves) != 2 {
					t.Fatalf("Expected 2 moves, got %d", len(resp.Moves))
				}
				if resp.Moves[0].Action != "right" || !resp.Moves[0].Success {
					t.Errorf("Unexpected first move: %+v", resp.Moves[0])
				}
				if resp.Moves[1].Outcome != engine.BlockedByWall.String() || resp.Moves[1].Success {
					t.Errorf("Expected blocked second move, got %+v", resp.Moves[1])
				}
			},
		},
		{
			name:           "page past the end is empty",
			path:           "/api/history?page=5",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp HistoryResponse
				parseResponse(t, w, &resp)
				if len(resp.Moves) != 0 {
					t.Errorf("Expected no moves, got %d", len(resp.Moves))
				}
			},
		},
		{
			name:           "huge page does not overflow",
			path:           "/api/history?page=4611686018427387904&limit=4",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp HistoryResponse
				parseResponse(t, w, &resp)
				if len(resp.Moves) != 0 {
					t.Errorf("Expected no moves, got %d", len(resp.Moves))
				}
			},
		},
		{
			name:           "huge limit is capped",
			path:           "/api/history?page=3&limit=4611686018427387904",
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp HistoryResponse
				parseResponse(t, w, &resp)
				if resp.Limit != maxHistoryLimit {
					t.Errorf("Expected limit %d, got %d", maxHistoryLimit, resp.Limit)
				}
				if len(resp.Moves) != 0 {
					t.Errorf("Expected no moves on page 3, got %d", len(resp.Moves))
				}
			},
		},
		{
			name:           "invalid limit",
			path:           "/api/history?limit=zero",
			expectedStatus: http.StatusBadRequest,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] == "" {
					t.Error("Expected error message")
				}
			},
		},
		{
			name:           "invalid order",
			path:           "/api/history?order=sideways",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, createTestRequest("GET", tt.path))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetHistory_TotalCountsTrimmedMoves(t *testing.T) {
	state := newTestState(t)
	for i := 0; i < engine.MaxHistory+5; i++ {
		state.Move(engine.Left)
	}

	server := NewServer(state, nil, "run-1")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, createTestRequest("GET", "/api/history?limit=1"))

	var resp HistoryResponse
	parseResponse(t, w, &resp)
	if resp.TotalMoves != engine.MaxHistory+5 {
		t.Errorf("Expected %d total moves, got %d", engine.MaxHistory+5, resp.TotalMoves)
	}
	if len(resp.Moves) != 1 {
		t.Errorf("Expected 1 move on the page, got %d", len(resp.Moves))
	}
}

func TestMethodNotAllowed(t *testing.T) {
	server := NewServer(newTestState(t), nil, "run-1")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, createTestRequest("POST", "/api/state"))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	server := NewServer(newTestState(t), nil, "run-1")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, createTestRequest("GET", "/api/health"))

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy, got %s", resp["status"])
	}
}

func TestWebSocketRouteWithoutHub(t *testing.T) {
	server := NewServer(newTestState(t), nil, "run-1")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, createTestRequest("GET", "/ws"))

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestWebSocketRoute(t *testing.T) {
	state := newTestState(t)
	hub := websocket.NewHub("run-7")
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(NewServer(state, hub, "run-7"))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	state.Move(engine.Right)
	hub.Publish("state_update", state.Snapshot())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg websocket.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	if msg.RunID != "run-7" || msg.Event != "state_update" {
		t.Errorf("Unexpected message: %+v", msg)
	}
	if msg.Snapshot == nil || msg.Snapshot.TotalMoves != 1 {
		t.Errorf("Expected snapshot after one move, got %+v", msg.Snapshot)
	}
}

func TestPaginate(t *testing.T) {
	history := make([]engine.MoveHistoryEntry, 5)
	for i := range history {
		history[i].MoveNumber = i + 1
	}

	got := paginate(history, 2, 2, "asc")
	if len(got) != 2 || got[0].MoveNumber != 3 || got[1].MoveNumber != 4 {
		t.Errorf("Unexpected asc page: %+v", got)
	}

	got = paginate(history, 3, 2, "desc")
	if len(got) != 1 || got[0].MoveNumber != 1 {
		t.Errorf("Unexpected desc page: %+v", got)
	}

	// Offsets that would overflow int land past the last page
	if got = paginate(history, 4611686018427387904, 4, "asc"); len(got) != 0 {
		t.Errorf("Expected empty page for huge page number, got %d moves", len(got))
	}
	got = paginate(history, 1, 4611686018427387904, "asc")
	if len(got) != 5 {
		t.Errorf("Expected huge limit to clamp and return all 5 moves, got %d", len(got))
	}
	if got = paginate(history, 3, 4611686018427387904, "asc"); len(got) != 0 {
		t.Errorf("Expected empty page, got %d moves", len(got))
	}

	// Input untouched
	if history[0].MoveNumber != 1 {
		t.Error("paginate modified its input")
	}
}
