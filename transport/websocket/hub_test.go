package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/terminal-maze/game/engine"
)

func testSnapshot(t *testing.T) engine.Snapshot {
	t.Helper()
	m, err := engine.ParseLayout([]string{"11111", "14003", "11111"})
	if err != nil {
		t.Fatalf("ParseLayout failed: %v", err)
	}
	return engine.NewGameState(m).Snapshot()
}

func TestNewHub(t *testing.T) {
	hub := NewHub("run-1")

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}

	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}

	if hub.RunID() != "run-1" {
		t.Errorf("Expected run ID run-1, got %s", hub.RunID())
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub("run-1")

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}

	hub.registerClient(client)

	if !hub.clients[client] {
		t.Error("Client was not registered")
	}

	if hub.Count() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.Count())
	}

	// Nothing published yet, so nothing replayed
	if len(client.send) != 0 {
		t.Errorf("Expected empty send buffer, got %d messages", len(client.send))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub("run-1")

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if hub.Count() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.Count())
	}

	// Send channel is closed
	if _, ok := <-client.send; ok {
		t.Error("Client send channel should be closed")
	}

	// Unregistering twice is harmless
	hub.unregisterClient(client)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub("run-1")

	client1 := &Client{hub: hub, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, send: make(chan []byte, 256)}
	hub.registerClient(client1)
	hub.registerClient(client2)

	snap := testSnapshot(t)
	hub.broadcastMessage(&Message{
		RunID:    "run-1",
		Event:    "state_update",
		Board:    snap.Rows(),
		Snapshot: &snap,
	})

	for i, client := range []*Client{client1, client2} {
		select {
		case data := <-client.send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("client %d: failed to unmarshal: %v", i, err)
			}
			if msg.Event != "state_update" {
				t.Errorf("client %d: expected state_update, got %s", i, msg.Event)
			}
			if msg.Snapshot == nil || msg.Snapshot.Player != snap.Player {
				t.Errorf("client %d: snapshot missing or wrong player", i)
			}
		default:
			t.Errorf("client %d received no message", i)
		}
	}
}

func TestHubReplaysLastMessage(t *testing.T) {
	hub := NewHub("run-1")

	snap := testSnapshot(t)
	hub.broadcastMessage(&Message{RunID: "run-1", Event: "state_update", Snapshot: &snap})

	late := &Client{hub: hub, send: make(chan []byte, 256)}
	hub.registerClient(late)

	select {
	case data := <-late.send:
		if !strings.Contains(string(data), `"event":"state_update"`) {
			t.Errorf("unexpected replay: %s", data)
		}
	default:
		t.Error("late client did not receive the last message")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub("run-1")

	slow := &Client{hub: hub, send: make(chan []byte)}
	hub.clients[slow] = true

	snap := testSnapshot(t)
	hub.broadcastMessage(&Message{RunID: "run-1", Event: "state_update", Snapshot: &snap})

	if hub.Count() != 0 {
		t.Errorf("slow client should have been dropped, %d remain", hub.Count())
	}
}

func TestHubPublishDoesNotBlock(t *testing.T) {
	hub := NewHub("run-1")
	snap := testSnapshot(t)

	// Run is not started, so the queue fills and further updates are dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.Publish("state_update", snap)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with a full queue")
	}

	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected %d queued messages, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestServeWSStreamsUpdates(t *testing.T) {
	hub := NewHub("run-42")
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	// Wait for registration
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Count() != 1 {
		t.Fatalf("Expected 1 client, got %d", hub.Count())
	}

	hub.Publish("game_over", testSnapshot(t))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if msg.RunID != "run-42" {
		t.Errorf("Expected run ID run-42, got %s", msg.RunID)
	}
	if msg.Event != "game_over" {
		t.Errorf("Expected game_over, got %s", msg.Event)
	}
	if len(msg.Board) != 3 || msg.Board[1] != "H O     X" {
		t.Errorf("Unexpected board: %q", msg.Board)
	}
}

func TestStopDisconnectsClients(t *testing.T) {
	hub := NewHub("run-1")
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	hub.Stop()
	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after Stop")
	}
}
