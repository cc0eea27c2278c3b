// Package websocket streams a running maze game to read-only spectators.
//
// A single Hub serves one game run. The game loop publishes a snapshot after
// every accepted move and a final one when the game ends; the hub marshals
// each into a Message and fans it out to all connected clients.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//
//	{"run_id": "...", "event": "state_update", "board": ["H H H", ...], "snapshot": {...}}
//
// The event is "state_update" while the game runs and "game_over" once it
// ends. Anything a spectator sends is read and discarded.
//
// Usage:
//
//	hub := websocket.NewHub(runID)
//	go hub.Run()
//	defer hub.Stop()
//
//	http.HandleFunc("/ws", hub.ServeWS)
//
// Connection Lifecycle:
//
// 1. Spectator connects
// 2. Connection registered with hub
// 3. Latest message (if any) replayed to the new client
// 4. Every published update is forwarded
// 5. Disconnection, a full send buffer, or Stop triggers cleanup
//
// Concurrency:
//
// Publish never blocks the game; when the hub falls behind, updates are
// dropped rather than delaying input handling.
package websocket
