// Package api serves a read-only HTTP view of a running maze game.
//
// Endpoints:
//   - GET /api/state - Current board, rendered rows plus the numeric grid
//   - GET /api/history - Move history (page, limit, order=asc|desc)
//   - GET /api/health - Liveness probe
//   - GET /ws - WebSocket stream of state updates (when a hub is attached)
//
// Spectators cannot move the player; input stays with whoever owns the
// terminal or the MCP session.
//
// Usage:
//
//	hub := websocket.NewHub(runID)
//	go hub.Run()
//	server := api.NewServer(state, hub, runID)
//	http.ListenAndServe(":8080", server)
package api
