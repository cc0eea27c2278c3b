// Package mcp lets an AI agent play a maze through the Model Context Protocol.
//
// A Server wraps one engine.GameState and serves it over stdio. Moves go
// through the same Move / CheckWin sequence the keyboard loop uses, so the
// rules and the move history are identical whichever way the game is played.
//
// MCP Tools:
//   - maze_state: Rendered board, position, finish and possible moves
//   - move: Single directional move, with an optional intent
//   - bulk_move: Up to engine.MaxBulkMoves moves, stopping at the finish
//   - move_history: Most recent moves
//   - quit: End the game
//
// Results are plain text: a status header followed by the board drawn with
// the same glyphs as the terminal.
//
// Usage:
//
//	s := mcp.NewServer(state, mapName, version)
//	s.SetPublisher(hub) // optional spectators
//	if err := s.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
