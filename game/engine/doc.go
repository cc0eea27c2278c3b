// Package engine provides the core game logic for the terminal maze.
//
// The engine package implements the game mechanics including:
//   - Map loading and validation from plain text layouts
//   - Grid-based movement with wall and boundary checks
//   - Start-visited marking and win detection
//   - Move-atomic snapshots for concurrent readers
//
// Core Types:
//
// GameState owns the grid, the player/start/finish positions and the quit
// and won flags. Every method takes the state lock, so a Snapshot always
// contains exactly one Player cell. Map is the parsed layout used to seed a
// GameState.
//
// Usage:
//
//	m, err := engine.LoadMap("maps/tiny.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	state := engine.NewGameState(m)
//	result := state.Move(engine.Right)
//	won := state.CheckWin()
//
// Map Format:
//
// Each line is a row, each character a digit: 0 empty, 1 wall, 2 visited
// start, 3 finish, 4 start. Rows must all have the same length. A 2 in the
// file loads as a walkable StartVisited cell.
package engine
