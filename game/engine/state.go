package engine

import (
	"sync"
	"time"
)

// GameState is the shared aggregate read by the render side and mutated by
// the input side. All access goes through mu so readers only ever see whole
// moves.
type GameState struct {
	mu sync.RWMutex

	grid   [][]Cell
	width  int
	height int

	player Position
	start  Position
	finish Position

	quit bool
	won  bool

	totalMoves int
	history    []MoveHistoryEntry
}

// NewGameState creates a game state from a loaded map. The map's grid is
// copied so the map can be reused.
func NewGameState(m *Map) *GameState {
	return &GameState{
		grid:    cloneGrid(m.Grid),
		width:   m.Width,
		height:  m.Height,
		player:  m.Start,
		start:   m.Start,
		finish:  m.Finish,
		history: []MoveHistoryEntry{},
	}
}

// Width returns the grid width
func (gs *GameState) Width() int { return gs.width }

// Height returns the grid height
func (gs *GameState) Height() int { return gs.height }

// Start returns the start position
func (gs *GameState) Start() Position { return gs.start }

// Finish returns the finish position
func (gs *GameState) Finish() Position { return gs.finish }

// PlayerPosition returns the current player position
func (gs *GameState) PlayerPosition() Position {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.player
}

// Quit marks the game as finished. Calling it more than once is harmless.
func (gs *GameState) Quit() {
	gs.mu.Lock()
	gs.quit = true
	gs.mu.Unlock()
}

// IsQuit returns whether the game has been told to stop
func (gs *GameState) IsQuit() bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.quit
}

// IsWon returns whether the player has reached the finish
func (gs *GameState) IsWon() bool {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.won
}

// TotalMoves returns the number of move requests processed so far
func (gs *GameState) TotalMoves() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.totalMoves
}

// Snapshot returns a deep copy of the state taken under the read lock
func (gs *GameState) Snapshot() Snapshot {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return Snapshot{
		Grid:       cloneGrid(gs.grid),
		Width:      gs.width,
		Height:     gs.height,
		Player:     gs.player,
		Start:      gs.start,
		Finish:     gs.finish,
		Quit:       gs.quit,
		Won:        gs.won,
		TotalMoves: gs.totalMoves,
	}
}

// History returns a copy of the recorded moves, oldest first
func (gs *GameState) History() []MoveHistoryEntry {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	out := make([]MoveHistoryEntry, len(gs.history))
	copy(out, gs.history)
	return out
}

// addMoveToHistory must be called with mu held for writing
func (gs *GameState) addMoveToHistory(result MoveResult) {
	gs.totalMoves++
	entry := MoveHistoryEntry{
		Action:       result.Direction.String(),
		FromPosition: result.From,
		ToPosition:   result.To,
		Outcome:      result.Outcome.String(),
		Success:      result.Accepted(),
		Timestamp:    time.Now().Unix(),
		MoveNumber:   gs.totalMoves,
	}

	gs.history = append(gs.history, entry)
	if len(gs.history) > MaxHistory {
		gs.history = gs.history[len(gs.history)-MaxHistory:]
	}
}

func cloneGrid(grid [][]Cell) [][]Cell {
	out := make([][]Cell, len(grid))
	for y, row := range grid {
		out[y] = make([]Cell, len(row))
		copy(out[y], row)
	}
	return out
}
