package engine

import (
	"fmt"
	"strings"
)

// Cell represents the content of a single grid cell
type Cell int

const (
	Empty Cell = iota
	Wall
	StartVisited
	Finish
	Player

	// Glyphs is the display alphabet, indexed by Cell value
	Glyphs = " H*XO"

	// MaxHistory bounds the number of moves kept in memory
	MaxHistory   = 1000
	MaxBulkMoves = 50
)

// Glyph returns the display character for the cell
func (c Cell) Glyph() byte {
	if c < Empty || c > Player {
		return '?'
	}
	return Glyphs[c]
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case StartVisited:
		return "start_visited"
	case Finish:
		return "finish"
	case Player:
		return "player"
	default:
		return fmt.Sprintf("cell(%d)", int(c))
	}
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the position one cell away in the given direction
func (p Position) Step(d Direction) Position {
	dx, dy := d.delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four movement directions
type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Directions lists every valid direction in a stable order
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection converts "up", "down", "left" or "right" into a Direction
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MoveOutcome describes what happened to a move request
type MoveOutcome int

const (
	Moved MoveOutcome = iota
	BlockedByWall
	BlockedByBoundary
	// Ignored is returned once the game has been won or quit
	Ignored
)

func (o MoveOutcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case BlockedByWall:
		return "blocked_wall"
	case BlockedByBoundary:
		return "blocked_boundary"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// MoveResult is the outcome of a single move request
type MoveResult struct {
	Outcome   MoveOutcome `json:"-"`
	Direction Direction   `json:"-"`
	From      Position    `json:"from"`
	To        Position    `json:"to"`
}

// Accepted reports whether the player actually changed cell
func (r MoveResult) Accepted() bool {
	return r.Outcome == Moved
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Outcome      string   `json:"outcome"`
	Success      bool     `json:"success"`
	Timestamp    int64    `json:"timestamp"`
	MoveNumber   int      `json:"move_number"`
}
