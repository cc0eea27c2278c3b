package engine

import "strings"

// Snapshot is an immutable copy of the game state. It is what the renderer,
// the spectator stream and the MCP tools read.
type Snapshot struct {
	Grid       [][]Cell `json:"grid"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Player     Position `json:"player"`
	Start      Position `json:"start"`
	Finish     Position `json:"finish"`
	Quit       bool     `json:"quit"`
	Won        bool     `json:"won"`
	TotalMoves int      `json:"total_moves"`
}

// At returns the cell at p, or Wall when p is outside the grid
func (s Snapshot) At(p Position) Cell {
	if p.Y < 0 || p.Y >= len(s.Grid) || p.X < 0 || p.X >= len(s.Grid[p.Y]) {
		return Wall
	}
	return s.Grid[p.Y][p.X]
}

// Rows renders each grid row as glyphs separated by single spaces
func (s Snapshot) Rows() []string {
	rows := make([]string, len(s.Grid))
	var b strings.Builder
	for y, row := range s.Grid {
		b.Reset()
		for x, cell := range row {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(cell.Glyph())
		}
		rows[y] = b.String()
	}
	return rows
}

// Render returns the whole board, rows separated by newlines
func (s Snapshot) Render() string {
	return strings.Join(s.Rows(), "\n")
}

// Count returns how many cells hold the given value
func (s Snapshot) Count(c Cell) int {
	return CountCells(s.Grid, c)
}
