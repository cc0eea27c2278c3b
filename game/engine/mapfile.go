package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrMapNotFound = errors.New("map file not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// Map is a parsed maze layout, ready to seed a GameState
type Map struct {
	Name   string
	Width  int
	Height int
	Grid   [][]Cell
	Start  Position
	Finish Position
}

// LoadMap reads and validates a map file
func LoadMap(path string) (*Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMapNotFound, path, err)
	}
	defer file.Close()

	m, err := ParseMap(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return m, nil
}

// ParseMap reads a layout where every line is a row and every character a
// digit between 0 and 4. Digit 4 marks the start, digit 3 the finish.
func ParseMap(r io.Reader) (*Map, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	// Trailing blank lines are not rows
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}

	return ParseLayout(rows)
}

// ParseLayout builds a Map from layout rows
func ParseLayout(rows []string) (*Map, error) {
	if err := ValidateLayout(rows); err != nil {
		return nil, err
	}

	m := &Map{
		Width:  len(rows[0]),
		Height: len(rows),
		Grid:   make([][]Cell, len(rows)),
	}

	for y, row := range rows {
		m.Grid[y] = make([]Cell, len(row))
		for x := 0; x < len(row); x++ {
			cell := Cell(row[x] - '0')
			m.Grid[y][x] = cell
			switch cell {
			case Player:
				m.Start = Position{X: x, Y: y}
			case Finish:
				m.Finish = Position{X: x, Y: y}
			}
		}
	}

	return m, nil
}

// ValidateLayout checks a layout for geometry and content problems.
// Ragged rows are rejected rather than padded.
func ValidateLayout(rows []string) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return fmt.Errorf("%w: map is empty", ErrInvalidMap)
	}

	width := len(rows[0])
	starts, finishes := 0, 0

	for y, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidMap, y+1, len(row), width)
		}

		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '0', '1', '2':
			case '3':
				finishes++
			case '4':
				starts++
			default:
				return fmt.Errorf("%w: invalid character '%c' at row %d, col %d", ErrInvalidMap, row[x], y+1, x+1)
			}
		}
	}

	if starts != 1 {
		return fmt.Errorf("%w: map must contain exactly one start (4), got %d", ErrInvalidMap, starts)
	}
	if finishes != 1 {
		return fmt.Errorf("%w: map must contain exactly one finish (3), got %d", ErrInvalidMap, finishes)
	}

	return nil
}
