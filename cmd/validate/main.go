// Command validate checks maze map files, by default every *.txt file in
// the maps directory. It checks:
//   - The file can be read and every row has the same number of cells
//   - Only the digits 0 to 4 are used
//   - Exactly one start (4) and one finish (3)
//   - Connectivity: the finish is reachable from the start
//
// It exits with non-zero status if any map is invalid.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/terminal-maze/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational lines for valid maps; Errors the problems found
// in invalid ones.
type ValidationResult struct {
	File   string
	Valid  bool
	Notes  []string
	Errors []string
}

// validateMap loads and validates a single map file
func validateMap(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	m, err := engine.LoadMap(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ Grid %dx%d", m.Width, m.Height),
		fmt.Sprintf("✓ Start %s, finish %s", m.Start, m.Finish))

	shortest, solvable := engine.ShortestPath(m)
	if !solvable {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("finish %s is not reachable from start %s", m.Finish, m.Start))
		return result
	}
	result.Notes = append(result.Notes, fmt.Sprintf("✓ Finish reachable in %d moves", shortest))

	open := m.Width*m.Height - engine.CountCells(m.Grid, engine.Wall)
	if reachable := engine.ReachableCells(m); reachable < open {
		result.Notes = append(result.Notes, fmt.Sprintf("note: %d open cells cannot be reached", open-reachable))
	}

	return result
}

// report prints the results and returns whether all maps are valid
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, note := range result.Notes {
				fmt.Fprintln(w, "  "+note)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, err := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+err)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All maps are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some maps have errors")
	}
	return allValid
}

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob(filepath.Join("maps", "*.txt"))
		if err != nil {
			fmt.Printf("Error finding map files: %v\n", err)
			os.Exit(1)
		}
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateMap(file))
	}

	if !report(os.Stdout, results) {
		os.Exit(1)
	}
}
