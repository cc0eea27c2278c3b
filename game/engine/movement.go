package engine

// inBounds checks that the coordinates lie inside the grid
func (gs *GameState) inBounds(p Position) bool {
	return p.X >= 0 && p.X < gs.width && p.Y >= 0 && p.Y < gs.height
}

// classify must be called with mu held
func (gs *GameState) classify(p Position) MoveOutcome {
	if !gs.inBounds(p) {
		return BlockedByBoundary
	}
	// The finish is not special here; it only matters to CheckWin.
	if gs.grid[p.Y][p.X] == Wall {
		return BlockedByWall
	}
	return Moved
}

// Move attempts to move the player one cell in the given direction.
// Blocked moves leave the grid untouched and are reported through the
// result outcome rather than an error.
func (gs *GameState) Move(dir Direction) MoveResult {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	result := MoveResult{
		Direction: dir,
		From:      gs.player,
		To:        gs.player,
	}

	if gs.won || gs.quit || dir < Up || dir > Right {
		result.Outcome = Ignored
		return result
	}

	target := gs.player.Step(dir)
	result.Outcome = gs.classify(target)
	if result.Outcome == Moved {
		if gs.player == gs.start {
			gs.grid[gs.player.Y][gs.player.X] = StartVisited
		} else {
			gs.grid[gs.player.Y][gs.player.X] = Empty
		}
		gs.player = target
		gs.grid[target.Y][target.X] = Player
		result.To = target
	}

	gs.addMoveToHistory(result)
	return result
}

// CheckWin compares the player position with the finish position and
// latches won once they match.
func (gs *GameState) CheckWin() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.player == gs.finish {
		gs.won = true
	}
	return gs.won
}

// PossibleMoves returns the directions that would currently be accepted
func (gs *GameState) PossibleMoves() []Direction {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	var possible []Direction
	for _, dir := range Directions {
		if gs.classify(gs.player.Step(dir)) == Moved {
			possible = append(possible, dir)
		}
	}
	return possible
}
