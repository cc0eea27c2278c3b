package engine

// CountCells counts the cells of a given value in the grid
func CountCells(grid [][]Cell, cell Cell) int {
	count := 0
	for _, row := range grid {
		for _, c := range row {
			if c == cell {
				count++
			}
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// ShortestPath runs a breadth-first search from start to finish over
// non-wall cells. It returns the number of moves and whether the finish is
// reachable at all.
func ShortestPath(m *Map) (int, bool) {
	dist := make([][]int, m.Height)
	for y := range dist {
		dist[y] = make([]int, m.Width)
		for x := range dist[y] {
			dist[y][x] = -1
		}
	}

	queue := []Position{m.Start}
	dist[m.Start.Y][m.Start.X] = 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == m.Finish {
			return dist[cur.Y][cur.X], true
		}

		for _, dir := range Directions {
			next := cur.Step(dir)
			if next.X < 0 || next.X >= m.Width || next.Y < 0 || next.Y >= m.Height {
				continue
			}
			if m.Grid[next.Y][next.X] == Wall || dist[next.Y][next.X] >= 0 {
				continue
			}
			dist[next.Y][next.X] = dist[cur.Y][cur.X] + 1
			queue = append(queue, next)
		}
	}

	return 0, false
}

// ReachableCells counts the non-wall cells reachable from the start
func ReachableCells(m *Map) int {
	seen := make(map[Position]bool)
	stack := []Position{m.Start}
	seen[m.Start] = true

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, dir := range Directions {
			next := cur.Step(dir)
			if next.X < 0 || next.X >= m.Width || next.Y < 0 || next.Y >= m.Height {
				continue
			}
			if seen[next] || m.Grid[next.Y][next.X] == Wall {
				continue
			}
			seen[next] = true
			stack = append(stack, next)
		}
	}

	return len(seen)
}
