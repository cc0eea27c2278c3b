package engine

import "testing"

func TestShortestPath(t *testing.T) {
	tests := []struct {
		name      string
		layout    []string
		wantSteps int
		wantOK    bool
	}{
		{"corridor", []string{"4003"}, 3, true},
		{"winding", testLayout, 6, true},
		{"walled off", []string{"413"}, 0, false},
		{"around a wall", []string{"410", "003"}, 3, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := ParseLayout(test.layout)
			if err != nil {
				t.Fatalf("ParseLayout: %v", err)
			}
			steps, ok := ShortestPath(m)
			if ok != test.wantOK || steps != test.wantSteps {
				t.Errorf("ShortestPath = (%d, %v), expected (%d, %v)", steps, ok, test.wantSteps, test.wantOK)
			}
		})
	}
}

func TestReachableCells(t *testing.T) {
	m, err := ParseLayout(testLayout)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	if got := ReachableCells(m); got != 7 {
		t.Errorf("expected 7 reachable cells, got %d", got)
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := ManhattanDistance(Position{X: 1, Y: 1}, Position{X: 4, Y: 3}); d != 5 {
		t.Errorf("expected 5, got %d", d)
	}
	if d := ManhattanDistance(Position{X: 4, Y: 3}, Position{X: 1, Y: 1}); d != 5 {
		t.Errorf("expected symmetric distance 5, got %d", d)
	}
}
