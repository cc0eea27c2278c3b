package loop

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/terminal-maze/game/engine"
)

// Display draws board snapshots and the closing message
type Display interface {
	Draw(snap engine.Snapshot) error
	Clear() error
	Epilogue(message string) error
}

const (
	WinMessage  = "Congratulations! You have won the game."
	QuitMessage = "Keyboard interrupt! Quitting now..."

	// DefaultFPS gives a frame interval of about 41.7ms
	DefaultFPS = 24
)

// Epilogue picks the closing message for a finished game
func Epilogue(won bool) string {
	if won {
		return WinMessage
	}
	return QuitMessage
}

// FrameInterval converts a frame rate into a draw quantum
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// RenderState is the state of the render loop
type RenderState int

const (
	Running RenderState = iota
	Finished
)

// RenderLoop redraws the board every interval until quit is observed
type RenderLoop struct {
	state    State
	display  Display
	interval time.Duration
	frames   int
	current  RenderState
}

// NewRenderLoop creates a render loop drawing at the given interval
func NewRenderLoop(state State, display Display, interval time.Duration) *RenderLoop {
	if interval <= 0 {
		interval = FrameInterval(DefaultFPS)
	}
	return &RenderLoop{
		state:    state,
		display:  display,
		interval: interval,
		current:  Running,
	}
}

// State returns the current render state. Only meaningful after Run.
func (l *RenderLoop) State() RenderState {
	return l.current
}

// Frames returns how many frames have been drawn. Only meaningful after Run.
func (l *RenderLoop) Frames() int {
	return l.frames
}

// Run draws until the game is quit, then clears the display and prints the
// epilogue. Quit is polled once per frame.
func (l *RenderLoop) Run() error {
	if err := l.display.Clear(); err != nil {
		return fmt.Errorf("failed to clear display: %w", err)
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for !l.state.IsQuit() {
		if err := l.display.Draw(l.state.Snapshot()); err != nil {
			return fmt.Errorf("failed to draw frame %d: %w", l.frames, err)
		}
		l.frames++
		<-ticker.C
	}

	return l.finish()
}

func (l *RenderLoop) finish() error {
	l.current = Finished
	snap := l.state.Snapshot()
	log.Debugf("render loop finished after %d frames (won=%v)", l.frames, snap.Won)

	if err := l.display.Clear(); err != nil {
		return fmt.Errorf("failed to clear display: %w", err)
	}
	return l.display.Epilogue(Epilogue(snap.Won))
}
