package loop

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/terminal-maze/game/engine"
)

// KeySource delivers single keystrokes. ReadKey blocks until a key arrives
// and returns io.EOF once no more keys will come.
type KeySource interface {
	ReadKey() (rune, error)
}

// State is the part of engine.GameState the loops depend on
type State interface {
	Move(dir engine.Direction) engine.MoveResult
	CheckWin() bool
	Quit()
	IsQuit() bool
	Snapshot() engine.Snapshot
}

// Publisher receives a snapshot after every accepted move and once more
// when the game ends
type Publisher interface {
	Publish(event string, snap engine.Snapshot)
}

const (
	EventStateUpdate = "state_update"
	EventGameOver    = "game_over"
)

// QuitKey stops the game without winning
const QuitKey = 'q'

// DefaultKeymap maps the WASD keys to directions
var DefaultKeymap = map[rune]engine.Direction{
	'w': engine.Up,
	'a': engine.Left,
	's': engine.Down,
	'd': engine.Right,
}

// InputState is the state of the input loop
type InputState int

const (
	Reading InputState = iota
	Stopped
)

func (s InputState) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "reading"
}

// InputLoop turns keystrokes into moves
type InputLoop struct {
	state     State
	keys      KeySource
	keymap    map[rune]engine.Direction
	quitKeys  map[rune]bool
	publisher Publisher
	current   InputState
}

// NewInputLoop creates an input loop with the default keymap. Extra quit
// keys (such as Ctrl-C in raw mode) can be added with AddQuitKey.
func NewInputLoop(state State, keys KeySource) *InputLoop {
	return &InputLoop{
		state:    state,
		keys:     keys,
		keymap:   DefaultKeymap,
		quitKeys: map[rune]bool{QuitKey: true},
		current:  Reading,
	}
}

// AddQuitKey registers another key that stops the game
func (l *InputLoop) AddQuitKey(key rune) {
	l.quitKeys[key] = true
}

// SetPublisher attaches a publisher notified on accepted moves
func (l *InputLoop) SetPublisher(p Publisher) {
	l.publisher = p
}

// State returns the current input state
func (l *InputLoop) State() InputState {
	return l.current
}

// Run reads keys until the quit key, a win, or the end of input. It always
// leaves the game state quit on return.
func (l *InputLoop) Run() error {
	defer l.state.Quit()

	for l.current == Reading {
		key, err := l.keys.ReadKey()
		if err != nil {
			l.current = Stopped
			if errors.Is(err, io.EOF) {
				log.Debug("input closed, stopping")
				return nil
			}
			return fmt.Errorf("failed to read key: %w", err)
		}

		l.current = l.HandleKey(key)
	}

	return nil
}

// HandleKey applies a single keystroke and returns the next input state
func (l *InputLoop) HandleKey(key rune) InputState {
	if l.quitKeys[key] {
		log.Debugf("quit key %q pressed", key)
		return Stopped
	}

	if l.state.IsQuit() {
		log.Debug("game ended elsewhere, stopping input")
		return Stopped
	}

	dir, ok := l.keymap[key]
	if !ok {
		return Reading
	}

	result := l.state.Move(dir)
	won := l.state.CheckWin()

	log.WithFields(log.Fields{
		"direction": dir.String(),
		"outcome":   result.Outcome.String(),
		"to":        result.To.String(),
	}).Debug("move")

	if result.Accepted() && l.publisher != nil {
		l.publisher.Publish(EventStateUpdate, l.state.Snapshot())
	}

	if won {
		log.Info("finish reached")
		return Stopped
	}
	return Reading
}
