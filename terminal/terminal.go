package terminal

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

var (
	ErrNotTerminal = errors.New("stdin is not a terminal")
	ErrTooSmall    = errors.New("terminal too small")
)

// TooSmallMessage is printed when the maze does not fit the window
const TooSmallMessage = "Terminal is too small to display the whole maze.\n" +
	"Either make the terminal window bigger, or use a smaller maze map."

// Terminal owns stdin/stdout while a game is running
type Terminal struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int

	oldState *term.State
}

// New creates a terminal bound to the process stdin and stdout
func New() *Terminal {
	return &Terminal{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

// EnableRaw switches stdin to raw mode: no echo, no line buffering
func (t *Terminal) EnableRaw() error {
	if !term.IsTerminal(t.inFd) {
		return ErrNotTerminal
	}

	old, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	t.oldState = old
	return nil
}

// Restore puts the terminal back the way EnableRaw found it
func (t *Terminal) Restore() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.inFd, t.oldState)
	t.oldState = nil
	return err
}

// Size returns the terminal size in columns and rows
func (t *Terminal) Size() (int, int, error) {
	return term.GetSize(t.outFd)
}

// Fits checks that a board of the given size can be drawn. Every cell takes
// two columns because glyphs are separated by spaces.
func (t *Terminal) Fits(width, height int) error {
	cols, rows, err := t.Size()
	if err != nil {
		// Not a tty (piped output); nothing to measure against.
		return nil
	}
	return CheckFits(cols, rows, width, height)
}

// CheckFits reports ErrTooSmall when a width x height board needs more than
// cols x rows
func CheckFits(cols, rows, width, height int) error {
	if cols < 2*width || rows < height {
		return fmt.Errorf("%w: need %dx%d, have %dx%d", ErrTooSmall, 2*width, height, cols, rows)
	}
	return nil
}

// Keys returns a key source reading from the terminal input
func (t *Terminal) Keys() *KeyReader {
	return NewKeyReader(t.in)
}

// Display returns an in-place ANSI display sized to the terminal. Raw mode
// disables output post-processing, so rows end in CRLF.
func (t *Terminal) Display() *ANSIDisplay {
	cols, rows, err := t.Size()
	if err != nil {
		cols, rows = 80, 24
	}
	return NewANSIDisplay(t.out, cols, rows, "\r\n")
}
