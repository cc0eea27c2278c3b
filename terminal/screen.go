package terminal

import (
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/terminal-maze/game/engine"
)

// Screen is a tcell backed key source and display. It takes over the whole
// terminal (alternate screen), so the epilogue is kept and printed to out
// after Close restores the normal screen.
type Screen struct {
	screen   tcell.Screen
	style    tcell.Style
	out      io.Writer
	epilogue string
}

// NewScreen initializes a tcell screen on the current terminal
func NewScreen(out io.Writer) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	return newScreen(s, out), nil
}

func newScreen(s tcell.Screen, out io.Writer) *Screen {
	s.HideCursor()
	return &Screen{
		screen: s,
		style:  tcell.StyleDefault,
		out:    out,
	}
}

// Fits reports whether a width x height board fits on the screen
func (s *Screen) Fits(width, height int) error {
	cols, rows := s.screen.Size()
	return CheckFits(cols, rows, width, height)
}

// ReadKey blocks until a key event arrives. Ctrl-C and Escape come back
// as KeyCtrlC; a finalized screen reports io.EOF.
func (s *Screen) ReadKey() (rune, error) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return 0, io.EOF
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyRune:
				return ev.Rune(), nil
			case tcell.KeyCtrlC, tcell.KeyEscape:
				return KeyCtrlC, nil
			case tcell.KeyCtrlD:
				return 0, io.EOF
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// Draw renders one frame
func (s *Screen) Draw(snap engine.Snapshot) error {
	for y, row := range snap.Rows() {
		for x := 0; x < len(row); x++ {
			s.screen.SetContent(x, y, rune(row[x]), nil, s.style)
		}
	}
	s.screen.Show()
	return nil
}

// Clear blanks the screen
func (s *Screen) Clear() error {
	s.screen.Clear()
	s.screen.Show()
	return nil
}

// Epilogue stores the closing message until Close
func (s *Screen) Epilogue(message string) error {
	s.epilogue = message
	return nil
}

// Close finalizes the screen and prints the epilogue, if any
func (s *Screen) Close() error {
	s.screen.Fini()
	if s.epilogue == "" {
		return nil
	}
	_, err := fmt.Fprintln(s.out, s.epilogue)
	return err
}
