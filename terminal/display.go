package terminal

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/wricardo/terminal-maze/game/engine"
)

// ANSIDisplay draws the board in place using save/restore cursor sequences
// instead of clearing the screen, which avoids flicker.
type ANSIDisplay struct {
	mu      sync.Mutex
	w       *bufio.Writer
	cols    int
	rows    int
	newline string
}

// NewANSIDisplay creates a display writing to w. cols and rows bound the
// region wiped by Clear.
func NewANSIDisplay(w io.Writer, cols, rows int, newline string) *ANSIDisplay {
	if newline == "" {
		newline = "\n"
	}
	return &ANSIDisplay{
		w:       bufio.NewWriter(w),
		cols:    cols,
		rows:    rows,
		newline: newline,
	}
}

// Draw writes one frame starting at the saved cursor position
func (d *ANSIDisplay) Draw(snap engine.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.w.WriteString(csiHideCursor)
	d.w.WriteString(csiSaveCursor)
	d.w.WriteString(strings.Join(snap.Rows(), d.newline))
	d.w.WriteString(csiRestoreCursor)
	return d.w.Flush()
}

// Clear homes the cursor and blanks the display region
func (d *ANSIDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	blank := strings.Repeat(" ", d.cols)
	d.w.WriteString(csiHome)
	d.w.WriteString(csiSaveCursor)
	for y := 0; y < d.rows; y++ {
		d.w.WriteString(blank)
		if y < d.rows-1 {
			d.w.WriteString(d.newline)
		}
	}
	d.w.WriteString(csiRestoreCursor)
	return d.w.Flush()
}

// Epilogue prints the closing line and shows the cursor again
func (d *ANSIDisplay) Epilogue(message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.w.WriteString(message)
	d.w.WriteString(d.newline)
	d.w.WriteString(csiShowCursor)
	return d.w.Flush()
}
