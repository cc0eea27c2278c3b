package terminal

// ANSI sequences used to draw in place
const (
	csiSaveCursor    = "\x1b[s"
	csiRestoreCursor = "\x1b[u"
	csiHome          = "\x1b[0;0H"
	csiHideCursor    = "\x1b[?25l"
	csiShowCursor    = "\x1b[?25h"
)

// Raw-mode control bytes
const (
	KeyCtrlC  rune = 0x03
	KeyCtrlD  rune = 0x04
	KeyEscape rune = 0x1b
)
