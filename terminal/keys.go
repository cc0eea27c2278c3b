package terminal

import (
	"bufio"
	"io"
)

// KeyReader reads one keystroke at a time from a raw terminal
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader wraps r for single key reads
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until a key is available. Ctrl-D is reported as io.EOF.
func (k *KeyReader) ReadKey() (rune, error) {
	key, _, err := k.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if key == KeyCtrlD {
		return 0, io.EOF
	}
	return key, nil
}
