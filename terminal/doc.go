// Package terminal drives the player's terminal: raw keyboard input through
// golang.org/x/term, an in-place ANSI board display, and an optional tcell
// screen that provides both.
package terminal
