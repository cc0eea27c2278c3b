// Package loop runs a maze game: one goroutine reads keystrokes and applies
// moves, the other redraws the board at a fixed frame rate until the game
// is quit or won.
//
// The two loops share nothing but the engine.GameState, whose methods are
// individually locked. Shutdown is cooperative: the input loop sets quit
// when it stops, and the render loop notices it on its next tick, so the
// board may stay on screen for up to one frame after the last key.
package loop
