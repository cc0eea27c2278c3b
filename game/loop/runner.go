package loop

import (
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options configures a game run
type Options struct {
	FPS       int
	QuitKeys  []rune
	Publisher Publisher
}

// Result summarizes a finished run
type Result struct {
	Won      bool
	Moves    int
	Frames   int
	Duration time.Duration
}

// Run starts the input and render loops together and waits for both to
// finish. There is no cancellation: the input loop ends on quit, win or end
// of input, and the render loop ends once it observes quit.
func Run(state State, keys KeySource, display Display, opts Options) (Result, error) {
	input := NewInputLoop(state, keys)
	for _, key := range opts.QuitKeys {
		input.AddQuitKey(key)
	}
	if opts.Publisher != nil {
		input.SetPublisher(opts.Publisher)
	}
	render := NewRenderLoop(state, display, FrameInterval(opts.FPS))

	started := time.Now()
	log.Infof("game started (fps=%d)", opts.FPS)

	var g errgroup.Group
	g.Go(input.Run)
	g.Go(func() error {
		err := render.Run()
		if err != nil {
			// Input stops at its next key instead of playing blind
			state.Quit()
		}
		return err
	})
	err := g.Wait()

	snap := state.Snapshot()
	if opts.Publisher != nil {
		opts.Publisher.Publish(EventGameOver, snap)
	}

	result := Result{
		Won:      snap.Won,
		Moves:    snap.TotalMoves,
		Frames:   render.Frames(),
		Duration: time.Since(started),
	}
	log.Infof("game over: won=%v moves=%d frames=%d duration=%s",
		result.Won, result.Moves, result.Frames, result.Duration.Round(time.Millisecond))

	return result, err
}
