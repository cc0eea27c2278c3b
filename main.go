// Command maze plays a text maze in the terminal.
//
// It supports four commands:
//  1. "maze MAP" (default) – play the map with WASD, q to quit
//  2. "maze mcp MAP" – serve the map as MCP tools over stdio so an agent can play it
//  3. "maze maps" – list the maps in the catalog directory
//  4. "maze version" – print version information
//
// A running game can be watched over HTTP/WebSocket (--spectate), optionally
// through an ngrok tunnel for access from outside the local network.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/terminal-maze/api"
	"github.com/wricardo/terminal-maze/game/engine"
	"github.com/wricardo/terminal-maze/game/loop"
	"github.com/wricardo/terminal-maze/game/maps"
	"github.com/wricardo/terminal-maze/terminal"
	"github.com/wricardo/terminal-maze/transport/mcp"
	"github.com/wricardo/terminal-maze/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Terminal Maze"
)

// MapNotFoundMessage is printed when the map file cannot be opened
const MapNotFoundMessage = "Couldn't find map file. Check file path."

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "maze",
		Usage:     "walk from the start (O) to the finish (X) with WASD",
		Version:   Version,
		ArgsUsage: "MAP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "fps",
				Value:   loop.DefaultFPS,
				Usage:   "frames drawn per second",
				Sources: cli.EnvVars("MAZE_FPS"),
			},
			&cli.BoolFlag{
				Name:  "tcell",
				Usage: "draw with tcell on the alternate screen instead of raw ANSI",
			},
			&cli.StringFlag{
				Name:    "spectate",
				Usage:   "serve the spectator API and WebSocket stream on `ADDR`",
				Sources: cli.EnvVars("MAZE_SPECTATE"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "expose the spectator server through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to `PATH` (the terminal belongs to the game)",
				Sources: cli.EnvVars("MAZE_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "maps",
				Usage:   "catalog `DIR` searched when MAP is not a file path",
				Sources: cli.EnvVars("MAZE_MAPS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("MAZE_DEBUG"),
			},
		},
		Action: playAction,
		Commands: []*cli.Command{
			{
				Name:      "mcp",
				Usage:     "serve MAP as MCP tools over stdio",
				ArgsUsage: "MAP",
				Action:    mcpAction,
			},
			{
				Name:   "maps",
				Usage:  "list the maps in the catalog directory",
				Action: mapsAction,
			},
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// playAction runs a game in the terminal. Problems with the arguments, the
// map or the window are reported on stdout and end the program normally.
func playAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return nil
	}
	out := cmd.Root().Writer

	closeLog := setupLogging(cmd, io.Discard)
	defer closeLog()

	m, err := resolveMap(cmd, cmd.Args().First())
	if err != nil {
		fmt.Fprintln(out, mapErrorMessage(err))
		return nil
	}

	state := engine.NewGameState(m)
	runID := uuid.NewString()
	log.WithFields(log.Fields{"run_id": runID, "map": m.Name, "width": m.Width, "height": m.Height}).Info("map loaded")

	opts := loop.Options{
		FPS:      cmd.Int("fps"),
		QuitKeys: []rune{terminal.KeyCtrlC},
	}

	if addr := cmd.String("spectate"); addr != "" {
		hub, stop := startSpectator(ctx, cmd, addr, state, runID)
		defer stop()
		opts.Publisher = hub
	}

	var result loop.Result
	if cmd.Bool("tcell") {
		result, err = playScreen(out, m, state, opts)
	} else {
		result, err = playRaw(out, m, state, opts)
	}
	if err != nil {
		log.Errorf("game ended with error: %v", err)
		return err
	}

	log.WithFields(log.Fields{"run_id": runID, "won": result.Won, "moves": result.Moves}).Info("run finished")
	return nil
}

func playRaw(out io.Writer, m *engine.Map, state *engine.GameState, opts loop.Options) (loop.Result, error) {
	t := terminal.New()
	if err := t.Fits(m.Width, m.Height); err != nil {
		log.Debug(err)
		fmt.Fprintln(out, terminal.TooSmallMessage)
		return loop.Result{}, nil
	}

	if err := t.EnableRaw(); err != nil {
		if !errors.Is(err, terminal.ErrNotTerminal) {
			return loop.Result{}, err
		}
		log.Warn("stdin is not a terminal, reading keys without raw mode")
	}
	defer func() {
		if err := t.Restore(); err != nil {
			log.Errorf("failed to restore terminal: %v", err)
		}
	}()

	return loop.Run(state, t.Keys(), t.Display(), opts)
}

func playScreen(out io.Writer, m *engine.Map, state *engine.GameState, opts loop.Options) (loop.Result, error) {
	screen, err := terminal.NewScreen(out)
	if err != nil {
		return loop.Result{}, err
	}

	if err := screen.Fits(m.Width, m.Height); err != nil {
		log.Debug(err)
		screen.Close()
		fmt.Fprintln(out, terminal.TooSmallMessage)
		return loop.Result{}, nil
	}

	result, err := loop.Run(state, screen, screen, opts)
	if closeErr := screen.Close(); err == nil {
		err = closeErr
	}
	return result, err
}

// mcpAction serves a map to an MCP client. stdout carries the protocol, so
// logs go to stderr unless --log-file is set.
func mcpAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		fmt.Fprintln(cmd.Root().ErrWriter, "usage: maze mcp MAP")
		return nil
	}

	closeLog := setupLogging(cmd, os.Stderr)
	defer closeLog()

	m, err := resolveMap(cmd, cmd.Args().First())
	if err != nil {
		fmt.Fprintln(cmd.Root().ErrWriter, mapErrorMessage(err))
		return nil
	}

	state := engine.NewGameState(m)
	runID := uuid.NewString()
	server := mcp.NewServer(state, m.Name, Version)

	if addr := cmd.String("spectate"); addr != "" {
		hub, stop := startSpectator(ctx, cmd, addr, state, runID)
		defer stop()
		server.SetPublisher(hub)
	}

	log.WithFields(log.Fields{"run_id": runID, "map": m.Name}).Info("MCP stdio server ready")
	if err := server.ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// mapsAction prints the catalog
func mapsAction(ctx context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	catalog, err := maps.NewManager(cmd.String("maps-dir"))
	if err != nil {
		fmt.Fprintln(out, err)
		return nil
	}

	infos, err := catalog.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintf(out, "No maps in %s\n", catalog.Dir())
		return nil
	}

	for _, info := range infos {
		route := "unsolvable"
		if info.Solvable {
			route = fmt.Sprintf("%d moves", info.ShortestPath)
		}
		fmt.Fprintf(out, "%-20s %3dx%-3d %s\n", info.Name, info.Width, info.Height, route)
	}
	return nil
}

// resolveMap loads MAP as a file path, falling back to a catalog entry of
// that name. The file error is kept when neither exists.
func resolveMap(cmd *cli.Command, arg string) (*engine.Map, error) {
	m, err := engine.LoadMap(arg)
	if err == nil || !errors.Is(err, engine.ErrMapNotFound) {
		return m, err
	}

	catalog, catErr := maps.NewManager(cmd.String("maps-dir"))
	if catErr != nil {
		return nil, err
	}
	m, catErr = catalog.Load(arg)
	if catErr != nil {
		if errors.Is(catErr, maps.ErrMapNotFound) {
			return nil, err
		}
		return nil, catErr
	}
	log.Debugf("loaded %s from catalog %s", arg, catalog.Dir())
	return m, nil
}

func mapErrorMessage(err error) string {
	if errors.Is(err, engine.ErrMapNotFound) {
		return MapNotFoundMessage
	}
	return err.Error()
}

// setupLogging configures logrus and returns a func closing the log file
func setupLogging(cmd *cli.Command, defaultOut io.Writer) func() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if cmd.Bool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	path := cmd.String("log-file")
	if path == "" {
		log.SetOutput(defaultOut)
		return func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(defaultOut)
		log.Warnf("failed to open log file %s: %v", path, err)
		return func() {}
	}
	log.SetOutput(f)
	return func() { f.Close() }
}

// startSpectator serves the spectator API on addr (and through ngrok when
// enabled). The returned func shuts everything down.
func startSpectator(ctx context.Context, cmd *cli.Command, addr string, state api.StateReader, runID string) (*websocket.Hub, func()) {
	ctx, cancel := context.WithCancel(ctx)

	hub := websocket.NewHub(runID)
	go hub.Run()

	handler := api.NewServer(state, hub, runID)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("spectator server listening on %s (run %s)", addr, runID)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("spectator server failed: %v", err)
		}
	}()

	if cmd.Bool("ngrok") {
		go serveNgrok(ctx, handler, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"))
	}

	return hub, func() {
		hub.Stop()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("spectator server shutdown error: %v", err)
		}
	}
}

// serveNgrok serves handler through an ngrok tunnel until ctx is done
func serveNgrok(ctx context.Context, handler http.Handler, authToken, domain string) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Infof("using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Errorf("failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Errorf("failed to close ngrok tunnel: %v", err)
		}
	}()

	log.Infof("ngrok tunnel established: %s (state: %s/api/state, stream: %s/ws)", tun.URL(), tun.URL(), tun.URL())
	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Debugf("ngrok server stopped: %v", err)
	}
}
