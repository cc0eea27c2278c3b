package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/terminal-maze/game/engine"
	"github.com/wricardo/terminal-maze/game/loop"
)

// Server exposes a single maze game as MCP tools
type Server struct {
	state     *engine.GameState
	mapName   string
	version   string
	publisher loop.Publisher
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server playing the given game
func NewServer(state *engine.GameState, mapName, version string) *Server {
	s := &Server{
		state:   state,
		mapName: mapName,
		version: version,
	}

	s.initMCPServer()
	return s
}

// SetPublisher forwards every accepted move and the end of the game to p
func (s *Server) SetPublisher(p loop.Publisher) {
	s.publisher = p
}

// ServeStdio serves the tools over stdin/stdout until the client disconnects
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Terminal Maze",
		s.version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Terminal Maze - MCP Interface

GAME OBJECTIVE:
Walk the player (O) from the start to the finish (X). Walls (H) and the
board edge block movement. The start cell shows * once you have left it.

AVAILABLE TOOLS:
- maze_state: Board, position and the moves currently possible
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Several moves at once, stops when the finish is reached
- move_history: Past moves, newest last
- quit: Give up the current game

Coordinates are (x,y) with (0,0) at the top left; y grows downwards.

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	directions := []string{"up", "down", "left", "right"}

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "maze_state",
		Description: "Get the current board, player position and possible moves",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleMazeState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directions,
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the finish", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directions,
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"moves"},
		},
	}, s.handleBulkMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the most recent moves",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Number of moves to return (default 20)",
				},
			},
		},
	}, s.handleMoveHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "quit",
		Description: "Quit the current game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleQuit)
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func (s *Server) handleMazeState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatState()), nil
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log.WithFields(log.Fields{"direction": dir, "intent": intent}).Debug("mcp move")

	result := s.apply(dir)

	var response strings.Builder
	response.WriteString(formatMoveResult(result))
	response.WriteString("\n\n")
	response.WriteString(s.formatState())
	return mcp.NewToolResultText(response.String()), nil
}

func (s *Server) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	intent, _ := args["intent"].(string)

	rawMoves, ok := args["moves"].([]interface{})
	if !ok || len(rawMoves) == 0 {
		return mcp.NewToolResultError("moves must be a non-empty array of directions"), nil
	}
	if len(rawMoves) > engine.MaxBulkMoves {
		return mcp.NewToolResultError(fmt.Sprintf("too many moves: %d (max %d)", len(rawMoves), engine.MaxBulkMoves)), nil
	}

	// Validate the whole sequence before touching the board
	dirs := make([]engine.Direction, 0, len(rawMoves))
	for i, raw := range rawMoves {
		name, _ := raw.(string)
		dir, err := engine.ParseDirection(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("move %d: %v", i+1, err)), nil
		}
		dirs = append(dirs, dir)
	}

	log.WithFields(log.Fields{"moves": len(dirs), "intent": intent}).Debug("mcp bulk move")

	var response strings.Builder
	executed, stopped := 0, ""
	for i, dir := range dirs {
		result := s.apply(dir)
		if result.Outcome == engine.Ignored {
			stopped = "game is over"
			break
		}
		executed++
		response.WriteString(fmt.Sprintf("%d. %s\n", i+1, formatMoveResult(result)))
		if s.state.IsWon() {
			stopped = "reached the finish"
			break
		}
	}

	summary := fmt.Sprintf("Executed %d/%d moves", executed, len(dirs))
	if stopped != "" {
		summary += " (stopped: " + stopped + ")"
	}

	return mcp.NewToolResultText(summary + "\n" + response.String() + "\n" + s.formatState()), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	limit := 20
	if l, ok := args["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	history := s.state.History()
	if len(history) == 0 {
		return mcp.NewToolResultText("No moves yet"), nil
	}
	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Last %d of %d moves:\n", len(history), s.state.TotalMoves()))
	for _, entry := range history {
		result.WriteString(fmt.Sprintf("#%d %s %s -> %s [%s]\n",
			entry.MoveNumber, entry.Action, entry.FromPosition, entry.ToPosition, entry.Outcome))
	}
	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleQuit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.state.IsQuit() || s.state.IsWon() {
		return mcp.NewToolResultText("Game already over\n\n" + s.formatState()), nil
	}

	s.state.Quit()
	s.publish(loop.EventGameOver)
	return mcp.NewToolResultText(loop.Epilogue(false)), nil
}

// apply performs one move the way the input loop does: move, check for a
// win, then tell spectators.
func (s *Server) apply(dir engine.Direction) engine.MoveResult {
	result := s.state.Move(dir)
	won := s.state.CheckWin()
	if !result.Accepted() {
		return result
	}

	if won {
		s.publish(loop.EventGameOver)
		log.Info(loop.Epilogue(true))
	} else {
		s.publish(loop.EventStateUpdate)
	}
	return result
}

func (s *Server) publish(event string) {
	if s.publisher != nil {
		s.publisher.Publish(event, s.state.Snapshot())
	}
}

func (s *Server) formatState() string {
	snap := s.state.Snapshot()

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Map: %s | Position: %s | Finish: %s | Moves: %d\n",
		s.mapName, snap.Player, snap.Finish, snap.TotalMoves))

	possible := formatDirections(s.state.PossibleMoves())
	switch {
	case snap.Won:
		result.WriteString("Status: won\n\n")
	case snap.Quit:
		result.WriteString("Status: quit\n\n")
	default:
		result.WriteString(fmt.Sprintf("Status: playing | Possible moves: %s\n\n", possible))
	}

	result.WriteString(snap.Render())

	if snap.Won {
		result.WriteString("\n\n" + loop.Epilogue(true))
	}
	return result.String()
}

func formatMoveResult(result engine.MoveResult) string {
	switch result.Outcome {
	case engine.Moved:
		return fmt.Sprintf("Moved %s: %s -> %s", result.Direction, result.From, result.To)
	case engine.BlockedByWall:
		return fmt.Sprintf("Blocked by wall moving %s from %s", result.Direction, result.From)
	case engine.BlockedByBoundary:
		return fmt.Sprintf("Blocked by board edge moving %s from %s", result.Direction, result.From)
	default:
		return fmt.Sprintf("Ignored %s: game is over", result.Direction)
	}
}

func formatDirections(dirs []engine.Direction) string {
	if len(dirs) == 0 {
		return "none"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
