// Package mcp provides Model Context Protocol server implementation for the tile-merge game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//
// The implementation is a thin client: every tool call is proxied to the
// game's REST API, so the MCP server and the HTTP server always agree on
// game state.
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current board with grid visualization
//   - move: Execute a single directional slide
//   - bulk_move: Execute multiple slides in sequence
//   - possible_moves: List directions that would change the board
//   - reset_game: Reset game to a fresh board
//   - create_session: Create new game session with config selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_configs: List available game configurations
//   - game_instructions: Get comprehensive rules and strategy notes
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	httpServer := server.NewStreamableHTTPServer(client.GetMCPServer())
//	http.Handle("/mcp", httpServer)
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously play the game
//   - Develop and test merge strategies
//   - Analyze board states and make decisions
//   - Manage multiple game sessions
package mcp
