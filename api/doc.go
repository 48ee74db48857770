// Package api provides HTTP REST API handlers for the tile-merge game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Configuration listing and creation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - Execute one move
//   - POST /api/sessions/{id}/bulk-move - Execute a sequence of moves
//   - POST /api/sessions/{id}/reset - Reset the session to a fresh board
//   - GET /api/sessions/{id}/possible-moves - List directions that would change the board
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Create a configuration
//
// Health:
//   - GET /api/health - Liveness probe
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Moves are sent as POST with
// a JSON body:
//
//	{"direction": "up|down|left|right"}
//
// and bulk moves as:
//
//	{"moves": ["up", "left", "down"]}
//
// Bulk move responses carry per-step detail:
//   - requested_moves, moves_attempted, moves_executed
//   - stopped_reason (text), stop_reason_code (won|stuck|completed),
//     stopped_on_move (1-based), truncated, limit
//   - steps: [{ idx, dir, moved, max_tile, won, stuck }]
//   - possible_moves for the final board
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message",
//	  "code": 400
//	}
package api
