// Package api provides HTTP REST API handlers for the drone maze game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Level catalog listing and retrieval
//   - Per-session progress stats
//   - WebSocket upgrade handling
//   - Static file serving for the browser client
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({level_id} body, empty for default)
//   - GET /api/sessions - List all sessions (sort/order/limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/game_state - Current state view (grid, drones, threat)
//   - POST /api/sessions/{id}/move - Execute one move ({move:"UP|DOWN|LEFT|RIGHT|STAY"})
//   - POST /api/sessions/{id}/bulk-move - Execute up to 50 moves ({moves:[...]})
//   - POST /api/sessions/{id}/reset - Reset the game to the start box
//   - GET /api/sessions/{id}/history - Turn history with pagination
//   - GET /api/sessions/{id}/stats - Progress counters and recent attempts
//
// Level Catalog:
//   - GET /api/levels - List available levels
//   - GET /api/levels/{id} - Get a level definition
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?session={id} - WebSocket upgrade for turn broadcasts
//   - GET / - Static browser client
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Rejected moves (unknown direction,
// blocked step, game already over) are ordinary 200 responses with the
// rejected flag and a reason code; HTTP errors are reserved for unknown
// sessions and transport problems:
//
//	{
//	  "error": "error message"
//	}
//
// Move (POST /api/sessions/{id}/move)
//   Response:
//     - message, game_over, won, outcome
//     - rejected, reason           // present when the move did not consume a turn
//     - player_move: {from:[r,c], to:[r,c]} // null on rejection
//     - drone_moves: [{symbol, from, to}]
//     - player_pos, start_box, grid, turn
//     - updated_stats: {total_tries, level_tries, highest_level_completed}
//     - stats_stale                 // true when the stats write failed
//
// Bulk Move (POST /api/sessions/{id}/bulk-move)
//   Response:
//     - requested_moves, moves_executed, success
//     - stopped_reason, stopped_on_move (1-based), truncated, limit
//     - steps: [{idx, dir, from, to, rejected?, reason?, game_over?, outcome?}]
//     - start_pos, end_pos, grid, possible_moves, threat
//     - updated_stats, stats_stale
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
