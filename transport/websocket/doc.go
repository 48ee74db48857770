// Package websocket provides real-time game state updates over
// WebSocket connections.
//
// The Hub tracks clients grouped by session ID and pushes JSON
// messages when a session's board changes. Clients subscribe via
// /ws?session=<id>; the server broadcasts state_update,
// session_created, game_won and game_stuck events. Connections are
// kept alive with periodic pings and slow clients are dropped rather
// than allowed to block the hub.
package websocket
