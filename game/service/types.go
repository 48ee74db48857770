package service

import (
	"time"

	"github.com/tilemerge/tilemerge/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Moved     bool              `json:"moved"`
	Direction string            `json:"direction"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	RequestedMoves int               `json:"requested_moves"`
	MovesAttempted int               `json:"moves_attempted"`
	MovesExecuted  int               `json:"moves_executed"` // moves that changed the board
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`  // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: won|stuck|completed
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"` // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	GameOver      bool     `json:"game_over"`
	Won           bool     `json:"won"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each attempted move in the bulk call
type StepInfo struct {
	Idx     int         `json:"idx"`
	Dir     string      `json:"dir"`
	Moved   bool        `json:"moved"`
	MaxTile engine.Tile `json:"max_tile"`
	Won     bool        `json:"won,omitempty"`
	Stuck   bool        `json:"stuck,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "game_won", "game_stuck", "reset", "session_created"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Game event types emitted by the service and relayed to WebSocket
// subscribers.
const (
	EventMove           = "move"
	EventGameWon        = "game_won"
	EventGameStuck      = "game_stuck"
	EventReset          = "reset"
	EventSessionCreated = "session_created"
)

// ConfigInfo provides information about a board preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	WinTile     int    `json:"win_tile"`
}
