package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tilemerge/tilemerge/game/engine"
	"github.com/tilemerge/tilemerge/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool

	// Close releases storage resources
	Close() error
}

// PersistedSessionData is the serialized representation of one
// session: the config ID it was created from plus the game state.
// Both the file and SQLite backends store this JSON shape.
type PersistedSessionData struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// persistedData builds the storage representation of a live session.
func persistedData(session *service.Session, configs service.ConfigManager) (*PersistedSessionData, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	configID, err := configIDFromName(session.Config.Name, configs)
	if err != nil {
		return nil, fmt.Errorf("failed to get config ID: %w", err)
	}
	return &PersistedSessionData{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
	}, nil
}

// restoreSession rebuilds a live session from its storage
// representation, recreating the engine from the referenced config.
func restoreSession(data *PersistedSessionData, configs service.ConfigManager) (*service.Session, error) {
	gameConfig, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	gameEngine, err := engine.NewEngine(gameConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}

	if data.GameState == nil {
		return nil, fmt.Errorf("persisted session %s has no game state", data.ID)
	}
	if err := gameEngine.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to restore game state: %w", err)
	}

	return &service.Session{
		ID:             data.ID,
		Engine:         gameEngine,
		Config:         gameConfig,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// configIDFromName maps a config display name back to its config ID so
// stored sessions survive renames of the display name field.
func configIDFromName(name string, configs service.ConfigManager) (string, error) {
	available, err := configs.ListConfigs()
	if err != nil {
		return "", err
	}
	for _, cfg := range available {
		if cfg.Name == name {
			return cfg.ConfigID, nil
		}
	}
	// Configs created in memory (e.g. the builtin default) have no
	// file on disk; persist them under their display name.
	return name, nil
}

func marshalSessionData(data *PersistedSessionData) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return out, nil
}
