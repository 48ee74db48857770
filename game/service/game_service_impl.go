package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tilemerge/tilemerge/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate the short session ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	stateBefore := sess.Engine.GetState()
	if stateBefore.GameOver {
		return &MoveResult{
			Moved:     false,
			Direction: dir.String(),
			GameState: stateBefore,
			Message:   "game is already over; reset to play again",
		}, nil
	}

	moved := sess.Engine.Move(dir)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Moved:     moved,
		Direction: dir.String(),
		GameState: state,
		Message:   state.Message,
	}
	if !moved {
		result.Message = fmt.Sprintf("nothing can slide %s", dir)
		return result, nil
	}

	result.Events = append(result.Events, GameEvent{
		Type:      EventMove,
		Message:   fmt.Sprintf("moved %s", dir),
		Timestamp: time.Now(),
	})
	switch {
	case state.Won:
		result.Events = append(result.Events, GameEvent{
			Type:      EventGameWon,
			Message:   state.Message,
			Timestamp: time.Now(),
		})
	case state.GameOver:
		result.Events = append(result.Events, GameEvent{
			Type:      EventGameStuck,
			Message:   state.Message,
			Timestamp: time.Now(),
		})
	}

	if err := s.sessions.Save(sessionID); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return result, nil
}

// BulkMove executes a sequence of moves, stopping when the game ends
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	if len(moves) == 0 {
		return nil, fmt.Errorf("no moves provided")
	}

	dirs, err := engine.ParseDirections(moves)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(dirs),
		Limit:          engine.MaxBulkMoves,
	}
	if len(dirs) > engine.MaxBulkMoves {
		dirs = dirs[:engine.MaxBulkMoves]
		result.Truncated = true
	}

	for i, dir := range dirs {
		state := sess.Engine.GetState()
		if state.GameOver {
			break
		}

		moved := sess.Engine.Move(dir)
		state = sess.Engine.GetState()

		step := StepInfo{
			Idx:     i + 1,
			Dir:     dir.String(),
			Moved:   moved,
			MaxTile: state.MaxTile,
			Won:     state.Won,
			Stuck:   state.GameOver && !state.Won,
		}
		result.Steps = append(result.Steps, step)
		result.MovesAttempted++
		if moved {
			result.MovesExecuted++
			result.Events = append(result.Events, GameEvent{
				Type:      EventMove,
				Message:   fmt.Sprintf("moved %s", dir),
				Timestamp: time.Now(),
			})
		}

		if state.Won {
			result.StoppedReason = state.Message
			result.StopReasonCode = "won"
			result.StoppedOnMove = i + 1
			result.Events = append(result.Events, GameEvent{
				Type:      EventGameWon,
				Message:   state.Message,
				Timestamp: time.Now(),
			})
			break
		}
		if state.GameOver {
			result.StoppedReason = state.Message
			result.StopReasonCode = "stuck"
			result.StoppedOnMove = i + 1
			result.Events = append(result.Events, GameEvent{
				Type:      EventGameStuck,
				Message:   state.Message,
				Timestamp: time.Now(),
			})
			break
		}
	}

	finalState := sess.Engine.GetState()
	result.GameState = finalState
	result.GameOver = finalState.GameOver
	result.Won = finalState.Won
	result.Message = finalState.Message
	if result.StopReasonCode == "" {
		result.StopReasonCode = "completed"
	}
	for _, d := range sess.Engine.PossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, d.String())
	}

	if err := s.sessions.Save(sessionID); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return result, nil
}

// Reset restarts a session's game from its config
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if err := sess.Engine.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	if err := s.sessions.Save(sessionID); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return sess.Engine.GetState(), nil
}

// GetGameState returns the current state of a session
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.GetState(), nil
}

// PossibleMoves lists the directions that would change the board
func (s *gameServiceImpl) PossibleMoves(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	moves := []string{}
	for _, d := range sess.Engine.PossibleMoves() {
		moves = append(moves, d.String())
	}
	return moves, nil
}

// ListConfigs returns all available board presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a board preset by name
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	return config, nil
}

// SaveConfig validates and persists a board preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return fmt.Errorf("failed to save config %s: %w", configName, err)
	}
	return nil
}
