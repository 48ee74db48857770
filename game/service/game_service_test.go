package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tilemerge/tilemerge/game/engine"
)

// stubSessionManager is an in-memory SessionManager for tests.
type stubSessionManager struct {
	sessions map[string]*Session
	nextID   int
	saves    int
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: make(map[string]*Session)}
}

func (m *stubSessionManager) Create(id string, config *engine.GameConfig) (*Session, error) {
	if id == "" {
		m.nextID++
		id = fmt.Sprintf("s%03d", m.nextID)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = sess
	return sess, nil
}

func (m *stubSessionManager) Get(id string) (*Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	return sess, nil
}

func (m *stubSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*Session, error) {
	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}
	return m.Create(id, config)
}

func (m *stubSessionManager) List() []*Session {
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *stubSessionManager) Delete(id string) error {
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *stubSessionManager) UpdateLastAccessed(id string) error {
	if sess, ok := m.sessions[id]; ok {
		sess.LastAccessedAt = time.Now()
	}
	return nil
}

func (m *stubSessionManager) Save(id string) error {
	m.saves++
	return nil
}

// stubConfigManager serves a fixed set of presets.
type stubConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func newStubConfigManager() *stubConfigManager {
	quick := engine.DefaultConfig()
	mini := engine.DefaultConfig()
	mini.Name = "mini"
	mini.Rows, mini.Cols = 3, 3
	mini.WinTile = 64
	return &stubConfigManager{
		configs: map[string]*engine.GameConfig{"quick": quick, "mini": mini},
		saved:   make(map[string]*engine.GameConfig),
	}
}

func (m *stubConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	cfg, ok := m.configs[name]
	if !ok {
		return nil, fmt.Errorf("configuration not found")
	}
	return cfg, nil
}

func (m *stubConfigManager) ListConfigs() ([]*ConfigInfo, error) {
	var out []*ConfigInfo
	for id, cfg := range m.configs {
		out = append(out, &ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        cfg.Name,
			Description: cfg.Description,
			Rows:        cfg.Rows,
			Cols:        cfg.Cols,
			WinTile:     int(cfg.WinTile),
		})
	}
	return out, nil
}

func (m *stubConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["quick"]
}

func (m *stubConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (GameService, *stubSessionManager) {
	t.Helper()
	sessions := newStubSessionManager()
	return NewGameService(sessions, newStubConfigManager()), sessions
}

func TestCreateSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "mini")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if info.ID == "" {
		t.Error("session has no ID")
	}
	if info.ConfigName != "mini" {
		t.Errorf("config name = %q, want mini", info.ConfigName)
	}
	if info.GameState == nil || info.GameState.Grid.Rows() != 3 {
		t.Errorf("game state not built from the mini preset: %+v", info.GameState)
	}
}

func TestCreateSessionDefaultConfig(t *testing.T) {
	svc, _ := newTestService(t)
	info, err := svc.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if info.GameState.Grid.Rows() != 4 || info.GameState.Grid.Cols() != 4 {
		t.Errorf("default session board is %dx%d, want 4x4",
			info.GameState.Grid.Rows(), info.GameState.Grid.Cols())
	}
}

func TestCreateSessionUnknownConfig(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateSession(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown config")
	}
	if !strings.Contains(err.Error(), "Available configs") {
		t.Errorf("error should list available configs, got: %v", err)
	}
}

func TestMove(t *testing.T) {
	svc, sessions := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "quick")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	// Find a direction that changes the board.
	moves, err := svc.PossibleMoves(ctx, info.ID)
	if err != nil {
		t.Fatalf("PossibleMoves: %v", err)
	}
	if len(moves) == 0 {
		t.Fatal("fresh board has no possible moves")
	}

	savesBefore := sessions.saves
	result, err := svc.Move(ctx, info.ID, moves[0])
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if !result.Moved {
		t.Errorf("Move(%s) did not change the board", moves[0])
	}
	if result.GameState.Moves != 1 {
		t.Errorf("move counter = %d, want 1", result.GameState.Moves)
	}
	if len(result.Events) == 0 || result.Events[0].Type != EventMove {
		t.Errorf("expected a move event, got %+v", result.Events)
	}
	if sessions.saves != savesBefore+1 {
		t.Error("move did not persist the session")
	}
}

func TestMoveInvalidDirection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "quick")
	if _, err := svc.Move(ctx, info.ID, "sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
	if _, err := svc.Move(ctx, "zzzz", "up"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestBulkMove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "quick")
	result, err := svc.BulkMove(ctx, info.ID, []string{"up", "left", "down", "right"})
	if err != nil {
		t.Fatalf("BulkMove: %v", err)
	}
	if result.RequestedMoves != 4 {
		t.Errorf("requested = %d, want 4", result.RequestedMoves)
	}
	if result.MovesAttempted == 0 {
		t.Error("no moves attempted")
	}
	if len(result.Steps) != result.MovesAttempted {
		t.Errorf("steps %d != attempted %d", len(result.Steps), result.MovesAttempted)
	}
	if result.GameState == nil {
		t.Fatal("missing final game state")
	}
	if !result.GameOver && len(result.PossibleMoves) == 0 {
		t.Error("live game reports no possible moves")
	}
}

func TestBulkMoveTruncation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "quick")
	moves := make([]string, engine.MaxBulkMoves+5)
	for i := range moves {
		moves[i] = []string{"up", "left", "down", "right"}[i%4]
	}
	result, err := svc.BulkMove(ctx, info.ID, moves)
	if err != nil {
		t.Fatalf("BulkMove: %v", err)
	}
	if !result.Truncated {
		t.Error("expected truncation")
	}
	if result.MovesAttempted > engine.MaxBulkMoves {
		t.Errorf("attempted %d moves, cap is %d", result.MovesAttempted, engine.MaxBulkMoves)
	}
	if result.Limit != engine.MaxBulkMoves {
		t.Errorf("limit = %d, want %d", result.Limit, engine.MaxBulkMoves)
	}
}

func TestBulkMoveRejectsEmptyAndInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "quick")
	if _, err := svc.BulkMove(ctx, info.ID, nil); err == nil {
		t.Error("expected error for empty move list")
	}
	if _, err := svc.BulkMove(ctx, info.ID, []string{"up", "diagonal"}); err == nil {
		t.Error("expected error for invalid direction in list")
	}
}

func TestReset(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "quick")
	moves, _ := svc.PossibleMoves(ctx, info.ID)
	svc.Move(ctx, info.ID, moves[0])

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if state.Moves != 0 || state.GameOver {
		t.Errorf("reset state not fresh: %+v", state)
	}
}

func TestSessionLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "quick")
	b, _ := svc.CreateSession(ctx, "mini")

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("got %d sessions, want 2", len(list))
	}

	got, err := svc.GetSession(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ConfigName != "mini" {
		t.Errorf("config name = %q, want mini", got.ConfigName)
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := svc.GetSession(ctx, a.ID); err == nil {
		t.Error("deleted session still retrievable")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.CreateSession(ctx, "quick")
	b, _ := svc.CreateSession(ctx, "quick")

	moves, _ := svc.PossibleMoves(ctx, a.ID)
	if _, err := svc.Move(ctx, a.ID, moves[0]); err != nil {
		t.Fatalf("Move: %v", err)
	}

	stateB, err := svc.GetGameState(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if stateB.Moves != 0 {
		t.Errorf("session B saw %d moves from session A", stateB.Moves)
	}
}

func TestConfigOperations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(configs) != 2 {
		t.Errorf("got %d configs, want 2", len(configs))
	}

	cfg, err := svc.LoadConfig(ctx, "mini")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WinTile != 64 {
		t.Errorf("win tile = %d, want 64", cfg.WinTile)
	}

	custom := engine.DefaultConfig()
	custom.Name = "custom"
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
}
