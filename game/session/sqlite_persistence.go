package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tilemerge/tilemerge/game/service"
)

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	uid TEXT PRIMARY KEY,
	session_id TEXT NOT NULL UNIQUE,
	config_name TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	last_accessed_at TIMESTAMP NOT NULL,
	state TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_last_accessed ON sessions(last_accessed_at);
`

// SQLitePersistence implements SessionPersistence on a SQLite
// database, one row per session with the game state stored as JSON
type SQLitePersistence struct {
	db            *sql.DB
	configManager service.ConfigManager
}

// NewSQLitePersistence opens (and if needed creates) the database at
// dbPath and prepares the sessions table
func NewSQLitePersistence(dbPath string, configManager service.ConfigManager) (*SQLitePersistence, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(sessionsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &SQLitePersistence{
		db:            db,
		configManager: configManager,
	}, nil
}

// Save upserts a session row keyed by its lowercased session ID
func (sp *SQLitePersistence) Save(session *service.Session) error {
	data, err := persistedData(session, sp.configManager)
	if err != nil {
		return err
	}

	stateJSON, err := json.Marshal(data.GameState)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	_, err = sp.db.Exec(`
		INSERT INTO sessions (uid, session_id, config_name, created_at, last_accessed_at, state)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			config_name = excluded.config_name,
			last_accessed_at = excluded.last_accessed_at,
			state = excluded.state`,
		uuid.NewString(),
		strings.ToLower(data.ID),
		data.ConfigName,
		data.CreatedAt,
		data.LastAccessedAt,
		string(stateJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save session row: %w", err)
	}

	return nil
}

// Load retrieves a session row and rebuilds the live session
func (sp *SQLitePersistence) Load(id string) (*service.Session, error) {
	row := sp.db.QueryRow(`
		SELECT session_id, config_name, created_at, last_accessed_at, state
		FROM sessions WHERE session_id = ?`,
		strings.ToLower(id),
	)

	var data PersistedSessionData
	var stateJSON string
	err := row.Scan(&data.ID, &data.ConfigName, &data.CreatedAt, &data.LastAccessedAt, &stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session row: %w", err)
	}

	if err := json.Unmarshal([]byte(stateJSON), &data.GameState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return restoreSession(&data, sp.configManager)
}

// Delete removes a session row
func (sp *SQLitePersistence) Delete(id string) error {
	result, err := sp.db.Exec(`DELETE FROM sessions WHERE session_id = ?`, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session row: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListAll returns all persisted session IDs
func (sp *SQLitePersistence) ListAll() ([]string, error) {
	rows, err := sp.db.Query(`SELECT session_id FROM sessions ORDER BY last_accessed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list session rows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	return ids, nil
}

// Exists checks if a session row exists
func (sp *SQLitePersistence) Exists(id string) bool {
	var one int
	err := sp.db.QueryRow(`SELECT 1 FROM sessions WHERE session_id = ?`, strings.ToLower(id)).Scan(&one)
	return err == nil
}

// Close closes the database
func (sp *SQLitePersistence) Close() error {
	return sp.db.Close()
}
