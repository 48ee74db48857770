// Package session manages game session lifecycle and persistence.
//
// Sessions are identified by short hex IDs and looked up
// case-insensitively. The Manager keeps live sessions in memory and
// writes through to an optional SessionPersistence backend after every
// state change. Two backends are provided: FilePersistence (one JSON
// file per session) and SQLitePersistence (one row per session with
// the game state as JSON).
//
// On startup LoadPersistedSessions restores saved games; engines are
// rebuilt from the config each session references, so a stored session
// survives process restarts.
package session
