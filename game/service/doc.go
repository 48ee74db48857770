// Package service provides the business logic layer for the tile merge game.
//
// The service package implements:
//   - Multi-session game management
//   - Board preset loading and listing
//   - Move processing with direction parsing at the boundary
//   - Bulk move sequences with per-step traces
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. SessionManager handles session creation, retrieval, and
// lifecycle. ConfigManager manages board preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the game engine, providing session isolation, preset management,
// and write-through persistence after every state-changing operation.
// Each session maintains its own game engine instance with independent
// state.
package service
