// Package tui provides an interactive terminal UI for playing the
// tile-merge game.
//
// The UI is built on Bubble Tea. Arrow keys, hjkl, and wasd all slide
// the board; n starts a fresh game and q quits. The board is rendered
// with lipgloss, coloring tiles by value.
//
// The TUI drives the game through service.GameService directly, so a
// session played in the terminal is saved and restored the same way as
// one played over the REST API.
package tui
