// Package config manages board preset files for the tile merge game.
//
// Presets are JSON files in a configuration directory, loaded on demand
// and cached. The Manager resolves a default preset at startup and
// falls back to the built-in one when the directory holds nothing
// usable.
package config
