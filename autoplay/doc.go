// Package autoplay plays the tile-merge game without user input.
//
// A Runner repeatedly builds a fresh engine for a config and drives it
// with a Strategy until the game ends or a move cap is hit. Three
// strategies are available:
//
//   - random: uniform among moves that change the board
//   - greedy: one-ply lookahead, picks the move that merges the most tiles
//   - corner: fixed left/down/right/up priority to pack a corner
//
// Runs are seedable, so a benchmark is reproducible:
//
//	runner, _ := autoplay.NewRunner(cfg, autoplay.Options{
//		Games:    100,
//		Strategy: "corner",
//		Seed:     42,
//	})
//	report, _ := runner.Run(ctx)
//	fmt.Print(report)
package autoplay
