package autoplay

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/tilemerge/tilemerge/game/engine"
)

// DefaultMoveCap bounds a single game. A 4x4 board locks up well
// before this many moves.
const DefaultMoveCap = 10000

// Options controls a Runner.
type Options struct {
	Games    int
	Strategy string
	Seed     int64 // 0 means time-seeded
	MoveCap  int   // 0 means DefaultMoveCap
}

// GameResult is the outcome of a single autoplayed game.
type GameResult struct {
	Game    int         `json:"game"`
	Won     bool        `json:"won"`
	Moves   int         `json:"moves"`
	MaxTile engine.Tile `json:"max_tile"`
}

// Report aggregates the outcomes of a run.
type Report struct {
	Strategy    string        `json:"strategy"`
	Config      string        `json:"config"`
	Games       int           `json:"games"`
	Wins        int           `json:"wins"`
	BestTile    engine.Tile   `json:"best_tile"`
	TotalMoves  int           `json:"total_moves"`
	Elapsed     time.Duration `json:"elapsed"`
	GameResults []GameResult  `json:"game_results"`
}

// WinRate returns the fraction of games won.
func (r *Report) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// AvgMoves returns the mean number of moves per game.
func (r *Report) AvgMoves() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.TotalMoves) / float64(r.Games)
}

// String renders the report as a short human-readable summary.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "strategy=%s config=%s\n", r.Strategy, r.Config)
	fmt.Fprintf(&b, "games=%d wins=%d (%.1f%%)\n", r.Games, r.Wins, r.WinRate()*100)
	fmt.Fprintf(&b, "best tile=%d avg moves=%.1f elapsed=%s\n", r.BestTile, r.AvgMoves(), r.Elapsed.Round(time.Millisecond))
	return b.String()
}

// Runner plays games against a config without user input.
type Runner struct {
	config   *engine.GameConfig
	strategy Strategy
	rng      *rand.Rand
	opts     Options
}

// NewRunner builds a Runner for the given config and options.
func NewRunner(config *engine.GameConfig, opts Options) (*Runner, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Games <= 0 {
		opts.Games = 1
	}
	if opts.MoveCap <= 0 {
		opts.MoveCap = DefaultMoveCap
	}
	if opts.Strategy == "" {
		opts.Strategy = "corner"
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	strategy, err := NewStrategy(opts.Strategy, rng)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:   config,
		strategy: strategy,
		rng:      rng,
		opts:     opts,
	}, nil
}

// Run plays opts.Games games and returns the aggregate report. The
// context is checked between moves so a run can be cancelled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Strategy: r.strategy.Name(),
		Config:   r.config.Name,
		Games:    r.opts.Games,
	}

	start := time.Now()
	for i := 0; i < r.opts.Games; i++ {
		result, err := r.playGame(ctx, i+1)
		if err != nil {
			return nil, err
		}

		report.GameResults = append(report.GameResults, *result)
		report.TotalMoves += result.Moves
		if result.Won {
			report.Wins++
		}
		if result.MaxTile > report.BestTile {
			report.BestTile = result.MaxTile
		}
	}
	report.Elapsed = time.Since(start)

	return report, nil
}

func (r *Runner) playGame(ctx context.Context, game int) (*GameResult, error) {
	eng, err := engine.NewEngineWithRand(r.config, r.rng)
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", game, err)
	}

	for moves := 0; moves < r.opts.MoveCap; moves++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		state := eng.GetState()
		if state.GameOver {
			break
		}

		legal := eng.PossibleMoves()
		if len(legal) == 0 {
			break
		}

		dir := r.strategy.Pick(state.Grid, legal)
		eng.Move(dir)
	}

	state := eng.GetState()
	return &GameResult{
		Game:    game,
		Won:     state.Won,
		Moves:   state.Moves,
		MaxTile: state.MaxTile,
	}, nil
}
