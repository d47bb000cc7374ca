// Package mcts runs UCT search with random playouts over any game.Board that
// can clone itself. It needs no learned evaluator: playout rewards come
// straight from the board's mover-perspective reward signal.
package mcts

import "time"

// Config tunes the search.
type Config struct {
	// ExploreC weighs the exploration term of UCB1.
	ExploreC float32 `json:"explore_c" mapstructure:"explore_c"`
	// Budget is the number of playouts per search.
	Budget int `json:"budget" mapstructure:"budget"`
	// Timeout caps one search's wall time; zero means budget-only.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	// Temperature flattens (>1) or sharpens (<1) visit-count sampling for
	// callers that sample rather than argmax.
	Temperature float32 `json:"temperature" mapstructure:"temperature"`
	// RandomPlies is how many opening plies a caller should sample with
	// Temperature before switching to argmax.
	RandomPlies int `json:"random_plies" mapstructure:"random_plies"`
	// MaxPlayoutLen truncates a random playout, scoring it as a draw.
	MaxPlayoutLen int `json:"max_playout_len" mapstructure:"max_playout_len"`
}

// DefaultConfig returns settings adequate for the bundled games.
func DefaultConfig() Config {
	return Config{
		ExploreC:      1.4,
		Budget:        400,
		Timeout:       5 * time.Second,
		Temperature:   1.0,
		RandomPlies:   10,
		MaxPlayoutLen: 200,
	}
}

// IsValid reports whether the configuration can drive a search.
func (c Config) IsValid() bool {
	return c.ExploreC > 0 &&
		c.Budget >= 1 &&
		c.Temperature > 0 &&
		c.MaxPlayoutLen >= 1 &&
		c.RandomPlies >= 0
}
