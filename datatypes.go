// Package boardgym drives self-play episodes over the game/env abstraction
// and turns them into value-labelled training examples.
package boardgym

import (
	"time"

	"github.com/boardgym/game"
	"github.com/boardgym/mcts"
	"gorgonia.org/tensor"
)

// Policy selector identifiers for Config.Policy.
const (
	PolicyRandom = "random"
	PolicySearch = "mcts"
)

// Config drives a self-play run.
type Config struct {
	Game        string      `json:"game" mapstructure:"game"`
	Episodes    int         `json:"episodes" mapstructure:"episodes"`
	MaxSteps    int         `json:"max_steps" mapstructure:"max_steps"`
	Workers     int         `json:"workers" mapstructure:"workers"`
	Policy      string      `json:"policy" mapstructure:"policy"`
	Seed        int64       `json:"seed" mapstructure:"seed"`
	MCTS        mcts.Config `json:"mcts" mapstructure:"mcts"`
	DatasetPath string      `json:"dataset_path" mapstructure:"dataset_path"`
}

// DefaultConfig plays random-policy chess episodes on a single worker.
func DefaultConfig() Config {
	return Config{
		Game:     game.GameChess,
		Episodes: 10,
		MaxSteps: 400,
		Workers:  1,
		Policy:   PolicyRandom,
		Seed:     1,
		MCTS:     mcts.DefaultConfig(),
	}
}

// IsValid reports whether the configuration can run.
func (c Config) IsValid() bool {
	if c.Episodes < 1 || c.Workers < 1 || c.MaxSteps < 1 {
		return false
	}
	if c.Policy != PolicyRandom && c.Policy != PolicySearch {
		return false
	}
	if c.Policy == PolicySearch && !c.MCTS.IsValid() {
		return false
	}
	return true
}

// Example is one training sample: a flattened observation, a policy vector
// over the fixed action space and the final value from the recording side's
// perspective.
type Example struct {
	Board  []float32
	Policy []float32
	Value  float32
}

// Episode is one finished self-play game.
type Episode struct {
	ID        string
	Game      string
	Plies     int
	Reward    float32
	Result    *game.Result
	Truncated bool
	Examples  []Example
}

// Dataset is what a self-play run persists.
type Dataset struct {
	Game      string
	CreatedAt time.Time
	Examples  []Example
}

// EncodeObservation flattens an observation tensor into the Example board
// layout. The returned slice is a copy; mutating it never touches the
// tensor's backing array.
func EncodeObservation(obs *tensor.Dense) []float32 {
	data := obs.Data().([]float32)
	out := make([]float32, len(data))
	copy(out, data)
	return out
}
