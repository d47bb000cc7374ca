package boardgym

import (
	"math/rand"

	"github.com/boardgym/game"
	"github.com/boardgym/mcts"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Selector picks one index into the current legal-move enumeration.
type Selector interface {
	Select(b game.Board, legal []game.Move, r *rand.Rand) (int, error)
	Name() string
}

// PolicyProvider is implemented by selectors that can report the policy
// vector behind their last Select call, laid out over the fixed
// from-cell/to-cell action space. Selectors without one get a one-hot policy
// recorded for them.
type PolicyProvider interface {
	LastPolicy() []float32
}

// NewSelector builds the selector named by the policy identifier.
func NewSelector(policy string, conf mcts.Config, r *rand.Rand) (Selector, error) {
	switch policy {
	case PolicyRandom:
		return RandomSelector{}, nil
	case PolicySearch:
		return NewSearchSelector(conf, r), nil
	}
	return nil, errors.Errorf("unknown policy %q", policy)
}

// RandomSelector samples uniformly from the legal moves.
type RandomSelector struct{}

func (RandomSelector) Select(b game.Board, legal []game.Move, r *rand.Rand) (int, error) {
	if len(legal) == 0 {
		return 0, errors.Wrap(game.ErrIllegalMove, "no legal moves to select from")
	}
	return r.Intn(len(legal)), nil
}

func (RandomSelector) Name() string { return PolicyRandom }

// SearchSelector picks moves with UCT search. For the first RandomPlies
// plies of a game it samples from the temperature-scaled visit distribution,
// then switches to the most-visited move.
type SearchSelector struct {
	conf   mcts.Config
	search *mcts.Search
	policy []float32
}

func NewSearchSelector(conf mcts.Config, r *rand.Rand) *SearchSelector {
	return &SearchSelector{conf: conf, search: mcts.New(conf, r)}
}

func (s *SearchSelector) Select(b game.Board, legal []game.Move, r *rand.Rand) (int, error) {
	if len(legal) == 0 {
		return 0, errors.Wrap(game.ErrIllegalMove, "no legal moves to select from")
	}
	visits, err := s.search.Visits(b)
	if err != nil {
		return 0, err
	}
	s.policy = mcts.ProjectVisits(b, legal, visits)

	if len(b.MoveHistory()) >= s.conf.RandomPlies {
		best := 0
		for i, v := range visits {
			if v > visits[best] {
				best = i
			}
		}
		return best, nil
	}
	return sampleTempered(visits, s.conf.Temperature, r)
}

func (s *SearchSelector) Name() string { return PolicySearch }

// LastPolicy reports the normalized visit distribution of the last Select,
// over the fixed action space.
func (s *SearchSelector) LastPolicy() []float32 { return s.policy }

// sampleTempered draws an index proportional to visits^(1/temperature).
func sampleTempered(visits []float32, temperature float32, r *rand.Rand) (int, error) {
	weights := make([]float32, len(visits))
	var total float32
	for i, v := range visits {
		if v > 0 {
			weights[i] = math32.Pow(v, 1/temperature)
		}
		total += weights[i]
	}
	if total <= 0 || math32.IsNaN(total) || math32.IsInf(total, 0) {
		return r.Intn(len(visits)), nil
	}
	target := r.Float32() * total
	for i, w := range weights {
		target -= w
		if target <= 0 {
			return i, nil
		}
	}
	return len(visits) - 1, nil
}
