// Package env wraps a game.Board in a Gym-style episode loop: reset, step by
// dense action index, action masks, rendering and truncation bookkeeping.
// One Environment drives exactly one Board and must not be shared between
// goroutines; parallel self-play instantiates one Environment per worker.
package env

import (
	"io"
	"math/rand"
	"os"

	"github.com/boardgym/game"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DefaultMaxSteps truncates runaway episodes.
const DefaultMaxSteps = 400

// Info accompanies every observation. LegalActions is authoritative for
// decoding step actions; ActionMask is the same set projected onto the fixed
// from-cell/to-cell action space for fixed-width policy heads.
type Info struct {
	LegalActions []int
	ActionMask   []float32
	Turn         string
	Fingerprint  string
	Result       *game.Result
}

// StepResult bundles what a Gym step returns.
type StepResult struct {
	Observation *tensor.Dense
	Reward      float32
	Terminated  bool
	Truncated   bool
	Info        *Info
}

// Environment owns one Board plus episode bookkeeping. Its PRNG is for
// reproducible auxiliary randomness only; action selection is the caller's
// job.
type Environment struct {
	board    game.Board
	maxSteps int
	steps    int
	rng      *rand.Rand
	out      io.Writer
	closed   bool
}

// Option configures an Environment at construction.
type Option func(*Environment)

// WithMaxSteps overrides the truncation limit.
func WithMaxSteps(n int) Option {
	return func(e *Environment) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithSeed seeds the auxiliary PRNG deterministically.
func WithSeed(seed int64) Option {
	return func(e *Environment) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithOutput redirects human-mode rendering, default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Environment) { e.out = w }
}

// New wraps an already-constructed board.
func New(b game.Board, opts ...Option) *Environment {
	e := &Environment{
		board:    b,
		maxSteps: DefaultMaxSteps,
		rng:      rand.New(rand.NewSource(1)),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Make builds the board for gameType through the factory and wraps it.
func Make(gameType string, opts ...Option) (*Environment, error) {
	b, err := game.NewBoard(gameType)
	if err != nil {
		return nil, err
	}
	return New(b, opts...), nil
}

// Board exposes the owned board. Callers must not mutate it behind the
// environment's back.
func (e *Environment) Board() game.Board { return e.board }

// ActionSpace is the fixed width of the action mask: board cells squared.
func (e *Environment) ActionSpace() int {
	cells := e.board.Rows() * e.board.Cols()
	return cells * cells
}

// Steps reports the successful steps since the last reset.
func (e *Environment) Steps() int { return e.steps }

// Rand hands out the environment's PRNG for callers that want reproducible
// sampling tied to the episode seed.
func (e *Environment) Rand() *rand.Rand { return e.rng }

// Seed reseeds the auxiliary PRNG. Board and episode state are untouched.
func (e *Environment) Seed(seed int64) {
	e.rng = rand.New(rand.NewSource(seed))
}

// Reset starts a fresh episode. An optional seed reseeds the PRNG first.
// Close is permanent: Reset on a closed environment touches nothing and
// returns nil values.
func (e *Environment) Reset(seed ...int64) (*tensor.Dense, *Info) {
	if e.closed {
		return nil, nil
	}
	if len(seed) > 0 {
		e.Seed(seed[0])
	}
	e.board.Reset()
	e.steps = 0
	return e.board.Observation(), e.info()
}

// Step decodes action positionally into the current legal-move enumeration
// and applies it. The mapping is re-derived on every call; indices are never
// valid across positions.
func (e *Environment) Step(action int) (StepResult, error) {
	if e.closed {
		return StepResult{}, errors.New("step on closed environment")
	}
	legal := e.board.LegalMoves()
	if action < 0 || action >= len(legal) {
		return StepResult{}, errors.Wrapf(game.ErrInvalidAction,
			"index %d with %d legal moves", action, len(legal))
	}

	reward, done, err := e.board.ApplyMove(legal[action])
	if err != nil {
		return StepResult{}, err
	}
	e.steps++

	return StepResult{
		Observation: e.board.Observation(),
		Reward:      reward,
		Terminated:  done,
		Truncated:   e.steps >= e.maxSteps,
		Info:        e.info(),
	}, nil
}

// ActionMask projects the current legal moves onto the fixed
// from-cell/to-cell action space: index = from*cells + to. Derived, not
// authoritative; promotions collapse onto their from/to pair.
func (e *Environment) ActionMask() []float32 {
	cells := e.board.Rows() * e.board.Cols()
	mask := make([]float32, cells*cells)
	for _, m := range e.board.LegalMoves() {
		mask[m.From*cells+m.To] = 1
	}
	return mask
}

// MoveToAction finds the positional index of m in the current enumeration.
func (e *Environment) MoveToAction(m game.Move) (int, error) {
	for i, lm := range e.board.LegalMoves() {
		if lm.Eq(m) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(game.ErrIllegalMove, "move %s not currently legal",
		m.UCI(e.board.Cols()))
}

// ActionToMove is the inverse of MoveToAction for the current enumeration.
func (e *Environment) ActionToMove(action int) (game.Move, error) {
	legal := e.board.LegalMoves()
	if action < 0 || action >= len(legal) {
		return game.Move{}, errors.Wrapf(game.ErrInvalidAction,
			"index %d with %d legal moves", action, len(legal))
	}
	return legal[action], nil
}

// Close is idempotent and permanent. A closed environment rejects Step and
// Reset but leaves the board readable.
func (e *Environment) Close() error {
	e.closed = true
	return nil
}

func (e *Environment) info() *Info {
	legal := e.board.LegalMoves()
	indices := make([]int, len(legal))
	for i := range legal {
		indices[i] = i
	}
	info := &Info{
		LegalActions: indices,
		ActionMask:   e.ActionMask(),
		Turn:         e.board.SideName(e.board.Turn()),
		Fingerprint:  e.board.Hash(),
	}
	if e.board.GameOver() {
		info.Result = e.board.Result()
	}
	return info
}
