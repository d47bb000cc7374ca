package boardgym

import (
	"github.com/boardgym/env"
	"github.com/boardgym/game"
	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Runner plays single episodes against one Environment. Not safe for
// concurrent use; SelfPlay gives each worker its own Runner.
type Runner struct {
	env      *env.Environment
	sel      Selector
	gameName string
	log      *zap.SugaredLogger
}

func NewRunner(e *env.Environment, sel Selector, gameName string, log *zap.SugaredLogger) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{env: e, sel: sel, gameName: gameName, log: log}
}

// Run plays one episode to termination or truncation and backfills example
// values from the outcome: examples recorded by the winning side get +1, by
// the losing side -1, and every example 0 on a draw or truncation.
func (r *Runner) Run() (*Episode, error) {
	_, info := r.env.Reset()
	board := r.env.Board()

	ep := &Episode{
		ID:   uuid.NewString(),
		Game: r.gameName,
	}

	var movers []game.Side
	var reward float32
	for len(info.LegalActions) > 0 {
		legal := board.LegalMoves()
		mover := board.Turn()

		action, err := r.sel.Select(board, legal, r.env.Rand())
		if err != nil {
			return nil, errors.Wrapf(err, "episode %s ply %d", ep.ID, ep.Plies)
		}

		boardEnc := EncodeObservation(board.Observation())
		policy := r.policyFor(board, legal, action)

		res, err := r.env.Step(action)
		if err != nil {
			r.log.Errorw("aborting episode on step failure",
				"episode", ep.ID, "ply", ep.Plies, "err", err)
			return nil, err
		}

		if validPolicies(policy) {
			ep.Examples = append(ep.Examples, Example{Board: boardEnc, Policy: policy})
			movers = append(movers, mover)
		}
		ep.Plies++
		info = res.Info
		reward = res.Reward

		if res.Terminated {
			ep.Result = info.Result
			break
		}
		if res.Truncated {
			ep.Truncated = true
			break
		}
	}
	if ep.Result == nil && !ep.Truncated {
		// side to move ran out of moves without the board reporting it
		ep.Result = board.Result()
	}
	ep.Reward = reward

	backfill(ep, movers)
	r.log.Debugw("episode finished",
		"episode", ep.ID, "plies", ep.Plies, "truncated", ep.Truncated)
	return ep, nil
}

// policyFor uses the selector's own policy when it exposes one, otherwise a
// one-hot vector on the chosen move.
func (r *Runner) policyFor(board game.Board, legal []game.Move, action int) []float32 {
	if p, ok := r.sel.(PolicyProvider); ok {
		if policy := p.LastPolicy(); policy != nil {
			return policy
		}
	}
	cells := board.Rows() * board.Cols()
	policy := make([]float32, cells*cells)
	policy[legal[action].From*cells+legal[action].To] = 1
	return policy
}

// backfill rewrites example values from the final result: winner's examples
// +1, loser's -1, draws and truncations 0.
func backfill(ep *Episode, movers []game.Side) {
	winner := game.SideNone
	if ep.Result != nil {
		winner = ep.Result.Winner
	}
	for i := range ep.Examples {
		switch {
		case winner == game.SideNone:
			ep.Examples[i].Value = 0
		case movers[i] == winner:
			ep.Examples[i].Value = 1
		default:
			ep.Examples[i].Value = -1
		}
	}
}

func validPolicies(policy []float32) bool {
	for _, v := range policy {
		if math32.IsInf(v, 0) {
			return false
		}
		if math32.IsNaN(v) {
			return false
		}
	}
	return true
}
