package mcts

import (
	"math/rand"
	"time"

	"github.com/boardgym/game"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

// node is one tree position. Edge statistics live on the child: total is the
// accumulated playout value from the perspective of the player who moved
// into the node, so a parent ranks its children by their raw mean.
type node struct {
	action   int // index into the parent's legal-move enumeration
	visits   int
	total    float32
	children []*node
	legal    []game.Move
	terminal bool
	reward   float32 // mover-perspective reward when terminal
}

func (n *node) mean() float32 {
	if n.visits == 0 {
		return 0
	}
	return n.total / float32(n.visits)
}

// Search is a reusable UCT searcher. It is not safe for concurrent use; give
// each worker its own Search and PRNG.
type Search struct {
	conf Config
	r    *rand.Rand
}

func New(conf Config, r *rand.Rand) *Search {
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}
	return &Search{conf: conf, r: r}
}

// Visits searches from b and returns the root visit counts, aligned with
// b.LegalMoves(). b itself is never mutated; every playout runs on a clone.
func (s *Search) Visits(b game.Board) ([]float32, error) {
	if !s.conf.IsValid() {
		return nil, errors.New("invalid mcts config")
	}
	cloner, ok := b.(game.Cloner)
	if !ok {
		return nil, errors.Errorf("board %T cannot clone, search needs game.Cloner", b)
	}
	root := &node{legal: b.LegalMoves()}
	if len(root.legal) == 0 {
		return nil, errors.Wrap(game.ErrIllegalMove, "no legal moves to search")
	}

	deadline := time.Time{}
	if s.conf.Timeout > 0 {
		deadline = time.Now().Add(s.conf.Timeout)
	}
	for i := 0; i < s.conf.Budget; i++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		s.playout(root, cloner.Clone())
	}

	visits := make([]float32, len(root.legal))
	for _, child := range root.children {
		visits[child.action] = float32(child.visits)
	}
	return visits, nil
}

// BestAction returns the most-visited root action index.
func (s *Search) BestAction(b game.Board) (int, error) {
	visits, err := s.Visits(b)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, v := range visits {
		if v > visits[best] {
			best = i
		}
	}
	return best, nil
}

// Policies projects normalized root visit counts onto the fixed
// from-cell/to-cell action space, the same layout as the environment's
// action mask. Promotion moves collapse onto their from/to pair.
func (s *Search) Policies(b game.Board) ([]float32, error) {
	visits, err := s.Visits(b)
	if err != nil {
		return nil, err
	}
	return ProjectVisits(b, b.LegalMoves(), visits), nil
}

// ProjectVisits spreads per-move visit counts over the fixed
// from-cell/to-cell action space (index = from*cells + to) and normalizes to
// a distribution. visits is aligned with legal.
func ProjectVisits(b game.Board, legal []game.Move, visits []float32) []float32 {
	cells := b.Rows() * b.Cols()
	policy := make([]float32, cells*cells)
	var total float32
	for i, v := range visits {
		policy[legal[i].From*cells+legal[i].To] += v
		total += v
	}
	if total > 0 && !math32.IsInf(total, 0) && !math32.IsNaN(total) {
		vecf32.Scale(policy, 1/total)
	}
	return policy
}

// playout runs one selection/expansion/rollout/backup pass. scratch is a
// clone the pass may freely mutate.
func (s *Search) playout(root *node, scratch game.Board) {
	path := []*node{root}
	cur := root

	// selection: walk fully-expanded internal nodes by UCB1
	for !cur.terminal && len(cur.children) == len(cur.legal) && len(cur.children) > 0 {
		next := s.selectChild(cur)
		if _, _, err := scratch.ApplyMove(cur.legal[next.action]); err != nil {
			return // tree out of sync with the board; drop the playout
		}
		path = append(path, next)
		cur = next
	}

	var value float32
	switch {
	case cur.terminal:
		value = cur.reward
	default:
		// expansion: materialize the next untried child
		child := &node{action: len(cur.children)}
		reward, done, err := scratch.ApplyMove(cur.legal[child.action])
		if err != nil {
			return
		}
		cur.children = append(cur.children, child)
		path = append(path, child)
		if done {
			child.terminal = true
			child.reward = reward
			value = reward
		} else {
			child.legal = scratch.LegalMoves()
			value = -s.rollout(scratch)
		}
	}

	// backup: value is from the perspective of the mover into the leaf;
	// alternate signs walking up
	for i := len(path) - 1; i >= 1; i-- {
		path[i].visits++
		path[i].total += value
		value = -value
	}
	root.visits++
}

func (s *Search) selectChild(n *node) *node {
	logN := math32.Log(float32(n.visits) + 1)
	best := n.children[0]
	bestScore := math32.Inf(-1)
	for _, child := range n.children {
		score := child.mean() +
			s.conf.ExploreC*math32.Sqrt(logN/float32(child.visits))
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

// rollout plays uniformly random moves on scratch until the game ends or the
// playout length cap hits. The return value is from the perspective of the
// side to move at entry; a capped playout counts as a draw.
func (s *Search) rollout(scratch game.Board) float32 {
	sign := float32(1)
	for ply := 0; ply < s.conf.MaxPlayoutLen; ply++ {
		legal := scratch.LegalMoves()
		if len(legal) == 0 {
			return 0
		}
		reward, done, err := scratch.ApplyMove(legal[s.r.Intn(len(legal))])
		if err != nil {
			return 0
		}
		if done {
			return sign * reward
		}
		sign = -sign
	}
	return 0
}
