package game

import "github.com/pkg/errors"

// Sentinel errors for the board and environment layer. Call sites wrap these
// with errors.Wrapf so stdlib errors.Is still matches the sentinel while the
// message carries the offending move or index.
var (
	// ErrParse reports malformed move notation.
	ErrParse = errors.New("malformed move notation")

	// ErrIllegalMove reports a move that is not legal in the current
	// position. Board state is guaranteed untouched when it is returned.
	ErrIllegalMove = errors.New("illegal move for current position")

	// ErrInvalidAction reports an action index outside the current
	// legal-move enumeration.
	ErrInvalidAction = errors.New("action index out of range")

	// ErrUnsupportedGame reports an unknown game-type identifier.
	ErrUnsupportedGame = errors.New("unsupported game type")

	// ErrOracle reports a rules-oracle failure: backend unavailable or
	// malformed data. Reads degrade to "no legal moves"; writes propagate
	// this error out of ApplyMove.
	ErrOracle = errors.New("rules oracle failure")
)
