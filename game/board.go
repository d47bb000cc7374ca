package game

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Board geometry per variant.
const (
	ChessRows   = 8
	ChessCols   = 8
	ChessPlanes = 12

	XiangqiRows   = 10
	XiangqiCols   = 9
	XiangqiPlanes = 14
)

// Termination reasons reported in Result.
const (
	TerminationCheckmate            = "CHECKMATE"
	TerminationStalemate            = "STALEMATE"
	TerminationInsufficientMaterial = "INSUFFICIENT_MATERIAL"
	TerminationFivefoldRepetition   = "FIVEFOLD_REPETITION"
	TerminationSeventyFiveMoveRule  = "SEVENTYFIVE_MOVE_RULE"
	TerminationDrawOffer            = "DRAW_OFFER"
	TerminationResignation          = "RESIGNATION"
	TerminationNoLegalMoves         = "NO_LEGAL_MOVES"
	TerminationRepetitionDraw       = "REPETITION_DRAW"
	TerminationPerpetualCheck       = "PERPETUAL_CHECK"
	TerminationNoCaptureDraw        = "NO_CAPTURE_DRAW"
)

// Result is the structured outcome of a finished game. Winner is SideNone
// for draws. Once a board has produced a Result it never changes.
type Result struct {
	Winner      Side   `json:"winner"`
	Termination string `json:"termination_reason"`
	Plies       int    `json:"ply_count"`
}

// Board is the contract every game variant satisfies. A Board owns exactly
// one game's mutable position; callers own the move values they pass in and
// the observations they get back.
//
// Implementations guarantee:
//   - LegalMoves enumeration is deterministic for a fixed position, but the
//     order carries no other meaning and is not stable across positions.
//   - ApplyMove validates before mutating; on error the position, the move
//     history and the hash are unchanged.
//   - Observation is a pure function of position and side to move, a float32
//     tensor shaped (Planes, Rows, Cols) holding only 0 and 1: plane p has a
//     1 where a piece of that kind and colour stands.
//   - Hash identifies position plus side to move, equal for equal positions
//     and stable across processes (a FEN-like string for every variant).
type Board interface {
	fmt.Stringer

	// Reset restores the starting position, clears the move history and the
	// result and gives the first player the move. It cannot fail.
	Reset()

	Turn() Side
	SideName(s Side) string

	LegalMoves() []Move
	// LegalMovesFor returns the moves available to s, which is the empty
	// slice whenever s is not the side to move.
	LegalMovesFor(s Side) []Move

	// ApplyMove plays m. The reward is from the mover's perspective:
	// +1 the mover just won, -1 the mover just lost by its own move, 0 for
	// an ongoing game or a draw. done reports whether this move ended the
	// game. Illegal moves return an error wrapping ErrIllegalMove.
	ApplyMove(m Move) (reward float32, done bool, err error)

	GameOver() bool
	Observation() *tensor.Dense
	Hash() string
	// Result is nil while the game is live.
	Result() *Result
	MoveHistory() []Move

	Rows() int
	Cols() int
	Planes() int
}

// Cloner is implemented by boards that can fork an independent copy of
// themselves. Search needs it; the simplified xiangqi board omits it.
type Cloner interface {
	Clone() Board
}
