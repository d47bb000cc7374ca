package game

import (
	"github.com/boardgym/xiangqi"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// NoCaptureDrawPlies is the native board's draw clock: this many plies
// without a capture adjudicate a draw.
const NoCaptureDrawPlies = 120

// NativeXiangqiBoard implements Board directly on the xiangqi rules engine,
// with no oracle round trips. On top of the engine's movegen it adjudicates
// the long-game rules the oracle variants cannot see:
//
//   - threefold repetition is a draw, unless one side gave check on every one
//     of its own moves inside the repetition window while the other did not,
//     in which case the perpetual checker loses;
//   - NoCaptureDrawPlies plies without a capture is a draw.
type NativeXiangqiBoard struct {
	pos      *xiangqi.Position
	startFEN string
	history  []Move
	result   *Result

	// adjudication bookkeeping, reset alongside the position
	seen   map[uint64]int // zobrist key -> occurrence count, start included
	hashes []uint64       // key after each ply
	checks []bool         // whether the mover of each ply gave check
}

func NewNativeXiangqiBoard() *NativeXiangqiBoard {
	b := &NativeXiangqiBoard{startFEN: xiangqi.StartFEN}
	b.Reset()
	return b
}

// NewNativeXiangqiBoardFEN starts from an arbitrary position. Reset returns
// to that position, not to the standard opening.
func NewNativeXiangqiBoardFEN(fen string) (*NativeXiangqiBoard, error) {
	pos, err := xiangqi.DecodeFEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "fen %q: %v", fen, err)
	}
	b := &NativeXiangqiBoard{startFEN: fen}
	b.install(pos)
	return b, nil
}

func (b *NativeXiangqiBoard) install(pos *xiangqi.Position) {
	b.pos = pos
	b.history = nil
	b.result = nil
	b.seen = map[uint64]int{pos.Hash(): 1}
	b.hashes = nil
	b.checks = nil
}

func (b *NativeXiangqiBoard) Reset() {
	pos, err := xiangqi.DecodeFEN(b.startFEN)
	if err != nil {
		panic(err) // validated at construction
	}
	b.install(pos)
}

func sideFromEngine(s xiangqi.Side) Side {
	if s == xiangqi.Red {
		return SideFirst
	}
	return SideSecond
}

func (b *NativeXiangqiBoard) Turn() Side { return sideFromEngine(b.pos.SideToMove()) }

func (b *NativeXiangqiBoard) SideName(s Side) string {
	switch s {
	case SideFirst:
		return "red"
	case SideSecond:
		return "black"
	}
	return "none"
}

func (b *NativeXiangqiBoard) LegalMoves() []Move {
	legal := b.pos.LegalMoves()
	moves := make([]Move, len(legal))
	for i, mv := range legal {
		moves[i] = Move{From: mv.From, To: mv.To, Token: mv.String()}
	}
	return moves
}

func (b *NativeXiangqiBoard) LegalMovesFor(s Side) []Move {
	if s != b.Turn() {
		return nil
	}
	return b.LegalMoves()
}

func (b *NativeXiangqiBoard) ApplyMove(m Move) (float32, bool, error) {
	if b.result != nil {
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s: game is over", m.UCI(XiangqiCols))
	}
	mv := xiangqi.Move{From: m.From, To: m.To}
	if m.Token != "" {
		parsed, err := xiangqi.MoveFromString(m.Token)
		if err != nil {
			return 0, false, errors.Wrapf(ErrIllegalMove, "move %s", m.Token)
		}
		mv = parsed
	}
	if !b.pos.IsLegal(mv) {
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s", mv)
	}

	mover := b.Turn()
	next, _ := b.pos.Apply(mv)
	b.pos = next
	b.history = append(b.history, m)
	b.hashes = append(b.hashes, next.Hash())
	b.checks = append(b.checks, next.InCheck(next.SideToMove()))
	b.seen[next.Hash()]++

	if done, res := b.adjudicate(mover); done {
		b.result = res
		switch res.Winner {
		case SideNone:
			return 0, true, nil
		case mover:
			return 1, true, nil
		}
		return -1, true, nil
	}
	return 0, false, nil
}

// adjudicate inspects the position just reached. mover is the side that
// produced it.
func (b *NativeXiangqiBoard) adjudicate(mover Side) (bool, *Result) {
	plies := len(b.history)

	if len(b.pos.LegalMoves()) == 0 {
		term := TerminationNoLegalMoves
		if b.pos.InCheck(b.pos.SideToMove()) {
			term = TerminationCheckmate
		}
		return true, &Result{Winner: mover, Termination: term, Plies: plies}
	}

	if b.seen[b.pos.Hash()] >= 3 {
		winner, term := b.repetitionVerdict(mover)
		return true, &Result{Winner: winner, Termination: term, Plies: plies}
	}

	if b.pos.HalfMoveClock() >= NoCaptureDrawPlies {
		return true, &Result{Winner: SideNone, Termination: TerminationNoCaptureDraw, Plies: plies}
	}
	return false, nil
}

// repetitionVerdict decides a threefold repetition. The window runs from the
// previous occurrence of the repeated position to now; a side that checked on
// every one of its own moves in that window, while the other did not, is a
// perpetual checker and loses.
func (b *NativeXiangqiBoard) repetitionVerdict(mover Side) (Side, string) {
	repeated := b.pos.Hash()
	last := len(b.hashes) - 1
	windowStart := 0
	for i := last - 1; i >= 0; i-- {
		if b.hashes[i] == repeated {
			windowStart = i + 1
			break
		}
	}

	moverChecks, opponentChecks := true, true
	for i := windowStart; i <= last; i++ {
		// history and checks are parallel; plies alternate sides, the last
		// one belonging to mover.
		moverPly := (last-i)%2 == 0
		if moverPly && !b.checks[i] {
			moverChecks = false
		}
		if !moverPly && !b.checks[i] {
			opponentChecks = false
		}
	}

	switch {
	case moverChecks && !opponentChecks:
		return mover.Other(), TerminationPerpetualCheck
	case opponentChecks && !moverChecks:
		return mover, TerminationPerpetualCheck
	}
	return SideNone, TerminationRepetitionDraw
}

func (b *NativeXiangqiBoard) GameOver() bool {
	return b.result != nil || len(b.pos.LegalMoves()) == 0
}

func (b *NativeXiangqiBoard) Observation() *tensor.Dense {
	return XiangqiObservation(xiangqi.EncodeFEN(b.pos))
}

func (b *NativeXiangqiBoard) Hash() string { return xiangqi.EncodeFEN(b.pos) }

func (b *NativeXiangqiBoard) Result() *Result {
	if b.result == nil && len(b.pos.LegalMoves()) == 0 {
		term := TerminationNoLegalMoves
		if b.pos.InCheck(b.pos.SideToMove()) {
			term = TerminationCheckmate
		}
		b.result = &Result{Winner: b.Turn().Other(), Termination: term, Plies: len(b.history)}
	}
	return b.result
}

func (b *NativeXiangqiBoard) MoveHistory() []Move { return b.history }

func (b *NativeXiangqiBoard) Rows() int   { return XiangqiRows }
func (b *NativeXiangqiBoard) Cols() int   { return XiangqiCols }
func (b *NativeXiangqiBoard) Planes() int { return XiangqiPlanes }

func (b *NativeXiangqiBoard) String() string { return b.pos.String() }

func (b *NativeXiangqiBoard) Clone() Board {
	clone := &NativeXiangqiBoard{pos: b.pos, startFEN: b.startFEN}
	clone.history = append(clone.history, b.history...)
	clone.hashes = append(clone.hashes, b.hashes...)
	clone.checks = append(clone.checks, b.checks...)
	clone.seen = make(map[uint64]int, len(b.seen))
	for k, v := range b.seen {
		clone.seen[k] = v
	}
	if b.result != nil {
		r := *b.result
		clone.result = &r
	}
	return clone
}
