package game

import (
	"strings"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Oracle is the minimal rules-backend surface: a pure function of variant and
// position notation. Implementations never mutate caller-held strings.
type Oracle interface {
	StartPosition(variant string) (string, error)
	LegalMoves(variant, position string) ([]string, error)
	NextPosition(variant, position, move string) (string, error)
}

// HistoryOracle is the richer surface some oracle versions expose, taking a
// pending move list to apply before evaluating. Adapters try this surface
// first and fall back to Oracle when the type assertion fails.
type HistoryOracle interface {
	LegalMovesAfter(variant, position string, history []string) ([]string, error)
	NextPositionAfter(variant, position string, moves []string) (string, error)
}

// XiangqiVariant is the identifier handed to the oracle.
const XiangqiVariant = "xiangqi"

// XiangqiBoard implements Board as a thin state machine over a rules oracle:
// the position is the oracle's FEN-like string and every rules question is
// delegated. Termination is inferred solely from the side to move having no
// legal moves, which under xiangqi conventions loses.
type XiangqiBoard struct {
	oracle   Oracle
	startFEN string
	fen      string
	history  []Move
	result   *Result
}

// NewXiangqiBoard builds a board over o, starting from the oracle's opening
// position.
func NewXiangqiBoard(o Oracle) (*XiangqiBoard, error) {
	start, err := o.StartPosition(XiangqiVariant)
	if err != nil {
		return nil, errors.Wrapf(ErrOracle, "start position: %v", err)
	}
	return &XiangqiBoard{oracle: o, startFEN: start, fen: start}, nil
}

// NewXiangqiBoardFEN builds a board over o from an arbitrary position. Reset
// returns to that position, not to the oracle's opening position.
func NewXiangqiBoardFEN(o Oracle, fen string) (*XiangqiBoard, error) {
	b, err := NewXiangqiBoard(o)
	if err != nil {
		return nil, err
	}
	if _, err := b.legalMoveStrings(fen); err != nil {
		return nil, errors.Wrapf(ErrParse, "fen %q rejected by oracle: %v", fen, err)
	}
	b.startFEN = fen
	b.fen = fen
	return b, nil
}

func (b *XiangqiBoard) Reset() {
	b.fen = b.startFEN
	b.history = nil
	b.result = nil
}

// fenTurn reads the side-to-move field of a FEN-like string; "w" is the first
// player (Red).
func fenTurn(fen string) Side {
	fields := strings.Fields(fen)
	if len(fields) >= 2 && fields[1] == "b" {
		return SideSecond
	}
	return SideFirst
}

func (b *XiangqiBoard) Turn() Side { return fenTurn(b.fen) }

func (b *XiangqiBoard) SideName(s Side) string {
	switch s {
	case SideFirst:
		return "red"
	case SideSecond:
		return "black"
	}
	return "none"
}

// legalMoveStrings asks the oracle for the moves at fen, preferring the
// history-extended surface. The error is for callers that must distinguish a
// broken oracle from a finished game; LegalMoves degrades it to zero moves.
func (b *XiangqiBoard) legalMoveStrings(fen string) ([]string, error) {
	if h, ok := b.oracle.(HistoryOracle); ok {
		return h.LegalMovesAfter(XiangqiVariant, fen, nil)
	}
	return b.oracle.LegalMoves(XiangqiVariant, fen)
}

func (b *XiangqiBoard) nextPosition(fen, move string) (string, error) {
	if h, ok := b.oracle.(HistoryOracle); ok {
		return h.NextPositionAfter(XiangqiVariant, fen, []string{move})
	}
	return b.oracle.NextPosition(XiangqiVariant, fen, move)
}

func (b *XiangqiBoard) LegalMoves() []Move {
	tokens, err := b.legalMoveStrings(b.fen)
	if err != nil {
		// read path degrades to no moves, which callers read as game over
		return nil
	}
	moves := make([]Move, 0, len(tokens))
	for _, tok := range tokens {
		m, err := ParseXiangqiMove(tok)
		if err != nil {
			continue
		}
		moves = append(moves, m)
	}
	return moves
}

func (b *XiangqiBoard) LegalMovesFor(s Side) []Move {
	if s != b.Turn() {
		return nil
	}
	return b.LegalMoves()
}

func (b *XiangqiBoard) ApplyMove(m Move) (float32, bool, error) {
	if b.result != nil {
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s: game is over", m.UCI(XiangqiCols))
	}
	token := m.UCI(XiangqiCols)
	legal := false
	for _, lm := range b.LegalMoves() {
		if lm.Eq(m) {
			token = lm.Token
			legal = true
			break
		}
	}
	if !legal {
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s", token)
	}

	next, err := b.nextPosition(b.fen, token)
	if err != nil {
		// write path: never guess a fallback position
		return 0, false, errors.Wrapf(ErrOracle, "applying %s: %v", token, err)
	}
	mover := b.Turn()
	b.fen = next
	b.history = append(b.history, m)

	// zero replies means the side to move is mated or stalled; either way it
	// has lost under xiangqi conventions and the mover wins.
	if len(b.LegalMoves()) > 0 {
		return 0, false, nil
	}
	b.result = &Result{
		Winner:      mover,
		Termination: TerminationNoLegalMoves,
		Plies:       len(b.history),
	}
	return 1, true, nil
}

func (b *XiangqiBoard) GameOver() bool {
	return b.result != nil || len(b.LegalMoves()) == 0
}

func (b *XiangqiBoard) Observation() *tensor.Dense {
	return XiangqiObservation(b.fen)
}

func (b *XiangqiBoard) Hash() string { return b.fen }

func (b *XiangqiBoard) Result() *Result {
	if b.result == nil && len(b.LegalMoves()) == 0 {
		// terminal position reached without ApplyMove observing it, e.g. a
		// FEN constructor straight into a mate: the side to move has lost.
		b.result = &Result{
			Winner:      b.Turn().Other(),
			Termination: TerminationNoLegalMoves,
			Plies:       len(b.history),
		}
	}
	return b.result
}

func (b *XiangqiBoard) MoveHistory() []Move { return b.history }

func (b *XiangqiBoard) Rows() int   { return XiangqiRows }
func (b *XiangqiBoard) Cols() int   { return XiangqiCols }
func (b *XiangqiBoard) Planes() int { return XiangqiPlanes }

func (b *XiangqiBoard) String() string { return xiangqiDiagram(b.fen) }

func (b *XiangqiBoard) Clone() Board {
	clone := &XiangqiBoard{oracle: b.oracle, startFEN: b.startFEN, fen: b.fen}
	clone.history = append(clone.history, b.history...)
	if b.result != nil {
		r := *b.result
		clone.result = &r
	}
	return clone
}
