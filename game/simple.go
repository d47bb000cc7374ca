package game

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// SimpleXiangqiBoard is the reduced oracle-backed variant: it only ever calls
// the minimal Oracle surface, even when the oracle offers the
// history-extended one, and deliberately has no Clone and no FEN constructor.
// Everything else follows the Board contract.
type SimpleXiangqiBoard struct {
	oracle   Oracle
	startFEN string
	fen      string
	history  []Move
	result   *Result
}

func NewSimpleXiangqiBoard(o Oracle) (*SimpleXiangqiBoard, error) {
	start, err := o.StartPosition(XiangqiVariant)
	if err != nil {
		return nil, errors.Wrapf(ErrOracle, "start position: %v", err)
	}
	return &SimpleXiangqiBoard{oracle: o, startFEN: start, fen: start}, nil
}

func (b *SimpleXiangqiBoard) Reset() {
	b.fen = b.startFEN
	b.history = nil
	b.result = nil
}

func (b *SimpleXiangqiBoard) Turn() Side { return fenTurn(b.fen) }

func (b *SimpleXiangqiBoard) SideName(s Side) string {
	switch s {
	case SideFirst:
		return "red"
	case SideSecond:
		return "black"
	}
	return "none"
}

func (b *SimpleXiangqiBoard) LegalMoves() []Move {
	tokens, err := b.oracle.LegalMoves(XiangqiVariant, b.fen)
	if err != nil {
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

func (b *SimpleXiangqiBoard) LegalMovesFor(s Side) []Move {
	if s != b.Turn() {
		return nil
	}
	return b.LegalMoves()
}

func (b *SimpleXiangqiBoard) ApplyMove(m Move) (float32, bool, error) {
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

	next, err := b.oracle.NextPosition(XiangqiVariant, b.fen, token)
	if err != nil {
		return 0, false, errors.Wrapf(ErrOracle, "applying %s: %v", token, err)
	}
	mover := b.Turn()
	b.fen = next
	b.history = append(b.history, m)

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

func (b *SimpleXiangqiBoard) GameOver() bool {
	return b.result != nil || len(b.LegalMoves()) == 0
}

func (b *SimpleXiangqiBoard) Observation() *tensor.Dense {
	return XiangqiObservation(b.fen)
}

func (b *SimpleXiangqiBoard) Hash() string { return b.fen }

func (b *SimpleXiangqiBoard) Result() *Result {
	if b.result == nil && len(b.LegalMoves()) == 0 {
		b.result = &Result{
			Winner:      b.Turn().Other(),
			Termination: TerminationNoLegalMoves,
			Plies:       len(b.history),
		}
	}
	return b.result
}

func (b *SimpleXiangqiBoard) MoveHistory() []Move { return b.history }

func (b *SimpleXiangqiBoard) Rows() int   { return XiangqiRows }
func (b *SimpleXiangqiBoard) Cols() int   { return XiangqiCols }
func (b *SimpleXiangqiBoard) Planes() int { return XiangqiPlanes }

func (b *SimpleXiangqiBoard) String() string { return xiangqiDiagram(b.fen) }
