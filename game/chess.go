package game

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ChessBoard implements Board on top of notnil/chess, which supplies move
// generation, legality and outcome detection. Cells use the library's square
// numbering: a1 = 0, rank-major from White's back rank, matching the Move
// coordinate convention for cols = 8.
type ChessBoard struct {
	game     *chess.Game
	startFEN string
	history  []Move
	result   *Result
}

// NewChessBoard starts from the standard opening position.
func NewChessBoard() *ChessBoard {
	return &ChessBoard{game: chess.NewGame()}
}

// NewChessBoardFEN starts from an arbitrary position. Reset returns to that
// position, not to the standard opening.
func NewChessBoardFEN(fen string) (*ChessBoard, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrParse, "fen %q: %v", fen, err)
	}
	return &ChessBoard{game: chess.NewGame(opt), startFEN: fen}, nil
}

func (b *ChessBoard) Reset() {
	if b.startFEN != "" {
		opt, err := chess.FEN(b.startFEN)
		if err != nil {
			panic(err) // validated at construction
		}
		b.game = chess.NewGame(opt)
	} else {
		b.game = chess.NewGame()
	}
	b.history = nil
	b.result = nil
}

func (b *ChessBoard) Turn() Side {
	if b.game.Position().Turn() == chess.White {
		return SideFirst
	}
	return SideSecond
}

func (b *ChessBoard) SideName(s Side) string {
	switch s {
	case SideFirst:
		return "white"
	case SideSecond:
		return "black"
	}
	return "none"
}

var promoLetters = map[chess.PieceType]byte{
	chess.Queen:  'q',
	chess.Rook:   'r',
	chess.Bishop: 'b',
	chess.Knight: 'n',
}

func fromChessMove(m *chess.Move) Move {
	return Move{
		From:      int(m.S1()),
		To:        int(m.S2()),
		Promotion: promoLetters[m.Promo()],
	}
}

func (b *ChessBoard) LegalMoves() []Move {
	valid := b.game.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = fromChessMove(m)
	}
	return moves
}

func (b *ChessBoard) LegalMovesFor(s Side) []Move {
	if s != b.Turn() {
		return nil
	}
	return b.LegalMoves()
}

// findValid locates m in the library's current valid-move list, nil when m is
// not legal.
func (b *ChessBoard) findValid(m Move) *chess.Move {
	for _, cm := range b.game.ValidMoves() {
		if fromChessMove(cm).Eq(m) {
			return cm
		}
	}
	return nil
}

func (b *ChessBoard) ApplyMove(m Move) (float32, bool, error) {
	if b.result != nil {
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s: game is over", m.UCI(ChessCols))
	}
	cm := b.findValid(m)
	if cm == nil {
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s", m.UCI(ChessCols))
	}
	mover := b.Turn()
	if err := b.game.Move(cm); err != nil {
		// cannot happen for a move out of ValidMoves
		return 0, false, errors.Wrapf(ErrIllegalMove, "move %s: %v", m.UCI(ChessCols), err)
	}
	b.history = append(b.history, m)

	if b.game.Outcome() == chess.NoOutcome {
		return 0, false, nil
	}
	b.result = &Result{
		Winner:      chessWinner(b.game.Outcome()),
		Termination: chessTermination(b.game.Method()),
		Plies:       len(b.history),
	}
	switch b.result.Winner {
	case SideNone:
		return 0, true, nil
	case mover:
		return 1, true, nil
	}
	return -1, true, nil
}

func chessWinner(o chess.Outcome) Side {
	switch o {
	case chess.WhiteWon:
		return SideFirst
	case chess.BlackWon:
		return SideSecond
	}
	return SideNone
}

func chessTermination(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return TerminationCheckmate
	case chess.Stalemate:
		return TerminationStalemate
	case chess.InsufficientMaterial:
		return TerminationInsufficientMaterial
	case chess.FivefoldRepetition, chess.ThreefoldRepetition:
		return TerminationFivefoldRepetition
	case chess.SeventyFiveMoveRule, chess.FiftyMoveRule:
		return TerminationSeventyFiveMoveRule
	case chess.DrawOffer:
		return TerminationDrawOffer
	case chess.Resignation:
		return TerminationResignation
	}
	return TerminationNoLegalMoves
}

func (b *ChessBoard) GameOver() bool {
	return b.result != nil || b.game.Outcome() != chess.NoOutcome
}

func (b *ChessBoard) Observation() *tensor.Dense {
	return ChessObservation(b.game.FEN())
}

func (b *ChessBoard) Hash() string {
	return b.game.FEN()
}

func (b *ChessBoard) Result() *Result {
	if b.result == nil && b.game.Outcome() != chess.NoOutcome {
		// position was terminal at construction, no move ever applied
		b.result = &Result{
			Winner:      chessWinner(b.game.Outcome()),
			Termination: chessTermination(b.game.Method()),
			Plies:       len(b.history),
		}
	}
	return b.result
}

func (b *ChessBoard) MoveHistory() []Move { return b.history }

func (b *ChessBoard) Rows() int   { return ChessRows }
func (b *ChessBoard) Cols() int   { return ChessCols }
func (b *ChessBoard) Planes() int { return ChessPlanes }

func (b *ChessBoard) String() string {
	return b.game.Position().Board().Draw()
}

// Clone forks an independent copy by replaying the position FEN into a fresh
// game.
func (b *ChessBoard) Clone() Board {
	opt, err := chess.FEN(b.game.FEN())
	if err != nil {
		panic(err) // our own FEN is always well formed
	}
	clone := &ChessBoard{game: chess.NewGame(opt), startFEN: b.startFEN}
	clone.history = append(clone.history, b.history...)
	if b.result != nil {
		r := *b.result
		clone.result = &r
	}
	return clone
}
