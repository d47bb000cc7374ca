// Package xiangqi implements the rules of Xiangqi (Chinese chess): board
// geometry, legal-move generation, check detection, a FEN-like position codec
// and zobrist hashing. Positions are immutable once created; Apply returns a
// fresh copy. The package also exposes a stateless rules oracle (Engine) that
// operates purely on FEN strings.
package xiangqi

import (
	"strconv"

	"github.com/pkg/errors"
)

// Board geometry. Cells are numbered rank-major from Red's back rank:
// cell = (rank-1)*Cols + file, so a1 = 0 and i10 = 89. Red moves toward
// higher ranks, Black toward lower ones.
const (
	Cols     = 9
	Rows     = 10
	NumCells = Rows * Cols
)

// StartFEN is the standard opening position, Red (uppercase, "w") to move.
const StartFEN = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w - - 0 1"

// Variant is the identifier the oracle surface recognizes.
const Variant = "xiangqi"

// Side identifies one of the two players. Red moves first.
type Side int8

const (
	Red Side = iota
	Black
)

func (s Side) Opponent() Side {
	if s == Red {
		return Black
	}
	return Red
}

func (s Side) String() string {
	if s == Red {
		return "red"
	}
	return "black"
}

// PieceType enumerates the seven Xiangqi piece kinds.
type PieceType int8

const (
	NoPieceType PieceType = iota
	Soldier
	Horse
	Elephant
	Advisor
	Chariot
	Cannon
	General
)

var pieceTypeLetters = [...]byte{0, 'p', 'n', 'b', 'a', 'r', 'c', 'k'}

var letterPieceTypes = map[byte]PieceType{
	'p': Soldier, 'n': Horse, 'b': Elephant, 'a': Advisor,
	'r': Chariot, 'c': Cannon, 'k': General,
}

// Piece is a piece type tagged with a side. Red pieces are positive, Black
// pieces negative, Empty is zero.
type Piece int8

const Empty Piece = 0

func MakePiece(t PieceType, s Side) Piece {
	if s == Black {
		return Piece(-t)
	}
	return Piece(t)
}

func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

func (p Piece) Side() Side {
	if p < 0 {
		return Black
	}
	return Red
}

// Letter returns the FEN letter: uppercase for Red, lowercase for Black.
func (p Piece) Letter() byte {
	l := pieceTypeLetters[p.Type()]
	if p > 0 {
		return l - 'a' + 'A'
	}
	return l
}

func CellOf(rank0, file int) int { return rank0*Cols + file }
func RankOf(cell int) int        { return cell / Cols }
func FileOf(cell int) int        { return cell % Cols }

func onBoard(rank0, file int) bool {
	return rank0 >= 0 && rank0 < Rows && file >= 0 && file < Cols
}

// inPalace reports whether the cell lies in the 3x3 palace of the given side.
func inPalace(cell int, s Side) bool {
	f := FileOf(cell)
	if f < 3 || f > 5 {
		return false
	}
	r := RankOf(cell)
	if s == Red {
		return r <= 2
	}
	return r >= 7
}

// ownHalf reports whether the cell is on the given side's half of the river.
func ownHalf(cell int, s Side) bool {
	if s == Red {
		return RankOf(cell) <= 4
	}
	return RankOf(cell) >= 5
}

// forward is the rank delta of a soldier advance for the given side.
func forward(s Side) int {
	if s == Red {
		return 1
	}
	return -1
}

// Move is a from-cell/to-cell pair. The zero value is not a valid move.
type Move struct {
	From int
	To   int
}

// String renders the move in the coordinate notation used by the oracle
// surface: file letter plus 1-based rank for each endpoint, e.g. "h3e3" or
// "h10g8" (rank 10 takes two digits).
func (m Move) String() string {
	return cellName(m.From) + cellName(m.To)
}

func cellName(cell int) string {
	return string(rune('a'+FileOf(cell))) + strconv.Itoa(RankOf(cell)+1)
}

// MoveFromString parses coordinate notation back into a Move. It is the
// inverse of Move.String for every cell on the board.
func MoveFromString(s string) (Move, error) {
	from, rest, err := parseCell(s)
	if err != nil {
		return Move{}, errors.Wrapf(err, "move %q", s)
	}
	to, rest, err := parseCell(rest)
	if err != nil {
		return Move{}, errors.Wrapf(err, "move %q", s)
	}
	if rest != "" {
		return Move{}, errors.Errorf("move %q: trailing characters", s)
	}
	return Move{From: from, To: to}, nil
}

func parseCell(s string) (cell int, rest string, err error) {
	if len(s) < 2 {
		return 0, "", errors.New("cell too short")
	}
	file := int(s[0] - 'a')
	if file < 0 || file >= Cols {
		return 0, "", errors.Errorf("bad file %q", s[0])
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return 0, "", errors.New("missing rank")
	}
	rank, err := strconv.Atoi(s[1:i])
	if err != nil || rank < 1 || rank > Rows {
		return 0, "", errors.Errorf("bad rank %q", s[1:i])
	}
	return CellOf(rank-1, file), s[i:], nil
}
