package xiangqi

import (
	"fmt"
	"strings"
)

// Position is a full game position: piece placement, side to move, zobrist
// key, no-capture clock and move number. Values are treated as immutable;
// Apply returns a modified copy and never touches the receiver.
type Position struct {
	grid     [NumCells]Piece
	side     Side
	hash     uint64
	halfmove int // plies since the last capture
	fullmove int
}

// Start returns the standard opening position.
func Start() *Position {
	p, err := DecodeFEN(StartFEN)
	if err != nil {
		panic(err) // the start constant cannot be malformed
	}
	return p
}

func (p *Position) PieceAt(cell int) Piece { return p.grid[cell] }
func (p *Position) SideToMove() Side       { return p.side }
func (p *Position) HalfMoveClock() int     { return p.halfmove }
func (p *Position) FullMove() int          { return p.fullmove }

// Hash is the zobrist key of placement plus side to move. It is maintained
// incrementally by Apply and stable across processes (fixed-seed tables).
func (p *Position) Hash() uint64 { return p.hash }

// Apply plays mv on a copy of p, flips the side to move and returns the copy
// together with the captured piece (Empty for a quiet move). Legality is the
// caller's concern; see LegalMoves.
func (p *Position) Apply(mv Move) (*Position, Piece) {
	q := *p
	moving := q.grid[mv.From]
	captured := q.grid[mv.To]
	q.grid[mv.From] = Empty
	q.grid[mv.To] = moving

	q.hash ^= pieceKey(moving, mv.From) ^ pieceKey(moving, mv.To)
	if captured != Empty {
		q.hash ^= pieceKey(captured, mv.To)
		q.halfmove = 0
	} else {
		q.halfmove++
	}
	q.hash ^= sideKey()

	if q.side == Black {
		q.fullmove++
	}
	q.side = q.side.Opponent()
	return &q, captured
}

// generalCell returns the cell of the given side's general, or -1 if it has
// been captured (only reachable in hand-built positions).
func (p *Position) generalCell(s Side) int {
	king := MakePiece(General, s)
	if s == Red {
		for cell := 0; cell < NumCells; cell++ {
			if p.grid[cell] == king {
				return cell
			}
		}
		return -1
	}
	for cell := NumCells - 1; cell >= 0; cell-- {
		if p.grid[cell] == king {
			return cell
		}
	}
	return -1
}

// InCheck reports whether the given side's general is attacked. Two generals
// facing each other on an open file count as check for both sides, which is
// what makes the flying-general move illegal through the self-check filter.
func (p *Position) InCheck(s Side) bool {
	kingCell := p.generalCell(s)
	if kingCell < 0 {
		return false
	}
	kr, kf := RankOf(kingCell), FileOf(kingCell)
	op := s.Opponent()

	// Soldier: one cell ahead (from s's point of view) or directly beside.
	opSoldier := MakePiece(Soldier, op)
	if r := kr + forward(s); r >= 0 && r < Rows && p.grid[CellOf(r, kf)] == opSoldier {
		return true
	}
	for _, df := range [2]int{-1, 1} {
		if f := kf + df; f >= 0 && f < Cols && p.grid[CellOf(kr, f)] == opSoldier {
			return true
		}
	}

	// Horse: reverse jump with the leg checked at the horse's elbow.
	opHorse := MakePiece(Horse, op)
	for _, d := range horseSteps {
		r, f := kr+d[0], kf+d[1]
		if !onBoard(r, f) || p.grid[CellOf(r, f)] != opHorse {
			continue
		}
		leg := horseLeg(r, f, -d[0], -d[1])
		if p.grid[leg] == Empty {
			return true
		}
	}

	// Rays: the first piece met checks as chariot or general (the facing
	// rule), the second as cannon.
	opChariot := MakePiece(Chariot, op)
	opCannon := MakePiece(Cannon, op)
	opGeneral := MakePiece(General, op)
	for _, d := range lineSteps {
		r, f := kr+d[0], kf+d[1]
		for onBoard(r, f) && p.grid[CellOf(r, f)] == Empty {
			r, f = r+d[0], f+d[1]
		}
		if !onBoard(r, f) {
			continue
		}
		first := p.grid[CellOf(r, f)]
		if first == opChariot || first == opGeneral {
			return true
		}
		r, f = r+d[0], f+d[1]
		for onBoard(r, f) && p.grid[CellOf(r, f)] == Empty {
			r, f = r+d[0], f+d[1]
		}
		if onBoard(r, f) && p.grid[CellOf(r, f)] == opCannon {
			return true
		}
	}
	return false
}

// String draws the board from Black's back rank down to Red's, one rank per
// line, dots for empty cells.
func (p *Position) String() string {
	var sb strings.Builder
	for r := Rows - 1; r >= 0; r-- {
		fmt.Fprintf(&sb, "%2d ", r+1)
		for f := 0; f < Cols; f++ {
			pc := p.grid[CellOf(r, f)]
			if pc == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(pc.Letter())
			}
			if f < Cols-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   a b c d e f g h i\n")
	return sb.String()
}
