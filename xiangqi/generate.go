package xiangqi

// Step tables, addressed as {rank delta, file delta}. Working in rank/file
// coordinates rather than flat cell deltas keeps edge wrap-around impossible.
var (
	generalSteps  = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	advisorSteps  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	elephantSteps = [4][2]int{{2, 2}, {2, -2}, {-2, 2}, {-2, -2}}
	horseSteps    = [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	lineSteps     = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// horseLeg is the blocking cell of a horse jump starting at (r, f): the
// orthogonal neighbour on the long axis of the L.
func horseLeg(r, f, dr, df int) int {
	if dr == 2 || dr == -2 {
		return CellOf(r+dr/2, f)
	}
	return CellOf(r, f+df/2)
}

// elephantEye is the midpoint of a two-step diagonal; an occupied eye blocks
// the move.
func elephantEye(r, f, dr, df int) int {
	return CellOf(r+dr/2, f+df/2)
}

// PseudoMoves enumerates the side to move's piece moves without the check
// filter. Order is deterministic: cell-ascending, table order per piece.
func (p *Position) PseudoMoves() []Move {
	s := p.side
	moves := make([]Move, 0, 48)
	for from := 0; from < NumCells; from++ {
		pc := p.grid[from]
		if pc == Empty || pc.Side() != s {
			continue
		}
		r, f := RankOf(from), FileOf(from)
		switch pc.Type() {
		case General:
			for _, d := range generalSteps {
				to := CellOf(r+d[0], f+d[1])
				if !onBoard(r+d[0], f+d[1]) || !inPalace(to, s) {
					continue
				}
				moves = p.appendIfNotOwn(moves, from, to)
			}
		case Advisor:
			for _, d := range advisorSteps {
				to := CellOf(r+d[0], f+d[1])
				if !onBoard(r+d[0], f+d[1]) || !inPalace(to, s) {
					continue
				}
				moves = p.appendIfNotOwn(moves, from, to)
			}
		case Elephant:
			for _, d := range elephantSteps {
				nr, nf := r+d[0], f+d[1]
				if !onBoard(nr, nf) {
					continue
				}
				to := CellOf(nr, nf)
				if !ownHalf(to, s) || p.grid[elephantEye(r, f, d[0], d[1])] != Empty {
					continue
				}
				moves = p.appendIfNotOwn(moves, from, to)
			}
		case Horse:
			for _, d := range horseSteps {
				nr, nf := r+d[0], f+d[1]
				if !onBoard(nr, nf) || p.grid[horseLeg(r, f, d[0], d[1])] != Empty {
					continue
				}
				moves = p.appendIfNotOwn(moves, from, CellOf(nr, nf))
			}
		case Chariot:
			for _, d := range lineSteps {
				nr, nf := r+d[0], f+d[1]
				for onBoard(nr, nf) {
					to := CellOf(nr, nf)
					target := p.grid[to]
					if target == Empty {
						moves = append(moves, Move{From: from, To: to})
					} else {
						if target.Side() != s {
							moves = append(moves, Move{From: from, To: to})
						}
						break
					}
					nr, nf = nr+d[0], nf+d[1]
				}
			}
		case Cannon:
			for _, d := range lineSteps {
				nr, nf := r+d[0], f+d[1]
				for onBoard(nr, nf) && p.grid[CellOf(nr, nf)] == Empty {
					moves = append(moves, Move{From: from, To: CellOf(nr, nf)})
					nr, nf = nr+d[0], nf+d[1]
				}
				// past the screen: the first piece beyond it is capturable
				nr, nf = nr+d[0], nf+d[1]
				for onBoard(nr, nf) {
					to := CellOf(nr, nf)
					if target := p.grid[to]; target != Empty {
						if target.Side() != s {
							moves = append(moves, Move{From: from, To: to})
						}
						break
					}
					nr, nf = nr+d[0], nf+d[1]
				}
			}
		case Soldier:
			if nr := r + forward(s); nr >= 0 && nr < Rows {
				moves = p.appendIfNotOwn(moves, from, CellOf(nr, f))
			}
			if !ownHalf(from, s) { // across the river: sideways too
				for _, df := range [2]int{-1, 1} {
					if nf := f + df; nf >= 0 && nf < Cols {
						moves = p.appendIfNotOwn(moves, from, CellOf(r, nf))
					}
				}
			}
		}
	}
	return moves
}

func (p *Position) appendIfNotOwn(moves []Move, from, to int) []Move {
	if target := p.grid[to]; target != Empty && target.Side() == p.side {
		return moves
	}
	return append(moves, Move{From: from, To: to})
}

// LegalMoves filters PseudoMoves down to moves that leave the mover's general
// unattacked and the two generals not facing on an open file.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoMoves()
	legal := make([]Move, 0, len(pseudo))
	for _, mv := range pseudo {
		next, _ := p.Apply(mv)
		if !next.InCheck(p.side) {
			legal = append(legal, mv)
		}
	}
	return legal
}

// IsLegal reports whether mv is in the current legal-move set.
func (p *Position) IsLegal(mv Move) bool {
	for _, m := range p.LegalMoves() {
		if m == mv {
			return true
		}
	}
	return false
}
