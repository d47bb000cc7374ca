package xiangqi

import "sync"

// Zobrist tables are filled from a fixed seed with a splitmix64 stream, so
// hashes are identical across processes and runs.

const zobristTypes = int(General) + 1

var (
	zobristOnce   sync.Once
	zobristPieces [2][zobristTypes][NumCells]uint64
	zobristSide   uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}
		for side := 0; side < 2; side++ {
			for t := 1; t < zobristTypes; t++ {
				for cell := 0; cell < NumCells; cell++ {
					zobristPieces[side][t][cell] = next()
				}
			}
		}
		zobristSide = next()
	})
}

func pieceKey(pc Piece, cell int) uint64 {
	if pc == Empty {
		return 0
	}
	initZobrist()
	sideIdx := 0
	if pc.Side() == Black {
		sideIdx = 1
	}
	return zobristPieces[sideIdx][pc.Type()][cell]
}

func sideKey() uint64 {
	initZobrist()
	return zobristSide
}

// computeHash recalculates the key from scratch. Apply maintains it
// incrementally; the two must always agree.
func (p *Position) computeHash() uint64 {
	var h uint64
	for cell := 0; cell < NumCells; cell++ {
		if pc := p.grid[cell]; pc != Empty {
			h ^= pieceKey(pc, cell)
		}
	}
	if p.side == Black {
		h ^= sideKey()
	}
	return h
}
