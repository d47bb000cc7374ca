package xiangqi

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The FEN-like notation mirrors the one the pyffish-style oracles exchange:
// ten piece-placement ranks from rank 10 down to rank 1 separated by "/",
// then side to move ("w" for Red, "b" for Black), two placeholder fields and
// the no-capture and full-move counters.

// EncodeFEN renders the position. DecodeFEN(EncodeFEN(p)) reproduces p
// exactly, including counters and hash.
func EncodeFEN(p *Position) string {
	var sb strings.Builder
	for r := Rows - 1; r >= 0; r-- {
		if r < Rows-1 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < Cols; f++ {
			pc := p.grid[CellOf(r, f)]
			if pc == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	if p.side == Red {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteString(" - - ")
	sb.WriteString(strconv.Itoa(p.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullmove))
	return sb.String()
}

// DecodeFEN parses the notation. The placement and side fields are required;
// the trailing fields are optional and default to "0 1".
func DecodeFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, errors.Errorf("fen %q: want at least placement and side", fen)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != Rows {
		return nil, errors.Errorf("fen %q: want %d ranks, got %d", fen, Rows, len(ranks))
	}

	p := &Position{fullmove: 1}
	for i, rank := range ranks {
		r := Rows - 1 - i
		f := 0
		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			if ch >= '1' && ch <= '9' {
				f += int(ch - '0')
				continue
			}
			if f >= Cols {
				return nil, errors.Errorf("fen %q: rank %d overflows", fen, r+1)
			}
			t, ok := letterPieceTypes[ch|0x20]
			if !ok {
				return nil, errors.Errorf("fen %q: bad piece letter %q", fen, ch)
			}
			side := Black
			if ch >= 'A' && ch <= 'Z' {
				side = Red
			}
			p.grid[CellOf(r, f)] = MakePiece(t, side)
			f++
		}
		if f != Cols {
			return nil, errors.Errorf("fen %q: rank %d has %d files", fen, r+1, f)
		}
	}

	switch fields[1] {
	case "w":
		p.side = Red
	case "b":
		p.side = Black
	default:
		return nil, errors.Errorf("fen %q: bad side %q", fen, fields[1])
	}

	if len(fields) >= 5 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, errors.Errorf("fen %q: bad halfmove clock %q", fen, fields[4])
		}
		p.halfmove = n
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, errors.Errorf("fen %q: bad move number %q", fen, fields[5])
		}
		p.fullmove = n
	}

	p.hash = p.computeHash()
	return p, nil
}
