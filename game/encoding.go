package game

import (
	"strconv"
	"strings"

	"gorgonia.org/tensor"
)

// Observation tensors are float32 planes holding only 0 and 1: one plane per
// (piece kind, colour) pair, first-player planes before second-player planes.
// Row 0 is always the first FEN rank — rank 8 for chess, rank 10 for xiangqi.
// Training loops depend on that orientation never changing.

// xiangqiPlaneIndex maps a xiangqi FEN letter (lowercased) to its kind plane.
// Order: soldier, horse, elephant, advisor, chariot, cannon, general. Red
// occupies planes 0-6, Black 7-13.
var xiangqiPlaneIndex = map[byte]int{
	'p': 0, 'n': 1, 'b': 2, 'a': 3, 'r': 4, 'c': 5, 'k': 6,
}

// chessPlaneIndex maps a chess FEN letter (lowercased) to its kind plane.
// Order: pawn, knight, bishop, rook, queen, king. White occupies planes 0-5,
// Black 6-11.
var chessPlaneIndex = map[byte]int{
	'p': 0, 'n': 1, 'b': 2, 'r': 3, 'q': 4, 'k': 5,
}

// planesFromFEN fills a plane tensor from the placement field of a FEN-like
// string. The first FEN rank maps to row 0.
func planesFromFEN(fen string, index map[byte]int, rows, cols, kinds int) *tensor.Dense {
	data := make([]float32, 2*kinds*rows*cols)
	placement := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		placement = fen[:i]
	}
	row := 0
	col := 0
	for i := 0; i < len(placement) && row < rows; i++ {
		ch := placement[i]
		switch {
		case ch == '/':
			row++
			col = 0
		case ch >= '0' && ch <= '9':
			col += int(ch - '0')
		default:
			plane, ok := index[ch|0x20]
			if !ok {
				col++
				continue
			}
			if ch >= 'a' && ch <= 'z' {
				plane += kinds
			}
			if col < cols {
				data[(plane*rows+row)*cols+col] = 1
			}
			col++
		}
	}
	return tensor.New(
		tensor.WithShape(2*kinds, rows, cols),
		tensor.WithBacking(data),
	)
}

// XiangqiObservation encodes a xiangqi FEN as a (14, 10, 9) tensor. Row 0 is
// rank 10, Black's back rank.
func XiangqiObservation(fen string) *tensor.Dense {
	return planesFromFEN(fen, xiangqiPlaneIndex, XiangqiRows, XiangqiCols, 7)
}

// ChessObservation encodes a chess FEN as a (12, 8, 8) tensor. Row 0 is
// rank 8.
func ChessObservation(fen string) *tensor.Dense {
	return planesFromFEN(fen, chessPlaneIndex, ChessRows, ChessCols, 6)
}

// xiangqiDiagram draws a FEN placement as text, Black's back rank on top,
// dots for empty intersections. Used by the oracle-backed boards, which hold
// no grid of their own.
func xiangqiDiagram(fen string) string {
	placement := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		placement = fen[:i]
	}
	var sb strings.Builder
	rank := XiangqiRows
	for _, row := range strings.Split(placement, "/") {
		if rank < 10 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(rank))
		sb.WriteByte(' ')
		col := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '1' && ch <= '9' {
				for n := 0; n < int(ch-'0'); n++ {
					writeCell(&sb, '.', &col)
				}
				continue
			}
			writeCell(&sb, ch, &col)
		}
		sb.WriteByte('\n')
		rank--
	}
	sb.WriteString("   a b c d e f g h i\n")
	return sb.String()
}

func writeCell(sb *strings.Builder, ch byte, col *int) {
	if *col > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteByte(ch)
	*col++
}
