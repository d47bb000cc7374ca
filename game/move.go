package game

import (
	"strconv"

	"github.com/pkg/errors"
)

// Side identifies a player independently of game variant. SideFirst is the
// side that moves first (White in chess, Red in xiangqi).
type Side int8

const (
	SideNone Side = iota - 1
	SideFirst
	SideSecond
)

func (s Side) Other() Side {
	switch s {
	case SideFirst:
		return SideSecond
	case SideSecond:
		return SideFirst
	}
	return SideNone
}

// NoPromotion marks a move without a promotion tag.
const NoPromotion byte = 0

// Move identifies a single ply: source cell, destination cell, an optional
// promotion letter and an optional backend token. Cells are numbered
// rank-major from the first player's back rank: cell = (rank-1)*cols + file.
// Token carries the oracle's notation string verbatim for backends that
// identify moves textually; it takes precedence in comparisons.
//
// Move values are immutable: they are created by parsing or by legal-move
// enumeration and never modified afterwards.
type Move struct {
	From      int
	To        int
	Promotion byte
	Token     string
}

// Eq compares two moves. When both carry a backend token the tokens decide;
// otherwise all fields are compared structurally.
func (m Move) Eq(other Move) bool {
	if m.Token != "" && other.Token != "" {
		return m.Token == other.Token
	}
	return m == other
}

// UCI renders the move in UCI-like notation for a board cols files wide.
// Moves holding a backend token return it verbatim, which keeps
// ParseMove(m.UCI(cols), cols) == m for oracle-issued moves too.
func (m Move) UCI(cols int) string {
	if m.Token != "" {
		return m.Token
	}
	s := cellString(m.From, cols) + cellString(m.To, cols)
	if m.Promotion != NoPromotion {
		s += string(rune(m.Promotion))
	}
	return s
}

func cellString(cell, cols int) string {
	return string(rune('a'+cell%cols)) + strconv.Itoa(cell/cols+1)
}

// ParseMove parses UCI-like notation: a file letter and a 1-based rank per
// endpoint, then an optional promotion letter. Ranks may take two digits
// (xiangqi rank 10). The coordinate convention is cell = (rank-1)*cols + col.
func ParseMove(text string, cols int) (Move, error) {
	from, rest, err := parseCell(text, cols)
	if err != nil {
		return Move{}, errors.Wrapf(ErrParse, "%q: %v", text, err)
	}
	to, rest, err := parseCell(rest, cols)
	if err != nil {
		return Move{}, errors.Wrapf(ErrParse, "%q: %v", text, err)
	}
	m := Move{From: from, To: to}
	if rest != "" {
		if len(rest) > 1 || !isPromotionLetter(rest[0]) {
			return Move{}, errors.Wrapf(ErrParse, "%q: bad promotion %q", text, rest)
		}
		m.Promotion = rest[0]
	}
	return m, nil
}

func parseCell(s string, cols int) (cell int, rest string, err error) {
	if len(s) < 2 {
		return 0, "", errors.New("cell too short")
	}
	col := int(s[0] - 'a')
	if col < 0 || col >= cols {
		return 0, "", errors.Errorf("file %q out of range", s[0])
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return 0, "", errors.New("missing rank")
	}
	rank, convErr := strconv.Atoi(s[1:i])
	if convErr != nil {
		return 0, "", convErr
	}
	if rank < 1 {
		return 0, "", errors.Errorf("rank %d out of range", rank)
	}
	return (rank-1)*cols + col, s[i:], nil
}

func isPromotionLetter(b byte) bool {
	switch b {
	case 'q', 'r', 'b', 'n':
		return true
	}
	return false
}

// ParseChessMove parses chess notation (8 files, promotions allowed) and
// rejects ranks beyond the 8x8 board.
func ParseChessMove(text string) (Move, error) {
	m, err := ParseMove(text, 8)
	if err != nil {
		return Move{}, err
	}
	if m.From >= 64 || m.To >= 64 {
		return Move{}, errors.Wrapf(ErrParse, "%q: rank out of range", text)
	}
	return m, nil
}

// ParseXiangqiMove parses xiangqi notation (9 files, no promotions) and keeps
// the input as the move's backend token.
func ParseXiangqiMove(text string) (Move, error) {
	m, err := ParseMove(text, 9)
	if err != nil {
		return Move{}, err
	}
	if m.Promotion != NoPromotion {
		return Move{}, errors.Wrapf(ErrParse, "%q: xiangqi has no promotions", text)
	}
	if m.From >= 90 || m.To >= 90 {
		return Move{}, errors.Wrapf(ErrParse, "%q: rank out of range", text)
	}
	m.Token = text
	return m, nil
}
