package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoveChess(t *testing.T) {
	m, err := ParseChessMove("e2e4")
	require.NoError(t, err)
	assert.Equal(t, 12, m.From) // e2 = rank 2, file e
	assert.Equal(t, 28, m.To)
	assert.Equal(t, NoPromotion, m.Promotion)
	assert.Equal(t, "e2e4", m.UCI(8))

	m, err = ParseChessMove("a7a8q")
	require.NoError(t, err)
	assert.Equal(t, byte('q'), m.Promotion)
	assert.Equal(t, "a7a8q", m.UCI(8))
}

func TestParseMoveXiangqi(t *testing.T) {
	m, err := ParseXiangqiMove("h10g8")
	require.NoError(t, err)
	assert.Equal(t, "h10g8", m.Token)
	assert.Equal(t, 9*9+7, m.From) // h10
	assert.Equal(t, 7*9+6, m.To)   // g8
	assert.Equal(t, "h10g8", m.UCI(9))
}

func TestParseMoveErrors(t *testing.T) {
	cases := []string{"", "e2", "e2e", "z2e4", "e0e4", "e2e4x", "e2e4qq"}
	for _, text := range cases {
		_, err := ParseChessMove(text)
		assert.True(t, errors.Is(err, ErrParse), "input %q: got %v", text, err)
	}

	_, err := ParseChessMove("e2e9") // rank exists for xiangqi, not chess
	assert.True(t, errors.Is(err, ErrParse))

	_, err = ParseXiangqiMove("a1a2q") // no promotions in xiangqi
	assert.True(t, errors.Is(err, ErrParse))
}

func TestMoveRoundTrip(t *testing.T) {
	for _, text := range []string{"e2e4", "g1f3", "a7a8n", "h7h8q"} {
		m, err := ParseChessMove(text)
		require.NoError(t, err)
		back, err := ParseChessMove(m.UCI(8))
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
	for _, text := range []string{"b3e3", "h10g8", "a1a10", "e4e5"} {
		m, err := ParseXiangqiMove(text)
		require.NoError(t, err)
		back, err := ParseXiangqiMove(m.UCI(9))
		require.NoError(t, err)
		assert.Equal(t, m, back)
	}
}

func TestMoveEq(t *testing.T) {
	a := Move{From: 12, To: 28}
	b := Move{From: 12, To: 28}
	assert.True(t, a.Eq(b))

	// tokens decide when both sides carry one, whatever the cells say
	c := Move{From: 0, To: 0, Token: "b3e3"}
	d := Move{From: 19, To: 22, Token: "b3e3"}
	assert.True(t, c.Eq(d))

	e := Move{From: 19, To: 22, Token: "b3d3"}
	assert.False(t, d.Eq(e))

	// one-sided token falls back to structural comparison
	f := Move{From: 19, To: 22}
	assert.False(t, d.Eq(f))
	assert.False(t, f.Eq(d))
}

func TestSideOther(t *testing.T) {
	assert.Equal(t, SideSecond, SideFirst.Other())
	assert.Equal(t, SideFirst, SideSecond.Other())
	assert.Equal(t, SideNone, SideNone.Other())
}
