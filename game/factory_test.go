package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	cases := []struct {
		gameType string
		rows     int
		cols     int
		planes   int
		moves    int
	}{
		{GameChess, 8, 8, 12, 20},
		{GameXiangqi, 10, 9, 14, 44},
		{GameXiangqiNative, 10, 9, 14, 44},
		{GameXiangqiSimple, 10, 9, 14, 44},
	}
	for _, tc := range cases {
		b, err := NewBoard(tc.gameType)
		require.NoError(t, err, tc.gameType)
		assert.Equal(t, tc.rows, b.Rows(), tc.gameType)
		assert.Equal(t, tc.cols, b.Cols(), tc.gameType)
		assert.Equal(t, tc.planes, b.Planes(), tc.gameType)
		assert.Len(t, b.LegalMoves(), tc.moves, tc.gameType)
		assert.Equal(t, SideFirst, b.Turn(), tc.gameType)
	}
}

func TestNewBoardUnknownType(t *testing.T) {
	for _, gameType := range []string{"", "go", "shogi", "CHESS"} {
		_, err := NewBoard(gameType)
		assert.True(t, errors.Is(err, ErrUnsupportedGame), gameType)
	}
}

func TestCloneCapability(t *testing.T) {
	// the simplified board is the one variant that deliberately cannot fork
	for _, gameType := range []string{GameChess, GameXiangqi, GameXiangqiNative} {
		b, err := NewBoard(gameType)
		require.NoError(t, err)
		_, ok := b.(Cloner)
		assert.True(t, ok, gameType)
	}

	b, err := NewBoard(GameXiangqiSimple)
	require.NoError(t, err)
	_, ok := b.(Cloner)
	assert.False(t, ok)
}
