package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scholarsMateFEN is one queen move away from checkmate, White to move.
const scholarsMateFEN = "rnbqkbnr/pppp1ppp/8/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 4"

func mustMove(t *testing.T, text string) Move {
	t.Helper()
	m, err := ParseChessMove(text)
	require.NoError(t, err)
	return m
}

func TestChessStartPosition(t *testing.T) {
	b := NewChessBoard()
	assert.Len(t, b.LegalMoves(), 20)
	assert.Equal(t, SideFirst, b.Turn())
	assert.False(t, b.GameOver())
	assert.Nil(t, b.Result())
	assert.Empty(t, b.MoveHistory())
	assert.Equal(t, "white", b.SideName(b.Turn()))
}

func TestChessApplyMove(t *testing.T) {
	b := NewChessBoard()
	before := b.Hash()

	reward, done, err := b.ApplyMove(mustMove(t, "e2e4"))
	require.NoError(t, err)
	assert.Equal(t, float32(0), reward)
	assert.False(t, done)
	assert.Equal(t, SideSecond, b.Turn())
	assert.NotEqual(t, before, b.Hash())
	assert.Len(t, b.MoveHistory(), 1)
}

func TestChessIllegalMoveLeavesStateUntouched(t *testing.T) {
	b := NewChessBoard()
	before := b.Hash()

	_, _, err := b.ApplyMove(mustMove(t, "e2e5"))
	assert.True(t, errors.Is(err, ErrIllegalMove))
	assert.Equal(t, before, b.Hash())
	assert.Empty(t, b.MoveHistory())
	assert.Equal(t, SideFirst, b.Turn())
}

func TestChessScholarsMate(t *testing.T) {
	b, err := NewChessBoardFEN(scholarsMateFEN)
	require.NoError(t, err)
	require.Equal(t, SideFirst, b.Turn())

	reward, done, err := b.ApplyMove(mustMove(t, "f3f7"))
	require.NoError(t, err)
	assert.Equal(t, float32(1), reward)
	assert.True(t, done)
	assert.True(t, b.GameOver())

	res := b.Result()
	require.NotNil(t, res)
	assert.Equal(t, SideFirst, res.Winner)
	assert.Equal(t, TerminationCheckmate, res.Termination)
	assert.Equal(t, 1, res.Plies)

	// a finished game rejects further moves without mutating
	after := b.Hash()
	_, _, err = b.ApplyMove(mustMove(t, "e8f7"))
	assert.True(t, errors.Is(err, ErrIllegalMove))
	assert.Equal(t, after, b.Hash())
}

func TestChessLegalMovesFor(t *testing.T) {
	b := NewChessBoard()
	assert.Len(t, b.LegalMovesFor(SideFirst), 20)
	assert.Empty(t, b.LegalMovesFor(SideSecond))
	assert.Empty(t, b.LegalMovesFor(SideNone))
}

func TestChessMoveNotationRoundTrip(t *testing.T) {
	b := NewChessBoard()
	for _, m := range b.LegalMoves() {
		back, err := ParseChessMove(m.UCI(8))
		require.NoError(t, err)
		assert.True(t, m.Eq(back))
	}
}

func TestChessObservation(t *testing.T) {
	b := NewChessBoard()
	obs := b.Observation()
	assert.Equal(t, []int{12, 8, 8}, []int(obs.Shape()))

	data := obs.Data().([]float32)
	var sum float32
	for _, v := range data {
		assert.Contains(t, []float32{0, 1}, v)
		sum += v
	}
	assert.Equal(t, float32(32), sum)

	// row 0 is rank 8: Black's rooks sit on plane 9 at (0,0) and (0,7)
	blackRook := 9
	assert.Equal(t, float32(1), data[(blackRook*8+0)*8+0])
	assert.Equal(t, float32(1), data[(blackRook*8+0)*8+7])

	// pure function of the position: identical on repeat calls
	again := b.Observation()
	assert.Equal(t, data, again.Data().([]float32))
}

func TestChessTurnAlternation(t *testing.T) {
	b := NewChessBoard()
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 30; i++ {
		moves := b.LegalMoves()
		if len(moves) == 0 || b.GameOver() {
			break
		}
		want := SideFirst
		if len(b.MoveHistory())%2 == 1 {
			want = SideSecond
		}
		assert.Equal(t, want, b.Turn())
		_, _, err := b.ApplyMove(moves[r.Intn(len(moves))])
		require.NoError(t, err)
	}
}

func TestChessReset(t *testing.T) {
	b, err := NewChessBoardFEN(scholarsMateFEN)
	require.NoError(t, err)
	_, _, err = b.ApplyMove(mustMove(t, "f3f7"))
	require.NoError(t, err)

	// Reset returns to the constructed position, so the mate is available again.
	b.Reset()
	assert.Nil(t, b.Result())
	assert.Empty(t, b.MoveHistory())
	assert.Equal(t, SideFirst, b.Turn())
	reward, done, err := b.ApplyMove(mustMove(t, "f3f7"))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, float32(1), reward)

	std := NewChessBoard()
	std.Reset()
	assert.Len(t, std.LegalMoves(), 20)
}

func TestChessClone(t *testing.T) {
	b := NewChessBoard()
	_, _, err := b.ApplyMove(mustMove(t, "e2e4"))
	require.NoError(t, err)

	clone := b.Clone().(*ChessBoard)
	assert.Equal(t, b.Hash(), clone.Hash())

	_, _, err = clone.ApplyMove(mustMove(t, "e7e5"))
	require.NoError(t, err)
	assert.NotEqual(t, b.Hash(), clone.Hash())
	assert.Len(t, b.MoveHistory(), 1)
}
