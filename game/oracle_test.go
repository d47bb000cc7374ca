package game

import (
	"errors"
	"testing"

	"github.com/boardgym/xiangqi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOracleBoard(t *testing.T) *XiangqiBoard {
	t.Helper()
	b, err := NewXiangqiBoard(xiangqi.NewEngine())
	require.NoError(t, err)
	return b
}

func TestXiangqiBoardStartPosition(t *testing.T) {
	b := newOracleBoard(t)
	assert.Len(t, b.LegalMoves(), 44)
	assert.Equal(t, SideFirst, b.Turn())
	assert.Equal(t, "red", b.SideName(b.Turn()))
	assert.Equal(t, xiangqi.StartFEN, b.Hash())
	assert.False(t, b.GameOver())
	assert.Nil(t, b.Result())
}

func TestXiangqiBoardApplyMove(t *testing.T) {
	b := newOracleBoard(t)
	m, err := ParseXiangqiMove("b3e3")
	require.NoError(t, err)

	reward, done, err := b.ApplyMove(m)
	require.NoError(t, err)
	assert.Equal(t, float32(0), reward)
	assert.False(t, done)
	assert.Equal(t, SideSecond, b.Turn())
	assert.Len(t, b.MoveHistory(), 1)
	assert.NotEqual(t, xiangqi.StartFEN, b.Hash())
}

func TestXiangqiBoardIllegalMove(t *testing.T) {
	b := newOracleBoard(t)
	before := b.Hash()

	m, err := ParseXiangqiMove("a1a9")
	require.NoError(t, err)
	_, _, err = b.ApplyMove(m)
	assert.True(t, errors.Is(err, ErrIllegalMove))
	assert.Equal(t, before, b.Hash())
	assert.Empty(t, b.MoveHistory())
}

func TestXiangqiBoardObservation(t *testing.T) {
	b := newOracleBoard(t)
	obs := b.Observation()
	assert.Equal(t, []int{14, 10, 9}, []int(obs.Shape()))

	data := obs.Data().([]float32)
	var sum float32
	for _, v := range data {
		sum += v
	}
	assert.Equal(t, float32(32), sum)

	// row 0 is rank 10: Black's general on plane 13 at (0, 4)
	blackGeneral := 13
	assert.Equal(t, float32(1), data[(blackGeneral*10+0)*9+4])
}

func TestXiangqiBoardMate(t *testing.T) {
	// h8d8 mates: the chariot checks down the d file and the bare e file
	// seals e10 through the facing-generals rule
	b, err := NewXiangqiBoardFEN(xiangqi.NewEngine(), "3k5/9/7R1/9/9/9/9/9/9/4K4 w - - 0 1")
	require.NoError(t, err)

	m, err := ParseXiangqiMove("h8d8")
	require.NoError(t, err)
	reward, done, err := b.ApplyMove(m)
	require.NoError(t, err)
	assert.Equal(t, float32(1), reward)
	assert.True(t, done)

	res := b.Result()
	require.NotNil(t, res)
	assert.Equal(t, SideFirst, res.Winner)
	assert.Equal(t, TerminationNoLegalMoves, res.Termination)
	assert.Equal(t, 1, res.Plies)
}

func TestXiangqiBoardReset(t *testing.T) {
	b := newOracleBoard(t)
	m, err := ParseXiangqiMove("b3e3")
	require.NoError(t, err)
	_, _, err = b.ApplyMove(m)
	require.NoError(t, err)

	b.Reset()
	assert.Equal(t, xiangqi.StartFEN, b.Hash())
	assert.Empty(t, b.MoveHistory())
	assert.Nil(t, b.Result())
}

func TestXiangqiBoardFENReset(t *testing.T) {
	fen := "3k5/9/7R1/9/9/9/9/9/9/4K4 w - - 0 1"
	b, err := NewXiangqiBoardFEN(xiangqi.NewEngine(), fen)
	require.NoError(t, err)

	m, err := ParseXiangqiMove("h8d8")
	require.NoError(t, err)
	_, _, err = b.ApplyMove(m)
	require.NoError(t, err)

	// Reset returns to the constructed position, so the mate is available again
	b.Reset()
	assert.Equal(t, fen, b.Hash())
	assert.Empty(t, b.MoveHistory())
	assert.Nil(t, b.Result())
	reward, done, err := b.ApplyMove(m)
	require.NoError(t, err)
	assert.Equal(t, float32(1), reward)
	assert.True(t, done)
}

// fakeOracle implements only the minimal surface and records what was asked.
type fakeOracle struct {
	legalCalls int
	nextCalls  int
	legalErr   error
	nextErr    error
	moves      []string
}

func (f *fakeOracle) StartPosition(variant string) (string, error) {
	return xiangqi.StartFEN, nil
}

func (f *fakeOracle) LegalMoves(variant, position string) ([]string, error) {
	f.legalCalls++
	if f.legalErr != nil {
		return nil, f.legalErr
	}
	return f.moves, nil
}

func (f *fakeOracle) NextPosition(variant, position, move string) (string, error) {
	f.nextCalls++
	if f.nextErr != nil {
		return "", f.nextErr
	}
	return position, nil
}

// historyOracle layers the extended surface over fakeOracle.
type historyOracle struct {
	fakeOracle
	afterCalls int
}

func (h *historyOracle) LegalMovesAfter(variant, position string, history []string) ([]string, error) {
	h.afterCalls++
	return h.fakeOracle.LegalMoves(variant, position)
}

func (h *historyOracle) NextPositionAfter(variant, position string, moves []string) (string, error) {
	h.afterCalls++
	return h.fakeOracle.NextPosition(variant, position, moves[len(moves)-1])
}

func TestXiangqiBoardMinimalOracleFallback(t *testing.T) {
	f := &fakeOracle{moves: []string{"a1a2"}}
	b, err := NewXiangqiBoard(f)
	require.NoError(t, err)

	moves := b.LegalMoves()
	require.Len(t, moves, 1)
	assert.Equal(t, "a1a2", moves[0].Token)
	assert.True(t, f.legalCalls > 0)
}

func TestXiangqiBoardPrefersHistorySurface(t *testing.T) {
	h := &historyOracle{fakeOracle: fakeOracle{moves: []string{"a1a2"}}}
	b, err := NewXiangqiBoard(h)
	require.NoError(t, err)

	b.LegalMoves()
	assert.True(t, h.afterCalls > 0)
}

func TestXiangqiBoardReadErrorDegradesToGameOver(t *testing.T) {
	f := &fakeOracle{legalErr: errors.New("backend down")}
	b, err := NewXiangqiBoard(f)
	require.NoError(t, err)

	assert.Empty(t, b.LegalMoves())
	assert.True(t, b.GameOver())
}

func TestXiangqiBoardWriteErrorPropagates(t *testing.T) {
	f := &fakeOracle{moves: []string{"a1a2"}, nextErr: errors.New("backend down")}
	b, err := NewXiangqiBoard(f)
	require.NoError(t, err)
	before := b.Hash()

	m, err := ParseXiangqiMove("a1a2")
	require.NoError(t, err)
	_, _, err = b.ApplyMove(m)
	assert.True(t, errors.Is(err, ErrOracle))
	assert.Equal(t, before, b.Hash())
	assert.Empty(t, b.MoveHistory())
}

func TestSimpleXiangqiBoard(t *testing.T) {
	b, err := NewSimpleXiangqiBoard(xiangqi.NewEngine())
	require.NoError(t, err)
	assert.Len(t, b.LegalMoves(), 44)
	assert.Equal(t, SideFirst, b.Turn())

	m, err := ParseXiangqiMove("e4e5")
	require.NoError(t, err)
	reward, done, err := b.ApplyMove(m)
	require.NoError(t, err)
	assert.Equal(t, float32(0), reward)
	assert.False(t, done)
	assert.Len(t, b.MoveHistory(), 1)

	obs := b.Observation()
	assert.Equal(t, []int{14, 10, 9}, []int(obs.Shape()))
}

func TestSimpleXiangqiBoardNeverUsesHistorySurface(t *testing.T) {
	h := &historyOracle{fakeOracle: fakeOracle{moves: []string{"a1a2"}}}
	b, err := NewSimpleXiangqiBoard(h)
	require.NoError(t, err)

	b.LegalMoves()
	m, err := ParseXiangqiMove("a1a2")
	require.NoError(t, err)
	_, _, err = b.ApplyMove(m)
	require.NoError(t, err)

	assert.Zero(t, h.afterCalls)
	assert.True(t, h.legalCalls > 0)
	assert.True(t, h.nextCalls > 0)
}
