package boardgym

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/boardgym/env"
	"github.com/boardgym/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func TestConfigValidation(t *testing.T) {
	assert.True(t, DefaultConfig().IsValid())

	bad := DefaultConfig()
	bad.Episodes = 0
	assert.False(t, bad.IsValid())

	bad = DefaultConfig()
	bad.Workers = 0
	assert.False(t, bad.IsValid())

	bad = DefaultConfig()
	bad.Policy = "greedy"
	assert.False(t, bad.IsValid())

	bad = DefaultConfig()
	bad.Policy = PolicySearch
	bad.MCTS.Budget = 0
	assert.False(t, bad.IsValid())
}

func TestRunnerEpisode(t *testing.T) {
	e, err := env.Make(game.GameChess, env.WithMaxSteps(30), env.WithSeed(17))
	require.NoError(t, err)
	runner := NewRunner(e, RandomSelector{}, game.GameChess, testLogger())

	ep, err := runner.Run()
	require.NoError(t, err)
	assert.NotEmpty(t, ep.ID)
	assert.Equal(t, game.GameChess, ep.Game)
	assert.True(t, ep.Plies > 0)
	assert.Len(t, ep.Examples, ep.Plies)
	assert.True(t, ep.Truncated || ep.Result != nil)
}

func TestRunnerBackfillValues(t *testing.T) {
	e, err := env.Make(game.GameXiangqiNative, env.WithMaxSteps(500), env.WithSeed(23))
	require.NoError(t, err)
	runner := NewRunner(e, RandomSelector{}, game.GameXiangqiNative, testLogger())

	ep, err := runner.Run()
	require.NoError(t, err)

	for _, ex := range ep.Examples {
		assert.Contains(t, []float32{-1, 0, 1}, ex.Value)
		assert.Len(t, ex.Board, 14*10*9)
		assert.Len(t, ex.Policy, 8100)
		assert.True(t, validPolicies(ex.Policy))
	}
	if ep.Result == nil || ep.Result.Winner == game.SideNone {
		for _, ex := range ep.Examples {
			assert.Equal(t, float32(0), ex.Value)
		}
	} else {
		// winner and loser alternate plies, so values alternate sign
		for i := 1; i < len(ep.Examples); i++ {
			assert.Equal(t, -ep.Examples[i-1].Value, ep.Examples[i].Value)
		}
	}
}

func TestRunnerOneHotPolicies(t *testing.T) {
	e, err := env.Make(game.GameChess, env.WithMaxSteps(4), env.WithSeed(2))
	require.NoError(t, err)
	runner := NewRunner(e, RandomSelector{}, game.GameChess, testLogger())

	ep, err := runner.Run()
	require.NoError(t, err)
	for _, ex := range ep.Examples {
		var sum float32
		for _, v := range ex.Policy {
			sum += v
		}
		assert.Equal(t, float32(1), sum)
	}
}

func TestNewSelfPlayRejectsUnknownGame(t *testing.T) {
	conf := DefaultConfig()
	conf.Game = "checkers"
	_, err := NewSelfPlay(conf, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, game.ErrUnsupportedGame))
}

func TestSelfPlayRunReturnsWhenEveryWorkerFails(t *testing.T) {
	// bypass the constructor check to exercise the schedule with workers that
	// die before consuming a single job
	conf := DefaultConfig()
	conf.Game = "checkers"
	conf.Workers = 2
	sp := &SelfPlay{conf: conf, log: testLogger()}

	type outcome struct {
		episodes []*Episode
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		eps, _, err := sp.Run()
		done <- outcome{episodes: eps, err: err}
	}()

	select {
	case out := <-done:
		assert.Error(t, out.err)
		assert.Empty(t, out.episodes)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after every worker failed")
	}
}

func TestSelfPlayRun(t *testing.T) {
	conf := DefaultConfig()
	conf.Game = game.GameChess
	conf.Episodes = 4
	conf.Workers = 2
	conf.MaxSteps = 20
	conf.Seed = 99

	sp, err := NewSelfPlay(conf, testLogger())
	require.NoError(t, err)
	episodes, summary, err := sp.Run()
	require.NoError(t, err)

	assert.Len(t, episodes, 4)
	assert.Equal(t, 4, summary.Episodes)
	assert.Equal(t, 4, summary.FirstWins+summary.SecondWins+summary.Draws)
	assert.True(t, summary.MeanPlies > 0)

	ids := make(map[string]bool)
	for _, ep := range episodes {
		ids[ep.ID] = true
	}
	assert.Len(t, ids, 4)
}

func TestSelfPlayDeterministicUnderSeed(t *testing.T) {
	conf := DefaultConfig()
	conf.Episodes = 3
	conf.Workers = 1
	conf.MaxSteps = 15
	conf.Seed = 7

	run := func() []*Episode {
		sp, err := NewSelfPlay(conf, testLogger())
		require.NoError(t, err)
		episodes, _, err := sp.Run()
		require.NoError(t, err)
		return episodes
	}
	first := run()
	second := run()
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Plies, second[i].Plies)
		assert.Equal(t, first[i].Reward, second[i].Reward)
		assert.Equal(t, len(first[i].Examples), len(second[i].Examples))
	}
}

func TestDatasetSaveLoadRoundTrip(t *testing.T) {
	conf := DefaultConfig()
	conf.Episodes = 2
	conf.MaxSteps = 10
	sp, err := NewSelfPlay(conf, testLogger())
	require.NoError(t, err)
	episodes, _, err := sp.Run()
	require.NoError(t, err)

	d := sp.Dataset(episodes)
	path := filepath.Join(t.TempDir(), "dataset.gob")
	require.NoError(t, SaveDataset(d, path))

	loaded, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, d.Game, loaded.Game)
	require.Len(t, loaded.Examples, len(d.Examples))
	for i := range d.Examples {
		assert.Equal(t, d.Examples[i].Value, loaded.Examples[i].Value)
		assert.Equal(t, d.Examples[i].Board, loaded.Examples[i].Board)
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "absent.gob"))
	assert.Error(t, err)
}

func TestNewSelector(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	sel, err := NewSelector(PolicyRandom, DefaultConfig().MCTS, r)
	require.NoError(t, err)
	assert.Equal(t, PolicyRandom, sel.Name())

	sel, err = NewSelector(PolicySearch, DefaultConfig().MCTS, r)
	require.NoError(t, err)
	assert.Equal(t, PolicySearch, sel.Name())
	_, isProvider := sel.(PolicyProvider)
	assert.True(t, isProvider)

	_, err = NewSelector("greedy", DefaultConfig().MCTS, r)
	assert.Error(t, err)
}

func TestSearchSelectorPlaysMate(t *testing.T) {
	b, err := game.NewChessBoardFEN("rnbqkbnr/pppp1ppp/8/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 0 4")
	require.NoError(t, err)
	e := env.New(b, env.WithSeed(5))

	conf := DefaultConfig().MCTS
	conf.Budget = 300
	conf.RandomPlies = 0 // argmax from the first ply
	sel := NewSearchSelector(conf, rand.New(rand.NewSource(5)))
	runner := NewRunner(e, sel, game.GameChess, testLogger())

	ep, err := runner.Run()
	require.NoError(t, err)
	require.NotNil(t, ep.Result)
	assert.Equal(t, game.SideFirst, ep.Result.Winner)
	assert.Equal(t, 1, ep.Plies)

	// search policies are distributions, not one-hots
	var sum float32
	for _, v := range ep.Examples[0].Policy {
		sum += v
	}
	assert.InDelta(t, 1.0, float64(sum), 1e-3)
}
