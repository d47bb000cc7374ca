package boardgym

import (
	"encoding/gob"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/boardgym/env"
	"github.com/boardgym/game"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a self-play run.
type Summary struct {
	Episodes    int     `json:"episodes"`
	FirstWins   int     `json:"first_wins"`
	SecondWins  int     `json:"second_wins"`
	Draws       int     `json:"draws"`
	MeanPlies   float64 `json:"mean_plies"`
	StdDevPlies float64 `json:"stddev_plies"`
}

// SelfPlay plays Config.Episodes games across Config.Workers goroutines,
// one Environment (and Runner) per worker, and collects the results.
type SelfPlay struct {
	conf Config
	log  *zap.SugaredLogger
}

func NewSelfPlay(conf Config, log *zap.SugaredLogger) (*SelfPlay, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid self-play config %+v", conf)
	}
	// surface an unsupported game type here, not inside a worker
	if _, err := game.NewBoard(conf.Game); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SelfPlay{conf: conf, log: log}, nil
}

// Run executes the whole self-play schedule. Episode errors abort that
// worker's episode, are aggregated, and do not stop the other workers.
func (s *SelfPlay) Run() ([]*Episode, *Summary, error) {
	// buffered and filled up front so Run cannot block on a send when every
	// worker bails out before ranging over jobs
	jobs := make(chan int, s.conf.Episodes)
	for i := 0; i < s.conf.Episodes; i++ {
		jobs <- i
	}
	close(jobs)

	episodes := make(chan *Episode, s.conf.Episodes)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs error

	for w := 0; w < s.conf.Workers; w++ {
		wg.Add(1)
		// derived seed: distinct stream per worker, reproducible per run
		seed := s.conf.Seed + int64(w)*7919
		go func(seed int64) {
			defer wg.Done()
			if err := s.worker(seed, jobs, episodes); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
		}(seed)
	}
	wg.Wait()
	close(episodes)

	var out []*Episode
	for ep := range episodes {
		out = append(out, ep)
	}
	return out, s.summarize(out), errs
}

// worker owns one Environment and Runner for its whole lifetime, honoring
// the one-mutator-per-instance discipline.
func (s *SelfPlay) worker(seed int64, jobs <-chan int, episodes chan<- *Episode) error {
	e, err := env.Make(s.conf.Game,
		env.WithMaxSteps(s.conf.MaxSteps),
		env.WithSeed(seed),
	)
	if err != nil {
		return err
	}
	defer e.Close()

	sel, err := NewSelector(s.conf.Policy, s.conf.MCTS, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	runner := NewRunner(e, sel, s.conf.Game, s.log)

	var errs error
	for i := range jobs {
		ep, err := runner.Run()
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "episode %d", i))
			continue
		}
		s.log.Infow("episode complete",
			"episode", ep.ID, "number", i, "plies", ep.Plies, "reward", ep.Reward)
		episodes <- ep
	}
	return errs
}

func (s *SelfPlay) summarize(episodes []*Episode) *Summary {
	sum := &Summary{Episodes: len(episodes)}
	plies := make([]float64, 0, len(episodes))
	for _, ep := range episodes {
		plies = append(plies, float64(ep.Plies))
		if ep.Result == nil {
			sum.Draws++
			continue
		}
		switch ep.Result.Winner {
		case game.SideFirst:
			sum.FirstWins++
		case game.SideSecond:
			sum.SecondWins++
		default:
			sum.Draws++
		}
	}
	if len(plies) > 0 {
		sum.MeanPlies = stat.Mean(plies, nil)
		sum.StdDevPlies = stat.StdDev(plies, nil)
	}
	return sum
}

// Dataset assembles every episode's examples for persistence.
func (s *SelfPlay) Dataset(episodes []*Episode) *Dataset {
	d := &Dataset{Game: s.conf.Game, CreatedAt: time.Now()}
	for _, ep := range episodes {
		d.Examples = append(d.Examples, ep.Examples...)
	}
	return d
}

// SaveDataset writes d as a gob file.
func SaveDataset(d *Dataset, filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	return errors.WithStack(enc.Encode(d))
}

// LoadDataset reads a gob file written by SaveDataset.
func LoadDataset(filename string) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var d Dataset
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&d); err != nil {
		return nil, errors.WithStack(err)
	}
	return &d, nil
}
