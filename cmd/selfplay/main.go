// Command selfplay plays a batch of self-play episodes for one game variant
// and writes the resulting examples out as a gob dataset.
package main

import (
	"flag"
	"log"

	boardgym "github.com/boardgym"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "", "optional JSON config file, overrides the flags below")
	gameFlag   = flag.String("game", "chess", "game variant to play")
	episodes   = flag.Int("episodes", 10, "number of episodes to play")
	maxSteps   = flag.Int("max_steps", 400, "plies before an episode is truncated")
	workers    = flag.Int("workers", 1, "concurrent episode workers")
	policy     = flag.String("policy", "random", "move policy: random or mcts")
	seed       = flag.Int64("seed", 1, "base random seed")
	dataset    = flag.String("dataset", "selfplay.gob", "dataset output path, empty to skip writing")
)

func loadConfig() (boardgym.Config, error) {
	conf := boardgym.DefaultConfig()
	conf.Game = *gameFlag
	conf.Episodes = *episodes
	conf.MaxSteps = *maxSteps
	conf.Workers = *workers
	conf.Policy = *policy
	conf.Seed = *seed
	conf.DatasetPath = *dataset

	if *configFile == "" {
		return conf, nil
	}
	viper.SetConfigFile(*configFile)
	if err := viper.ReadInConfig(); err != nil {
		return conf, err
	}
	err := viper.Unmarshal(&conf)
	return conf, err
}

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("error creating logger: %s", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	conf, err := loadConfig()
	if err != nil {
		sugar.Fatalw("error loading config", "err", err)
	}

	sp, err := boardgym.NewSelfPlay(conf, sugar)
	if err != nil {
		sugar.Fatalw("error creating self-play", "err", err)
	}

	eps, summary, err := sp.Run()
	if err != nil {
		sugar.Fatalw("error during self-play", "err", err)
	}
	sugar.Infow("self-play finished",
		"game", conf.Game,
		"episodes", summary.Episodes,
		"first_wins", summary.FirstWins,
		"second_wins", summary.SecondWins,
		"draws", summary.Draws,
		"mean_plies", summary.MeanPlies,
		"stddev_plies", summary.StdDevPlies,
	)

	if conf.DatasetPath == "" {
		return
	}
	d := sp.Dataset(eps)
	if err := boardgym.SaveDataset(d, conf.DatasetPath); err != nil {
		sugar.Fatalw("error saving dataset", "path", conf.DatasetPath, "err", err)
	}
	sugar.Infow("dataset saved", "path", conf.DatasetPath, "examples", len(d.Examples))
}
