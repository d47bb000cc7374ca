// Command genmoves plays random episodes of a game variant and appends every
// distinct legal-move notation it encounters to a vocabulary file, one move
// per line.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/boardgym/env"
)

var (
	gameFlag = flag.String("game", "chess", "game variant to play")
	numGames = flag.Int("num_games", 10, "number of episodes to play")
	maxSteps = flag.Int("max_steps", 400, "plies before an episode is cut off")
	seed     = flag.Int64("seed", 1, "random seed")
	path     = flag.String("path", "moves.txt", "move vocabulary path to append to")
)

func main() {
	flag.Parse()

	// If the file doesn't exist, create it, or append to the file
	f, err := os.OpenFile(*path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	e, err := env.Make(*gameFlag, env.WithMaxSteps(*maxSteps), env.WithSeed(*seed))
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	board := e.Board()
	seen := make(map[string]struct{})
	for i := 0; i < *numGames; i++ {
		_, info := e.Reset()
		for len(info.LegalActions) > 0 {
			for _, m := range board.LegalMoves() {
				notation := m.UCI(board.Cols())
				if _, ok := seen[notation]; ok {
					continue
				}
				seen[notation] = struct{}{}
				if _, err := f.Write([]byte(notation + "\n")); err != nil {
					log.Fatal(err)
				}
			}
			res, err := e.Step(e.Rand().Intn(len(info.LegalActions)))
			if err != nil {
				log.Fatal(err)
			}
			if res.Terminated || res.Truncated {
				break
			}
			info = res.Info
		}
	}
	log.Printf("wrote %d distinct moves for %s", len(seen), *gameFlag)
}
