package game

import (
	"github.com/boardgym/xiangqi"
	"github.com/pkg/errors"
)

// Recognized game-type identifiers for NewBoard.
const (
	GameChess         = "chess"
	GameXiangqi       = "xiangqi"
	GameXiangqiNative = "xiangqi_native"
	GameXiangqiSimple = "xiangqi_simple"
)

// GameTypes lists every identifier NewBoard accepts.
func GameTypes() []string {
	return []string{GameChess, GameXiangqi, GameXiangqiNative, GameXiangqiSimple}
}

// NewBoard is the single place that dispatches on a game-type string. The
// oracle-backed variants run against the in-process xiangqi engine. Unknown
// identifiers wrap ErrUnsupportedGame.
func NewBoard(gameType string) (Board, error) {
	switch gameType {
	case GameChess:
		return NewChessBoard(), nil
	case GameXiangqi:
		return NewXiangqiBoard(xiangqi.NewEngine())
	case GameXiangqiNative:
		return NewNativeXiangqiBoard(), nil
	case GameXiangqiSimple:
		return NewSimpleXiangqiBoard(xiangqi.NewEngine())
	}
	return nil, errors.Wrapf(ErrUnsupportedGame, "%q", gameType)
}
