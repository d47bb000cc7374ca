package xiangqi

import "github.com/pkg/errors"

// Engine is a stateless rules oracle over FEN strings. It satisfies both the
// minimal and the history-extended oracle surfaces consumed by the board
// layer, and is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

func checkVariant(variant string) error {
	if variant != Variant {
		return errors.Errorf("unknown variant %q", variant)
	}
	return nil
}

// StartPosition returns the opening FEN for the variant.
func (e *Engine) StartPosition(variant string) (string, error) {
	if err := checkVariant(variant); err != nil {
		return "", err
	}
	return StartFEN, nil
}

// LegalMoves enumerates the legal moves at position in coordinate notation.
func (e *Engine) LegalMoves(variant, position string) ([]string, error) {
	return e.LegalMovesAfter(variant, position, nil)
}

// LegalMovesAfter applies history to position first, then enumerates.
func (e *Engine) LegalMovesAfter(variant, position string, history []string) ([]string, error) {
	if err := checkVariant(variant); err != nil {
		return nil, err
	}
	p, err := e.playOut(position, history)
	if err != nil {
		return nil, err
	}
	legal := p.LegalMoves()
	out := make([]string, len(legal))
	for i, mv := range legal {
		out[i] = mv.String()
	}
	return out, nil
}

// NextPosition applies a single move to position and returns the new FEN.
// The move must be legal.
func (e *Engine) NextPosition(variant, position, move string) (string, error) {
	return e.NextPositionAfter(variant, position, []string{move})
}

// NextPositionAfter applies moves in order and returns the final FEN.
func (e *Engine) NextPositionAfter(variant, position string, moves []string) (string, error) {
	if err := checkVariant(variant); err != nil {
		return "", err
	}
	p, err := e.playOut(position, moves)
	if err != nil {
		return "", err
	}
	return EncodeFEN(p), nil
}

func (e *Engine) playOut(position string, moves []string) (*Position, error) {
	p, err := DecodeFEN(position)
	if err != nil {
		return nil, err
	}
	for _, s := range moves {
		mv, err := MoveFromString(s)
		if err != nil {
			return nil, err
		}
		if !p.IsLegal(mv) {
			return nil, errors.Errorf("move %s is not legal at %s", s, EncodeFEN(p))
		}
		p, _ = p.Apply(mv)
	}
	return p, nil
}
