package services

import (
	"github.com/mroth/weightedrand/v2"
)

// Reel picks slot symbols by weight.
type Reel[T any] struct {
	chooser *weightedrand.Chooser[T, int]
}

func NewReel[T any](choices []weightedrand.Choice[T, int]) (*Reel[T], error) {
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &Reel[T]{chooser}, nil
}

// NewUniformReel gives every symbol the same weight.
func NewUniformReel[T any](symbols []T) (*Reel[T], error) {
	choices := make([]weightedrand.Choice[T, int], 0, len(symbols))
	for _, symbol := range symbols {
		choices = append(choices, weightedrand.NewChoice(symbol, 1))
	}
	return NewReel(choices)
}

func (reel *Reel[T]) Pick() T {
	return reel.chooser.Pick()
}

func (reel *Reel[T]) Spin(n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = reel.Pick()
	}
	return out
}
