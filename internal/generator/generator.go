// Package generator draws word sequences for typing tests.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/typespeed/internal/model"
)

// Generator draws words uniformly with replacement.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator whose draws are reproducible for a given seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Select returns count words drawn independently from bank, in draw order.
func (g *Generator) Select(bank []string, count int) ([]string, error) {
	if len(bank) == 0 {
		return nil, fmt.Errorf("%w: word bank is empty", model.ErrInvalidConfiguration)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: word count must be > 0, got %d", model.ErrInvalidConfiguration, count)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, bank[g.rnd.Intn(len(bank))])
	}
	return result, nil
}
