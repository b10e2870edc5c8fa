package engine

import (
	"context"
	"fmt"

	"github.com/verte-zerg/typespeed/internal/model"
)

// writeAttempts bounds high score writes per session.
const writeAttempts = 2

// Reconciliation reports how a final score compared with the stored record.
type Reconciliation struct {
	Previous int
	Updated  bool
}

// Reconcile stores cpm when it strictly beats the recorded high score.
// Equal scores never overwrite, so repeating a call is a no-op.
func Reconcile(ctx context.Context, store HighScoreStore, cpm int) (Reconciliation, error) {
	prev, err := store.HighScore(ctx)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("%w: read high score: %w", model.ErrPersistence, err)
	}
	rec := Reconciliation{Previous: prev}
	if cpm <= prev {
		return rec, nil
	}
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err = store.SetHighScore(ctx, cpm); err == nil {
			rec.Updated = true
			return rec, nil
		}
	}
	return rec, fmt.Errorf("%w: write high score after %d attempts: %w", model.ErrPersistence, writeAttempts, err)
}
