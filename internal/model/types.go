// Package model defines shared data structures.
package model

import "time"

// Config defines test settings.
type Config struct {
	Duration     time.Duration
	TickInterval time.Duration
	Words        int
	Seed         int64
}

// EndReason records why a session stopped.
type EndReason int

const (
	// EndTimeExpired means the countdown reached zero.
	EndTimeExpired EndReason = iota
	// EndWordsExhausted means every queued word was typed.
	EndWordsExhausted
	// EndCancelled means the user ended the test early.
	EndCancelled
)

func (r EndReason) String() string {
	switch r {
	case EndTimeExpired:
		return "time expired"
	case EndWordsExhausted:
		return "words exhausted"
	case EndCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result captures a completed typing session.
type Result struct {
	CPM          int
	WPM          int
	Reason       EndReason
	Remaining    float64
	NewHighScore bool
	PreviousCPM  int
	PreviousWPM  int
}
