package models

import "time"

// PerCardTimeBudget is the per-card estimate, in seconds, used for the
// remaining-time extrapolation in SessionStats.
const PerCardTimeBudget = 30.0

// ReviewSession is one bounded study session: an ordered snapshot of cards
// selected at session start, a cursor into that snapshot, and the append-only
// log of reviews performed so far.
type ReviewSession struct {
	ID               string         `json:"id"`
	StartedAt        time.Time      `json:"started_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	Cards            []Card         `json:"cards"`
	CurrentCardIndex int            `json:"current_card_index"`
	Reviewed         []ReviewedCard `json:"reviewed"`
	Stats            SessionStats   `json:"stats"`
}

// ReviewedCard is one entry in a session's review log.
type ReviewedCard struct {
	CardID       string    `json:"card_id"`
	Quality      int       `json:"quality"`
	ResponseTime float64   `json:"response_time"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// SessionStats are the running aggregates for a session. Averages are
// maintained incrementally as reviews arrive.
type SessionStats struct {
	TotalCards             int     `json:"total_cards"`
	ReviewedCards          int     `json:"reviewed_cards"`
	CorrectCards           int     `json:"correct_cards"`
	IncorrectCards         int     `json:"incorrect_cards"`
	AverageQuality         float64 `json:"average_quality"`
	AverageResponseTime    float64 `json:"average_response_time"`
	EstimatedTimeRemaining float64 `json:"estimated_time_remaining"`
}

// Exhausted reports whether the cursor has run past the end of the card
// sequence, the signal that the session is ready to end.
func (s *ReviewSession) Exhausted() bool {
	return s.CurrentCardIndex >= len(s.Cards)
}

// CardIndex returns the position of the card with the given id in the
// session's sequence, or -1 when absent.
func (s *ReviewSession) CardIndex(cardID string) int {
	for i, c := range s.Cards {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}
