package models

import "time"

// Scheduling defaults for a card that has never been reviewed.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Card is a single learnable fact together with its scheduling state.
// Scheduling fields are mutated only through the scheduler; content fields
// are owned by whatever created the card.
type Card struct {
	ID             string     `json:"id"`
	ContentID      string     `json:"content_id"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags,omitempty"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	Stats          CardStats  `json:"stats"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CardStats aggregates review outcomes for one card.
type CardStats struct {
	TotalReviews        int     `json:"total_reviews"`
	CorrectReviews      int     `json:"correct_reviews"`
	IncorrectReviews    int     `json:"incorrect_reviews"`
	AverageResponseTime float64 `json:"average_response_time"`
	LastResponseTime    float64 `json:"last_response_time"`
	Streak              int     `json:"streak"`
	Lapses              int     `json:"lapses"`
}

// IsDue reports whether the card's next review has come due.
func (c Card) IsDue(now time.Time) bool {
	return !c.NextReviewAt.After(now)
}

// DaysOverdue returns how many days past due the card is at the given
// instant. Cards that are not yet due return a negative value.
func (c Card) DaysOverdue(now time.Time) float64 {
	return now.Sub(c.NextReviewAt).Hours() / 24
}
