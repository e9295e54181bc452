package scheduler

import (
	"math"
	"time"

	"github.com/lmarek/memodeck/internal/errors"
	"github.com/lmarek/memodeck/internal/models"
)

// Quality grades for a single recall attempt, 0 (blackout) to 5 (perfect).
// Grades below QualitySuccessThreshold count as failed recalls.
const (
	MinQuality              = 0
	MaxQuality              = 5
	QualitySuccessThreshold = 3
)

// ValidateQuality returns an error when quality is outside [0,5].
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return errors.NewInvalidQualityError(quality)
	}
	return nil
}

// Apply computes the card's next scheduling state for one review using the
// SM-2 variant. It is pure: now is an explicit input, the input card is not
// mutated, and the same inputs always yield the same output. The caller is
// responsible for persisting the returned card.
func Apply(card models.Card, quality int, now time.Time) (models.Card, error) {
	if err := ValidateQuality(quality); err != nil {
		return models.Card{}, err
	}

	if quality < QualitySuccessThreshold {
		// Failed recall: the card restarts the learning phase regardless
		// of how long its interval had grown.
		card.Repetitions = 0
		card.IntervalDays = 1
	} else {
		switch card.Repetitions {
		case 0:
			card.IntervalDays = 1
		case 1:
			card.IntervalDays = 6
		default:
			card.IntervalDays = roundHalfUp(float64(card.IntervalDays) * card.EaseFactor)
		}
		if card.IntervalDays < 1 {
			card.IntervalDays = 1
		}
		card.Repetitions++
	}

	// Ease factor update applies on both branches. The formula penalizes
	// low grades more than it rewards high ones; the 1.3 floor keeps
	// intervals from collapsing toward zero growth.
	q := float64(quality)
	ef := card.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < models.MinEaseFactor {
		ef = models.MinEaseFactor
	}
	card.EaseFactor = ef

	reviewedAt := now
	card.LastReviewedAt = &reviewedAt
	card.NextReviewAt = now.AddDate(0, 0, card.IntervalDays)

	card.Stats.TotalReviews++
	if quality >= QualitySuccessThreshold {
		card.Stats.CorrectReviews++
		card.Stats.Streak++
	} else {
		card.Stats.IncorrectReviews++
		card.Stats.Streak = 0
		card.Stats.Lapses++
	}

	return card, nil
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
