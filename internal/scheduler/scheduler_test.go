package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarek/memodeck/internal/errors"
	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/scheduler"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newCard() models.Card {
	return models.Card{
		ID:           "card-1",
		EaseFactor:   models.InitialEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		NextReviewAt: testNow,
	}
}

func TestApply_FirstReviewQualityFour(t *testing.T) {
	card := newCard()

	updated, err := scheduler.Apply(card, 4, testNow)
	require.NoError(t, err)

	// EF delta for quality 4 is 0.1 - 1*(0.08 + 1*0.02) = 0, so the ease
	// factor stays at 2.5 exactly.
	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, 1, updated.Repetitions)
	assert.InDelta(t, 2.5, updated.EaseFactor, 1e-9)
	assert.Equal(t, testNow.AddDate(0, 0, 1), updated.NextReviewAt)
	require.NotNil(t, updated.LastReviewedAt)
	assert.Equal(t, testNow, *updated.LastReviewedAt)
}

func TestApply_SecondReviewUsesSixDayInterval(t *testing.T) {
	card := newCard()

	first, err := scheduler.Apply(card, 4, testNow)
	require.NoError(t, err)

	second, err := scheduler.Apply(first, 5, testNow.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 6, second.IntervalDays, "repetitions==1 branch applies before the increment")
	assert.Equal(t, 2, second.Repetitions)
	assert.Greater(t, second.EaseFactor, first.EaseFactor, "quality 5 raises ease")
	assert.LessOrEqual(t, second.EaseFactor, first.EaseFactor+0.1, "per-review ease growth is capped at +0.1")
}

func TestApply_FailureResetsProgress(t *testing.T) {
	for _, quality := range []int{0, 1, 2} {
		card := newCard()
		card.Repetitions = 4
		card.IntervalDays = 30
		card.Stats.Streak = 4

		updated, err := scheduler.Apply(card, quality, testNow)
		require.NoError(t, err)

		assert.Equal(t, 0, updated.Repetitions, "quality %d should reset repetitions", quality)
		assert.Equal(t, 1, updated.IntervalDays, "quality %d should reset interval", quality)
		assert.Equal(t, 0, updated.Stats.Streak)
		assert.Equal(t, 1, updated.Stats.Lapses)
		assert.Equal(t, 1, updated.Stats.IncorrectReviews)
	}
}

func TestApply_SuccessLadder(t *testing.T) {
	card := newCard()

	var err error
	card, err = scheduler.Apply(card, 5, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, card.IntervalDays)

	card, err = scheduler.Apply(card, 5, testNow)
	require.NoError(t, err)
	assert.Equal(t, 6, card.IntervalDays)

	// Third perfect review: ease has grown 2.5 -> 2.6 -> 2.7 and the
	// interval multiplies by the ease carried into the review.
	card, err = scheduler.Apply(card, 5, testNow)
	require.NoError(t, err)
	assert.Equal(t, 16, card.IntervalDays) // round(6 * 2.7)
	assert.Equal(t, 3, card.Repetitions)
	assert.Equal(t, 3, card.Stats.Streak)
	assert.Equal(t, 3, card.Stats.CorrectReviews)
}

func TestApply_EaseFloor(t *testing.T) {
	card := newCard()
	card.EaseFactor = 1.3

	for i := 0; i < 10; i++ {
		var err error
		card, err = scheduler.Apply(card, 0, testNow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.EaseFactor, 1.3, "ease factor must never drop below 1.3")
	}
}

func TestApply_IntervalAlwaysAtLeastOneDay(t *testing.T) {
	for quality := 0; quality <= 5; quality++ {
		card := newCard()
		updated, err := scheduler.Apply(card, quality, testNow)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.IntervalDays, 1, "quality %d", quality)
	}
}

func TestApply_Pure(t *testing.T) {
	card := newCard()
	card.Repetitions = 3
	card.IntervalDays = 14

	a, err := scheduler.Apply(card, 3, testNow)
	require.NoError(t, err)
	b, err := scheduler.Apply(card, 3, testNow)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same inputs must yield identical output")
	assert.Equal(t, 3, card.Repetitions, "input card must not be mutated")
	assert.Equal(t, 14, card.IntervalDays)
}

func TestApply_InvalidQuality(t *testing.T) {
	for _, quality := range []int{-1, 6, 100} {
		_, err := scheduler.Apply(newCard(), quality, testNow)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQuality))
	}
}

func TestApply_IntervalRounding(t *testing.T) {
	tests := []struct {
		name         string
		intervalDays int
		easeFactor   float64
		quality      int
		expected     int
	}{
		{"rounds half up", 10, 1.35, 3, 14},         // 13.5 -> 14
		{"rounds down below half", 10, 1.34, 3, 13}, // 13.4 -> 13
		{"small interval at ease floor", 2, 1.3, 3, 3},
		{"large interval", 30, 2.5, 5, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := newCard()
			card.Repetitions = 2
			card.IntervalDays = tt.intervalDays
			card.EaseFactor = tt.easeFactor

			updated, err := scheduler.Apply(card, tt.quality, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, updated.IntervalDays)
		})
	}
}

func TestApply_StatsAccumulate(t *testing.T) {
	card := newCard()

	var err error
	card, err = scheduler.Apply(card, 5, testNow)
	require.NoError(t, err)
	card, err = scheduler.Apply(card, 4, testNow)
	require.NoError(t, err)
	card, err = scheduler.Apply(card, 1, testNow)
	require.NoError(t, err)

	assert.Equal(t, 3, card.Stats.TotalReviews)
	assert.Equal(t, 2, card.Stats.CorrectReviews)
	assert.Equal(t, 1, card.Stats.IncorrectReviews)
	assert.Equal(t, 0, card.Stats.Streak)
	assert.Equal(t, 1, card.Stats.Lapses)
}
