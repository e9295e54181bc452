package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/scheduler"
)

func dueCard(id string, overdueDays int, ease float64) models.Card {
	return models.Card{
		ID:           id,
		EaseFactor:   ease,
		NextReviewAt: testNow.AddDate(0, 0, -overdueDays),
	}
}

func TestDue_FiltersFutureCards(t *testing.T) {
	cards := []models.Card{
		dueCard("due", 1, 2.5),
		{ID: "future", EaseFactor: 2.5, NextReviewAt: testNow.AddDate(0, 0, 3)},
		{ID: "exactly-now", EaseFactor: 2.5, NextReviewAt: testNow},
	}

	due := scheduler.Due(cards, testNow, 0)

	require.Len(t, due, 2)
	assert.Equal(t, "due", due[0].ID)
	assert.Equal(t, "exactly-now", due[1].ID, "a card due exactly now is due")
}

func TestDue_MostOverdueFirst(t *testing.T) {
	// The 5-days-overdue card wins even though its ease factor is higher:
	// overdue takes priority over difficulty.
	cards := []models.Card{
		dueCard("three-days", 3, 2.0),
		dueCard("five-days", 5, 3.0),
	}

	due := scheduler.Due(cards, testNow, 0)

	require.Len(t, due, 2)
	assert.Equal(t, "five-days", due[0].ID)
	assert.Equal(t, "three-days", due[1].ID)
}

func TestDue_EaseBreaksTies(t *testing.T) {
	cards := []models.Card{
		dueCard("easy", 2, 2.8),
		dueCard("hard", 2, 1.4),
	}

	due := scheduler.Due(cards, testNow, 0)

	require.Len(t, due, 2)
	assert.Equal(t, "hard", due[0].ID, "lower ease surfaces first among equally-overdue cards")
}

func TestDue_LimitAppliesAfterSorting(t *testing.T) {
	// The most overdue card appears last in the input; limiting before
	// sorting would drop it.
	cards := []models.Card{
		dueCard("a", 1, 2.5),
		dueCard("b", 2, 2.5),
		dueCard("c", 9, 2.5),
	}

	due := scheduler.Due(cards, testNow, 1)

	require.Len(t, due, 1)
	assert.Equal(t, "c", due[0].ID)
}

func TestDue_DoesNotMutateInput(t *testing.T) {
	cards := []models.Card{
		dueCard("a", 1, 2.5),
		dueCard("b", 5, 2.5),
	}

	_ = scheduler.Due(cards, testNow, 0)

	assert.Equal(t, "a", cards[0].ID)
	assert.Equal(t, "b", cards[1].ID)
}

func TestDue_EmptyInput(t *testing.T) {
	assert.Empty(t, scheduler.Due(nil, time.Now(), 10))
}
