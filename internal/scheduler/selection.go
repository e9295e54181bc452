package scheduler

import (
	"sort"
	"time"

	"github.com/lmarek/memodeck/internal/models"
)

// Due filters cards to those whose next review has come due and orders them
// for study: most overdue first (greatest forgetting risk), then lowest ease
// factor first among equally-overdue cards (harder cards surface earlier).
// limit truncates the result after sorting; limit <= 0 means no limit.
// The input slice is left untouched.
func Due(cards []models.Card, now time.Time, limit int) []models.Card {
	var due []models.Card
	for _, c := range cards {
		if c.IsDue(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		oi, oj := due[i].DaysOverdue(now), due[j].DaysOverdue(now)
		if oi != oj {
			return oi > oj
		}
		return due[i].EaseFactor < due[j].EaseFactor
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}
