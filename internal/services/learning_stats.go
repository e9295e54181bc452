package services

import (
	"context"
	"time"

	"github.com/lmarek/memodeck/internal/errors"
	"github.com/lmarek/memodeck/internal/logger"
	"github.com/lmarek/memodeck/internal/models"
)

// LearningStats aggregates completed sessions within the given time range.
func (s *reviewService) LearningStats(ctx context.Context, timeRange models.TimeRange) (*models.LearningStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing learning stats: range=%s", timeRange)

	if !timeRange.Valid() {
		return nil, errors.NewValidationError("range", "must be one of day, week, month, all")
	}

	now := s.now()
	var cutoff *time.Time
	switch timeRange {
	case models.TimeRangeDay:
		t := now.AddDate(0, 0, -1)
		cutoff = &t
	case models.TimeRangeWeek:
		t := now.AddDate(0, 0, -7)
		cutoff = &t
	case models.TimeRangeMonth:
		t := now.AddDate(0, -1, 0)
		cutoff = &t
	}

	sessions, err := s.sessions.CompletedSince(ctx, cutoff)
	if err != nil {
		log.Error("failed to load completed sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats := aggregateSessions(sessions)
	stats.TimeRange = timeRange
	log.Debug("learning stats: sessions=%d, cards=%d, accuracy=%.2f, streak=%d",
		stats.TotalSessions, stats.TotalCardsReviewed, stats.AverageAccuracy, stats.DayStreak)
	return &stats, nil
}

// aggregateSessions folds a newest-first list of completed sessions into
// LearningStats. Sessions with zero reviewed cards are excluded from the
// accuracy mean so the ratio never divides by zero; an empty list yields
// zeroes across the board.
func aggregateSessions(sessions []models.ReviewSession) models.LearningStats {
	var stats models.LearningStats
	stats.TotalSessions = len(sessions)

	var accuracySum float64
	var accuracyCount int
	var durationSum float64
	var durationCount int

	for _, sess := range sessions {
		stats.TotalCardsReviewed += sess.Stats.ReviewedCards
		if sess.Stats.ReviewedCards > 0 {
			accuracySum += float64(sess.Stats.CorrectCards) / float64(sess.Stats.ReviewedCards)
			accuracyCount++
		}
		if sess.CompletedAt != nil {
			durationSum += sess.CompletedAt.Sub(sess.StartedAt).Seconds()
			durationCount++
		}
	}

	if accuracyCount > 0 {
		stats.AverageAccuracy = accuracySum / float64(accuracyCount)
	}
	if durationCount > 0 {
		stats.AverageSessionDuration = durationSum / float64(durationCount)
	}
	stats.DayStreak = dayStreak(sessions)
	return stats
}

// dayStreak counts consecutive calendar days with at least one session,
// walking unique session days newest-first while each older day is exactly
// the previous calendar day.
func dayStreak(sessions []models.ReviewSession) int {
	if len(sessions) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, sess := range sessions {
		d := dayOf(sess.StartedAt)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	// Sessions arrive newest-first, so days is already descending.

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			streak++
			continue
		}
		break
	}
	return streak
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
