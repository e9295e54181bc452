package models

// TimeRange selects the cutoff window for learning statistics.
type TimeRange string

const (
	TimeRangeDay   TimeRange = "day"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeAll   TimeRange = "all"
)

// Valid reports whether the range is one of the supported windows.
func (r TimeRange) Valid() bool {
	switch r {
	case TimeRangeDay, TimeRangeWeek, TimeRangeMonth, TimeRangeAll:
		return true
	}
	return false
}

// LearningStats aggregates completed sessions over a time range.
// AverageAccuracy is the mean of per-session accuracy ratios; sessions with
// zero reviewed cards are excluded from that mean, and an empty session list
// yields 0. AverageSessionDuration is in seconds, over completed sessions
// only. DayStreak counts consecutive calendar days with at least one session,
// ending at the most recent session day.
type LearningStats struct {
	TimeRange              TimeRange `json:"time_range"`
	TotalSessions          int       `json:"total_sessions"`
	TotalCardsReviewed     int       `json:"total_cards_reviewed"`
	AverageAccuracy        float64   `json:"average_accuracy"`
	AverageSessionDuration float64   `json:"average_session_duration"`
	DayStreak              int       `json:"day_streak"`
}
