package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/lmarek/memodeck/internal/logger"
	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Current(ctx context.Context) (*models.ReviewSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("loading current session")

	s, err := r.scanSession(r.db.QueryRowContext(ctx, `
SELECT id, started_at, completed_at, current_card_index,
       total_cards, reviewed_cards, correct_cards, incorrect_cards, average_quality, average_response_time
FROM sessions
WHERE is_current = 1
`))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no current session")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load current session: %v", err)
		return nil, err
	}

	if err := r.loadCards(ctx, s); err != nil {
		log.Error("failed to load session cards: %v", err)
		return nil, err
	}
	if err := r.loadReviews(ctx, s); err != nil {
		log.Error("failed to load session reviews: %v", err)
		return nil, err
	}
	log.Debug("current session loaded: id=%s, cards=%d, reviewed=%d", s.ID, len(s.Cards), len(s.Reviewed))
	return s, nil
}

func (r *sessionRepository) SetCurrent(ctx context.Context, session *models.ReviewSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE sessions SET is_current = 0 WHERE is_current = 1`); err != nil {
			return err
		}
		if session == nil {
			log.Debug("current session cleared")
			return nil
		}
		log.Debug("persisting current session: id=%s, index=%d", session.ID, session.CurrentCardIndex)
		return upsertSession(ctx, tx, session, true)
	})
}

func (r *sessionRepository) AppendCompleted(ctx context.Context, session models.ReviewSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("archiving completed session: id=%s, reviewed=%d", session.ID, session.Stats.ReviewedCards)

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return upsertSession(ctx, tx, &session, false)
	})
}

// CompletedSince returns completed sessions newest first, hydrated with their
// review logs. The card snapshot is not loaded for historical sessions.
func (r *sessionRepository) CompletedSince(ctx context.Context, cutoff *time.Time) ([]models.ReviewSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("loading completed sessions: cutoff=%v", cutoff)

	query := sqlBuilder.Select(
		"id", "started_at", "completed_at", "current_card_index",
		"total_cards", "reviewed_cards", "correct_cards", "incorrect_cards", "average_quality", "average_response_time",
	).From("sessions").
		Where("completed_at IS NOT NULL").
		OrderBy("started_at DESC")

	if cutoff != nil {
		query = query.Where(squirrel.GtOrEq{"started_at": *cutoff})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query completed sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ReviewSession
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		if err := r.loadReviews(ctx, &sessions[i]); err != nil {
			log.Error("failed to load reviews for session %s: %v", sessions[i].ID, err)
			return nil, err
		}
	}
	log.Debug("found %d completed sessions", len(sessions))
	return sessions, nil
}

func upsertSession(ctx context.Context, tx *sql.Tx, s *models.ReviewSession, current bool) error {
	isCurrent := 0
	if current {
		isCurrent = 1
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO sessions (id, started_at, completed_at, current_card_index, is_current,
                      total_cards, reviewed_cards, correct_cards, incorrect_cards, average_quality, average_response_time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    completed_at = excluded.completed_at,
    current_card_index = excluded.current_card_index,
    is_current = excluded.is_current,
    total_cards = excluded.total_cards,
    reviewed_cards = excluded.reviewed_cards,
    correct_cards = excluded.correct_cards,
    incorrect_cards = excluded.incorrect_cards,
    average_quality = excluded.average_quality,
    average_response_time = excluded.average_response_time
`, s.ID, s.StartedAt, s.CompletedAt, s.CurrentCardIndex, isCurrent,
		s.Stats.TotalCards, s.Stats.ReviewedCards, s.Stats.CorrectCards, s.Stats.IncorrectCards,
		s.Stats.AverageQuality, s.Stats.AverageResponseTime); err != nil {
		return err
	}

	// Replace the card snapshot and review log wholesale. Sessions are
	// small (tens of cards) so this is simpler than diffing.
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_cards WHERE session_id = ?`, s.ID); err != nil {
		return err
	}
	for i, c := range s.Cards {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO session_cards (session_id, position, card_id) VALUES (?, ?, ?)
`, s.ID, i, c.ID); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM session_reviews WHERE session_id = ?`, s.ID); err != nil {
		return err
	}
	for _, rev := range s.Reviewed {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO session_reviews (session_id, card_id, quality, response_time, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, s.ID, rev.CardID, rev.Quality, rev.ResponseTime, rev.ReviewedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *sessionRepository) scanSession(row rowScanner) (*models.ReviewSession, error) {
	var s models.ReviewSession
	var completed sql.NullTime
	err := row.Scan(&s.ID, &s.StartedAt, &completed, &s.CurrentCardIndex,
		&s.Stats.TotalCards, &s.Stats.ReviewedCards, &s.Stats.CorrectCards, &s.Stats.IncorrectCards,
		&s.Stats.AverageQuality, &s.Stats.AverageResponseTime)
	if err != nil {
		return nil, err
	}
	if completed.Valid {
		t := completed.Time
		s.CompletedAt = &t
	}
	s.Stats.EstimatedTimeRemaining = models.PerCardTimeBudget * float64(s.Stats.TotalCards-s.Stats.ReviewedCards)
	if s.Stats.EstimatedTimeRemaining < 0 {
		s.Stats.EstimatedTimeRemaining = 0
	}
	return &s, nil
}

func (r *sessionRepository) loadCards(ctx context.Context, s *models.ReviewSession) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.content_id, c.category, c.tags, c.question, c.answer, c.ease_factor, c.interval_days, c.repetitions,
       c.last_reviewed_at, c.next_review_at, c.total_reviews, c.correct_reviews, c.incorrect_reviews,
       c.average_response_time, c.last_response_time, c.streak, c.lapses, c.created_at
FROM session_cards sc
JOIN cards c ON c.id = sc.card_id
WHERE sc.session_id = ?
ORDER BY sc.position ASC
`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return err
		}
		s.Cards = append(s.Cards, *c)
	}
	return rows.Err()
}

func (r *sessionRepository) loadReviews(ctx context.Context, s *models.ReviewSession) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT card_id, quality, response_time, reviewed_at
FROM session_reviews
WHERE session_id = ?
ORDER BY id ASC
`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rev models.ReviewedCard
		if err := rows.Scan(&rev.CardID, &rev.Quality, &rev.ResponseTime, &rev.ReviewedAt); err != nil {
			return err
		}
		s.Reviewed = append(s.Reviewed, rev)
	}
	return rows.Err()
}
