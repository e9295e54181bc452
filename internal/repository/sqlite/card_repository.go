package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/lmarek/memodeck/internal/logger"
	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/repository"
)

const cardColumns = `id, content_id, category, tags, question, answer, ease_factor, interval_days, repetitions,
last_reviewed_at, next_review_at, total_reviews, correct_reviews, incorrect_reviews,
average_response_time, last_response_time, streak, lapses, created_at`

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, category=%s", c.ID, c.Category)

	tags, err := encodeTags(c.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO cards (id, content_id, category, tags, question, answer, ease_factor, interval_days, repetitions,
                   last_reviewed_at, next_review_at, total_reviews, correct_reviews, incorrect_reviews,
                   average_response_time, last_response_time, streak, lapses, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.ContentID, c.Category, tags, c.Question, c.Answer, c.EaseFactor, c.IntervalDays, c.Repetitions,
		c.LastReviewedAt, c.NextReviewAt, c.Stats.TotalReviews, c.Stats.CorrectReviews, c.Stats.IncorrectReviews,
		c.Stats.AverageResponseTime, c.Stats.LastResponseTime, c.Stats.Streak, c.Stats.Lapses, c.CreatedAt)
	if err != nil {
		log.Error("failed to insert card: %v", err)
	}
	return err
}

func (r *cardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) List(ctx context.Context, category string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: category=%q", category)

	query := sqlBuilder.Select(
		"id", "content_id", "category", "tags", "question", "answer", "ease_factor", "interval_days", "repetitions",
		"last_reviewed_at", "next_review_at", "total_reviews", "correct_reviews", "incorrect_reviews",
		"average_response_time", "last_response_time", "streak", "lapses", "created_at",
	).From("cards").OrderBy("created_at ASC")

	if category != "" {
		query = query.Where(squirrel.Eq{"category": category})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Update(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%s, interval=%d, ease=%.2f", c.ID, c.IntervalDays, c.EaseFactor)

	tags, err := encodeTags(c.Tags)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET content_id = ?, category = ?, tags = ?, question = ?, answer = ?,
    ease_factor = ?, interval_days = ?, repetitions = ?, last_reviewed_at = ?, next_review_at = ?,
    total_reviews = ?, correct_reviews = ?, incorrect_reviews = ?,
    average_response_time = ?, last_response_time = ?, streak = ?, lapses = ?
WHERE id = ?
`, c.ContentID, c.Category, tags, c.Question, c.Answer,
		c.EaseFactor, c.IntervalDays, c.Repetitions, c.LastReviewedAt, c.NextReviewAt,
		c.Stats.TotalReviews, c.Stats.CorrectReviews, c.Stats.IncorrectReviews,
		c.Stats.AverageResponseTime, c.Stats.LastResponseTime, c.Stats.Streak, c.Stats.Lapses,
		c.ID)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var tags string
	var lastReviewed sql.NullTime
	err := row.Scan(&c.ID, &c.ContentID, &c.Category, &tags, &c.Question, &c.Answer,
		&c.EaseFactor, &c.IntervalDays, &c.Repetitions,
		&lastReviewed, &c.NextReviewAt,
		&c.Stats.TotalReviews, &c.Stats.CorrectReviews, &c.Stats.IncorrectReviews,
		&c.Stats.AverageResponseTime, &c.Stats.LastResponseTime, &c.Stats.Streak, &c.Stats.Lapses,
		&c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		c.LastReviewedAt = &t
	}
	c.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
