package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lmarek/memodeck/internal/errors"
	"github.com/lmarek/memodeck/internal/logger"
	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/repository"
	"github.com/lmarek/memodeck/internal/scheduler"
)

// DefaultSessionCardLimit caps a session's card count when the caller does
// not supply a limit.
const DefaultSessionCardLimit = 20

// ReviewService orchestrates review sessions: it selects due cards, feeds
// learner responses through the scheduler, maintains session statistics, and
// persists card and session state through the injected repositories.
type ReviewService interface {
	StartSession(ctx context.Context, categories []string, cardLimit int) (*models.ReviewSession, error)
	ReviewCard(ctx context.Context, cardID string, quality int, responseTime float64) (*models.Card, error)
	SkipCard(ctx context.Context, cardID string) error
	EndSession(ctx context.Context) (*models.SessionStats, error)
	CurrentCard(ctx context.Context) (*models.Card, error)
	DueCards(ctx context.Context, category string, limit int) ([]models.Card, error)
	LearningStats(ctx context.Context, timeRange models.TimeRange) (*models.LearningStats, error)
	PreviewReview(ctx context.Context, cardID string, quality int) (*models.Card, error)
}

type reviewService struct {
	cards    repository.CardRepository
	sessions repository.SessionRepository

	// mu serializes all session mutations: review operations arrive from a
	// single interaction stream, but exposing this as a service means we
	// must enforce one mutation in flight at a time ourselves.
	mu sync.Mutex

	now       func() time.Time
	cardLimit int
}

// Option configures a ReviewService.
type Option func(*reviewService)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *reviewService) { s.now = now }
}

// WithCardLimit sets the default per-session card limit.
func WithCardLimit(limit int) Option {
	return func(s *reviewService) {
		if limit > 0 {
			s.cardLimit = limit
		}
	}
}

// NewReviewService creates a new ReviewService
func NewReviewService(cards repository.CardRepository, sessions repository.SessionRepository, opts ...Option) ReviewService {
	s := &reviewService{
		cards:     cards,
		sessions:  sessions,
		now:       time.Now,
		cardLimit: DefaultSessionCardLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession builds the due-card list (per category when categories are
// given, merged and re-limited), constructs a new session, and persists it as
// the current one. Zero due cards yields a valid zero-length session.
//
// When a session is already active it is archived first, never discarded:
// replace-but-keep is the policy for a dangling session left behind by a
// client that never called EndSession.
func (s *reviewService) StartSession(ctx context.Context, categories []string, cardLimit int) (*models.ReviewSession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: categories=%v, limit=%d", categories, cardLimit)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	current, err := s.sessions.Current(ctx)
	if err != nil {
		log.Error("failed to load current session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if current != nil {
		log.Warn("active session %s found on start, archiving it", current.ID)
		if err := s.archiveLocked(ctx, current, now); err != nil {
			return nil, err
		}
	}

	if cardLimit <= 0 {
		cardLimit = s.cardLimit
	}

	candidates, err := s.collectCandidates(ctx, categories)
	if err != nil {
		log.Error("failed to collect candidate cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	due := scheduler.Due(candidates, now, cardLimit)

	session := &models.ReviewSession{
		ID:        fmt.Sprintf("session-%d", now.UnixNano()),
		StartedAt: now,
		Cards:     due,
		Stats: models.SessionStats{
			TotalCards:             len(due),
			EstimatedTimeRemaining: models.PerCardTimeBudget * float64(len(due)),
		},
	}

	if err := s.sessions.SetCurrent(ctx, session); err != nil {
		log.Error("failed to persist session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("session started: id=%s, cards=%d", session.ID, len(due))
	return session, nil
}

// collectCandidates merges card lists across the requested categories,
// de-duplicating by card id. No categories means the whole store.
func (s *reviewService) collectCandidates(ctx context.Context, categories []string) ([]models.Card, error) {
	if len(categories) == 0 {
		return s.cards.List(ctx, "")
	}

	seen := make(map[string]bool)
	var merged []models.Card
	for _, category := range categories {
		cards, err := s.cards.List(ctx, category)
		if err != nil {
			return nil, err
		}
		for _, c := range cards {
			if !seen[c.ID] {
				seen[c.ID] = true
				merged = append(merged, c)
			}
		}
	}
	return merged, nil
}

// ReviewCard applies one recall attempt to a card in the active session.
// Quality is validated before any state changes; the card must belong to the
// session's snapshot.
func (s *reviewService) ReviewCard(ctx context.Context, cardID string, quality int, responseTime float64) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: card_id=%s, quality=%d", cardID, quality)

	if err := scheduler.ValidateQuality(quality); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	idx := session.CardIndex(cardID)
	if idx < 0 {
		log.Warn("card %s not in active session %s", cardID, session.ID)
		return nil, errors.NewCardNotFoundError(cardID)
	}

	now := s.now()
	updated, err := scheduler.Apply(session.Cards[idx], quality, now)
	if err != nil {
		return nil, err
	}

	// Response time merges outside the scheduler: it is session input, not
	// scheduling state. Incremental mean over the updated review count.
	updated.Stats.LastResponseTime = responseTime
	n := float64(updated.Stats.TotalReviews)
	updated.Stats.AverageResponseTime += (responseTime - updated.Stats.AverageResponseTime) / n

	session.Cards[idx] = updated
	session.CurrentCardIndex++
	session.Reviewed = append(session.Reviewed, models.ReviewedCard{
		CardID:       cardID,
		Quality:      quality,
		ResponseTime: responseTime,
		ReviewedAt:   now,
	})
	applyReviewToStats(&session.Stats, quality, responseTime)

	if err := s.cards.Update(ctx, updated); err != nil {
		log.Error("failed to persist card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if err := s.sessions.SetCurrent(ctx, session); err != nil {
		log.Error("failed to persist session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("card reviewed: interval=%d days, ease=%.2f, next=%s",
		updated.IntervalDays, updated.EaseFactor, updated.NextReviewAt.Format(time.RFC3339))
	return &updated, nil
}

// applyReviewToStats folds one review into the running session aggregates.
// Averages use the incremental-mean update so nothing is recomputed from
// scratch.
func applyReviewToStats(st *models.SessionStats, quality int, responseTime float64) {
	st.ReviewedCards++
	if quality >= scheduler.QualitySuccessThreshold {
		st.CorrectCards++
	} else {
		st.IncorrectCards++
	}
	n := float64(st.ReviewedCards)
	st.AverageQuality += (float64(quality) - st.AverageQuality) / n
	st.AverageResponseTime += (responseTime - st.AverageResponseTime) / n
	st.EstimatedTimeRemaining = models.PerCardTimeBudget * float64(st.TotalCards-st.ReviewedCards)
	if st.EstimatedTimeRemaining < 0 {
		st.EstimatedTimeRemaining = 0
	}
}

// SkipCard postpones a card to the following day without treating it as a
// review event: ease factor, repetitions, and stats are untouched. The card
// leaves the session's remaining sequence and the cursor is clamped to the
// shrunken bounds.
func (s *reviewService) SkipCard(ctx context.Context, cardID string) error {
	log := logger.FromContext(ctx)
	log.Debug("skipping card: card_id=%s", cardID)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeSession(ctx)
	if err != nil {
		return err
	}

	idx := session.CardIndex(cardID)
	if idx < 0 {
		return errors.NewCardNotFoundError(cardID)
	}

	card := session.Cards[idx]
	card.NextReviewAt = s.now().AddDate(0, 0, 1)

	session.Cards = append(session.Cards[:idx], session.Cards[idx+1:]...)
	if idx < session.CurrentCardIndex {
		session.CurrentCardIndex--
	}
	if session.CurrentCardIndex > len(session.Cards) {
		session.CurrentCardIndex = len(session.Cards)
	}
	session.Stats.TotalCards = len(session.Cards)
	session.Stats.EstimatedTimeRemaining = models.PerCardTimeBudget * float64(session.Stats.TotalCards-session.Stats.ReviewedCards)
	if session.Stats.EstimatedTimeRemaining < 0 {
		session.Stats.EstimatedTimeRemaining = 0
	}

	if err := s.cards.Update(ctx, card); err != nil {
		log.Error("failed to persist skipped card: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.sessions.SetCurrent(ctx, session); err != nil {
		log.Error("failed to persist session: %v", err)
		return errors.NewInternalError(err)
	}
	log.Debug("card skipped, rescheduled for tomorrow: card_id=%s", cardID)
	return nil
}

// EndSession stamps completedAt, archives the session, and clears the
// current-session pointer. A second call fails: the pointer is already gone.
func (s *reviewService) EndSession(ctx context.Context) (*models.SessionStats, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeSession(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.archiveLocked(ctx, session, s.now()); err != nil {
		return nil, err
	}

	log.Info("session ended: id=%s, reviewed=%d/%d", session.ID, session.Stats.ReviewedCards, session.Stats.TotalCards)
	stats := session.Stats
	return &stats, nil
}

// archiveLocked finalizes a session and clears the current pointer. Callers
// hold s.mu.
func (s *reviewService) archiveLocked(ctx context.Context, session *models.ReviewSession, now time.Time) error {
	completed := now
	session.CompletedAt = &completed
	if err := s.sessions.AppendCompleted(ctx, *session); err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.sessions.SetCurrent(ctx, nil); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// CurrentCard returns the card at the session cursor, or nil when the
// sequence is exhausted or no session is active. Nil is the caller's signal
// to end the session (or start one).
func (s *reviewService) CurrentCard(ctx context.Context) (*models.Card, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil || session.Exhausted() {
		return nil, nil
	}
	card := session.Cards[session.CurrentCardIndex]
	return &card, nil
}

// DueCards returns due cards ordered by the selection policy, optionally
// filtered by category and truncated to limit.
func (s *reviewService) DueCards(ctx context.Context, category string, limit int) ([]models.Card, error) {
	cards, err := s.cards.List(ctx, category)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return scheduler.Due(cards, s.now(), limit), nil
}

// PreviewReview applies the scheduler to a stored card without persisting
// anything, so a caller can show "what happens if I rate this Easy".
func (s *reviewService) PreviewReview(ctx context.Context, cardID string, quality int) (*models.Card, error) {
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewCardNotFoundError(cardID)
	}
	preview, err := scheduler.Apply(*card, quality, s.now())
	if err != nil {
		return nil, err
	}
	return &preview, nil
}

// activeSession loads the current session or fails with NoActiveSessionError.
func (s *reviewService) activeSession(ctx context.Context) (*models.ReviewSession, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewNoActiveSessionError()
	}
	return session, nil
}
