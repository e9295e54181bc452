package repository

import (
	"context"
	"time"

	"github.com/lmarek/memodeck/internal/models"
)

// CardRepository handles card data access. Get returns nil (not an error)
// when the card does not exist.
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) error
	Get(ctx context.Context, id string) (*models.Card, error)
	List(ctx context.Context, category string) ([]models.Card, error)
	Update(ctx context.Context, card models.Card) error
}

// SessionRepository handles review-session persistence: the single current
// session pointer plus the append-only history of completed sessions.
// Current returns nil when no session is active; SetCurrent with nil clears
// the pointer.
type SessionRepository interface {
	Current(ctx context.Context) (*models.ReviewSession, error)
	SetCurrent(ctx context.Context, session *models.ReviewSession) error
	AppendCompleted(ctx context.Context, session models.ReviewSession) error
	CompletedSince(ctx context.Context, cutoff *time.Time) ([]models.ReviewSession, error)
}
