package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lmarek/memodeck/internal/errors"
	"github.com/lmarek/memodeck/internal/logger"
	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/repository"
)

// CardService handles card content management. Scheduling state on created
// cards starts at the SM-2 defaults with the card immediately due.
type CardService interface {
	CreateCard(ctx context.Context, input CreateCardInput) (*models.Card, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
}

// CreateCardInput carries the content fields for a new card.
type CreateCardInput struct {
	ContentID string
	Category  string
	Tags      []string
	Question  string
	Answer    string
}

type cardService struct {
	cards repository.CardRepository
	now   func() time.Time
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository) CardService {
	return &cardService{cards: cards, now: time.Now}
}

func (s *cardService) CreateCard(ctx context.Context, input CreateCardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)

	if input.Question == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if input.Answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	now := s.now()
	card := models.Card{
		ID:           uuid.NewString(),
		ContentID:    input.ContentID,
		Category:     input.Category,
		Tags:         input.Tags,
		Question:     input.Question,
		Answer:       input.Answer,
		EaseFactor:   models.InitialEaseFactor,
		NextReviewAt: now, // new cards are due immediately
		CreatedAt:    now,
	}

	if err := s.cards.Insert(ctx, card); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("card created: id=%s, category=%s", card.ID, card.Category)
	return &card, nil
}

func (s *cardService) GetCard(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewCardNotFoundError(id)
	}
	return card, nil
}
