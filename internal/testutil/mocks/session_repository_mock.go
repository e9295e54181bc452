package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/lmarek/memodeck/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Current(ctx context.Context) (*models.ReviewSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewSession), args.Error(1)
}

func (m *MockSessionRepository) SetCurrent(ctx context.Context, session *models.ReviewSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) AppendCompleted(ctx context.Context, session models.ReviewSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) CompletedSince(ctx context.Context, cutoff *time.Time) ([]models.ReviewSession, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewSession), args.Error(1)
}
