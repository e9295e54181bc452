package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lmarek/memodeck/internal/models"
	"github.com/lmarek/memodeck/internal/repository"
	"github.com/lmarek/memodeck/internal/repository/sqlite"
	"github.com/lmarek/memodeck/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.CardRepository
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) newCard(id, category string) models.Card {
	return models.Card{
		ID:           id,
		ContentID:    "content-1",
		Category:     category,
		Tags:         []string{"intro", "vocab"},
		Question:     "What is the capital of France?",
		Answer:       "Paris",
		EaseFactor:   2.5,
		NextReviewAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		CreatedAt:    time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	card := s.newCard("card-1", "geography")

	s.Require().NoError(s.repo.Insert(ctx, card))

	got, err := s.repo.Get(ctx, "card-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("What is the capital of France?", got.Question)
	s.Assert().Equal([]string{"intro", "vocab"}, got.Tags)
	s.Assert().Equal(2.5, got.EaseFactor)
	s.Assert().Nil(got.LastReviewedAt)
}

func (s *CardRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), "nope")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *CardRepositorySuite) TestUpdate() {
	ctx := context.Background()
	card := s.newCard("card-1", "geography")
	s.Require().NoError(s.repo.Insert(ctx, card))

	reviewed := time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)
	card.EaseFactor = 2.6
	card.IntervalDays = 6
	card.Repetitions = 2
	card.LastReviewedAt = &reviewed
	card.NextReviewAt = reviewed.AddDate(0, 0, 6)
	card.Stats = models.CardStats{
		TotalReviews:        2,
		CorrectReviews:      2,
		AverageResponseTime: 8.5,
		LastResponseTime:    7.0,
		Streak:              2,
	}

	s.Require().NoError(s.repo.Update(ctx, card))

	got, err := s.repo.Get(ctx, "card-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(6, got.IntervalDays)
	s.Assert().Equal(2, got.Repetitions)
	s.Assert().Equal(2.6, got.EaseFactor)
	s.Assert().Equal(2, got.Stats.TotalReviews)
	s.Assert().Equal(8.5, got.Stats.AverageResponseTime)
	s.Require().NotNil(got.LastReviewedAt)
	s.Assert().True(got.LastReviewedAt.Equal(reviewed))
}

func (s *CardRepositorySuite) TestUpdateMissingCard() {
	err := s.repo.Update(context.Background(), s.newCard("ghost", ""))
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *CardRepositorySuite) TestListFiltersByCategory() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-1", "geography")))
	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-2", "history")))
	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-3", "geography")))

	all, err := s.repo.List(ctx, "")
	s.Require().NoError(err)
	s.Assert().Len(all, 3)

	geo, err := s.repo.List(ctx, "geography")
	s.Require().NoError(err)
	s.Assert().Len(geo, 2)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
