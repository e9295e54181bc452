package api

import (
	"net/http"

	"github.com/lmarek/memodeck/internal/logger"
)

type startSessionRequest struct {
	Categories []string `json:"categories"`
	CardLimit  int      `json:"card_limit" validate:"min=0"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.ReviewService.StartSession(r.Context(), req.Categories, req.CardLimit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("session started: id=%s, cards=%d", session.ID, len(session.Cards))
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleCurrentCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.ReviewService.CurrentCard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if card == nil {
		// No card left (or no session): the caller should end or start a
		// session. Not an error.
		respondJSON(w, http.StatusOK, map[string]any{"card": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"card": card})
}

type reviewCardRequest struct {
	CardID       string  `json:"card_id" validate:"required"`
	Quality      int     `json:"quality" validate:"min=0,max=5"`
	ResponseTime float64 `json:"response_time" validate:"min=0"`
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req reviewCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log = log.WithFields(map[string]any{
		"card_id": req.CardID,
		"quality": req.Quality,
	})
	log.Debug("reviewing card")

	card, err := s.ReviewService.ReviewCard(r.Context(), req.CardID, req.Quality, req.ResponseTime)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card reviewed successfully")
	respondJSON(w, http.StatusOK, card)
}

type skipCardRequest struct {
	CardID string `json:"card_id" validate:"required"`
}

func (s *Server) handleSkipCard(w http.ResponseWriter, r *http.Request) {
	var req skipCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReviewService.SkipCard(r.Context(), req.CardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"skipped": req.CardID})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	stats, err := s.ReviewService.EndSession(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("session ended: reviewed=%d/%d", stats.ReviewedCards, stats.TotalCards)
	respondJSON(w, http.StatusOK, stats)
}
