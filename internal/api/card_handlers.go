package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lmarek/memodeck/internal/errors"
	"github.com/lmarek/memodeck/internal/logger"
	"github.com/lmarek/memodeck/internal/services"
)

type createCardRequest struct {
	ContentID string   `json:"content_id"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Question  string   `json:"question" validate:"required"`
	Answer    string   `json:"answer" validate:"required"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.CreateCard(r.Context(), services.CreateCardInput{
		ContentID: req.ContentID,
		Category:  req.Category,
		Tags:      req.Tags,
		Question:  req.Question,
		Answer:    req.Answer,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card created: id=%s", card.ID)
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.CardService.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	category := r.URL.Query().Get("category")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Warn("invalid limit: %s", v)
			handleError(w, r, errors.NewBadRequestError("invalid limit"))
			return
		}
		limit = n
	}

	cards, err := s.ReviewService.DueCards(r.Context(), category, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"cards": cards,
		"count": len(cards),
	})
}

type previewReviewRequest struct {
	Quality int `json:"quality" validate:"min=0,max=5"`
}

// handlePreviewReview runs the scheduler against a card without persisting,
// so the UI can show the outcome for each rating button.
func (s *Server) handlePreviewReview(w http.ResponseWriter, r *http.Request) {
	var req previewReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.ReviewService.PreviewReview(r.Context(), chi.URLParam(r, "id"), req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}
