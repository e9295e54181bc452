package api

import (
	"net/http"

	"github.com/lmarek/memodeck/internal/models"
)

func (s *Server) handleLearningStats(w http.ResponseWriter, r *http.Request) {
	timeRange := models.TimeRange(r.URL.Query().Get("range"))
	if timeRange == "" {
		timeRange = models.TimeRangeAll
	}

	stats, err := s.ReviewService.LearningStats(r.Context(), timeRange)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
