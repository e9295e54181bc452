package api

import (
	"database/sql"

	"github.com/lmarek/memodeck/internal/services"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	ReviewService services.ReviewService
	CardService   services.CardService
	DB            *sql.DB // readiness probe only
}
