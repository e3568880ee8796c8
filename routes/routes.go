package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dropzone-gg/warzone-tournaments/handlers"
	"github.com/dropzone-gg/warzone-tournaments/middleware"
	"github.com/dropzone-gg/warzone-tournaments/models"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Team        *handlers.TeamHandler
	Match       *handlers.MatchHandler
	Leaderboard *handlers.LeaderboardHandler
	WebSocket   *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret []byte) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	moderatorsOnly := middleware.Authorize(models.RoleModerator, models.RoleAdmin)

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Post("/auth/register", h.Auth.RegisterHandler)
	router.Post("/auth/login", h.Auth.LoginHandler)

	router.Route("/tournaments", func(r chi.Router) {
		// Public read surface: spectators follow the board without a token.
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/code/{code}", h.Tournament.GetByCodeHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/leaderboard", h.Leaderboard.GetHandler)

		// Team registration is open while the tournament accepts entries.
		r.Post("/{tournamentID}/teams", h.Team.RegisterHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(moderatorsOnly)

			r.Post("/", h.Tournament.CreateHandler)
			r.Patch("/{tournamentID}/status", h.Tournament.UpdateStatusHandler)
			r.Get("/{tournamentID}/audit", h.Tournament.AuditLogHandler)
			r.Get("/{tournamentID}/matches/pending", h.Match.ListPendingHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", h.Team.GetByIDHandler)
		r.Get("/{teamID}/stats", h.Leaderboard.TeamStatsHandler)
		r.Get("/{teamID}/adjustments", h.Team.ListAdjustmentsHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(moderatorsOnly)

			r.Post("/{teamID}/adjustments", h.Team.AddAdjustmentHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		// Submission authenticates with the team access code in the body. A
		// bearer token is only needed for the manual score override.
		r.With(middleware.AuthenticateOptional(jwtSecret)).Post("/", h.Match.SubmitHandler)
		r.Get("/{matchID}", h.Match.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(moderatorsOnly)

			r.Patch("/{matchID}/review", h.Match.ReviewHandler)
		})
	})

	// Uploads carry the team access code as a form field, or a bearer token.
	router.With(middleware.AuthenticateOptional(jwtSecret)).Post("/evidence", h.Match.UploadEvidenceHandler)

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	return router
}
