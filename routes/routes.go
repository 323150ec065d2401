package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/grims-squad/clan-backend/handlers"
	"github.com/grims-squad/clan-backend/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	resultsHandler *handlers.ResultsHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	profileHandler *handlers.ProfileHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
		r.Get("/{tournamentID}/results", resultsHandler.ListHandler)

		// Admin console operations.
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Post("/", tournamentHandler.CreateHandler)
			r.Put("/{tournamentID}/status", tournamentHandler.UpdateStatusHandler)
			r.Post("/{tournamentID}/image", tournamentHandler.UploadImageHandler)
			r.Post("/{tournamentID}/results", resultsHandler.SubmitHandler)
		})
	})

	router.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", leaderboardHandler.ListHandler)
		r.Get("/top", leaderboardHandler.TopHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Put("/players/{playerID}/points", leaderboardHandler.SetPointsHandler)
		})
	})

	router.Route("/profiles", func(r chi.Router) {
		r.Get("/", profileHandler.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Put("/me", profileHandler.UpdateMeHandler)
			r.Post("/me/avatar", profileHandler.UploadAvatarHandler)
			r.Delete("/me/avatar", profileHandler.DeleteAvatarHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)

			r.Put("/{inGameName}/stats", profileHandler.SetStatsHandler)
		})

		r.Get("/{inGameName}", profileHandler.GetByNameHandler)
	})

	router.Get("/ws/leaderboard", webSocketHandler.ServeLeaderboard)
}
