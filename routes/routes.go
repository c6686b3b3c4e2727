package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mkcho/worldcup-backend/auth"
	"github.com/mkcho/worldcup-backend/handlers"
	"github.com/mkcho/worldcup-backend/middleware"
)

// SetupRoutes собирает публичные и админские маршруты. CORS пускает только
// фронтенд-ориджин, cookie ходят через credentials.
func SetupRoutes(
	router *chi.Mux,
	frontendOrigin string,
	sessions auth.SessionStore,
	adminHandler *handlers.AdminHandler,
	tournamentHandler *handlers.TournamentHandler,
	resultHandler *handlers.ResultHandler,
	commentHandler *handlers.CommentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	router.Route("/admin", func(r chi.Router) {
		r.Post("/login", adminHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(sessions))

			r.Post("/tournaments", adminHandler.CreateWorldcup)
			r.Post("/uploads", adminHandler.UploadImages)
		})
	})

	router.Route("/public/worldcup", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{shortID}", tournamentHandler.GetGamePayload)

		r.Post("/{shortID}/result", resultHandler.Submit)
		r.Get("/{shortID}/result", resultHandler.GetLatest)

		r.Get("/{shortID}/comments", commentHandler.List)
		r.Post("/{shortID}/comments", commentHandler.Submit)

		r.Get("/{shortID}/live", webSocketHandler.ServeLive)
	})
}
