package http

import (
	"net/http"

	"github.com/vedran77/tasty/internal/transport/http/handlers"
	"github.com/vedran77/tasty/internal/transport/http/middleware"
)

// NewRouter wires every route. The ws feed handler is optional; tests run
// without it.
func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	recipeHandler *handlers.RecipeHandler,
	feedSocket http.HandlerFunc,
	jwtSecret string,
) http.Handler {
	auth := middleware.Auth(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)

	// Profile
	mux.Handle("GET /api/v1/user", auth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("PATCH /api/v1/user", auth(http.HandlerFunc(userHandler.Update)))

	// Recipes
	mux.Handle("POST /api/v1/recipes", auth(http.HandlerFunc(recipeHandler.Create)))
	mux.Handle("GET /api/v1/recipes", optionalAuth(http.HandlerFunc(recipeHandler.List)))
	mux.Handle("GET /api/v1/recipes/{id}", optionalAuth(http.HandlerFunc(recipeHandler.Get)))
	mux.Handle("PATCH /api/v1/recipes/{id}", auth(http.HandlerFunc(recipeHandler.Update)))
	mux.Handle("DELETE /api/v1/recipes/{id}", auth(http.HandlerFunc(recipeHandler.Delete)))
	mux.Handle("POST /api/v1/recipes/{id}/like", auth(http.HandlerFunc(recipeHandler.Like)))
	mux.Handle("POST /api/v1/recipes/{id}/rate", auth(http.HandlerFunc(recipeHandler.Rate)))

	// Public feed
	mux.HandleFunc("GET /api/v1/published-recipes", recipeHandler.PublishedFeed)
	if feedSocket != nil {
		mux.HandleFunc("GET /api/v1/ws/feed", feedSocket)
	}

	return middleware.RequestLogger(middleware.CORS(mux))
}
