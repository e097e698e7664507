package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"socialfeed/internal/handler"
	"socialfeed/internal/httputil"
	authmw "socialfeed/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	UploadHandler  *handler.UploadHandler
	JWTSecret      string

	// When set, files under this directory are served at /uploads/*.
	// Empty when uploads go to remote storage.
	StaticUploadDir string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Locally stored uploads
	if cfg.StaticUploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.StaticUploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Feed and post endpoints
		r.Get("/posts", cfg.PostHandler.GetFeed)
		r.Post("/posts", cfg.PostHandler.Create)
		r.Post("/posts/{id}/likes", cfg.PostHandler.ToggleLike)
		r.Get("/posts/{id}/likes", cfg.PostHandler.GetLikers)

		// Comment endpoints
		r.Get("/posts/{id}/comments", cfg.CommentHandler.GetComments)
		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Post("/comments/{id}/likes", cfg.CommentHandler.ToggleLike)
		r.Get("/comments/{id}/likes", cfg.CommentHandler.GetLikers)

		// Upload endpoints
		r.Post("/uploads/post-image", cfg.UploadHandler.UploadPostImage)
	})

	return r
}
