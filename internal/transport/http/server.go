package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/handler"
	"socialfeed/internal/repository"
	"socialfeed/internal/service"
	"socialfeed/internal/storage"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 4. Upload storage: R2 when configured, local disk otherwise
	var store storage.Storage
	staticUploadDir := ""
	if cfg.UseR2() {
		r2, err := storage.NewR2Storage(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("failed to set up R2 storage: %w", err)
		}
		store = r2
		log.Println("Uploads go to Cloudflare R2")
	} else {
		local, err := storage.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("failed to set up local storage: %w", err)
		}
		store = local
		staticUploadDir = local.Dir()
		log.Printf("Uploads go to local directory %s", local.Dir())
	}

	// 5. Services
	authService := service.NewAuthService(userRepo, cfg)
	postService := service.NewPostService(postRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)
	uploadService := service.NewUploadService(store)

	// 6. Handlers and Router
	router := NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(authService),
		PostHandler:     handler.NewPostHandler(postService),
		CommentHandler:  handler.NewCommentHandler(commentService),
		UploadHandler:   handler.NewUploadHandler(uploadService),
		JWTSecret:       cfg.JWTSecret,
		StaticUploadDir: staticUploadDir,
	})

	// 7. Start Server
	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
