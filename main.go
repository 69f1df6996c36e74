// Command blogql-go serves a blog backend: user registration, login and post
// creation over a single GraphQL endpoint, backed by MongoDB, with image
// upload/serving and a live SSE feed of newly created posts.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gqlhandler "github.com/graphql-go/handler"
	"github.com/joho/godotenv"

	"github.com/user/blogql-go/auth"
	"github.com/user/blogql-go/background"
	"github.com/user/blogql-go/config"
	"github.com/user/blogql-go/db"
	"github.com/user/blogql-go/feed"
	"github.com/user/blogql-go/graph"
	"github.com/user/blogql-go/posts"
	"github.com/user/blogql-go/upload"
	"github.com/user/blogql-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := db.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Printf("Failed to disconnect from database: %v", err)
		}
	}()

	userRepo := users.NewRepository(store.Users())
	postRepo := posts.NewRepository(store.Posts())
	credentials := auth.NewService(*cfg.Auth)
	broadcaster := feed.NewBroadcaster()

	resolvers := graph.NewResolvers(userRepo, postRepo, credentials, broadcaster)
	schema, err := graph.NewSchema(resolvers)
	if err != nil {
		log.Fatalf("Failed to build GraphQL schema: %v", err)
	}
	graphHandler := graph.NewHandler(schema)

	uploadHandler, err := upload.NewHandler(cfg.Upload.ImageDir)
	if err != nil {
		log.Fatalf("Failed to prepare image directory: %v", err)
	}

	// Unreferenced uploads are cleaned up out of band; interval 0 disables it.
	sweeperStop := make(chan struct{})
	if cfg.Upload.SweepInterval > 0 {
		background.StartImageSweeper(postRepo, cfg.Upload.ImageDir, cfg.Upload.SweepInterval, sweeperStop)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// The auth middleware attaches a verdict to every request and never
	// rejects; gating happens inside the resolvers.
	r.Use(auth.Middleware(credentials))

	r.Handle("/graphql", graphHandler)
	r.Handle("/playground", gqlhandler.New(&gqlhandler.Config{
		Schema:     &schema,
		Pretty:     true,
		Playground: true,
	}))

	r.Post("/images", uploadHandler.HandleUpload())
	r.Get("/images/*", uploadHandler.HandleServe().ServeHTTP)
	r.Get("/feed/live", broadcaster.HandleStream())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	close(sweeperStop)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
