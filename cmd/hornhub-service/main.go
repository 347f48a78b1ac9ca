package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hornhub/hornhub-service/internal/catalog"
	"github.com/hornhub/hornhub-service/internal/config"
	"github.com/hornhub/hornhub-service/internal/events"
	authHandlers "github.com/hornhub/hornhub-service/internal/http/handlers/auth"
	feedHandlers "github.com/hornhub/hornhub-service/internal/http/handlers/feed"
	uploadHandlers "github.com/hornhub/hornhub-service/internal/http/handlers/upload"
	wsHandlers "github.com/hornhub/hornhub-service/internal/http/handlers/websocket"
	"github.com/hornhub/hornhub-service/internal/http/middleware"
	"github.com/hornhub/hornhub-service/internal/kvstore"
	"github.com/hornhub/hornhub-service/internal/objectstore"
	"github.com/hornhub/hornhub-service/internal/profiles"
	"github.com/hornhub/hornhub-service/internal/ratelimit"
	mediaService "github.com/hornhub/hornhub-service/internal/services/media"
	"github.com/hornhub/hornhub-service/internal/session"
	"github.com/hornhub/hornhub-service/internal/websocket"
)

func main() {
	// load config
	cfg := config.MustLoad()

	// persistence setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	slog.Info("Connected to Redis")

	kv := kvstore.NewRedisStore(redisClient)

	// profile directory
	directory := profiles.Default()
	if len(cfg.Profiles) > 0 {
		var err error
		directory, err = profiles.New(cfg.Profiles)
		if err != nil {
			log.Fatal("Failed to build profile directory:", err)
		}
	}

	sessions := session.NewStore(kv, directory)
	mediaCatalog := catalog.New(kv)

	// object storage
	objects, err := objectstore.NewMinIOStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}
	slog.Info("Connected to object storage", slog.String("bucket", cfg.MinIO.BucketName))

	// live events
	hub := websocket.NewHub()
	go hub.Run()
	publisher := events.NewEventPublisher(hub)

	gateway := mediaService.NewGateway(objects, mediaCatalog, sessions, publisher)

	uploads := uploadHandlers.NewHandlers(gateway)
	uploadLimiter := ratelimit.NewTokenBucket(redisClient, cfg.Uploads.PerMinute, cfg.Uploads.PerMinute)

	authed := middleware.AuthMiddleware(cfg.JWTSecret)
	limited := middleware.RateLimit(uploadLimiter, "upload")

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("POST /login", authHandlers.Login(sessions, cfg.JWTSecret))
	router.Handle("POST /logout", authed(authHandlers.Logout(sessions)))
	router.Handle("GET /me", authed(authHandlers.Me(sessions)))
	router.Handle("GET /feed", authed(feedHandlers.Feed(mediaCatalog, directory)))
	router.Handle("GET /gallery", authed(feedHandlers.Gallery(mediaCatalog, directory)))
	router.Handle("POST /upload/video", authed(limited(uploads.Video())))
	router.Handle("POST /upload/image", authed(limited(uploads.Image())))
	router.Handle("POST /upload/profile-picture", authed(limited(uploads.ProfilePicture())))
	router.HandleFunc("GET /ws", wsHandlers.Handler(hub, cfg.JWTSecret))

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
