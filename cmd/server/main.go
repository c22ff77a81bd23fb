package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/taskboard/internal/config"
	"github.com/yukikurage/taskboard/internal/handlers"
	"github.com/yukikurage/taskboard/internal/metrics"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/seed"
	"github.com/yukikurage/taskboard/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// Open the persistence backend
	backend, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer backend.Close()

	repo := repository.NewCollectionRepository(backend.KV, cfg.StorageKeyPrefix, logger)

	if cfg.SeedDemoData {
		if _, err := seed.Run(ctx, repo, seed.Options{}, logger); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Initialize services
	var store *services.Store
	authService := services.NewAuthService(repo,
		services.WithAuthLogger(logger),
		services.WithUserCreatedHook(func(u models.User) { store.TrackUser(u) }),
	)
	store = services.NewStore(repo, authService, services.WithStoreLogger(logger))

	authService.Restore(ctx)
	store.Hydrate(ctx)

	// Log every committed change
	unsubscribe := logChanges(store, logger)
	defer unsubscribe()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.GinMiddleware())

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	// Configure session options based on environment
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // notifications are short-lived
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(handlers.SessionCookieName, sessionStore))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterRoutes(r, handlers.Dependencies{
		Auth:  authService,
		Store: store,
	})

	// Start server
	log.Printf("Server starting on %s (storage: %s)", cfg.ListenAddr, backend.Driver)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// logChanges writes each committed store mutation to logger at debug level.
func logChanges(store *services.Store, logger *slog.Logger) func() {
	return store.Subscribe(func(change services.Change) {
		logger.Debug("store changed",
			slog.String("collection", change.Collection),
			slog.String("op", change.Op),
			slog.String("id", change.ID),
		)
	})
}

// newSessionStore keeps notification sessions next to the data when Redis is
// the backend and in a signed cookie otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.StorageDriver == config.DriverRedis {
		store, err := redisStore.NewStoreWithDB(
			10,            // Redis pool size
			"tcp",         // network type
			cfg.RedisAddr, // Redis address from config
			cfg.RedisPassword,
			strconv.Itoa(cfg.RedisDB),
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return cookie.NewStore([]byte(cfg.SessionSecret)), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
