package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/acutialens/photo-marketplace/internal/config"          // Internal config loader
	"github.com/acutialens/photo-marketplace/internal/database"        // MySQL connection helper
	"github.com/acutialens/photo-marketplace/internal/handler"         // HTTP handlers
	"github.com/acutialens/photo-marketplace/internal/middleware"      // Cache and rate-limit middleware
	"github.com/acutialens/photo-marketplace/internal/queue"           // Background order consumer
	"github.com/acutialens/photo-marketplace/internal/repository"      // DB repositories
	"github.com/acutialens/photo-marketplace/internal/router"          // Internal router setup
	"github.com/acutialens/photo-marketplace/internal/service/payment" // Payment authorization
	"github.com/acutialens/photo-marketplace/internal/storage"         // Pluggable asset storage
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config; fatal on missing vars

	// MySQL connection with pool settings and a startup ping.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Storage strategy was resolved once in config.Load; construct it.
	store, err := storage.New(cfg.StorageBackend, cfg.UploadDir, cfg.ObjectStorage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	log.Printf("storage backend: %s", cfg.StorageBackend)

	// Redis backs the response cache and the rate limiter.  A nil
	// client disables both middlewares; the API itself keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	photographers := repository.NewPhotographerRepo(db)
	events := repository.NewEventRepo(db)
	photos := repository.NewPhotoRepo(db)
	orders := repository.NewOrderRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	stats := repository.NewStatsRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens, photographers)
	eventH := handler.NewEventHandler(events)
	photoH := handler.NewPhotoHandler(photos, photographers, store)
	orderH := handler.NewOrderHandler(orders, photos, payment.NewAutoApprover())
	favoriteH := handler.NewFavoriteHandler(favorites, photos)
	adminH := handler.NewAdminHandler(stats, photographers, photos)
	searchH := handler.NewSearchHandler(photos)
	webhookH := handler.NewWebhookHandler()

	e := echo.New() // Create Echo instance

	// Public browse routes get the Redis response cache plus the token
	// bucket rate limiter; both collapse to pass-through when rdb is nil.
	browseMW := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	}

	router.RegisterRoutes(e) // Health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, eventH, photoH, searchH, webhookH, browseMW...)
	router.RegisterClient(e, orderH, favoriteH, cfg.JWTSecret)
	router.RegisterPhotographer(e, photoH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, eventH, cfg.JWTSecret)

	// Local storage references are paths under /uploads; serve them
	// straight from disk.  Object storage references are absolute URLs
	// and never hit this route.
	if cfg.StorageBackend == storage.BackendLocal {
		e.Static("/uploads", cfg.UploadDir)
	}

	// Consume order.approved events in the background; the consumer
	// runs its own reconnect loop and never stops the server.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
