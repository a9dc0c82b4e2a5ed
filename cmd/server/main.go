package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mindhaven/companion-backend/internal/agents"
	"github.com/mindhaven/companion-backend/internal/config"
	"github.com/mindhaven/companion-backend/internal/database"
	"github.com/mindhaven/companion-backend/internal/handlers"
	"github.com/mindhaven/companion-backend/internal/logging"
	"github.com/mindhaven/companion-backend/internal/middleware"
	"github.com/mindhaven/companion-backend/internal/routes"
	"github.com/mindhaven/companion-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if cfg.AnthropicAPIKey == "" {
		logger.Warn("ANTHROPIC_API_KEY not set; agent calls will fail and fall back to canned responses")
	}

	// Document store (Cosmos DB over its MongoDB wire API)
	logger.Info("Connecting to Cosmos DB...")
	db, err := database.Connect(cfg.CosmosMongoURI, cfg.CosmosDBName)
	if err != nil {
		logger.Fatal("Failed to connect to Cosmos DB", zap.Error(err))
	}
	defer database.Disconnect(db)

	store := services.NewCosmosStore(db)
	if err := store.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure document store indexes", zap.Error(err))
	}

	// Safety audit log (PostgreSQL)
	logger.Info("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pg.Close()
	auditor := services.NewPostgresAuditor(pg)

	// Redis for rate limiting and the insights cache
	logger.Info("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()
	cache := services.NewCache(rdb)

	// Avatar uploads are optional; the rest of the API works without them.
	var uploads *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		uploads, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("Failed to initialize Cloudinary; avatar uploads disabled", zap.Error(err))
			uploads = nil
		}
	} else {
		logger.Info("Cloudinary credentials not found; avatar uploads disabled")
	}

	completer := agents.NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.ConversationModel, cfg.ClassificationModel)
	agentSvc := agents.NewService(completer, logger)

	h := routes.Handlers{
		Auth:        handlers.NewAuthHandler(store, uploads, cfg.JWTSecret, cfg.JWTExpiry, logger),
		Journal:     handlers.NewJournalHandler(store, agentSvc, auditor, logger),
		Mood:        handlers.NewMoodHandler(store, agentSvc, logger),
		Mindfulness: handlers.NewMindfulnessHandler(store, logger),
		Insights:    handlers.NewInsightsHandler(store, agentSvc, cache, logger),
		Chat:        handlers.NewChatHandler(store, agentSvc, auditor, cfg.JWTSecret, logger),
		Users:       store,
		JWTSecret:   cfg.JWTSecret,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(rdb))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
	}

	routes.SetupRoutes(r, h)

	logger.Info("Companion backend running", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
