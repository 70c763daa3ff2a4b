package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mindwell-app/mindwell-backend/internal/config"
	"github.com/mindwell-app/mindwell-backend/internal/database"
	"github.com/mindwell-app/mindwell-backend/internal/handlers"
	"github.com/mindwell-app/mindwell-backend/internal/journal"
	"github.com/mindwell-app/mindwell-backend/internal/middleware"
	"github.com/mindwell-app/mindwell-backend/internal/routes"
	"github.com/mindwell-app/mindwell-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (users, profiles)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limiting, cache, realtime)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (journal entries)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	if err := services.EnsureJournalIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure journal indexes: %v", err)
	}

	// Export storage (Cloudinary); optional
	exportStorage, err := services.NewExportStorage(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
	} else if exportStorage == nil {
		log.Println("Warning: Cloudinary credentials not found. Export uploads will not be available")
	} else {
		log.Println("✅ Export storage initialized")
	}

	// Speech recognizer (Google Cloud); optional
	recognizer, err := services.NewGoogleRecognizer(context.Background(), cfg.GoogleCredentialsFile)
	if err != nil {
		log.Printf("Warning: Failed to initialize speech recognition: %v", err)
	} else if recognizer == nil {
		log.Println("Warning: Google credentials not found. Dictation will not be available")
	} else {
		defer recognizer.Close()
		log.Println("✅ Speech recognition initialized")
	}

	// Realtime hub + advisory client + journal editor manager
	hub := services.NewRealtimeHub()
	advisory := services.NewAdvisoryClient(cfg.AdvisoryURL, cfg.AdvisoryKey)
	entryStore := services.NewMongoEntryStore()
	manager := journal.NewManager(entryStore, advisory, &handlers.HubNotifier{Hub: hub}, cfg.AutosaveInterval)

	var rec services.Recognizer
	if recognizer != nil {
		rec = recognizer
	}
	handlers.Init(manager, entryStore, advisory, rec, exportStorage, hub)
	handlers.InitAIProxy(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.AdvisoryKey)

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → GlobalRateLimit → LoginRateLimit (no host check; no CDN/proxy)
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/auth/update-password")
	log.Println("  GET  /api/profile")
	log.Println("  GET  /api/journal/session")
	log.Println("  POST /api/journal/session/mood-before")
	log.Println("  POST /api/journal/session/content")
	log.Println("  POST /api/journal/session/mood-after")
	log.Println("  POST /api/journal/session/retry")
	log.Println("  POST /api/journal/session/dictation")
	log.Println("  GET  /api/journal/entries")
	log.Println("  GET  /ws/journal")
	log.Println("  POST /api/ai")
	log.Println("  GET  /api/quote")
	log.Println("  GET  /api/insights/moods")
	log.Println("  GET  /api/insights/moods/chart.png")
	log.Println("  GET  /api/journal/export")

	log.Printf("🚀 Mindwell backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
