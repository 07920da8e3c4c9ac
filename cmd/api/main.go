package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-eta-api/config"
	"delivery-eta-api/features"
	"delivery-eta-api/handlers"
	"delivery-eta-api/models"
	"delivery-eta-api/predictor"
	"delivery-eta-api/schema"
	"delivery-eta-api/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Model artifacts: nothing is served until both load.
	featureSchema, err := schema.Load(cfg.Model.FeaturesPath)
	if err != nil {
		log.Fatalf("Failed to load feature schema: %v", err)
	}
	aligner, err := schema.NewAligner(featureSchema)
	if err != nil {
		log.Fatalf("Failed to build aligner: %v", err)
	}
	model, err := predictor.Load(cfg.Model.ModelPath, featureSchema)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	builder, err := features.NewBuilder(model.Variant())
	if err != nil {
		log.Fatalf("Failed to build feature builder: %v", err)
	}
	log.Printf("model loaded: version=%s variant=%s features=%d",
		model.Version(), model.Variant(), featureSchema.Len())

	// Redis is optional: estimates are served uncached without it.
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
	}
	defer cache.Close()

	estimator, err := services.NewEstimatorService(builder, aligner, model, cache,
		time.Duration(cfg.Cache.EstimateTTLSec)*time.Second)
	if err != nil {
		log.Fatalf("Failed to build estimator: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to migrate users: %v", err)
	}

	var board *services.LoadBoard
	if cfg.MQTT.Enabled() {
		board = services.NewLoadBoard(cache, time.Duration(cfg.MQTT.LoadTTLSec)*time.Second)
		if err := board.Connect(ctx, cfg.MQTT); err != nil {
			log.Fatalf("Failed to connect load feed: %v", err)
		}
		defer board.Close()
	}

	router := handlers.NewRouter(handlers.Deps{
		Estimator: estimator,
		Board:     board,
		Cache:     cache,
		Auth:      services.NewAuthService(cfg.JWT),
		DB:        db,
		CORS:      cfg.CORS,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
