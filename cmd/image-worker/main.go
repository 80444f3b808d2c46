package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/shubhvenue/shubhvenue-api/internal/config"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/photo"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/database"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/imaging"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/logger"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().Str("env", cfg.Env).Msg("Starting image worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	store, err := storage.New(storage.Config{
		Driver:    cfg.StorageDriver,
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
		LocalDir:  cfg.LocalStorageDir,
		LocalURL:  cfg.LocalStorageURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage backend")
	}

	worker := photo.NewWorker(
		photo.NewRepository(db),
		store,
		imaging.NewProcessor(imaging.DefaultConfig()),
		redis,
	)

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("Shutting down image worker...")
		cancel()
	}()

	worker.Run(ctx)

	log.Info().Msg("Image worker exited properly")
}
