package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/shubhvenue/shubhvenue-api/internal/config"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/admin"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/auth"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/booking"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/favorite"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/listing"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/notification"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/photo"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/review"
	"github.com/shubhvenue/shubhvenue-api/internal/domain/user"
	"github.com/shubhvenue/shubhvenue-api/internal/middleware"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/database"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/events"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/firebase"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/jwt"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/logger"
	pkgresponse "github.com/shubhvenue/shubhvenue-api/internal/pkg/response"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/storage"
	"github.com/shubhvenue/shubhvenue-api/internal/pkg/ticket"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting ShubhVenue API")

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

	// Booking event fanout is optional; without a broker the API still
	// runs, events are just not published.
	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer publisher.Close()
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	tickets := ticket.NewGenerator(cfg.TicketSigningSecret)

	var firebaseVerifier auth.FirebaseVerifier
	if cfg.FirebaseProjectID != "" {
		firebaseVerifier = firebase.NewClient(cfg.FirebaseProjectID, time.Duration(cfg.FirebaseTimeoutSeconds)*time.Second)
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	favoriteRepo := favorite.NewRepository(db)
	photoRepo := photo.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()

	// ---------- Services ----------
	listingCache := listing.NewCache(redis)
	listingService := listing.NewService(listingRepo, listingCache)
	authService := auth.NewService(userRepo, auth.NewTokenStore(redis), jwtService, firebaseVerifier)
	notificationService := notification.NewService(notificationRepo, hub)
	reviewService := review.NewService(reviewRepo, listingService, userRepo)
	bookingService := booking.NewService(bookingRepo, listingService, userRepo, notificationService, publisher, tickets)
	photoService := photo.NewService(photoRepo, listingService, store, redis, int64(cfg.MaxPhotoSizeMB)<<20)
	adminService := admin.NewService(db, userRepo, listingService, bookingRepo, notificationService)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	listingHandler := listing.NewHandler(listingService)
	reviewHandler := review.NewHandler(reviewService)
	bookingHandler := booking.NewHandler(bookingService)
	notificationHandler := notification.NewHandler(notificationService, hub, jwtService)
	favoriteHandler := favorite.NewHandler(favoriteRepo, listingService)
	photoHandler := photo.NewHandler(photoService)
	adminHandler := admin.NewHandler(adminService, userRepo, listingService)

	// ---------- Middleware ----------
	authMiddleware := middleware.Auth(jwtService)
	guestOnly := middleware.RequireGuest()
	vendorOnly := middleware.RequireVendor()
	staffOnly := middleware.RequireStaff()
	adminOnly := middleware.RequireAdmin()
	photoManagers := middleware.RequireRole("vendor", "admin")

	authLimiter := middleware.NewRateLimiter(rate.Limit(5), 10)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint authenticates via token query param
	r.Get("/ws", notificationHandler.ServeWS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if cfg.StorageDriver == "local" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalStorageDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.With(authLimiter.Limit).Mount("/auth", auth.Routes(authHandler, authMiddleware))

		// Reviews and photos hang off the listings router
		listingRoutes := listing.Routes(listingHandler, authMiddleware, vendorOnly)
		review.RegisterListingRoutes(listingRoutes, reviewHandler, authMiddleware, guestOnly)
		photo.RegisterListingRoutes(listingRoutes, photoHandler, authMiddleware, photoManagers)
		r.Mount("/listings", listingRoutes)

		r.With(authMiddleware, vendorOnly).Get("/vendors/me/listings", listingHandler.VendorListings)

		r.Mount("/reviews", review.Routes(reviewHandler, authMiddleware))
		r.Mount("/bookings", booking.Routes(bookingHandler, authMiddleware, guestOnly, vendorOnly))
		r.Mount("/favorites", favorite.Routes(favoriteHandler, authMiddleware))
		r.Mount("/notifications", notification.Routes(notificationHandler, authMiddleware))
		r.Mount("/photos", photo.Routes(photoHandler, authMiddleware, photoManagers))
		r.Mount("/admin", admin.Routes(adminHandler, authMiddleware, staffOnly, adminOnly))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	hub.Shutdown()

	log.Info().Msg("Server exited properly")
}
