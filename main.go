package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchpredict-go/config"
	"matchpredict-go/database"
	"matchpredict-go/handlers"
	"matchpredict-go/middleware"
	"matchpredict-go/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Logging)
	log.Info().Str("environment", cfg.Server.Environment).Msg("starting matchpredict server")

	// Database
	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	// Fixture cache is optional; the app serves without it
	var fixtureCache services.FixtureCache
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(database.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without fixture cache")
		} else {
			defer redisClient.Close()
			fixtureCache = database.NewRedisFixtureCache(redisClient, cfg.App.FixtureCacheTTL)
		}
	}

	// Repositories
	userRepo := database.NewPostgresUserRepository(db)
	matchRepo := database.NewPostgresMatchRepository(db)
	predRepo := database.NewPostgresPredictionRepository(db)
	favRepo := database.NewPostgresFavoriteRepository(db)
	subRepo := database.NewPostgresSubscriptionRepository(db)
	chatRepo := database.NewPostgresChatRepository(db)
	notifRepo := database.NewPostgresNotificationRepository(db)

	// Services
	hub := services.NewEventHub()
	defer hub.Close()

	footballAPI := services.NewFootballAPIService(cfg.FootballAPI.BaseURL, cfg.FootballAPI.APIKey, cfg.FootballAPI.Timeout)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	matchService := services.NewMatchService(footballAPI, matchRepo, fixtureCache)
	predictionService := services.NewPredictionService(predRepo, matchRepo)
	statsService := services.NewStatsService(predRepo, matchRepo)
	leaderboardService := services.NewLeaderboardService(predRepo)
	notificationService := services.NewNotificationService(notifRepo, hub)
	favoriteService := services.NewFavoriteService(favRepo, matchRepo, notificationService)
	chatService := services.NewChatService(chatRepo, hub)
	resolutionService := services.NewResultResolutionService(predRepo, notificationService)
	subscriptionService := services.NewSubscriptionService(subRepo, notificationService, services.StripeConfig{
		APIKey:        cfg.Stripe.APIKey,
		PriceID:       cfg.Stripe.PriceID,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	matchHandler := handlers.NewMatchHandler(matchService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	statsHandler := handlers.NewStatsHandler(statsService, leaderboardService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	chatHandler := handlers.NewChatHandler(chatService)
	eventsHandler := handlers.NewEventsHandler(hub)
	billingHandler := handlers.NewBillingHandler(subscriptionService)
	healthHandler := handlers.NewHealthHandler(db, hub)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := mux.NewRouter()
	router.Use(middleware.SecurityMiddleware)
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestLogger)

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/matches", matchHandler.GetMatches).Methods("GET")
	api.HandleFunc("/matches/{id:[0-9]+}", matchHandler.GetMatch).Methods("GET")
	api.HandleFunc("/leaderboard", statsHandler.GetLeaderboard).Methods("GET")
	api.HandleFunc("/chat", chatHandler.GetHistory).Methods("GET")
	api.HandleFunc("/billing/webhook", billingHandler.HandleWebhook).Methods("POST")
	api.Handle("/events", authMiddleware.OptionalAuth(http.HandlerFunc(eventsHandler.Stream))).Methods("GET")

	// Authenticated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.RequireAuth)
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/predictions", predictionHandler.SubmitPrediction).Methods("POST")
	protected.HandleFunc("/predictions", predictionHandler.GetMyPredictions).Methods("GET")
	protected.HandleFunc("/stats/daily", statsHandler.GetDailyStats).Methods("GET")
	protected.HandleFunc("/stats/metrics", statsHandler.GetAdvancedMetrics).Methods("GET")
	protected.HandleFunc("/favorites", favoriteHandler.ListFavorites).Methods("GET")
	protected.HandleFunc("/favorites/{matchId:[0-9]+}", favoriteHandler.ToggleFavorite).Methods("POST")
	protected.HandleFunc("/notifications", notificationHandler.ListNotifications).Methods("GET")
	protected.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("POST")
	protected.HandleFunc("/chat", chatHandler.PostMessage).Methods("POST")
	protected.HandleFunc("/billing/checkout", billingHandler.CreateCheckoutSession).Methods("POST")
	protected.HandleFunc("/billing/subscription", billingHandler.GetSubscription).Methods("GET")

	// Background fixture polling and result resolution
	var updater *services.BackgroundUpdater
	if cfg.App.BackgroundUpdaterEnabled {
		updater = services.NewBackgroundUpdater(footballAPI, matchRepo, resolutionService, subscriptionService, hub, cfg.App.UpdateInterval)
		updater.Start()
		defer updater.Stop()
	} else {
		log.Info().Msg("background updater disabled")
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// SSE connections stay open indefinitely, so no write timeout
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
