package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"lawlow/internal/auth"
	"lawlow/internal/config"
	"lawlow/internal/domain/models"
	"lawlow/internal/handler"
	"lawlow/internal/middleware"
	"lawlow/internal/repository/postgres"
	serviceAuth "lawlow/internal/service/auth"
	"lawlow/internal/service/law"
	"lawlow/internal/service/law/external"
	serviceLLM "lawlow/internal/service/llm"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.OpenLogFile(cfg.LogDir, config.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Access tokens: JWKS when configured, otherwise our own HS256 secret
	var accessVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		accessVerifier, err = auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	} else {
		accessVerifier, err = auth.NewHMACVerifier([]byte(cfg.JWTSecret), models.TokenTypeAccess, logger)
	}
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer accessVerifier.Close()

	refreshVerifier, err := auth.NewHMACVerifier([]byte(cfg.JWTRefreshSecret), models.TokenTypeRefresh, logger)
	if err != nil {
		log.Fatalf("Failed to create refresh token verifier: %v", err)
	}
	defer refreshVerifier.Close()

	tokenIssuer, err := auth.NewTokenIssuer(
		[]byte(cfg.JWTSecret),
		[]byte(cfg.JWTRefreshSecret),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		"lawlow",
	)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.Migrate(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	logger.Info("database connected", "max_conns", pool.Config().MaxConns)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Upstream law API with a short-lived detail cache in front
	lawClient := law.NewCachedLawClient(
		external.NewLawGoClient(cfg.LawAPIKey, cfg.LawAPIBaseURL, cfg.LawAPITimeout),
		cfg.DetailCacheSize,
		cfg.DetailCacheTTL,
	)

	// Create services
	lawService := law.NewLawService(lawClient, cfg.FanOutLimit, logger)
	bookmarkService := law.NewBookmarkService(bookmarkRepo, lawService, cfg.FanOutLimit, logger)
	summaryService, err := serviceLLM.SetupSummary(cfg, lawService, logger)
	if err != nil {
		log.Fatalf("Failed to setup summary service: %v", err)
	}
	authService := serviceAuth.NewService(
		auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
		tokenIssuer,
		refreshVerifier,
		userRepo,
		txManager,
		logger,
	)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Law:      handler.NewLawHandler(lawService, bookmarkService, logger),
		Bookmark: handler.NewBookmarkHandler(bookmarkService, logger),
		Summary:  handler.NewSummaryHandler(summaryService, nil, logger),
		Auth: handler.NewAuthHandler(
			authService,
			handler.CookieConfig{Secure: cfg.IsProduction(), RefreshTTL: tokenIssuer.RefreshTTL()},
			cfg.ClientURL,
			logger,
		),
	}, middleware.NewThrottle(cfg.ThrottleLimit, cfg.ThrottleWindow, logger).TrustProxies(cfg.TrustedProxies))

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → RequestLogger → Auth → Routes
	h = middleware.AuthMiddleware(accessVerifier, logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
