// Package main initializes and starts the verification server, setting
// up configuration, logging, the directory store, the ledger query
// client, services, handlers, and metrics.
package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/educhain/records/internal/config"
	"github.com/educhain/records/internal/db"
	"github.com/educhain/records/internal/logger"
	"github.com/educhain/records/internal/metrics"
	"github.com/educhain/records/internal/middleware"
	"github.com/educhain/records/internal/repository"
	"github.com/educhain/records/internal/server/handler/http"
	"github.com/educhain/records/internal/service"
	"github.com/educhain/records/internal/stacks"
	"github.com/educhain/records/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize metrics collection.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize the directory store: PostgreSQL when a DSN is given,
	// otherwise the seeded in-memory directory for development.
	var directory service.Directory
	var audit service.ShareAudit
	if options.DatabaseDSN != "" {
		postgresDB, err := db.InitPostgres(options.DatabaseDSN)
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}

		// Drop expired share-audit entries in the background.
		db.StartShareAuditCleaner(context.Background(), postgresDB,
			time.Hour,       // interval
			30*24*time.Hour, // retention: 30 days
			zapLogger,
		)

		directory = repository.NewPostgresDirectory(postgresDB)
		audit = repository.NewPostgresShareAudit(postgresDB)
	} else {
		zapLogger.Info("no database configured, using seeded in-memory directory")
		directory = repository.NewMemoryDirectory(repository.SeedUsers())
	}

	// Initialize the ledger query client for the on-chain cross-check.
	httpClient := &nethttp.Client{Timeout: 15 * time.Second}
	queryClient := stacks.NewQueryClient(httpClient, options.CoreAPIURL,
		options.ContractAddress, options.ContractName, options.ReadSender,
		nil, zapLogger, collector)

	// Initialize the token service. Without a configured secret an
	// ephemeral one is generated; links then survive only this process.
	secret := []byte(options.TokenSecret)
	if len(secret) == 0 {
		zapLogger.Warn("no token secret configured, generating an ephemeral one")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			zapLogger.Fatal("failed to generate token secret", zap.Error(err))
		}
	}
	tokens := token.NewService(secret)

	// Initialize business-logic services.
	verificationService := service.NewVerificationService(directory, queryClient, zapLogger)
	shareService := service.NewShareService(tokens, verificationService, audit, collector, options.BaseURL, zapLogger)

	// Create HTTP handlers for the verification endpoints.
	verifyHandler := &http.VerifyHandler{VerifyService: verificationService}
	shareHandler := &http.ShareHandler{ShareService: shareService}

	// Build the router with middleware and routes.
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(), zapLogger)
	defer limiter.Stop()
	router := http.NewRouter(verifyHandler, shareHandler, limiter, registry, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
