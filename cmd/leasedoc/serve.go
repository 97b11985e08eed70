package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"leasedoc/internal/auth"
	"leasedoc/internal/capabilities"
	"leasedoc/internal/domain/services"
	"leasedoc/internal/handler"
	"leasedoc/internal/metrics"
	"leasedoc/internal/middleware"
	"leasedoc/internal/repository/postgres"
	"leasedoc/internal/service/document"
	"leasedoc/internal/service/llm"
	"leasedoc/internal/service/signature"
	"leasedoc/internal/service/signature/dropboxsign"
)

// shutdownTimeout bounds in-flight generation requests on SIGTERM
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"generation_provider", cfg.GenerationProvider,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		return fmt.Errorf("create JWT verifier: %w", err)
	}
	defer jwtVerifier.Close()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connected")

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	usageRepo := postgres.NewUsageRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		return fmt.Errorf("load capability registry: %w", err)
	}

	generationClient, err := llm.NewGenerationClient(cfg, capabilityRegistry, logger)
	if err != nil {
		return err
	}

	m := metrics.New()

	docService := document.NewDocumentService(
		docRepo,
		usageRepo,
		txManager,
		generationClient,
		cfg.MonthlyGenerationLimit,
		m,
		logger,
	)

	// Signature support is optional: sending needs a provider key, the
	// callback endpoint needs the shared secret.
	var signatureService services.SignatureService
	if cfg.DropboxSignAPIKey != "" {
		provider, err := dropboxsign.NewClient(dropboxsign.Config{
			APIKey:   cfg.DropboxSignAPIKey,
			BaseURL:  cfg.DropboxSignBaseURL,
			TestMode: cfg.DropboxSignTestMode,
		}, logger)
		if err != nil {
			return err
		}
		signatureService = signature.NewSignatureService(docRepo, provider, m, logger)
		logger.Info("signature provider ready", "test_mode", cfg.DropboxSignTestMode)
	} else {
		logger.Warn("DROPBOX_SIGN_API_KEY not set, sending for signature is disabled")
	}

	var webhooks services.WebhookHandler
	if cfg.SignatureWebhookSecret != "" {
		verifier, err := signature.NewVerifier(cfg.SignatureWebhookSecret)
		if err != nil {
			return err
		}
		webhooks = signature.NewProcessor(docRepo, verifier, m, logger)
	} else {
		logger.Warn("SIGNATURE_WEBHOOK_SECRET not set, signature callbacks are refused")
	}

	mux := handler.NewRouter(handler.Routes{
		Documents:  handler.NewDocumentHandler(docService, logger),
		Signatures: handler.NewSignatureHandler(signatureService, webhooks, logger),
		Models:     handler.NewModelsHandler(cfg, logger, capabilityRegistry),
		Metrics:    m.Handler(),
	})

	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS must run before auth so OPTIONS pre-flights are answered
	h = cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}).Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second, // a generation can take the whole GENERATION_TIMEOUT
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
