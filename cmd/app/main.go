// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pluxo-backend/internal/config"
	pg "pluxo-backend/internal/infra/db/postgres"
	"pluxo-backend/internal/infra/logging"
	"pluxo-backend/internal/infra/metrics"
	pay "pluxo-backend/internal/infra/payment"
	red "pluxo-backend/internal/infra/redis"
	"pluxo-backend/internal/infra/sched"
	"pluxo-backend/internal/infra/web"
	"pluxo-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, verbose level)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	sequenceStore := red.NewSequenceStore(redisClient, cfg.Prediction.CounterTTL)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	subscriptionRepo := pg.NewSubscriptionRepo(pool)
	userRepo := pg.NewUserRepo(pool)

	// ---- Payment provider ----
	np := cfg.Payment.NOWPayments
	gateway := pay.NewNOWPaymentsGateway(np.APIKey, np.BaseURL, np.PayCurrency, np.Timeout)
	verifier := pay.NewIPNVerifier(np.IPNSecret)
	if !verifier.Enabled() {
		logger.Warn().Msg("no IPN secret configured, webhook deliveries are trusted unverified")
	}

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(cfg.Checkout.PricingCents(), cfg.Checkout.Promos,
		paymentRepo, gateway, np.CallbackURL, logger)
	activationUC := usecase.NewActivationUseCase(txManager, paymentRepo, subscriptionRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, subscriptionRepo, logger)
	predictionUC := usecase.NewPredictionUseCase(cfg.Prediction.Sequence, sequenceStore, logger)
	adminUC := usecase.NewAdminUseCase(userRepo, subscriptionRepo, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TTL)
	srv := web.NewServer(checkoutUC, activationUC, userUC, predictionUC, adminUC,
		verifier, auth, rateLimiter, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Background workers ----
	expiry := sched.NewExpiryWorker(cfg.Sched.ExpiryInterval, subscriptionRepo, logger)
	go func() { _ = expiry.Run(ctx) }()

	janitor := sched.NewPaymentJanitor(paymentRepo, cfg.Sched.JanitorInterval, cfg.Sched.PendingPaymentTTL, logger)
	go func() { _ = janitor.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
