package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sanjuanmotors/concierge/internal/api/router"
	"github.com/sanjuanmotors/concierge/internal/bookings"
	appconfig "github.com/sanjuanmotors/concierge/internal/config"
	"github.com/sanjuanmotors/concierge/internal/conversation"
	"github.com/sanjuanmotors/concierge/internal/extract"
	"github.com/sanjuanmotors/concierge/internal/history"
	"github.com/sanjuanmotors/concierge/internal/messaging"
	"github.com/sanjuanmotors/concierge/internal/observability/metrics"
	"github.com/sanjuanmotors/concierge/internal/session"
	"github.com/sanjuanmotors/concierge/internal/vehicles"
	"github.com/sanjuanmotors/concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	var llm conversation.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		llm = gemini
	} else {
		logger.Warn("no GEMINI_API_KEY set, running with deterministic fallback replies only")
	}

	var sender messaging.Sender
	if cfg.TwilioAccountSID != "" {
		sender, err = messaging.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
		if err != nil {
			logger.Error("failed to create twilio sender", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no TWILIO_ACCOUNT_SID set, outbound sends are disabled")
		sender = noopSender{logger: logger}
	}

	catalog := vehicles.Default()
	m := metrics.NewConversationMetrics(nil)

	sessions := session.NewStore(redisClient, cfg.SessionTTL)
	turns := history.NewStore(pool, cfg.HistoryTTL)
	bookingRepo := bookings.NewRepository(pool)
	finalizer := bookings.NewService(bookingRepo, sessions, logger)

	responder := conversation.NewResponder(llm, cfg.LLMTimeout, cfg.DealershipName, catalog, logger)
	engine := conversation.NewEngine(responder, catalog, extract.NewNameExtractor(nil),
		cfg.BusinessOpenHour, cfg.BusinessCloseHour)
	svc := conversation.NewService(sessions, turns, finalizer, engine, cfg.HistoryLimit, m, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		MessagingHandler:    messaging.NewHandler(svc, sender, cfg.TwilioAuthToken, logger),
		BookingsHandler:     bookings.NewHandler(bookingRepo, logger),
		ConversationHandler: conversation.NewHandler(svc, logger),
		MetricsHandler:      promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// noopSender keeps /bot/send functional in environments without provider
// credentials.
type noopSender struct {
	logger *logging.Logger
}

func (n noopSender) Send(to, message string) (string, error) {
	n.logger.Info("outbound send skipped (no provider configured)", "to", to)
	return "noop", nil
}
