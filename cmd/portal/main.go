package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/connect_portal/internal/access"
	"github.com/Freeeeeet/connect_portal/internal/app"
	"github.com/Freeeeeet/connect_portal/internal/config"
	"github.com/Freeeeeet/connect_portal/internal/controller"
	"github.com/Freeeeeet/connect_portal/internal/controller/state"
	"github.com/Freeeeeet/connect_portal/internal/notify"
	"github.com/Freeeeeet/connect_portal/internal/repository"
	"github.com/Freeeeeet/connect_portal/internal/repository/remote"
	"github.com/Freeeeeet/connect_portal/internal/service"
	"github.com/Freeeeeet/connect_portal/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, loadedEnv, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting connect portal",
		zap.String("environment", cfg.Environment),
		zap.Bool("env_file", loadedEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Location.String()))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Portal stopped with error", zap.Error(err))
	}
	logger.Info("Portal stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	api := remote.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger.Named("remote"))
	settings := repository.NewSettingsRepository(pool, logger.Named("repository"))
	validator := validation.New()

	var notifier service.Notifier = notify.Nop{}
	if cfg.NotificationsEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logger.Named("notify"))
		if err != nil {
			return err
		}
		notifier = tg
		logger.Info("Booking notifications enabled", zap.Int64("chat_id", cfg.TelegramChatID))
	}

	slotService := service.NewSlotService(api, settings, validator, cfg.Location, time.Now, logger.Named("slots"))
	bookingService := service.NewBookingService(api, notifier, validator, cfg.Location, time.Now, logger.Named("booking"))
	userService := service.NewUserService(api, logger.Named("users"))

	flows := state.NewManager(state.DefaultTTL)
	guard := access.NewGuard(api, logger.Named("access"))
	handler := controller.NewHandler(slotService, bookingService, userService, flows, guard, logger.Named("http"))

	scheduler := app.NewScheduler(slotService, flows, cfg.ServiceToken, cfg.AutoFillInterval, logger.Named("scheduler"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
