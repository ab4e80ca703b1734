// Command server runs the address verification API.
//
// @title                       Address Verification API
// @version                     1.0
// @description                 Stores postal locations and standardizes and geocodes them through Postcoder Web.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/api"
	"github.com/99minutos/address-verification/internal/api/handler"
	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
	"github.com/99minutos/address-verification/internal/core/service"
	"github.com/99minutos/address-verification/internal/core/verifier"
	"github.com/99minutos/address-verification/internal/infrastructure/db/mongo"
	"github.com/99minutos/address-verification/internal/infrastructure/db/redis"
	"github.com/99minutos/address-verification/internal/infrastructure/queue"
	"github.com/99minutos/address-verification/internal/pkg/config"
	"github.com/99minutos/address-verification/internal/provider"
	"github.com/99minutos/address-verification/pkg/logger"
)

const (
	shutdownTimeout = 45 * time.Second
	tokenTTL        = 24 * time.Hour
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: cfg.Identity.AppName,
		Version: cfg.Identity.Version,
	})

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  cfg.Identity.AppName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	locationRepo := mongo.NewLocationRepository(db)
	attemptRepo := mongo.NewAttemptRepository(db)
	authRepo := mongo.NewAuthRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"locations":             locationRepo.EnsureIndexes,
		"verification_attempts": attemptRepo.EnsureIndexes,
		"auth_users":            authRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}

	// --- Verification ---
	identifier := verifier.Identifier(cfg.Identity.AppName, cfg.Identity.Version, cfg.Identity.Datastore)
	addressVerifier, err := provider.NewDefaultRegistry().Create(cfg.Verifier.Provider, cfg.Verifier.Options(identifier), log)
	if err != nil {
		return fmt.Errorf("verification provider %q: %w", cfg.Verifier.Provider, err)
	}
	log.Info().Str("provider", cfg.Verifier.Provider).Str("service_type", addressVerifier.Name()).Msg("verifier ready")

	locker := redis.NewLocationLocker(rdb, cfg.Redis.LockTTL)
	locationService := service.NewLocationService(locationRepo, attemptRepo, addressVerifier, locker, log)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, tokenTTL)
	if err := seedAdmin(ctx, authService, cfg.Admin, log); err != nil {
		return err
	}

	var verificationQueue handler.VerificationQueue
	var dispatcher *queue.Dispatcher
	if cfg.AutoVerify {
		dispatcher = queue.NewDispatcher(cfg.Workers, locationService, log)
		dispatcher.Start(ctx)
		verificationQueue = dispatcher
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		Auth:      authService,
		Locations: locationService,
		Queue:     verificationQueue,
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("auto_verify", cfg.AutoVerify).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	return shutdown(e.Shutdown, dispatcher, log)
}

// seedAdmin creates the configured admin account unless it already exists.
func seedAdmin(ctx context.Context, auth ports.AuthService, admin config.AdminConfig, log zerolog.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}
	_, err := auth.Register(ctx, ports.RegisterInput{
		Username: admin.Username,
		Password: admin.Password,
		Role:     domain.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return nil
	case err != nil:
		return fmt.Errorf("seed admin %q: %w", admin.Username, err)
	}
	log.Info().Str("username", admin.Username).Msg("admin account created")
	return nil
}

// shutdown stops HTTP first so nothing new is queued, then lets the workers
// finish every queued verification. Both share shutdownTimeout.
func shutdown(stopHTTP func(context.Context) error, d *queue.Dispatcher, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := stopHTTP(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	if d != nil {
		if err := d.Shutdown(ctx); err != nil {
			return err
		}
	}

	log.Info().Msg("server stopped")
	return nil
}
