package main // Entry point package

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/parksmart-reservation/internal/config"
	"github.com/iliyamo/parksmart-reservation/internal/database"
	"github.com/iliyamo/parksmart-reservation/internal/handler"
	"github.com/iliyamo/parksmart-reservation/internal/logger"
	"github.com/iliyamo/parksmart-reservation/internal/middleware"
	"github.com/iliyamo/parksmart-reservation/internal/queue"
	"github.com/iliyamo/parksmart-reservation/internal/repository"
	"github.com/iliyamo/parksmart-reservation/internal/router"
	"github.com/iliyamo/parksmart-reservation/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store init failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if cfg.SeedOnStart {
		seed := cfg.SeedRandom
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		seeded, err := repository.SeedIfEmpty(ctx, store, rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)))
		if err != nil {
			logger.Error("seed failed", "error", err)
			os.Exit(1)
		}
		logger.Info("seed", "applied", seeded, "seed", seed)
	}

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		logger.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		pub := service.NewAMQPPublisher(cfg.AMQPURL, 256)
		go pub.Run(ctx)
		events = pub
		go func() {
			if err := queue.StartActivityConsumer(ctx, cfg.AMQPURL, cfg.ActivityLogDir); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("activity consumer stopped", "error", err)
			}
		}()
	}

	spots := service.NewSpotService(store, events)
	contacts := service.NewContactService(store)
	auth := service.NewAuthService(store, service.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		AccessTTLMin: cfg.AccessTTLMin,
		BcryptCost:   cfg.BcryptCost,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLog(), middleware.Metrics())

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, store.Revision)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterParking(e, handler.NewParkingHandler(spots), cache, limit)
	router.RegisterContact(e, handler.NewContactHandler(contacts), limit, cfg.JWTSecret)
	router.RegisterAuth(e, handler.NewAuthHandler(auth), limit)

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore builds the configured store.  The returned close func is
// always non-nil.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, func(), error) {
	if cfg.StoreDriver != config.StoreMySQL {
		return repository.NewMemoryStore(), func() {}, nil
	}
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	st := repository.NewMySQLStore(db)
	if err := st.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, func() {}, err
	}
	return st, func() { _ = db.Close() }, nil
}
