package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafaelmv/presenteio/pkg/cache"
	"github.com/rafaelmv/presenteio/pkg/config"
	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/identity"
	"github.com/rafaelmv/presenteio/pkg/limiter"
	"github.com/rafaelmv/presenteio/pkg/notify"
	"github.com/rafaelmv/presenteio/pkg/server"
	"github.com/rafaelmv/presenteio/pkg/service"
)

const (
	gracefulTimeout = time.Second * 15
)

func main() {
	cfg := config.New()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	db, closeDB, err := database.New(cfg.PostgresAddr, cfg.PostgresDB, cfg.PostgresUser, cfg.PostgresPassword)
	if err != nil {
		log.Fatalf("### Can't init database: %v", err)
	}
	defer closeDB()

	if err := database.Migrate(db, cfg.MigrationsPath); err != nil {
		log.Fatalf("### Can't run migrations: %v", err)
	}

	rdb, closeRedis, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisUser, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("### Can't init redis: %v", err)
	}
	defer closeRedis()

	giftSvc, listSvc, err := composeServices(db, rdb, cfg)
	if err != nil {
		log.Fatalf("### Can't compose services: %v", err)
	}

	srv, err := server.New(cfg.ListenAddr, giftSvc, listSvc, identity.NewHeader())
	if err != nil {
		log.Fatalf("### Can't create server: %v", err)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("### Can't listen and serve: %v", err)
		}
	}()
	slog.Info(fmt.Sprintf("HTTP server listening at %s", srv.Addr))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()

	srv.Shutdown(ctx)
}

func composeServices(db *sql.DB, rdb *redis.Client, cfg *config.Config) (gift service.Gift, list service.List, err error) {
	gifts, err := database.NewGiftDatabase(db)
	if err != nil {
		return nil, nil, fmt.Errorf("can't init gift database: %w", err)
	}

	lists := &database.ListDatabase{DB: db}

	gift = &service.GiftGeneric{
		GiftRepository: gifts,
		ListRepository: lists,
		Notifier:       notify.LogNotifier{},
		BaseURL:        cfg.BaseURL,
	}

	if cfg.CacheReservations {
		gift = &service.GiftCaching{Gift: gift, Redis: rdb, TTL: cfg.CacheTTL}
	}

	gift = &service.GiftLimiting{Gift: gift, Limiter: &limiter.Limiter{Redis: rdb, Limit: cfg.ReservesLimit}, FailOpen: cfg.LimiterFailOpen}
	gift = &service.GiftMetrics{Gift: gift}
	gift = &service.GiftLogging{Gift: gift}

	list = &service.ListGeneric{
		ListRepository: lists,
		GiftRepository: gifts,
	}

	return gift, list, nil
}

func parseLogLevel(lvl string) slog.Level {
	switch lvl {
	case slog.LevelDebug.String():
		return slog.LevelDebug
	case slog.LevelInfo.String():
		return slog.LevelInfo
	case slog.LevelWarn.String():
		return slog.LevelWarn
	case slog.LevelError.String():
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
