package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/eventsplus-api/internal/api"
	"github.com/vietanh2810/eventsplus-api/internal/config"
	"github.com/vietanh2810/eventsplus-api/internal/db"
	"github.com/vietanh2810/eventsplus-api/internal/logger"
	"github.com/vietanh2810/eventsplus-api/internal/pkg/sessionstore"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	postgresDB, err := OpenDatabase(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	store, err := OpenSessionStore(context.Background(), conf.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize session store -> %w", err)
	}

	s, err := api.NewServer(conf, postgresDB, store)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}
	defer s.Close()

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

// OpenDatabase prefers DATABASE_URL over the discrete postgres settings.
func OpenDatabase(conf *config.AppConfig) (*gorm.DB, error) {
	if conf.Postgres.URL != "" {
		return db.OpenPostgresWithURL(conf.Postgres.URL, conf.API.Environment)
	}

	return db.OpenPostgres(conf.Postgres, conf.API.Environment)
}

// OpenSessionStore keeps revoked sessions in Redis when an address is
// configured and in process memory otherwise.
func OpenSessionStore(ctx context.Context, conf *config.RedisConfig) (sessionstore.Store, error) {
	if conf == nil || conf.Addr == "" {
		zap.L().Warn("redis.addr is not set, revoked sessions are kept in memory")
		return sessionstore.NewMemoryStore(), nil
	}

	client, err := sessionstore.NewRedisClient(ctx, conf.Addr, conf.Password, conf.DB)
	if err != nil {
		return nil, err
	}

	return sessionstore.NewRedisStore(client), nil
}
