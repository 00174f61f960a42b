package app

import (
	"context"
	"fmt"
	"net/http"

	"example.com/helloapi/internal/config"
	httphandlers "example.com/helloapi/internal/handler/http"
	"example.com/helloapi/internal/repository"
	"example.com/helloapi/internal/server"
	"example.com/helloapi/internal/storage"
	"example.com/helloapi/internal/storage/memory"
	redisstore "example.com/helloapi/internal/storage/redis"
	sqlstore "example.com/helloapi/internal/storage/sql"
	"example.com/helloapi/internal/usecase"

	"github.com/charmbracelet/log"
)

// App owns everything a running process needs. Build it with New and
// release it with Close.
type App struct {
	Config   config.Config
	Router   http.Handler
	Messages *usecase.MessageService
	Users    *usecase.UserService

	messageStore repository.MessageRepository
}

// New opens the greeting backend, seeds the default greeting and assembles the
// handler chain. The returned App is ready to serve.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, error) {
	msgStore, err := openMessages(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("message store ready", "storage", cfg.Storage, "driver", cfg.DBDriver)

	messages := usecase.NewMessageService(msgStore, logger)
	if err := messages.Init(ctx); err != nil {
		msgStore.Close()
		return nil, fmt.Errorf("init greeting: %w", err)
	}
	users := usecase.NewUserService(memory.New(), logger)

	h := httphandlers.New(messages, users, logger)
	router := server.Chain(h,
		server.Recover(logger),
		server.RequestID,
		server.AccessLog(logger),
		server.CORS(cfg.CORSOrigins),
	)
	return &App{
		Config:       cfg,
		Router:       router,
		Messages:     messages,
		Users:        users,
		messageStore: msgStore,
	}, nil
}

func openMessages(ctx context.Context, cfg config.Config) (repository.MessageRepository, error) {
	switch cfg.Storage {
	case storage.KindSQL:
		s, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case storage.KindRedis:
		s, err := redisstore.Open(ctx, cfg.RedisAddr, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		return s, nil
	case storage.KindMemory:
		return memory.NewWithUsers(nil), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func (a *App) Close() error {
	return a.messageStore.Close()
}
