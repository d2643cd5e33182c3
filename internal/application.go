package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/connect4-arena/internal/config"
	"github.com/rocketscienceinc/connect4-arena/internal/llm"
	"github.com/rocketscienceinc/connect4-arena/internal/repository"
	"github.com/rocketscienceinc/connect4-arena/internal/repository/storage"
	"github.com/rocketscienceinc/connect4-arena/internal/service"
	"github.com/rocketscienceinc/connect4-arena/transport/rest"
	"github.com/rocketscienceinc/connect4-arena/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	matchRepo := repository.NewMatchRepository(redisStorage.Connection)
	resultRepo := repository.NewResultRepository(sqliteStorage.Connection)
	if err = resultRepo.Init(ctx); err != nil {
		return fmt.Errorf("could not init result storage: %w", err)
	}

	factory := llm.NewFactory(logger, llm.Config{
		OpenAIToken:     conf.LLM.OpenAIToken,
		AnthropicToken:  conf.LLM.AnthropicToken,
		OllamaServerURL: conf.LLM.OllamaServerURL,
		Temperature:     conf.LLM.Temperature,
		MaxTokens:       conf.LLM.MaxTokens,
		MaxRetries:      conf.LLM.MaxRetries,
	})

	arenaService := service.NewArenaService(
		logger,
		factory,
		matchRepo,
		resultRepo,
		conf.Arena.RetryBudget,
		conf.LLM.RequestTimeout,
		conf.Arena.AllowedModels,
	)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, arenaService).Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, arenaService)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
