package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/stratego-backend/internal/config"
	"github.com/rocketscienceinc/stratego-backend/internal/pkg/codec"
	"github.com/rocketscienceinc/stratego-backend/internal/repository"
	"github.com/rocketscienceinc/stratego-backend/internal/repository/storage"
	"github.com/rocketscienceinc/stratego-backend/internal/usecase"
	"github.com/rocketscienceinc/stratego-backend/transport/rest"
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

	gameRepo, closer, err := openGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closer.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	strategoUseCase := usecase.NewStrategoUseCase(logger, gameRepo)
	gameManager := usecase.NewGameManager(logger, gameRepo)

	router := rest.NewRouter(logger, strategoUseCase, gameManager)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)
		if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func openGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, io.Closer, error) {
	jsonCodec := codec.NewJSON()

	switch conf.Storage {
	case config.StorageSQLite:
		conn, err := storage.NewSQLite(ctx, conf.SQLiteStoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		return repository.NewSQLiteGameRepository(conn, jsonCodec), conn, nil
	default:
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		client, err := storage.NewRedisClient(ctx, conf.Redis.GetRedisAddr(), conf.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewGameRepository(client, jsonCodec, conf.MaxTxRetries), client, nil
	}
}
