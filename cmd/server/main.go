package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spectral-labs/auth-api/internal/bootstrap"
	"github.com/spectral-labs/auth-api/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type serverBuilder func(ctx context.Context) (*bootstrap.Server, error)

// run starts the server and blocks until a signal arrives or the
// listener fails. Split from main so tests can drive it.
func run(build serverBuilder, sigCh <-chan os.Signal) error {
	srv, err := build(context.Background())
	if err != nil {
		return err
	}
	defer srv.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().Str("addr", srv.HTTP.Addr).Msg("http server listening")
		errCh <- srv.HTTP.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logger.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.HTTP.Shutdown(ctx); err != nil {
		return err
	}
	logger.Logger.Info().Msg("server stopped")
	return nil
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(func(ctx context.Context) (*bootstrap.Server, error) {
		return bootstrap.NewServer(ctx, bootstrap.Deps{})
	}, sigCh); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server exited")
	}
}
