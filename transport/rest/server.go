package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the lifecycle and gameplay endpoints.
func NewRouter(logger *slog.Logger, stratego strategoUseCase, games gameManager) http.Handler {
	h := newHandlers(logger, stratego, games)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", PingHandler)

	router.Route("/api", func(r chi.Router) {
		r.Use(requirePlayer)

		r.Post("/games", h.CreateGame)
		r.Get("/games/{gameID}", h.GetGame)
		r.Delete("/games/{gameID}", h.DeleteGame)
		r.Post("/games/{gameID}/join", h.JoinGame)
		r.Post("/games/{gameID}/leave", h.LeaveGame)

		r.Route("/stratego/{gameID}", func(r chi.Router) {
			r.Put("/setup", h.SubmitSetup)
			r.Put("/movement", h.SubmitMovement)
			r.Get("/status", h.GetStatus)
			r.Get("/movements", h.ListMovements)
		})
	})

	return router
}

// Start - serves HTTP until the context is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
