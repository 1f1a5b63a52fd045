package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
)

type strategoUseCase interface {
	SubmitSetup(ctx context.Context, gameID string, player entity.Player, army entity.ArmySetup) (*entity.GameState, error)
	SubmitMovement(ctx context.Context, gameID string, player entity.Player, movement entity.Movement) (*entity.GameState, error)
	GetStatus(ctx context.Context, gameID string, player entity.Player) (*entity.GameState, error)
	ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error)
}

type gameManager interface {
	CreateGame(ctx context.Context, host entity.Player, name string) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID string, guest entity.Player) (*entity.Game, error)
	LeaveGame(ctx context.Context, gameID string, player entity.Player) (*entity.Game, error)
	DeleteGame(ctx context.Context, gameID string, player entity.Player) error
}

type setupRequest struct {
	Army entity.ArmySetup `json:"army"`
}

type createGameRequest struct {
	Name string `json:"name"`
}

type handlers struct {
	logger *slog.Logger

	stratego strategoUseCase
	games    gameManager
}

func newHandlers(logger *slog.Logger, stratego strategoUseCase, games gameManager) *handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		stratego: stratego,
		games:    games,
	}
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !that.decode(w, r, &req) {
		return
	}

	game, err := that.games.CreateGame(r.Context(), playerFrom(r.Context()), req.Name)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) JoinGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.JoinGame(r.Context(), chi.URLParam(r, "gameID"), playerFrom(r.Context()))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) LeaveGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.LeaveGame(r.Context(), chi.URLParam(r, "gameID"), playerFrom(r.Context()))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "gameID"), playerFrom(r.Context())); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) SubmitSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if !that.decode(w, r, &req) {
		return
	}

	state, err := that.stratego.SubmitSetup(r.Context(), chi.URLParam(r, "gameID"), playerFrom(r.Context()), req.Army)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *handlers) SubmitMovement(w http.ResponseWriter, r *http.Request) {
	var movement entity.Movement
	if !that.decode(w, r, &movement) {
		return
	}

	state, err := that.stratego.SubmitMovement(r.Context(), chi.URLParam(r, "gameID"), playerFrom(r.Context()), movement)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	state, err := that.stratego.GetStatus(r.Context(), chi.URLParam(r, "gameID"), playerFrom(r.Context()))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *handlers) ListMovements(w http.ResponseWriter, r *http.Request) {
	records, err := that.stratego.ListMovements(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *handlers) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		that.writeError(w, r, fmt.Errorf("%w: malformed request body: %s", apperror.ErrValidation, err.Error()))
		return false
	}

	return true
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
