package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
)

// GameManager handles the game lifecycle around the engine: hosting, joining and leaving.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger: logger.With("component", "gameManager"),

		gameRepo: gameRepo,
	}
}

func (that *GameManager) CreateGame(ctx context.Context, host entity.Player, name string) (*entity.Game, error) {
	if host.ID == "" {
		return nil, fmt.Errorf("%w: host id is required", apperror.ErrValidation)
	}

	game := entity.NewGame(uuid.NewString(), name, host.ID)

	if err := that.gameRepo.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "hostID", host.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	match, err := that.gameRepo.Load(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return match.Game, nil
}

// JoinGame seats the player as guest. Joining again as the same guest is a no-op.
func (that *GameManager) JoinGame(ctx context.Context, gameID string, guest entity.Player) (*entity.Game, error) {
	var game *entity.Game

	err := that.gameRepo.Update(ctx, gameID, func(match *entity.Match) error {
		game = match.Game

		switch {
		case guest.ID == "":
			return fmt.Errorf("%w: guest id is required", apperror.ErrValidation)
		case guest.ID == game.HostID:
			return fmt.Errorf("%w: host and guest can not be the same player", apperror.ErrGameNotJoinable)
		case guest.ID == game.GuestID:
			return nil
		case game.GuestID != "":
			return fmt.Errorf("%w: game %s", apperror.ErrGameFull, gameID)
		case !game.IsInSetup():
			return fmt.Errorf("%w: phase %s", apperror.ErrGameNotJoinable, game.CurrentPhase())
		}

		game.GuestID = guest.ID

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	that.logger.Info("player joined game", "gameID", gameID, "guestID", guest.ID)

	return game, nil
}

// LeaveGame aborts the game. Finished or aborted games are returned unchanged.
func (that *GameManager) LeaveGame(ctx context.Context, gameID string, player entity.Player) (*entity.Game, error) {
	var game *entity.Game

	err := that.gameRepo.Update(ctx, gameID, func(match *entity.Match) error {
		game = match.Game

		if _, ok := game.RoleOf(player.ID); !ok {
			return fmt.Errorf("%w: player %s", apperror.ErrNotInGame, player.ID)
		}

		if !game.IsOver() {
			game.Phase = entity.PhaseAborted
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to leave game: %w", err)
	}

	that.logger.Info("player left game", "gameID", gameID, "playerID", player.ID)

	return game, nil
}

// DeleteGame drops the game with its board and history. Only the host may delete it.
func (that *GameManager) DeleteGame(ctx context.Context, gameID string, player entity.Player) error {
	err := that.gameRepo.DeleteGame(ctx, gameID, func(match *entity.Match) error {
		if role, ok := match.Game.RoleOf(player.ID); !ok || !role.IsHost() {
			return fmt.Errorf("%w: only the host can delete game %s", apperror.ErrNotInGame, gameID)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", gameID)

	return nil
}
