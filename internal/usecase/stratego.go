package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
	"github.com/rocketscienceinc/stratego-backend/internal/stratego"
)

type StrategoUseCase interface {
	SubmitSetup(ctx context.Context, gameID string, player entity.Player, army entity.ArmySetup) (*entity.GameState, error)
	SubmitMovement(ctx context.Context, gameID string, player entity.Player, movement entity.Movement) (*entity.GameState, error)
	GetStatus(ctx context.Context, gameID string, player entity.Player) (*entity.GameState, error)
	ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error)
}

type gameRepo interface {
	CreateGame(ctx context.Context, game *entity.Game) error
	Load(ctx context.Context, gameID string) (*entity.Match, error)
	Update(ctx context.Context, gameID string, fn func(match *entity.Match) error) error
	ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error)
	DeleteGame(ctx context.Context, gameID string, check func(match *entity.Match) error) error
}

type strategoUseCase struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewStrategoUseCase(logger *slog.Logger, gameRepo gameRepo) StrategoUseCase {
	return &strategoUseCase{
		logger:   logger.With("component", "stratego"),
		gameRepo: gameRepo,
	}
}

func (that *strategoUseCase) SubmitSetup(ctx context.Context, gameID string, player entity.Player, army entity.ArmySetup) (*entity.GameState, error) {
	log := that.logger.With("method", "SubmitSetup", "gameID", gameID, "playerID", player.ID)

	var state *entity.GameState

	err := that.gameRepo.Update(ctx, gameID, func(match *entity.Match) error {
		var err error
		state, err = stratego.Setup(match, player, army)

		return err
	})
	if err != nil {
		that.logFailure(log, err)
		return nil, fmt.Errorf("failed to submit setup: %w", err)
	}

	log.Info("army placed", "phase", state.Phase)

	return state, nil
}

func (that *strategoUseCase) SubmitMovement(ctx context.Context, gameID string, player entity.Player, movement entity.Movement) (*entity.GameState, error) {
	log := that.logger.With("method", "SubmitMovement", "gameID", gameID, "playerID", player.ID)

	if err := movement.Validate(); err != nil {
		log.Debug("movement rejected", "error", err)
		return nil, fmt.Errorf("failed to submit movement: %w", err)
	}

	var state *entity.GameState

	err := that.gameRepo.Update(ctx, gameID, func(match *entity.Match) error {
		var err error
		state, err = stratego.Move(match, player, movement)

		return err
	})
	if err != nil {
		that.logFailure(log, err)
		return nil, fmt.Errorf("failed to submit movement: %w", err)
	}

	log.Info("movement applied", "rank", movement.Rank)

	return state, nil
}

func (that *strategoUseCase) GetStatus(ctx context.Context, gameID string, player entity.Player) (*entity.GameState, error) {
	log := that.logger.With("method", "GetStatus", "gameID", gameID, "playerID", player.ID)

	match, err := that.gameRepo.Load(ctx, gameID)
	if err != nil {
		that.logFailure(log, err)
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	state, err := stratego.Status(match, player)
	if err != nil {
		that.logFailure(log, err)
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return state, nil
}

func (that *strategoUseCase) ListMovements(ctx context.Context, gameID string) ([]entity.MovementRecord, error) {
	records, err := that.gameRepo.ListMovements(ctx, gameID)
	if err != nil {
		that.logFailure(that.logger.With("method", "ListMovements", "gameID", gameID), err)
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	return records, nil
}

// logFailure - rule violations are caller mistakes and only logged at debug level.
func (that *strategoUseCase) logFailure(log *slog.Logger, err error) {
	if IsRuleViolation(err) {
		log.Debug("command rejected", "error", err)
		return
	}

	log.Error("command failed", "error", err)
}

var ruleViolations = []error{
	apperror.ErrNotFound,
	apperror.ErrValidation,
	apperror.ErrGameNotInSetupState,
	apperror.ErrGameNotInPlayingState,
	apperror.ErrGameNotStarted,
	apperror.ErrInvalidPlayerSetup,
	apperror.ErrInvalidPlayerTurn,
	apperror.ErrInvalidChosenSquare,
	apperror.ErrSquareCannotMove,
	apperror.ErrInvalidDestinationSquare,
	apperror.ErrGameFull,
	apperror.ErrGameNotJoinable,
	apperror.ErrNotInGame,
}

// IsRuleViolation reports whether err is a user error rather than a service fault.
func IsRuleViolation(err error) bool {
	for _, target := range ruleViolations {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
