package stratego

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
	"github.com/rocketscienceinc/stratego-backend/internal/entity"
)

// Setup places the player's army and advances the setup phase.
// The match is left untouched when an error is returned.
func Setup(match *entity.Match, player entity.Player, army entity.ArmySetup) (*entity.GameState, error) {
	game := match.Game

	if !game.IsInSetup() {
		return nil, fmt.Errorf("%w: phase %s", apperror.ErrGameNotInSetupState, game.CurrentPhase())
	}

	rules := entity.NewRules()
	if match.Rules != nil {
		current := *match.Rules
		rules = &current
	}

	if err := army.Validate(); err != nil {
		return nil, err
	}

	role, ok := game.RoleOf(player.ID)
	if !ok {
		return nil, fmt.Errorf("%w: player %s is not part of game %s", apperror.ErrInvalidPlayerSetup, player.ID, game.ID)
	}

	if rules.IsInitialized(role) {
		return nil, fmt.Errorf("%w: %s army already placed", apperror.ErrInvalidPlayerSetup, role)
	}

	if role.IsHost() {
		rules.Board.PlaceHostArmy(army)
		rules.IsHostInitialized = true
	} else {
		rules.Board.PlaceGuestArmy(army)
		rules.IsGuestInitialized = true
	}

	game.Phase = nextSetupPhase(game.CurrentPhase())
	match.Rules = rules

	// The host always moves first, this is not a real turn check.
	return snapshot(match, player, nil, role.IsHost()), nil
}

// Move validates and applies one movement, resolving combat when the destination is occupied.
// No adjacency, distance or path rule is enforced: any destination that passes the
// ownership and terrain checks is accepted.
func Move(match *entity.Match, player entity.Player, movement entity.Movement) (*entity.GameState, error) {
	game := match.Game

	if !game.IsPlaying() {
		return nil, fmt.Errorf("%w: phase %s", apperror.ErrGameNotInPlayingState, game.CurrentPhase())
	}

	if match.Rules == nil {
		return nil, apperror.ErrGameNotStarted
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}

	role, ok := game.RoleOf(player.ID)
	if !ok || !match.Rules.IsTurnOf(role) {
		return nil, fmt.Errorf("%w: player %s", apperror.ErrInvalidPlayerTurn, player.ID)
	}

	rules := *match.Rules

	source, err := checkMovement(&rules.Board, role, movement)
	if err != nil {
		return nil, err
	}

	outcome, err := applyMovement(&rules.Board, source, movement)
	if err != nil {
		return nil, err
	}

	wasGuestTurn := rules.IsGuestTurn
	rules.IsGuestTurn = !wasGuestTurn
	match.Rules = &rules

	match.Record(entity.MovementRecord{
		Movement:    movement,
		IsGuestTurn: wasGuestTurn,
		Outcome:     outcome,
		CreatedAt:   time.Now().UTC(),
	})

	// The mover is never reported as having the turn in its own response.
	return snapshot(match, player, &movement, false), nil
}

// Status builds the read-only snapshot for the player.
func Status(match *entity.Match, player entity.Player) (*entity.GameState, error) {
	if match.Rules == nil {
		return nil, apperror.ErrGameNotStarted
	}

	var movement *entity.Movement
	if match.LastMovement != nil {
		last := match.LastMovement.Movement
		movement = &last
	}

	role, ok := match.Game.RoleOf(player.ID)
	isMyTurn := ok && match.Rules.IsTurnOf(role)

	return snapshot(match, player, movement, isMyTurn), nil
}

func nextSetupPhase(current entity.GamePhase) entity.GamePhase {
	if current == entity.PhaseWaitingForSetup1Player {
		return entity.PhasePlaying
	}

	return entity.PhaseWaitingForSetup1Player
}

// checkMovement - checks the source and destination squares for the moving side.
func checkMovement(board *entity.Board, role entity.Role, movement entity.Movement) (*entity.Tile, error) {
	source := board.Tile(movement.RowInitial, movement.ColInitial)
	if source == nil || source.IsHostOwner != role.IsHost() || source.Rank == entity.Disabled {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidChosenSquare, movement.RowInitial, movement.ColInitial)
	}

	if source.Rank.IsImmobile() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSquareCannotMove, source.Rank)
	}

	destination := board.Tile(movement.RowFinal, movement.ColFinal)
	if destination != nil && (destination.IsHostOwner == role.IsHost() || destination.Rank == entity.Disabled) {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidDestinationSquare, movement.RowFinal, movement.ColFinal)
	}

	return source, nil
}

// applyMovement - moves the source tile and resolves combat against an occupied destination.
func applyMovement(board *entity.Board, source *entity.Tile, movement entity.Movement) (entity.Outcome, error) {
	destination := board.Tile(movement.RowFinal, movement.ColFinal)

	if destination == nil {
		board.SetTile(movement.RowInitial, movement.ColInitial, nil)
		board.SetTile(movement.RowFinal, movement.ColFinal, source)

		return entity.OutcomeMoved, nil
	}

	result, err := entity.CompareRanks(source.Rank, destination.Rank)
	if err != nil {
		return "", fmt.Errorf("failed to resolve combat: %w", err)
	}

	switch {
	case result < 0:
		board.SetTile(movement.RowInitial, movement.ColInitial, nil)

		return entity.OutcomeLost, nil
	case result == 0:
		board.SetTile(movement.RowInitial, movement.ColInitial, nil)
		board.SetTile(movement.RowFinal, movement.ColFinal, nil)

		return entity.OutcomeTie, nil
	default:
		board.SetTile(movement.RowInitial, movement.ColInitial, nil)
		board.SetTile(movement.RowFinal, movement.ColFinal, source)

		return entity.OutcomeWon, nil
	}
}

func snapshot(match *entity.Match, player entity.Player, movement *entity.Movement, isMyTurn bool) *entity.GameState {
	return &entity.GameState{
		CurrentPlayer: player,
		GameID:        match.Game.ID,
		HostPlayerID:  match.Game.HostID,
		GuestPlayerID: match.Game.GuestID,
		Movement:      movement,
		Phase:         match.Game.CurrentPhase(),
		Board:         match.Rules.Board,
		IsMyTurn:      isMyTurn,
	}
}
