package apperror

import "errors"

var (
	ErrNotFound   = errors.New("game does not exist")
	ErrValidation = errors.New("validation error")

	ErrGameNotInSetupState   = errors.New("game not in setup state")
	ErrGameNotInPlayingState = errors.New("game not in playing state")
	ErrGameNotStarted        = errors.New("game has not been started")

	ErrInvalidPlayerSetup = errors.New("invalid player setup")
	ErrInvalidPlayerTurn  = errors.New("invalid player turn")

	ErrInvalidChosenSquare      = errors.New("invalid chosen square")
	ErrSquareCannotMove         = errors.New("this square cannot move")
	ErrInvalidDestinationSquare = errors.New("invalid destination square")

	// ErrInvalidRanksCompared means combat was resolved for a pair the move checks should have rejected.
	ErrInvalidRanksCompared = errors.New("invalid ranks compared")

	ErrGameFull        = errors.New("game already has a guest")
	ErrGameNotJoinable = errors.New("game can not be joined")
	ErrNotInGame       = errors.New("player is not part of the game")
)
