package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
)

type Outcome string

const (
	OutcomeMoved Outcome = "MOVED"
	OutcomeWon   Outcome = "WON"
	OutcomeLost  Outcome = "LOST"
	OutcomeTie   Outcome = "TIE"
)

// Movement is a single ply. No distance or path rule is applied to it.
type Movement struct {
	Rank       Rank `json:"rank"`
	RowInitial int  `json:"rowInitial"`
	ColInitial int  `json:"colInitial"`
	RowFinal   int  `json:"rowFinal"`
	ColFinal   int  `json:"colFinal"`
}

func (that Movement) Validate() error {
	if !that.Rank.IsValid() {
		return fmt.Errorf("%w: unknown rank %q", apperror.ErrValidation, that.Rank)
	}

	if !InBounds(that.RowInitial, that.ColInitial) {
		return fmt.Errorf("%w: initial square (%d, %d) is off the board", apperror.ErrValidation, that.RowInitial, that.ColInitial)
	}

	if !InBounds(that.RowFinal, that.ColFinal) {
		return fmt.Errorf("%w: final square (%d, %d) is off the board", apperror.ErrValidation, that.RowFinal, that.ColFinal)
	}

	return nil
}

// MovementRecord is one entry of a game's move history.
type MovementRecord struct {
	Movement

	IsGuestTurn bool      `json:"isGuestTurn"`
	Outcome     Outcome   `json:"outcome"`
	CreatedAt   time.Time `json:"createdAt"`
}
