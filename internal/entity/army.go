package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
)

// ArmySetup is a player's placement, row 0 being the row closest to the player.
type ArmySetup [][]Rank

// Roster is the exact piece composition of every army.
var Roster = map[Rank]int{
	Marshal:    1,
	General:    1,
	Colonel:    2,
	Major:      3,
	Captain:    4,
	Lieutenant: 4,
	Sergeant:   4,
	Miner:      5,
	Scout:      8,
	Spy:        1,
	Bomb:       6,
	Flag:       1,
}

// Validate checks the shape and the roster counts and reports every violation in one error.
func (that ArmySetup) Validate() error {
	var problems []string

	if len(that) != ArmyRows {
		problems = append(problems, fmt.Sprintf("army must have %d rows, got %d", ArmyRows, len(that)))
	}

	counts := make(map[Rank]int, len(Roster))
	for i, row := range that {
		if len(row) != ArmyColumns {
			problems = append(problems, fmt.Sprintf("row %d must have %d ranks, got %d", i, ArmyColumns, len(row)))
		}

		for _, rank := range row {
			counts[rank]++
		}
	}

	// Ranks are checked in roster order so the message is stable.
	for _, rank := range Ranks {
		if counts[rank] != Roster[rank] {
			problems = append(problems, fmt.Sprintf("expected %d %s, got %d", Roster[rank], rank, counts[rank]))
		}
	}

	for rank, count := range counts {
		if _, ok := Roster[rank]; !ok {
			problems = append(problems, fmt.Sprintf("rank %q is not allowed in an army (%d found)", rank, count))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: invalid army setup: %s", apperror.ErrValidation, strings.Join(problems, "; "))
	}

	return nil
}
