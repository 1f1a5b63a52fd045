package entity

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/stratego-backend/internal/apperror"
)

type Rank string

const (
	Marshal    Rank = "MARSHAL"
	General    Rank = "GENERAL"
	Colonel    Rank = "COLONEL"
	Major      Rank = "MAJOR"
	Captain    Rank = "CAPTAIN"
	Lieutenant Rank = "LIEUTENANT"
	Sergeant   Rank = "SERGEANT"
	Miner      Rank = "MINER"
	Scout      Rank = "SCOUT"
	Spy        Rank = "SPY"
	Bomb       Rank = "BOMB"
	Flag       Rank = "FLAG"

	// Disabled marks lake terrain, it is never a real piece.
	Disabled Rank = "DISABLED"
)

const (
	AttackerLoses = -1
	Tie           = 0
	AttackerWins  = 1
)

// Ranks lists every real piece rank from the most to the least senior, followed by BOMB and FLAG.
var Ranks = []Rank{Marshal, General, Colonel, Major, Captain, Lieutenant, Sergeant, Miner, Scout, Spy, Bomb, Flag}

// seniority is the strict order of the military ranks, MARSHAL first.
var seniority = []Rank{Marshal, General, Colonel, Major, Captain, Lieutenant, Sergeant, Miner, Scout, Spy}

func (that Rank) IsValid() bool {
	return that == Disabled || slices.Contains(Ranks, that)
}

// IsImmobile reports whether pieces of this rank can never move.
func (that Rank) IsImmobile() bool {
	return that == Bomb || that == Flag || that == Disabled
}

// upperRanks returns the attackers that defeat the defender.
func upperRanks(defender Rank) ([]Rank, bool) {
	switch defender {
	case Flag:
		return Ranks, true
	case Bomb:
		return []Rank{Miner}, true
	case Marshal:
		return []Rank{Spy}, true
	}

	idx := slices.Index(seniority, defender)
	if idx < 0 {
		return nil, false
	}

	return seniority[:idx], true
}

// CompareRanks resolves one attack. It returns AttackerLoses, Tie or AttackerWins.
func CompareRanks(attacker, defender Rank) (int, error) {
	if !attacker.IsValid() || attacker.IsImmobile() || defender == Disabled {
		return 0, fmt.Errorf("%w: %s attacking %s", apperror.ErrInvalidRanksCompared, attacker, defender)
	}

	if attacker == defender {
		return Tie, nil
	}

	upper, ok := upperRanks(defender)
	if !ok {
		return 0, fmt.Errorf("%w: %s attacking %s", apperror.ErrInvalidRanksCompared, attacker, defender)
	}

	if slices.Contains(upper, attacker) {
		return AttackerWins, nil
	}

	return AttackerLoses, nil
}
