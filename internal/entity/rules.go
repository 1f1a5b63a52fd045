package entity

// Rules is the engine-private state persisted next to a Game.
type Rules struct {
	Board              Board `json:"board"`
	IsGuestTurn        bool  `json:"isGuestTurn"`
	IsHostInitialized  bool  `json:"isHostInitialized"`
	IsGuestInitialized bool  `json:"isGuestInitialized"`
}

func NewRules() *Rules {
	return &Rules{
		Board: EmptyBoard(),
	}
}

func (that *Rules) IsInitialized(role Role) bool {
	if role.IsHost() {
		return that.IsHostInitialized
	}

	return that.IsGuestInitialized
}

// IsTurnOf reports whether the given side is the one to move.
func (that *Rules) IsTurnOf(role Role) bool {
	switch role {
	case RoleHost:
		return !that.IsGuestTurn
	case RoleGuest:
		return that.IsGuestTurn
	default:
		return false
	}
}

// Match groups everything stored for one game. Storage loads it, the engine mutates it
// and storage persists it back as a single unit.
type Match struct {
	Game         *Game
	Rules        *Rules
	LastMovement *MovementRecord

	recorded []MovementRecord
}

// Record queues a history entry to be persisted with the match.
func (that *Match) Record(record MovementRecord) {
	that.recorded = append(that.recorded, record)
	that.LastMovement = &record
}

func (that *Match) Recorded() []MovementRecord {
	return that.recorded
}
