package entity

import "time"

type GamePhase string

const (
	PhaseWaitingForSetup2Players GamePhase = "WAITING_FOR_SETUP_2_PLAYERS"
	PhaseWaitingForSetup1Player  GamePhase = "WAITING_FOR_SETUP_1_PLAYER"
	PhasePlaying                 GamePhase = "PLAYING"
	PhaseFinished                GamePhase = "FINISHED"
	PhaseAborted                 GamePhase = "ABORTED"
)

type Game struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	HostID    string    `json:"hostId"`
	GuestID   string    `json:"guestId,omitempty"`
	Phase     GamePhase `json:"phase,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewGame(id, name, hostID string) *Game {
	return &Game{
		ID:        id,
		Name:      name,
		HostID:    hostID,
		Phase:     PhaseWaitingForSetup2Players,
		CreatedAt: time.Now().UTC(),
	}
}

// CurrentPhase treats an unset phase as the initial one.
func (that *Game) CurrentPhase() GamePhase {
	if that.Phase == "" {
		return PhaseWaitingForSetup2Players
	}

	return that.Phase
}

func (that *Game) IsInSetup() bool {
	phase := that.CurrentPhase()
	return phase == PhaseWaitingForSetup2Players || phase == PhaseWaitingForSetup1Player
}

func (that *Game) IsPlaying() bool {
	return that.CurrentPhase() == PhasePlaying
}

func (that *Game) IsOver() bool {
	phase := that.CurrentPhase()
	return phase == PhaseFinished || phase == PhaseAborted
}

// RoleOf resolves the caller's side once; ok is false for non-participants.
func (that *Game) RoleOf(playerID string) (Role, bool) {
	switch {
	case playerID == "":
		return 0, false
	case playerID == that.HostID:
		return RoleHost, true
	case playerID == that.GuestID:
		return RoleGuest, true
	default:
		return 0, false
	}
}
