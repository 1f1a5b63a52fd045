package entity

// GameState is the snapshot returned to callers after every engine operation.
type GameState struct {
	CurrentPlayer Player    `json:"currentPlayer"`
	GameID        string    `json:"gameId"`
	HostPlayerID  string    `json:"hostPlayerId"`
	GuestPlayerID string    `json:"guestPlayerId"`
	Movement      *Movement `json:"movement"`
	Phase         GamePhase `json:"phase"`
	Board         Board     `json:"board"`
	IsMyTurn      bool      `json:"isMyTurn"`
}
