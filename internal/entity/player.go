package entity

type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

type Role int

const (
	RoleHost Role = iota + 1
	RoleGuest
)

func (that Role) IsHost() bool {
	return that == RoleHost
}

func (that Role) String() string {
	switch that {
	case RoleHost:
		return "host"
	case RoleGuest:
		return "guest"
	default:
		return "unknown"
	}
}
