package domain

import "time"

// Role distinguishes the single price-setting banker from trading players.
type Role string

const (
	RolePlayer Role = "player"
	RoleBanker Role = "banker"
)

// Player represents one room participant.
type Player struct {
	ID        string
	Name      string
	Role      Role
	Portfolio *Portfolio
	JoinedAt  time.Time
}
