package sim

import "time"

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandConnect    CommandType = "Connect"
	CommandJoin       CommandType = "Join"
	CommandStart      CommandType = "Start"
	CommandMove       CommandType = "Move"
	CommandUseWeapon  CommandType = "UseWeapon"
	CommandChat       CommandType = "Chat"
	CommandDisconnect CommandType = "Disconnect"
)

// JoinCommand requests a seat on a team.
type JoinCommand struct {
	Team string `json:"team"`
	Name string `json:"name,omitempty"`
}

// MoveCommand carries the desired movement vector.
type MoveCommand struct {
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// WeaponCommand identifies an ability and its target point.
type WeaponCommand struct {
	Weapon  string  `json:"weapon"`
	TargetX float64 `json:"targetX"`
	TargetY float64 `json:"targetY"`
}

// ChatCommand carries a chat line to relay.
type ChatCommand struct {
	Message string `json:"message"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	ActorID  string         `json:"actorId"`
	Type     CommandType    `json:"type"`
	IssuedAt time.Time      `json:"issuedAt"`
	Join     *JoinCommand   `json:"join,omitempty"`
	Move     *MoveCommand   `json:"move,omitempty"`
	Weapon   *WeaponCommand `json:"weapon,omitempty"`
	Chat     *ChatCommand   `json:"chat,omitempty"`
}

// lifecycle commands manage roster slots and are never throttled.
func (c Command) lifecycle() bool {
	return c.Type == CommandConnect || c.Type == CommandDisconnect
}
