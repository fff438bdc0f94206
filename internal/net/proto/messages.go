package proto

import (
	"encoding/json"
	"fmt"
	"strings"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/sim"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1
)

// Client message type identifiers.
const (
	TypeJoinTeam    = "join_team"
	TypeStartGame   = "start_game"
	TypePlayerMove  = "player_move"
	TypeUseWeapon   = "use_weapon"
	TypeChatMessage = "chat_message"
	TypeHeartbeat   = "heartbeat"
)

// ClientMessage captures an inbound websocket message from the client. Only
// the fields relevant to Type are read.
type ClientMessage struct {
	Ver     int     `json:"ver,omitempty"`
	Type    string  `json:"type" jsonschema:"required,enum=join_team,enum=start_game,enum=player_move,enum=use_weapon,enum=chat_message,enum=heartbeat"`
	Team    string  `json:"team,omitempty"`
	Name    string  `json:"name,omitempty"`
	VX      float64 `json:"vx,omitempty"`
	VY      float64 `json:"vy,omitempty"`
	Weapon  string  `json:"weapon,omitempty"`
	TargetX float64 `json:"targetX,omitempty"`
	TargetY float64 `json:"targetY,omitempty"`
	Message string  `json:"message,omitempty"`
	SentAt  int64   `json:"sentAt,omitempty"`
}

// DecodeClientMessage converts a raw JSON websocket payload into a structured
// message.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	return checkVersion(msg)
}

func checkVersion(msg ClientMessage) (ClientMessage, error) {
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("unsupported client protocol version %d", msg.Ver)
	}
	return msg, nil
}

// ClientCommand captures the simulation command carried by a websocket
// message. Actor and timing metadata are filled in by the session. Heartbeats
// are answered by the transport and never reach the simulation.
func ClientCommand(msg ClientMessage) (sim.Command, bool) {
	switch msg.Type {
	case TypeJoinTeam:
		return sim.Command{
			Type: sim.CommandJoin,
			Join: &sim.JoinCommand{Team: msg.Team, Name: msg.Name},
		}, true
	case TypeStartGame:
		return sim.Command{Type: sim.CommandStart}, true
	case TypePlayerMove:
		return sim.Command{
			Type: sim.CommandMove,
			Move: &sim.MoveCommand{VX: msg.VX, VY: msg.VY},
		}, true
	case TypeUseWeapon:
		weapon := strings.TrimSpace(msg.Weapon)
		if weapon == "" {
			return sim.Command{}, false
		}
		return sim.Command{
			Type: sim.CommandUseWeapon,
			Weapon: &sim.WeaponCommand{
				Weapon:  weapon,
				TargetX: msg.TargetX,
				TargetY: msg.TargetY,
			},
		}, true
	case TypeChatMessage:
		return sim.Command{
			Type: sim.CommandChat,
			Chat: &sim.ChatCommand{Message: msg.Message},
		}, true
	default:
		return sim.Command{}, false
	}
}

// Envelope frames every outbound message.
type Envelope struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// NewEnvelope wraps a notification for the wire.
func NewEnvelope(event game.Event) Envelope {
	return Envelope{Ver: Version, Type: event.EventName(), Data: event}
}

// HeartbeatAck echoes timing metadata back to the client.
type HeartbeatAck struct {
	ServerTime int64 `json:"serverTime"`
	ClientTime int64 `json:"clientTime"`
	RTTMillis  int64 `json:"rtt"`
}

func (HeartbeatAck) EventName() string { return TypeHeartbeat }

// Error reports a malformed or unsupported inbound frame to its sender.
type Error struct {
	Reason string `json:"reason"`
}

func (Error) EventName() string { return "error" }
