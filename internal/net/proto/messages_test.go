package proto

import (
	"encoding/json"
	"testing"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/sim"
)

func TestClientCommand(t *testing.T) {
	t.Run("join", func(t *testing.T) {
		cmd, ok := ClientCommand(ClientMessage{Type: TypeJoinTeam, Team: "red", Name: "Ann"})
		if !ok || cmd.Type != sim.CommandJoin || cmd.Join == nil {
			t.Fatalf("expected join command, got %+v", cmd)
		}
		if cmd.Join.Team != "red" || cmd.Join.Name != "Ann" {
			t.Fatalf("unexpected join payload %+v", cmd.Join)
		}
	})

	t.Run("start", func(t *testing.T) {
		cmd, ok := ClientCommand(ClientMessage{Type: TypeStartGame})
		if !ok || cmd.Type != sim.CommandStart {
			t.Fatalf("expected start command, got %+v", cmd)
		}
	})

	t.Run("move", func(t *testing.T) {
		cmd, ok := ClientCommand(ClientMessage{Type: TypePlayerMove, VX: 1, VY: -0.5})
		if !ok || cmd.Move == nil || cmd.Move.VX != 1 || cmd.Move.VY != -0.5 {
			t.Fatalf("unexpected move command %+v", cmd)
		}
	})

	t.Run("weapon", func(t *testing.T) {
		cmd, ok := ClientCommand(ClientMessage{Type: TypeUseWeapon, Weapon: " laser ", TargetX: 10, TargetY: 20})
		if !ok || cmd.Weapon == nil {
			t.Fatalf("expected weapon command")
		}
		if cmd.Weapon.Weapon != "laser" || cmd.Weapon.TargetX != 10 || cmd.Weapon.TargetY != 20 {
			t.Fatalf("unexpected weapon payload %+v", cmd.Weapon)
		}
	})

	t.Run("weapon without kind", func(t *testing.T) {
		if _, ok := ClientCommand(ClientMessage{Type: TypeUseWeapon}); ok {
			t.Fatalf("expected missing weapon to be rejected")
		}
	})

	t.Run("chat", func(t *testing.T) {
		cmd, ok := ClientCommand(ClientMessage{Type: TypeChatMessage, Message: "gg"})
		if !ok || cmd.Chat == nil || cmd.Chat.Message != "gg" {
			t.Fatalf("unexpected chat command %+v", cmd)
		}
	})

	t.Run("heartbeat and unknown", func(t *testing.T) {
		for _, typ := range []string{TypeHeartbeat, "bogus", ""} {
			if _, ok := ClientCommand(ClientMessage{Type: typ}); ok {
				t.Fatalf("expected %q not to become a command", typ)
			}
		}
	})
}

func TestDecodeClientMessageVersion(t *testing.T) {
	msg, err := DecodeClientMessage([]byte(`{"type":"player_move","vx":0.5,"vy":1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Ver != Version || msg.VX != 0.5 || msg.VY != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if _, err := DecodeClientMessage([]byte(`{"ver":99,"type":"start_game"}`)); err == nil {
		t.Fatalf("expected unsupported version error")
	}
	if _, err := DecodeClientMessage([]byte(`{`)); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestEnvelopeJSON(t *testing.T) {
	data, err := JSONCodec{}.Encode(NewEnvelope(game.WeaponCooldown{Weapon: game.WeaponLaser, RemainingMs: 1500}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var frame struct {
		Ver  int             `json:"ver"`
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Ver != Version || frame.Type != game.EventWeaponCooldown {
		t.Fatalf("unexpected envelope header %+v", frame)
	}
	if string(frame.Data) != `{"weapon":"laser","remainingMs":1500}` {
		t.Fatalf("unexpected data %s", frame.Data)
	}
}
