package proto

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"tower-wars/server/internal/game"
)

func TestCodecByName(t *testing.T) {
	cases := []struct {
		name   string
		want   string
		binary bool
		ok     bool
	}{
		{"", CodecJSON, false, true},
		{"json", CodecJSON, false, true},
		{"msgpack", CodecMsgpack, true, true},
		{"xml", "", false, false},
	}
	for _, tc := range cases {
		codec, ok := CodecByName(tc.name)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v", tc.name, tc.ok)
		}
		if !ok {
			continue
		}
		if codec.Name() != tc.want || codec.Binary() != tc.binary {
			t.Fatalf("%q: unexpected codec %s binary=%v", tc.name, codec.Name(), codec.Binary())
		}
	}
}

func TestMsgpackUsesWireFieldNames(t *testing.T) {
	data, err := MsgpackCodec{}.Encode(NewEnvelope(game.TowerCaptured{TowerID: "tower_2", NewOwner: game.TeamBlue}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	if err := msgpack.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != game.EventTowerCaptured {
		t.Fatalf("unexpected type %v", decoded["type"])
	}
	payload, ok := decoded["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data map, got %T", decoded["data"])
	}
	if payload["towerId"] != "tower_2" || payload["newOwner"] != "blue" {
		t.Fatalf("expected json field names, got %v", payload)
	}
}

func TestMsgpackDecodeClient(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(ClientMessage{Type: TypeUseWeapon, Weapon: "freeze", TargetX: 12.5, TargetY: 40}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	msg, err := MsgpackCodec{}.DecodeClient(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != TypeUseWeapon || msg.Weapon != "freeze" || msg.TargetX != 12.5 || msg.Ver != Version {
		t.Fatalf("unexpected message %+v", msg)
	}
	if _, err := (MsgpackCodec{}).DecodeClient([]byte{0xc1}); err == nil {
		t.Fatalf("expected error for invalid msgpack")
	}
}
