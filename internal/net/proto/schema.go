package proto

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"

	"tower-wars/server/internal/game"
)

// outboundMessages lists every envelope payload the server sends.
var outboundMessages = []game.Event{
	game.InitialState{},
	game.StateUpdate{},
	game.PlayerJoined{},
	game.TeamFull{},
	game.PlayerConnected{},
	game.PlayerDisconnected{},
	game.GameStarted{},
	game.WeaponUsed{},
	game.WeaponCooldown{},
	game.ChatMessage{},
	game.TowerCaptured{},
	game.RoundEnded{},
	game.RoundStarted{},
	game.GameEnded{},
	game.GameReset{},
	HeartbeatAck{},
	Error{},
}

// Schema reflects the wire protocol. Definitions are keyed by message type;
// outbound definitions describe the envelope's data field.
func Schema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	definitions := jsonschema.Definitions{}
	client := reflector.ReflectFromType(reflect.TypeOf(ClientMessage{}))
	if client == nil {
		return nil, fmt.Errorf("failed to reflect client message schema")
	}
	client.Version = ""
	client.Title = "ClientMessage"
	client.Description = "Inbound frame sent by clients."
	definitions["ClientMessage"] = client

	for _, message := range outboundMessages {
		schema := reflector.ReflectFromType(reflect.TypeOf(message))
		if schema == nil {
			return nil, fmt.Errorf("failed to reflect %s schema", message.EventName())
		}
		schema.Version = ""
		schema.Title = message.EventName()
		definitions[message.EventName()] = schema
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Tower Wars Protocol",
		Description: fmt.Sprintf("Websocket protocol version %d. Outbound frames are {ver, type, data} envelopes.", Version),
		Definitions: definitions,
	}, nil
}

// SchemaJSON renders Schema as indented JSON with a trailing newline.
func SchemaJSON() ([]byte, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
