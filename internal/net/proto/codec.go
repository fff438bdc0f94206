package proto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// Codec converts envelopes and client messages to and from frames.
type Codec interface {
	Name() string
	// Binary reports whether frames should be sent as binary messages.
	Binary() bool
	Encode(env Envelope) ([]byte, error)
	DecodeClient(payload []byte) (ClientMessage, error)
}

// CodecByName resolves a codec query parameter. The empty name selects JSON.
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", CodecJSON:
		return JSONCodec{}, true
	case CodecMsgpack:
		return MsgpackCodec{}, true
	default:
		return nil, false
	}
}

// JSONCodec is the default text codec.
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecJSON }

func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

func (JSONCodec) DecodeClient(payload []byte) (ClientMessage, error) {
	return DecodeClientMessage(payload)
}

// MsgpackCodec encodes the same field names as JSON in MessagePack.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return CodecMsgpack }

func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Encode(env Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(env); err != nil {
		return nil, fmt.Errorf("msgpack encode %s: %w", env.Type, err)
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) DecodeClient(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&msg); err != nil {
		return msg, fmt.Errorf("msgpack decode: %w", err)
	}
	return checkVersion(msg)
}
