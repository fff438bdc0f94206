package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"tower-wars/server/logging"
)

// ConsoleSink renders events as single human readable lines, for example
//
//	INFO  rounds.round_ended tick=5400 actor=world payload={"round":1}
type ConsoleSink struct {
	logger *log.Logger
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{logger: log.New(w, "", log.LstdFlags)}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	s.logger.Print(formatLine(event))
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func formatLine(event logging.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %s tick=%d", strings.ToUpper(event.Severity.String()), event.Type, event.Tick)
	if actor := entityLabel(event.Actor); actor != "" {
		b.WriteString(" actor=")
		b.WriteString(actor)
	}
	for i, target := range event.Targets {
		if i == 0 {
			b.WriteString(" targets=")
		} else {
			b.WriteByte(',')
		}
		b.WriteString(entityLabel(target))
	}
	writeJSONField(&b, "payload", event.Payload)
	if len(event.Extra) > 0 {
		writeJSONField(&b, "extra", event.Extra)
	}
	return b.String()
}

func entityLabel(ref logging.EntityRef) string {
	switch {
	case ref.ID == "":
		return string(ref.Kind)
	case ref.Kind == "":
		return ref.ID
	default:
		return string(ref.Kind) + ":" + ref.ID
	}
}

func writeJSONField(b *strings.Builder, key string, value any) {
	if value == nil {
		return
	}
	b.WriteString(" " + key + "=")
	data, err := json.Marshal(value)
	if err != nil {
		fmt.Fprintf(b, "%v", value)
		return
	}
	b.Write(data)
}
