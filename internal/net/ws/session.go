package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/hub"
	"tower-wars/server/internal/net/proto"
	"tower-wars/server/logging"
	loggingnetwork "tower-wars/server/logging/network"
)

// session owns one connection. The read loop runs on the handler goroutine
// and a write pump drains the subscriber queue.
type session struct {
	handler *Handler
	id      string
	conn    *websocket.Conn
	sub     *hub.Subscriber
	codec   proto.Codec

	messages *rate.Limiter
	chat     *rate.Limiter
	limited  uint64

	writeMu sync.Mutex
}

func (s *session) serve() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writePump(stop)
	}()

	s.readLoop()

	close(stop)
	s.handler.hub.Unsubscribe(s.id)
	wg.Wait()
	s.conn.Close()
}

func (s *session) readLoop() {
	cfg := s.handler.cfg
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(s.handler.clock.Now().Add(cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(s.handler.clock.Now().Add(cfg.PongWait))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.handler.logger.Printf("read failed for %s: %v", s.id, err)
			}
			return
		}
		s.conn.SetReadDeadline(s.handler.clock.Now().Add(cfg.PongWait))
		if !s.handle(payload) {
			return
		}
	}
}

// handle processes one inbound frame. It reports false when the connection
// should be torn down.
func (s *session) handle(payload []byte) bool {
	msg, err := s.codec.DecodeClient(payload)
	if err != nil {
		s.handler.logger.Printf("discarding malformed message from %s: %v", s.id, err)
		return s.send(proto.Error{Reason: "malformed message"})
	}

	if !s.messages.Allow() {
		s.rateLimited(msg.Type)
		return true
	}

	switch msg.Type {
	case proto.TypeHeartbeat:
		return s.heartbeat(msg)
	case proto.TypeChatMessage:
		if !s.chat.Allow() {
			s.rateLimited(msg.Type)
			return true
		}
	}

	cmd, ok := proto.ClientCommand(msg)
	if !ok {
		s.handler.logger.Printf("unknown message type %q from %s", msg.Type, s.id)
		return true
	}
	cmd.ActorID = s.id
	cmd.IssuedAt = s.handler.clock.Now()
	if ok, reason := s.handler.hub.Enqueue(cmd); !ok {
		s.handler.logger.Printf("%s from %s dropped: %s", msg.Type, s.id, reason)
	}
	return true
}

func (s *session) heartbeat(msg proto.ClientMessage) bool {
	now := s.handler.clock.Now().UnixMilli()
	ack := proto.HeartbeatAck{ServerTime: now, ClientTime: msg.SentAt}
	if msg.SentAt > 0 && msg.SentAt <= now {
		ack.RTTMillis = now - msg.SentAt
	}
	return s.send(ack)
}

func (s *session) rateLimited(messageType string) {
	s.limited++
	loggingnetwork.RateLimited(context.Background(), s.handler.publisher, 0, logging.PlayerRef(s.id), loggingnetwork.RateLimitedPayload{
		MessageType: messageType,
		Dropped:     s.limited,
	}, nil)
}

// send writes a direct reply that bypasses the broadcast queue.
func (s *session) send(event game.Event) bool {
	frame, err := s.codec.Encode(proto.NewEnvelope(event))
	if err != nil {
		s.handler.logger.Printf("failed to encode %s for %s: %v", event.EventName(), s.id, err)
		return true
	}
	if err := s.write(s.frameType(), frame); err != nil {
		return false
	}
	return true
}

func (s *session) frameType() int {
	if s.codec.Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func (s *session) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(s.handler.clock.Now().Add(s.handler.cfg.WriteTimeout))
	return s.conn.WriteMessage(messageType, data)
}

func (s *session) writePump(stop <-chan struct{}) {
	pings := time.NewTicker(s.handler.cfg.PongWait * 9 / 10)
	defer pings.Stop()

	frameType := s.frameType()
	for {
		select {
		case frame := <-s.sub.Frames():
			if err := s.write(frameType, frame); err != nil {
				s.conn.Close()
				return
			}
		case <-pings.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		case <-s.sub.Done():
			message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			s.write(websocket.CloseMessage, message)
			s.conn.Close()
			return
		case <-stop:
			return
		}
	}
}
