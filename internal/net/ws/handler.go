package ws

import (
	"log"
	nethttp "net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"tower-wars/server/internal/hub"
	"tower-wars/server/internal/net/proto"
	"tower-wars/server/internal/telemetry"
	"tower-wars/server/logging"
)

const (
	DefaultMessageRate  = 60.0
	DefaultMessageBurst = 60
	DefaultChatRate     = 1.0
	DefaultChatBurst    = 5

	defaultWriteTimeout = 10 * time.Second
	defaultPongWait     = 60 * time.Second
	maxMessageSize      = 4096
)

type HandlerConfig struct {
	Logger    telemetry.Logger
	Publisher logging.Publisher
	Clock     logging.Clock
	// MessageRate and ChatRate are per-session limits in messages per second.
	MessageRate  float64
	MessageBurst int
	ChatRate     float64
	ChatBurst    int
	WriteTimeout time.Duration
	PongWait     time.Duration
	// NewID assigns connection ids. Defaults to random UUIDs.
	NewID func() string
}

// Handler upgrades HTTP requests into game sessions.
type Handler struct {
	hub       *hub.Hub
	logger    telemetry.Logger
	publisher logging.Publisher
	clock     logging.Clock
	cfg       HandlerConfig
	upgrader  websocket.Upgrader
}

func NewHandler(h *hub.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	logger = telemetry.WithPrefix(logger, "[ws] ")
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}
	if cfg.MessageRate <= 0 {
		cfg.MessageRate = DefaultMessageRate
	}
	if cfg.MessageBurst <= 0 {
		cfg.MessageBurst = DefaultMessageBurst
	}
	if cfg.ChatRate <= 0 {
		cfg.ChatRate = DefaultChatRate
	}
	if cfg.ChatBurst <= 0 {
		cfg.ChatBurst = DefaultChatBurst
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = defaultPongWait
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:       h,
		logger:    logger,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
		upgrader:  upgrader,
	}
}

// Handle serves one websocket connection. The optional codec query parameter
// selects the frame encoding (json or msgpack).
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	codecName := r.URL.Query().Get("codec")
	codec, ok := proto.CodecByName(codecName)
	if !ok {
		nethttp.Error(w, "unknown codec", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	id := h.cfg.NewID()
	sub, err := h.hub.Subscribe(id, codec)
	if err != nil {
		h.logger.Printf("subscribe failed for %s: %v", id, err)
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "connection rejected")
		conn.WriteControl(websocket.CloseMessage, message, h.clock.Now().Add(h.cfg.WriteTimeout))
		conn.Close()
		return
	}

	s := &session{
		handler:  h,
		id:       id,
		conn:     conn,
		sub:      sub,
		codec:    codec,
		messages: rate.NewLimiter(rate.Limit(h.cfg.MessageRate), h.cfg.MessageBurst),
		chat:     rate.NewLimiter(rate.Limit(h.cfg.ChatRate), h.cfg.ChatBurst),
	}
	s.serve()
}
