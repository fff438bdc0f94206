package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tower-wars/server/internal/game"
	"tower-wars/server/internal/net/proto"
	"tower-wars/server/internal/sim"
	"tower-wars/server/internal/telemetry"
	"tower-wars/server/logging"
)

const (
	DefaultSendQueue = 256

	metricSubscribers     = "hub_subscribers"
	metricFramesSent      = "hub_frames_enqueued_total"
	metricFramesDropped   = "hub_frames_dropped_total"
	metricEncodeFailures  = "hub_encode_failures_total"
	metricCommandsDropped = "hub_commands_dropped_total"
)

// ErrDuplicateSubscriber is returned when a connection id is already bound.
var ErrDuplicateSubscriber = errors.New("hub: subscriber already registered")

// Config tunes the hub and the simulation it owns.
type Config struct {
	Game      game.Config
	Loop      sim.LoopConfig
	SendQueue int
}

func DefaultConfig() Config {
	return Config{
		Game:      game.DefaultConfig(),
		Loop:      sim.LoopConfig{TickRate: sim.DefaultTickRate, CommandCapacity: sim.DefaultCommandCapacity, PerActorLimit: sim.DefaultPerActorLimit},
		SendQueue: DefaultSendQueue,
	}
}

// Deps bundles runtime dependencies for the hub.
type Deps struct {
	Logger    telemetry.Logger
	Metrics   *telemetry.Counters
	Publisher logging.Publisher
	Clock     logging.Clock
	RNG       game.RNGFactory
}

// Hub owns the game, its loop and every connected subscriber. The game is
// only touched from the loop goroutine; everything else talks to it through
// commands.
type Hub struct {
	game      *game.Game
	loop      *sim.Loop
	scheduler *sim.Scheduler
	sendQueue int

	logger    telemetry.Logger
	metrics   *telemetry.Counters
	publisher logging.Publisher
	clock     logging.Clock

	mu          sync.RWMutex
	subscribers map[string]*Subscriber

	diagnostics atomic.Pointer[Diagnostics]
}

// New wires a game and a loop together. The loop does not run until Run.
func New(cfg Config, deps Deps) (*Hub, error) {
	clock := deps.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	logger := deps.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	logger = telemetry.WithPrefix(logger, "[hub] ")
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NewCounters()
	}
	sendQueue := cfg.SendQueue
	if sendQueue <= 0 {
		sendQueue = DefaultSendQueue
	}

	h := &Hub{
		scheduler:   sim.NewScheduler(clock.Now()),
		sendQueue:   sendQueue,
		logger:      logger,
		metrics:     metrics,
		publisher:   publisher,
		clock:       clock,
		subscribers: make(map[string]*Subscriber),
	}

	g, err := game.New(cfg.Game, game.Deps{
		Publisher: publisher,
		Notifier:  h,
		Scheduler: h.scheduler,
		RNG:       deps.RNG,
	})
	if err != nil {
		return nil, fmt.Errorf("construct game: %w", err)
	}
	h.game = g

	loop, err := sim.NewLoop(engine{game: g}, h.scheduler, cfg.Loop, sim.Deps{
		Logger:    logger,
		Metrics:   metrics,
		Publisher: publisher,
		Clock:     clock,
	}, sim.LoopHooks{
		AfterStep:     h.afterStep,
		OnCommandDrop: h.onCommandDrop,
	})
	if err != nil {
		return nil, fmt.Errorf("construct loop: %w", err)
	}
	h.loop = loop
	h.recordDiagnostics(sim.LoopStepResult{Now: clock.Now()})
	return h, nil
}

// Run drives the simulation until ctx is cancelled, then cancels pending
// lifecycle timers.
func (h *Hub) Run(ctx context.Context) {
	h.loop.Run(ctx)
	h.game.Close()
}

// Advance runs one tick synchronously. It must not be used while Run is
// active.
func (h *Hub) Advance(now time.Time) sim.LoopStepResult {
	result := h.loop.Advance(now)
	h.afterStep(result)
	return result
}

// Enqueue stages a command for the next tick.
func (h *Hub) Enqueue(cmd sim.Command) (bool, string) {
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = h.clock.Now()
	}
	return h.loop.Enqueue(cmd)
}

// Subscribe registers a connection and schedules its initial snapshot.
func (h *Hub) Subscribe(id string, codec proto.Codec) (*Subscriber, error) {
	if codec == nil {
		codec = proto.JSONCodec{}
	}
	sub := newSubscriber(id, codec, h.sendQueue)

	h.mu.Lock()
	if _, exists := h.subscribers[id]; exists {
		h.mu.Unlock()
		return nil, ErrDuplicateSubscriber
	}
	h.subscribers[id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.metrics.Store(metricSubscribers, uint64(count))
	h.Enqueue(sim.Command{ActorID: id, Type: sim.CommandConnect})
	return sub, nil
}

// Unsubscribe drops a connection and removes its player on the next tick.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	count := len(h.subscribers)
	h.mu.Unlock()
	if !ok {
		return
	}
	sub.close()
	h.metrics.Store(metricSubscribers, uint64(count))
	h.Enqueue(sim.Command{ActorID: id, Type: sim.CommandDisconnect})
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*Subscriber)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.close()
	}
	h.metrics.Store(metricSubscribers, 0)
}

// Metrics exposes the shared counters.
func (h *Hub) Metrics() *telemetry.Counters {
	return h.metrics
}

// SubscriberCount reports how many connections are registered.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) afterStep(result sim.LoopStepResult) {
	if result.Stepped {
		h.Broadcast(game.StateUpdate{ClientState: h.game.Snapshot(result.Now)})
	}
	h.recordDiagnostics(result)
}

func (h *Hub) onCommandDrop(reason string, cmd sim.Command) {
	h.metrics.Add(metricCommandsDropped, 1)
}
