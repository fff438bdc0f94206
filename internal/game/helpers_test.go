package game

import (
	"testing"
	"time"

	"tower-wars/server/logging/sinks"
)

var testEpoch = time.Unix(1_700_000_000, 0)

type manualTimer struct {
	due       time.Time
	fn        func(now time.Time)
	cancelled bool
	fired     bool
}

// manualScheduler fires callbacks only when advance is called.
type manualScheduler struct {
	now    time.Time
	timers []*manualTimer
}

func newManualScheduler(now time.Time) *manualScheduler {
	return &manualScheduler{now: now}
}

func (s *manualScheduler) After(d time.Duration, fn func(now time.Time)) func() {
	timer := &manualTimer{due: s.now.Add(d), fn: fn}
	s.timers = append(s.timers, timer)
	return func() { timer.cancelled = true }
}

// advance fires every pending timer due at or before to, in due order.
func (s *manualScheduler) advance(to time.Time) {
	for {
		var next *manualTimer
		for _, timer := range s.timers {
			if timer.cancelled || timer.fired || timer.due.After(to) {
				continue
			}
			if next == nil || timer.due.Before(next.due) {
				next = timer
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		s.now = next.due
		next.fn(next.due)
	}
	s.now = to
}

func (s *manualScheduler) pending() []*manualTimer {
	var out []*manualTimer
	for _, timer := range s.timers {
		if !timer.cancelled && !timer.fired {
			out = append(out, timer)
		}
	}
	return out
}

type delivery struct {
	to     string
	except string
	event  Event
}

type recordingNotifier struct {
	deliveries []delivery
}

func (n *recordingNotifier) Broadcast(event Event) {
	n.deliveries = append(n.deliveries, delivery{event: event})
}

func (n *recordingNotifier) SendTo(playerID string, event Event) {
	n.deliveries = append(n.deliveries, delivery{to: playerID, event: event})
}

func (n *recordingNotifier) BroadcastExcept(playerID string, event Event) {
	n.deliveries = append(n.deliveries, delivery{except: playerID, event: event})
}

func (n *recordingNotifier) named(name string) []delivery {
	var out []delivery
	for _, d := range n.deliveries {
		if d.event.EventName() == name {
			out = append(out, d)
		}
	}
	return out
}

func (n *recordingNotifier) reset() {
	n.deliveries = nil
}

type testHarness struct {
	game      *Game
	scheduler *manualScheduler
	notifier  *recordingNotifier
	events    *sinks.MemorySink
}

func newTestHarness(t *testing.T, cfg Config) *testHarness {
	t.Helper()
	scheduler := newManualScheduler(testEpoch)
	notifier := &recordingNotifier{}
	events := sinks.NewMemorySink()
	g, err := New(cfg, Deps{Publisher: events, Notifier: notifier, Scheduler: scheduler})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return &testHarness{game: g, scheduler: scheduler, notifier: notifier, events: events}
}

// joinAt joins id on team and pins it at (x,y).
func (h *testHarness) joinAt(t *testing.T, id string, team Team, x, y float64) *Player {
	t.Helper()
	result := h.game.Join(id, string(team), id, h.scheduler.now)
	if !result.Accepted {
		t.Fatalf("join %s to %s rejected: %s", id, team, result.Reason)
	}
	result.Player.X = x
	result.Player.Y = y
	return result.Player
}

func assertHealthBounds(t *testing.T, g *Game) {
	t.Helper()
	for _, p := range g.State().OrderedPlayers() {
		if p.Health <= 0 || p.Health > p.MaxHealth {
			t.Fatalf("player %s health %.2f outside (0, %.2f]", p.ID, p.Health, p.MaxHealth)
		}
	}
}
