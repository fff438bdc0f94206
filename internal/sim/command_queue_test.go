package sim

import (
	"testing"

	"tower-wars/server/internal/telemetry"
)

func actors(commands []Command) []string {
	ids := make([]string, 0, len(commands))
	for _, cmd := range commands {
		ids = append(ids, cmd.ActorID)
	}
	return ids
}

func TestCommandQueueWraparound(t *testing.T) {
	queue := newCommandQueue(3, 0, nil)
	for _, id := range []string{"a", "b", "c"} {
		if result := queue.offer(Command{ActorID: id, Type: CommandMove}); !result.accepted() {
			t.Fatalf("expected %s to be admitted, got %q", id, result.reason)
		}
	}
	if result := queue.offer(Command{ActorID: "overflow", Type: CommandMove}); result.reason != CommandRejectQueueFull {
		t.Fatalf("expected queue_full, got %q", result.reason)
	}
	if got := actors(queue.drain()); len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("unexpected drain order %v", got)
	}

	for _, id := range []string{"d", "e"} {
		queue.offer(Command{ActorID: id, Type: CommandMove})
	}
	queue.drain()
	for _, id := range []string{"f", "g", "h"} {
		queue.offer(Command{ActorID: id, Type: CommandMove})
	}
	if got := actors(queue.drain()); len(got) != 3 || got[0] != "f" || got[2] != "h" {
		t.Fatalf("unexpected drain order after wrap %v", got)
	}
	if queue.drain() != nil {
		t.Fatalf("expected empty drain to return nil")
	}
}

func TestCommandQueueReservesLifecycleCommands(t *testing.T) {
	metrics := telemetry.NewCounters()
	queue := newCommandQueue(1, 0, metrics)
	queue.offer(Command{ActorID: "a", Type: CommandMove})
	queue.offer(Command{ActorID: "b", Type: CommandConnect})
	queue.offer(Command{ActorID: "a", Type: CommandDisconnect})

	if queue.size() != 3 {
		t.Fatalf("expected three staged commands, got %d", queue.size())
	}
	if result := queue.offer(Command{ActorID: "c", Type: CommandMove}); result.reason != CommandRejectQueueFull {
		t.Fatalf("ordinary commands must not overtake reserved ones, got %q", result.reason)
	}

	got := queue.drain()
	if len(got) != 3 || got[1].Type != CommandConnect || got[2].Type != CommandDisconnect {
		t.Fatalf("unexpected drain order %+v", got)
	}
	snapshot := metrics.Snapshot()
	if snapshot[queueReservedMetricKey] != 2 || snapshot[queueRejectedMetricKey] != 1 || snapshot[queueOccupancyMetricKey] != 0 {
		t.Fatalf("unexpected metrics %v", snapshot)
	}
}

func TestCommandQueueCountsDropsPerActor(t *testing.T) {
	queue := newCommandQueue(8, 1, nil)
	queue.offer(Command{ActorID: "a", Type: CommandChat})
	first := queue.offer(Command{ActorID: "a", Type: CommandChat})
	second := queue.offer(Command{ActorID: "a", Type: CommandChat})
	if first.reason != CommandRejectQueueLimit || first.drops != 1 || second.drops != 2 {
		t.Fatalf("unexpected rejections %+v %+v", first, second)
	}
	if result := queue.offer(Command{Type: CommandStart}); !result.accepted() {
		t.Fatalf("commands without an actor are not throttled")
	}

	queue.drain()
	if result := queue.offer(Command{ActorID: "a", Type: CommandChat}); !result.accepted() || result.length != 1 {
		t.Fatalf("expected budget reset after drain, got %+v", result)
	}
}
