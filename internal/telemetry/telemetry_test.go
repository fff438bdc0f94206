package telemetry

import (
	"bytes"
	"log"
	"sync"
	"testing"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		logger := WrapLogger(nil)
		logger.Printf("ignored %d", 42)
	})

	t.Run("forwards to logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := log.New(&buf, "", 0)
		logger := WrapLogger(base)
		logger.Printf("hello %s", "world")
		if got := buf.String(); got != "hello world\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
		if std, ok := logger.(StandardLogger); !ok || std.StandardLogger() != base {
			t.Fatalf("expected wrapped logger to expose its base logger")
		}
	})
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	base := log.New(&buf, "", 0)
	logger := WithPrefix(WrapLogger(base), "[ws] ")
	logger.Printf("upgrade failed: %v", "boom")
	if got := buf.String(); got != "[ws] upgrade failed: boom\n" {
		t.Fatalf("unexpected log output: %q", got)
	}
	if std, ok := logger.(StandardLogger); !ok || std.StandardLogger() != base {
		t.Fatalf("prefixed logger should expose the base logger")
	}

	var lines []string
	plain := LoggerFunc(func(format string, args ...any) { lines = append(lines, format) })
	if WithPrefix(plain, "") == nil {
		t.Fatalf("empty prefix should return the original logger")
	}
	WithPrefix(plain, "[hub] ").Printf("tick")
	if len(lines) != 1 || lines[0] != "[hub] tick" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestCounters(t *testing.T) {
	counters := NewCounters()

	counters.Add("frames_total", 2)
	counters.Store("frames_total", 5)
	counters.Add("frames_total", 3)
	counters.Store("subscribers", 7)

	snapshot := counters.Snapshot()
	if got := snapshot["frames_total"]; got != 8 {
		t.Fatalf("unexpected counter value: %d", got)
	}
	if got := snapshot["subscribers"]; got != 7 {
		t.Fatalf("unexpected gauge value: %d", got)
	}
	keys := counters.Keys()
	if len(keys) != 2 || keys[0] != "frames_total" || keys[1] != "subscribers" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	var nilCounters *Counters
	nilCounters.Add("ignored", 1)
	nilCounters.Store("ignored", 1)
	if len(nilCounters.Snapshot()) != 0 {
		t.Fatalf("expected empty snapshot from nil counters")
	}
}

func TestCountersConcurrentAdd(t *testing.T) {
	counters := NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				counters.Add("frames_total", 1)
			}
		}()
	}
	wg.Wait()
	if got := counters.Snapshot()["frames_total"]; got != 800 {
		t.Fatalf("expected 800, got %d", got)
	}
}
