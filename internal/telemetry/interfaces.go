package telemetry

import "log"

// Logger is the operational text log used outside the structured event
// router: upgrade failures, malformed frames, dropped commands.
type Logger interface {
	Printf(format string, args ...any)
}

type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// StandardLogger is implemented by loggers backed by a *log.Logger. The
// logging router uses it as its fallback writer.
type StandardLogger interface {
	StandardLogger() *log.Logger
}

// WrapLogger adapts a standard library logger. A nil logger discards output.
func WrapLogger(logger *log.Logger) Logger {
	return stdLogger{logger: logger}
}

type stdLogger struct {
	logger *log.Logger
}

func (l stdLogger) Printf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}

func (l stdLogger) StandardLogger() *log.Logger { return l.logger }

// WithPrefix tags every line from next with a component label such as
// "[ws] ".
func WithPrefix(next Logger, prefix string) Logger {
	if next == nil || prefix == "" {
		return next
	}
	return prefixLogger{next: next, prefix: prefix}
}

type prefixLogger struct {
	next   Logger
	prefix string
}

func (l prefixLogger) Printf(format string, args ...any) {
	l.next.Printf(l.prefix+format, args...)
}

func (l prefixLogger) StandardLogger() *log.Logger {
	if std, ok := l.next.(StandardLogger); ok {
		return std.StandardLogger()
	}
	return nil
}

// Metrics is the counter sink shared by the loop and the hub.
type Metrics interface {
	Add(key string, delta uint64)
	// Store overwrites key; used for gauges such as queue occupancy.
	Store(key string, value uint64)
}
