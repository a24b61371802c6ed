package log

import (
	"sync"

	"github.com/bft-labs/taxonsync/internal/ports"
)

// Entry is one message captured by MemoryLogger.
type Entry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// MemoryLogger implements ports.Logger by keeping every message in memory.
// It is safe for concurrent use; loggers derived with With share the sink.
type MemoryLogger struct {
	sink   *sink
	fields []ports.Field
}

type sink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryLogger creates an empty in-memory logger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{sink: &sink{}}
}

func (m *MemoryLogger) Debug(msg string, fields ...ports.Field) { m.add("debug", msg, fields) }
func (m *MemoryLogger) Info(msg string, fields ...ports.Field)  { m.add("info", msg, fields) }
func (m *MemoryLogger) Warn(msg string, fields ...ports.Field)  { m.add("warn", msg, fields) }
func (m *MemoryLogger) Error(msg string, fields ...ports.Field) { m.add("error", msg, fields) }

// With returns a logger sharing the same sink that adds fields to every entry.
func (m *MemoryLogger) With(fields ...ports.Field) ports.Logger {
	merged := make([]ports.Field, 0, len(m.fields)+len(fields))
	merged = append(merged, m.fields...)
	merged = append(merged, fields...)
	return &MemoryLogger{sink: m.sink, fields: merged}
}

func (m *MemoryLogger) add(level, msg string, fields []ports.Field) {
	e := Entry{Level: level, Message: msg, Fields: make(map[string]any, len(m.fields)+len(fields))}
	for _, f := range m.fields {
		e.Fields[f.Key] = f.Value
	}
	for _, f := range fields {
		e.Fields[f.Key] = f.Value
	}
	m.sink.mu.Lock()
	m.sink.entries = append(m.sink.entries, e)
	m.sink.mu.Unlock()
}

// Entries returns a copy of everything logged so far.
func (m *MemoryLogger) Entries() []Entry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	return append([]Entry(nil), m.sink.entries...)
}

// Count returns how many entries have the given level and message.
func (m *MemoryLogger) Count(level, msg string) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == msg {
			n++
		}
	}
	return n
}

// Find returns the entries with the given message.
func (m *MemoryLogger) Find(msg string) []Entry {
	var out []Entry
	for _, e := range m.Entries() {
		if e.Message == msg {
			out = append(out, e)
		}
	}
	return out
}
