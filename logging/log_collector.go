package logging

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultCapacity is the number of records a collector retains when none is given.
const DefaultCapacity = 200

// LogEntry represents a single log record with structured data.
type LogEntry struct {
	Time       time.Time              `json:"time"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Attributes map[string]interface{} `json:"attributes"`

	level slog.Level
}

// LogCollector is a fixed size, thread-safe ring of the most recent log records.
type LogCollector struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewLogCollector creates a LogCollector holding at most capacity records.
// A non-positive capacity uses DefaultCapacity.
func NewLogCollector(capacity int) *LogCollector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LogCollector{
		entries: make([]LogEntry, capacity),
	}
}

// AddLog stores entry, evicting the oldest record once the collector is full.
func (c *LogCollector) AddLog(entry LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[c.next] = entry
	c.next = (c.next + 1) % len(c.entries)
	if c.next == 0 {
		c.full = true
	}
}

// Recent returns the retained records at or above min, oldest first.
func (c *LogCollector) Recent(min slog.Level) []LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var ordered []LogEntry
	if c.full {
		ordered = append(ordered, c.entries[c.next:]...)
	}
	ordered = append(ordered, c.entries[:c.next]...)

	result := make([]LogEntry, 0, len(ordered))
	for _, e := range ordered {
		if e.level >= min {
			result = append(result, e)
		}
	}
	return result
}

// Len returns the number of retained records.
func (c *LogCollector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.full {
		return len(c.entries)
	}
	return c.next
}

// Clear removes all retained records.
func (c *LogCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make([]LogEntry, len(c.entries))
	c.next = 0
	c.full = false
}
