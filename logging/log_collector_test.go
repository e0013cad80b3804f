package logging

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(msg string, level slog.Level) LogEntry {
	return LogEntry{Message: msg, Level: level.String(), level: level}
}

func messages(entries []LogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

func TestLogCollector_Empty(t *testing.T) {
	c := NewLogCollector(3)
	assert.Empty(t, c.Recent(slog.LevelDebug))
	assert.Equal(t, 0, c.Len())
}

func TestLogCollector_DefaultCapacity(t *testing.T) {
	c := NewLogCollector(0)
	for i := 0; i < DefaultCapacity+5; i++ {
		c.AddLog(entry(fmt.Sprint(i), slog.LevelInfo))
	}
	assert.Equal(t, DefaultCapacity, c.Len())
}

func TestLogCollector_OldestFirst(t *testing.T) {
	c := NewLogCollector(3)
	c.AddLog(entry("a", slog.LevelInfo))
	c.AddLog(entry("b", slog.LevelInfo))

	assert.Equal(t, []string{"a", "b"}, messages(c.Recent(slog.LevelDebug)))
	assert.Equal(t, 2, c.Len())
}

func TestLogCollector_EvictsOldest(t *testing.T) {
	c := NewLogCollector(3)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		c.AddLog(entry(m, slog.LevelInfo))
	}

	assert.Equal(t, []string{"c", "d", "e"}, messages(c.Recent(slog.LevelDebug)))
	assert.Equal(t, 3, c.Len())
}

func TestLogCollector_FiltersByLevel(t *testing.T) {
	c := NewLogCollector(10)
	c.AddLog(entry("debug", slog.LevelDebug))
	c.AddLog(entry("info", slog.LevelInfo))
	c.AddLog(entry("warn", slog.LevelWarn))
	c.AddLog(entry("error", slog.LevelError))

	assert.Equal(t, []string{"warn", "error"}, messages(c.Recent(slog.LevelWarn)))
	assert.Len(t, c.Recent(slog.LevelDebug), 4)
}

func TestLogCollector_ReturnsCopy(t *testing.T) {
	c := NewLogCollector(3)
	c.AddLog(entry("a", slog.LevelInfo))

	got := c.Recent(slog.LevelDebug)
	got[0].Message = "changed"
	assert.Equal(t, "a", c.Recent(slog.LevelDebug)[0].Message)
}

func TestLogCollector_Clear(t *testing.T) {
	c := NewLogCollector(2)
	c.AddLog(entry("a", slog.LevelInfo))
	c.AddLog(entry("b", slog.LevelInfo))
	c.AddLog(entry("c", slog.LevelInfo))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Recent(slog.LevelDebug))

	c.AddLog(entry("d", slog.LevelInfo))
	assert.Equal(t, []string{"d"}, messages(c.Recent(slog.LevelDebug)))
}

func TestLogCollector_Concurrent(t *testing.T) {
	c := NewLogCollector(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.AddLog(entry("m", slog.LevelInfo))
				_ = c.Recent(slog.LevelInfo)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 500, c.Len())
}
